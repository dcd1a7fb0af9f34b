package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jstyp/storefront-backend/internal/ai"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/validation"
)

const (
	TaskFindMatchingApp     = "find-matching-app"
	TaskGenerateDescription = "generate-description"
	TaskGenerateListing     = "generate-listing"
	TaskGenerateImage       = "generate-image"
	TaskGenerateAboutPage   = "generate-about-page"

	noMatchReasoning = "No suitable app found."

	// MaxAdvisorInput caps the advisor question, in characters.
	MaxAdvisorInput = 2000
)

type ChatCompleter interface {
	Complete(ctx context.Context, req ai.ChatRequest) (string, error)
	CompleteJSON(ctx context.Context, req ai.ChatRequest, out interface{}) error
}

type ImageGenerator interface {
	Generate(ctx context.Context, prompt, size string) (string, error)
}

type AIService struct {
	chat      ChatCompleter
	images    ImageGenerator
	apps      AppRepository
	filter    *ContentFilter
	validator *validation.Validator
}

func NewAIService(chat ChatCompleter, images ImageGenerator, apps AppRepository, filter *ContentFilter) *AIService {
	return &AIService{
		chat:      chat,
		images:    images,
		apps:      apps,
		filter:    filter,
		validator: validation.NewValidator(),
	}
}

type matchAnswer struct {
	BestMatchAppID *string `json:"best_match_app_id"`
	Reasoning      string  `json:"reasoning"`
}

// Match asks the model which catalog app best solves problem. A null
// answer or an id outside the catalog yields a nil BestMatchAppID.
func (s *AIService) Match(ctx context.Context, problem string) (*dto.MatchResponse, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return nil, &InputError{Message: "Problem description is required"}
	}
	if utf8.RuneCountInString(problem) > MaxAdvisorInput {
		return nil, &InputError{Message: fmt.Sprintf("Problem description must be at most %d characters", MaxAdvisorInput)}
	}
	if err := s.filter.Check(problem); err != nil {
		return nil, err
	}

	apps, err := s.apps.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	if len(apps) == 0 {
		return &dto.MatchResponse{Reasoning: noMatchReasoning}, nil
	}

	var catalog strings.Builder
	known := make(map[string]bool, len(apps))
	for _, a := range apps {
		id := a.ID.String()
		known[id] = true
		fmt.Fprintf(&catalog, "- id: %s\n  name: %s\n  description: %s\n  features: %s\n",
			id, a.Name, a.Description, strings.Join(a.Features, "; "))
	}

	var answer matchAnswer
	err = s.run(TaskFindMatchingApp, func() error {
		return s.chat.CompleteJSON(ctx, ai.ChatRequest{
			System: `You are a product advisor for an app store. Match the user's problem to the single best app from the catalog.
Return ONLY valid JSON: {"best_match_app_id": "<id or null>", "reasoning": "<one or two sentences>"}.
Use null when no app is a good fit.`,
			User:        fmt.Sprintf("Catalog:\n%s\nProblem: %s", catalog.String(), problem),
			Temperature: 0.2,
			MaxTokens:   512,
		}, &answer)
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.MatchResponse{Reasoning: strings.TrimSpace(answer.Reasoning)}
	if resp.Reasoning == "" {
		resp.Reasoning = noMatchReasoning
	}
	if answer.BestMatchAppID != nil {
		id := strings.TrimSpace(*answer.BestMatchAppID)
		if id != "" && !strings.EqualFold(id, "null") && known[id] {
			resp.BestMatchAppID = &id
		}
	}
	return resp, nil
}

// Dispatch runs one admin content task and returns its JSON-ready result.
func (s *AIService) Dispatch(ctx context.Context, task string, payload json.RawMessage) (interface{}, error) {
	switch task {
	case TaskGenerateDescription:
		var p dto.DescriptionPayload
		if err := s.decode(payload, &p); err != nil {
			return nil, err
		}
		return s.describe(ctx, p.Keywords)
	case TaskGenerateListing:
		var p dto.ListingPayload
		if err := s.decode(payload, &p); err != nil {
			return nil, err
		}
		return s.listing(ctx, p.Idea)
	case TaskGenerateImage:
		var p dto.ImagePayload
		if err := s.decode(payload, &p); err != nil {
			return nil, err
		}
		return s.image(ctx, p.Prompt, p.AspectRatio)
	case TaskGenerateAboutPage:
		var p dto.AboutPagePayload
		if err := s.decode(payload, &p); err != nil {
			return nil, err
		}
		return s.aboutPage(ctx, p.RawText)
	default:
		return nil, ErrInvalidAITask
	}
}

func (s *AIService) describe(ctx context.Context, keywords string) (*dto.DescriptionResponse, error) {
	var text string
	err := s.run(TaskGenerateDescription, func() error {
		var err error
		text, err = s.chat.Complete(ctx, ai.ChatRequest{
			System:    "You write short, persuasive app store descriptions. Answer with plain text only, at most three sentences.",
			User:      "Write a description for an app about: " + keywords,
			MaxTokens: 300,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.DescriptionResponse{Description: LimitSentences(text, 3)}, nil
}

func (s *AIService) listing(ctx context.Context, idea string) (*dto.ListingResponse, error) {
	var out dto.ListingResponse
	err := s.run(TaskGenerateListing, func() error {
		return s.chat.CompleteJSON(ctx, ai.ChatRequest{
			System: `You draft complete app store listings. Return ONLY valid JSON with keys:
name, description (one sentence), long_description, price (e.g. "R199.99"), features (array of strings),
abilities (array of strings), why_it_works, dedicated_purpose, terms_and_conditions.`,
			User: "App idea: " + idea,
		}, &out)
	})
	if err != nil {
		return nil, err
	}
	out.Features = nonNil(out.Features)
	out.Abilities = nonNil(out.Abilities)
	return &out, nil
}

func (s *AIService) image(ctx context.Context, prompt, aspect string) (*dto.ImageResponse, error) {
	var b64 string
	err := s.run(TaskGenerateImage, func() error {
		var err error
		b64, err = s.images.Generate(ctx, prompt, ai.SizeForAspect(aspect))
		if errors.Is(err, ai.ErrEmptyResponse) {
			return ErrImageGenFailed
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ImageResponse{ImageURL: "data:image/png;base64," + b64}, nil
}

func (s *AIService) aboutPage(ctx context.Context, rawText string) (*models.AboutPageContent, error) {
	var out models.AboutPageContent
	err := s.run(TaskGenerateAboutPage, func() error {
		return s.chat.CompleteJSON(ctx, ai.ChatRequest{
			System: `You turn raw company notes into an About Us page. Return ONLY valid JSON:
{"page_title": "...", "introduction": {"heading": "...", "content": "...", "image_prompt": "..."},
 "sections": [{"heading": "...", "content": "...", "image_prompt": "..."}]}
Use two to four sections. image_prompt describes a photo that would illustrate the section.`,
			User: rawText,
		}, &out)
	})
	if err != nil {
		return nil, err
	}
	if out.Sections == nil {
		out.Sections = []models.AboutPageSection{}
	}
	return &out, nil
}

// run records the task outcome and maps provider failures to ErrAIUnavailable.
func (s *AIService) run(task string, call func() error) error {
	err := call()
	switch {
	case err == nil:
		metrics.AITasks.WithLabelValues(task, "ok").Inc()
		return nil
	case errors.Is(err, ErrImageGenFailed):
		metrics.AITasks.WithLabelValues(task, "empty").Inc()
		return err
	default:
		metrics.AITasks.WithLabelValues(task, "error").Inc()
		slog.Error("ai task failed", "task", task, "error", err)
		return fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
}

func (s *AIService) decode(payload json.RawMessage, out interface{}) error {
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &InputError{Message: "Invalid request body"}
	}
	if err := s.validator.ValidateStruct(out); err != nil {
		return &InputError{Message: validation.FirstMessage(err)}
	}
	return nil
}

// LimitSentences keeps at most n sentences of text.
func LimitSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	count := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\n' {
				count++
				if count == n {
					return text[:i+1]
				}
			}
		}
	}
	return text
}
