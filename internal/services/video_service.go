package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/ai"
	"github.com/jstyp/storefront-backend/internal/metrics"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
)

const (
	videoMissingURIMessage = "Video generation finished but no download link was found."
	videoTimeoutMessage    = "generation timed out"
)

type VideoGenerator interface {
	Start(ctx context.Context, prompt string) (string, error)
	Poll(ctx context.Context, name string) (*ai.Operation, error)
	Download(ctx context.Context, uri string) ([]byte, error)
}

type VideoService struct {
	videos    VideoRepository
	generator VideoGenerator
	store     storage.Store
	maxPolls  int
}

func NewVideoService(videos VideoRepository, generator VideoGenerator, store storage.Store, maxPolls int) *VideoService {
	if maxPolls <= 0 {
		maxPolls = 40
	}
	return &VideoService{videos: videos, generator: generator, store: store, maxPolls: maxPolls}
}

// ListCompleted returns finished videos, newest first.
func (s *VideoService) ListCompleted(ctx context.Context) ([]models.Video, error) {
	return s.videos.ListByStatus(ctx, models.VideoCompleted)
}

// Start submits prompt and records a processing video for it.
func (s *VideoService) Start(ctx context.Context, prompt string) (*models.Video, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrPromptRequired
	}

	name, err := s.generator.Start(ctx, prompt)
	if err != nil {
		slog.Error("video generation start failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	v := &models.Video{Prompt: prompt, Status: models.VideoProcessing, OperationName: name}
	if err := s.videos.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("create video: %w", err)
	}
	return v, nil
}

// Status returns the video, polling its operation once if still processing.
func (s *VideoService) Status(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	v, err := s.videos.Get(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVideoNotFound
		}
		return nil, fmt.Errorf("get video: %w", err)
	}
	if v.Status != models.VideoProcessing {
		return v, nil
	}
	if err := s.poll(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// PollPending advances every processing video by one poll. Per-video
// failures are logged and do not stop the sweep.
func (s *VideoService) PollPending(ctx context.Context) (int, error) {
	videos, err := s.videos.ListByStatus(ctx, models.VideoProcessing)
	if err != nil {
		return 0, fmt.Errorf("list processing videos: %w", err)
	}
	for i := range videos {
		if ctx.Err() != nil {
			return i, ctx.Err()
		}
		if err := s.poll(ctx, &videos[i]); err != nil {
			slog.Error("video poll failed", "video_id", videos[i].ID, "error", err)
		}
	}
	return len(videos), nil
}

// poll advances v by one operation check. When another poller has already
// moved the row, v is reloaded and any blob stored here is removed.
func (s *VideoService) poll(ctx context.Context, v *models.Video) error {
	prevAttempts := v.PollAttempts
	v.PollAttempts++
	var storedKey string

	op, err := s.generator.Poll(ctx, v.OperationName)
	switch {
	case err != nil:
		slog.Warn("video operation poll failed", "video_id", v.ID, "attempt", v.PollAttempts, "error", err)
		if v.PollAttempts >= s.maxPolls {
			s.fail(v, videoTimeoutMessage)
		} else {
			metrics.VideoPolls.WithLabelValues("error").Inc()
		}
	case op.Error != "":
		s.fail(v, op.Error)
	case op.Done && op.URI == "":
		s.fail(v, videoMissingURIMessage)
	case op.Done:
		key, err := s.complete(ctx, v, op.URI)
		storedKey = key
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Error("video download failed", "video_id", v.ID, "error", err)
			if v.PollAttempts >= s.maxPolls {
				s.fail(v, videoTimeoutMessage)
			}
		}
	case v.PollAttempts >= s.maxPolls:
		s.fail(v, videoTimeoutMessage)
	default:
		metrics.VideoPolls.WithLabelValues(models.VideoProcessing).Inc()
	}

	advanced, err := s.videos.Advance(ctx, v, prevAttempts)
	if err != nil {
		return fmt.Errorf("save video: %w", err)
	}
	if advanced {
		return nil
	}

	slog.Info("video already advanced by another poller", "video_id", v.ID)
	if storedKey != "" {
		if err := s.store.Delete(ctx, storedKey); err != nil {
			slog.Warn("orphaned video blob not removed", "video_id", v.ID, "key", storedKey, "error", err)
		}
	}
	current, err := s.videos.Get(ctx, v.ID)
	if err != nil {
		return fmt.Errorf("reload video: %w", err)
	}
	*v = *current
	return nil
}

// complete downloads and stores the finished video, returning the blob key.
func (s *VideoService) complete(ctx context.Context, v *models.Video, uri string) (string, error) {
	data, err := s.generator.Download(ctx, uri)
	if err != nil {
		return "", err
	}
	key := storage.NewKey("mp4")
	url, err := s.store.Put(ctx, key, data, "video/mp4")
	if err != nil {
		return "", fmt.Errorf("store video: %w", err)
	}
	v.Status = models.VideoCompleted
	v.VideoURL = &url
	v.Error = ""
	metrics.VideoPolls.WithLabelValues(models.VideoCompleted).Inc()
	slog.Info("video completed", "video_id", v.ID)
	return key, nil
}

func (s *VideoService) fail(v *models.Video, reason string) {
	v.Status = models.VideoFailed
	v.Error = reason
	metrics.VideoPolls.WithLabelValues(models.VideoFailed).Inc()
	slog.Warn("video failed", "video_id", v.ID, "reason", reason)
}
