package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/cache"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamService_Conflicts(t *testing.T) {
	existing := models.TeamMember{ID: uuid.New(), FirstName: "Jason", LastName: "Typ", Email: "jason@jstyp.me", Pin: "1723"}
	svc := NewTeamService(newFakeTeam(existing), storage.NewMemoryStore("https://cdn.test"))
	ctx := context.Background()

	_, err := svc.Create(ctx, &dto.TeamMemberRequest{FirstName: "A", LastName: "B", Email: "JASON@jstyp.me", Pin: "9999"})
	assert.ErrorIs(t, err, ErrTeamEmailTaken)

	_, err = svc.Create(ctx, &dto.TeamMemberRequest{FirstName: "A", LastName: "B", Email: "a@b.c", Pin: "1723"})
	assert.ErrorIs(t, err, ErrTeamPinTaken)

	m, err := svc.Create(ctx, &dto.TeamMemberRequest{FirstName: " Ann ", LastName: "Lee", Email: "Ann@Example.com", Pin: "5555"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", m.FirstName)
	assert.Equal(t, "ann@example.com", m.Email)

	// Updating a member with its own email and pin is not a conflict.
	updated, err := svc.Update(ctx, existing.ID, &dto.TeamMemberRequest{FirstName: "Jason", LastName: "T", Email: "jason@jstyp.me", Pin: "1723", Role: "Lead Developer"})
	require.NoError(t, err)
	assert.Equal(t, "Lead Developer", updated.Role)

	_, err = svc.Update(ctx, uuid.New(), &dto.TeamMemberRequest{Email: "x@y.z", Pin: "0000"})
	assert.ErrorIs(t, err, ErrTeamMemberNotFound)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), ErrTeamMemberNotFound)
}

func TestTeamService_UploadsProfileImage(t *testing.T) {
	store := storage.NewMemoryStore("https://cdn.test")
	svc := NewTeamService(newFakeTeam(), store)
	img := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg"))

	m, err := svc.Create(context.Background(), &dto.TeamMemberRequest{FirstName: "A", LastName: "B", Email: "a@b.c", Pin: "1111", ProfileImageURL: img})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(m.ProfileImageURL, ".jpeg"))
	assert.Equal(t, 1, store.Len())
}

func TestWebsiteService_SaveAndGet(t *testing.T) {
	repo := &fakeWebsite{}
	store := storage.NewMemoryStore("https://cdn.test")
	c := cache.NewMemoryCache()
	svc := NewWebsiteService(repo, store, c, time.Minute)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	assert.ErrorIs(t, err, ErrWebsiteNotFound)

	img := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png"))
	saved, err := svc.Save(ctx, &dto.WebsiteDetailsRequest{
		CompanyName: "JSTYP.me",
		ThemeColor:  "#f97316",
		LogoURL:     img,
		AboutPageContent: &models.AboutPageContent{
			PageTitle:    "About",
			Introduction: models.AboutPageSection{Heading: "Hi", ImageURL: img},
			Sections:     []models.AboutPageSection{{Heading: "Team", ImageURL: "https://existing/team.png"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(saved.LogoURL, "https://cdn.test/"))
	assert.True(t, strings.HasPrefix(saved.AboutPageContent.Introduction.ImageURL, "https://cdn.test/"))
	assert.Equal(t, "https://existing/team.png", saved.AboutPageContent.Sections[0].ImageURL)
	assert.Equal(t, uint(models.WebsiteDetailsID), repo.details.ID)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "JSTYP.me", got.CompanyName)
	cached, _ := c.Exists(ctx, websiteCacheKey)
	assert.True(t, cached)

	_, err = svc.Save(ctx, &dto.WebsiteDetailsRequest{CompanyName: "Renamed"})
	require.NoError(t, err)
	got, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.CompanyName)
	assert.Nil(t, got.AboutPageContent)
	assert.Equal(t, 2, repo.upserts)
}

func TestAppRequestService(t *testing.T) {
	repo := &fakeAppRequests{}
	svc := NewAppRequestService(repo, NewContentFilter())
	ctx := context.Background()

	req, err := svc.Create(ctx, "  I need an app to track my invoices  ")
	require.NoError(t, err)
	assert.Equal(t, models.AppRequestThinking, req.Status)
	assert.Equal(t, "I need an app to track my invoices", req.ProblemDescription)

	_, err = svc.Create(ctx, "   ")
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)

	_, err = svc.Create(ctx, strings.Repeat("invoice tracking ", 400))
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, "Problem description must be at most 5000 characters", inputErr.Message)
	assert.Len(t, repo.requests, 1)

	_, err = svc.UpdateStatus(ctx, req.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	done, err := svc.UpdateStatus(ctx, req.ID, models.AppRequestDone)
	require.NoError(t, err)
	assert.Equal(t, models.AppRequestDone, done.Status)

	_, err = svc.UpdateStatus(ctx, uuid.New(), models.AppRequestDone)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestContentFilter(t *testing.T) {
	f := NewContentFilter()
	assert.NoError(t, f.Check(""))
	assert.NoError(t, f.Check("I need an app to manage my class schedule"))
	assert.NoError(t, f.Check("Assess my spreadsheet"), "substrings must not match")
	assert.NoError(t, f.Check("budget of 100000 a year... maybe"))

	for text, msg := range map[string]string{
		"this is shit":               "Your message contains inappropriate language.",
		"see www.example.com now":    "URLs and web links are not allowed.",
		"helloooooooo":               "Your message appears to be spam.",
		"check http://x.io/path?q=1": "URLs and web links are not allowed.",
		"call me 1111111":            "Your message appears to be spam.",
		"wait.......":                "Your message appears to be spam.",
		"------ header ------":       "Your message appears to be spam.",
	} {
		err := f.Check(text)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, text)
		assert.Equal(t, msg, inputErr.Message)
		assert.ErrorIs(t, err, ErrContentRejected)
	}
}
