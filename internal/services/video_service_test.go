package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jstyp/storefront-backend/internal/ai"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/jstyp/storefront-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVideoFixture(gen *fakeGenerator, maxPolls int) (*VideoService, *fakeVideos, *storage.MemoryStore) {
	videos := newFakeVideos()
	store := storage.NewMemoryStore("https://cdn.test")
	return NewVideoService(videos, gen, store, maxPolls), videos, store
}

func TestVideoService_Start(t *testing.T) {
	svc, _, _ := newVideoFixture(&fakeGenerator{startName: "operations/1"}, 3)
	_, err := svc.Start(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrPromptRequired)

	v, err := svc.Start(context.Background(), "a sunset over Cape Town")
	require.NoError(t, err)
	assert.Equal(t, models.VideoProcessing, v.Status)
	assert.Equal(t, "operations/1", v.OperationName)

	svc, _, _ = newVideoFixture(&fakeGenerator{startErr: errors.New("quota")}, 3)
	_, err = svc.Start(context.Background(), "x")
	assert.ErrorIs(t, err, ErrAIUnavailable)
}

func TestVideoService_PollCompletes(t *testing.T) {
	gen := &fakeGenerator{
		startName: "operations/1",
		ops:       []*ai.Operation{{Done: false}, {Done: true, URI: "https://files/v.mp4"}},
		data:      []byte("mp4"),
	}
	svc, videos, store := newVideoFixture(gen, 5)
	ctx := context.Background()
	v, err := svc.Start(ctx, "prompt")
	require.NoError(t, err)

	n, err := svc.PollPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	got, _ := videos.Get(ctx, v.ID)
	assert.Equal(t, models.VideoProcessing, got.Status)

	got, err = svc.Status(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VideoCompleted, got.Status)
	require.NotNil(t, got.VideoURL)
	assert.Contains(t, *got.VideoURL, ".mp4")
	assert.Equal(t, 1, store.Len())

	completed, _ := svc.ListCompleted(ctx)
	assert.Len(t, completed, 1)

	// Finished videos are not polled again.
	polls := gen.polls
	_, err = svc.Status(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, polls, gen.polls)
}

func TestVideoService_PollFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("missing uri", func(t *testing.T) {
		svc, _, _ := newVideoFixture(&fakeGenerator{ops: []*ai.Operation{{Done: true}}}, 5)
		v, _ := svc.Start(ctx, "p")
		got, err := svc.Status(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.VideoFailed, got.Status)
		assert.Equal(t, "Video generation finished but no download link was found.", got.Error)
	})

	t.Run("operation error", func(t *testing.T) {
		svc, _, _ := newVideoFixture(&fakeGenerator{ops: []*ai.Operation{{Done: true, Error: "prompt rejected"}}}, 5)
		v, _ := svc.Start(ctx, "p")
		got, err := svc.Status(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, models.VideoFailed, got.Status)
		assert.Equal(t, "prompt rejected", got.Error)
	})

	t.Run("max polls", func(t *testing.T) {
		svc, videos, _ := newVideoFixture(&fakeGenerator{}, 3)
		v, _ := svc.Start(ctx, "p")
		for i := 0; i < 3; i++ {
			_, err := svc.PollPending(ctx)
			require.NoError(t, err)
		}
		got, _ := videos.Get(ctx, v.ID)
		assert.Equal(t, models.VideoFailed, got.Status)
		assert.Equal(t, "generation timed out", got.Error)
		assert.Equal(t, 3, got.PollAttempts)

		n, err := svc.PollPending(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("transient poll errors count toward the ceiling", func(t *testing.T) {
		svc, videos, _ := newVideoFixture(&fakeGenerator{pollErr: errors.New("503")}, 2)
		v, _ := svc.Start(ctx, "p")
		_, _ = svc.PollPending(ctx)
		got, _ := videos.Get(ctx, v.ID)
		assert.Equal(t, models.VideoProcessing, got.Status)
		_, _ = svc.PollPending(ctx)
		got, _ = videos.Get(ctx, v.ID)
		assert.Equal(t, models.VideoFailed, got.Status)
	})
}

func TestVideoService_ConcurrentPollersDoNotClobber(t *testing.T) {
	ctx := context.Background()

	t.Run("second finisher discards its blob", func(t *testing.T) {
		gen := &fakeGenerator{startName: "operations/1", ops: []*ai.Operation{{Done: true, URI: "https://files/v.mp4"}}, data: []byte("mp4")}
		svc, videos, store := newVideoFixture(gen, 5)
		v, err := svc.Start(ctx, "prompt")
		require.NoError(t, err)
		stale, _ := videos.Get(ctx, v.ID)

		first, err := svc.Status(ctx, v.ID)
		require.NoError(t, err)
		require.Equal(t, models.VideoCompleted, first.Status)

		require.NoError(t, svc.poll(ctx, stale))
		assert.Equal(t, models.VideoCompleted, stale.Status)
		assert.Equal(t, *first.VideoURL, *stale.VideoURL)
		assert.Equal(t, 1, store.Len())

		got, _ := videos.Get(ctx, v.ID)
		assert.Equal(t, *first.VideoURL, *got.VideoURL)
	})

	t.Run("attempt counts are not lost", func(t *testing.T) {
		svc, videos, _ := newVideoFixture(&fakeGenerator{}, 5)
		v, err := svc.Start(ctx, "prompt")
		require.NoError(t, err)
		a, _ := videos.Get(ctx, v.ID)
		b, _ := videos.Get(ctx, v.ID)

		require.NoError(t, svc.poll(ctx, a))
		require.NoError(t, svc.poll(ctx, b))
		got, _ := videos.Get(ctx, v.ID)
		assert.Equal(t, 1, got.PollAttempts)
		assert.Equal(t, 1, b.PollAttempts)

		require.NoError(t, svc.poll(ctx, got))
		got, _ = videos.Get(ctx, v.ID)
		assert.Equal(t, 2, got.PollAttempts)
	})
}
