package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/jstyp/storefront-backend/internal/logging"
	"gorm.io/gorm"
)

// VideoPoller advances processing videos.
type VideoPoller interface {
	PollPending(ctx context.Context) (int, error)
}

// VideoPollJob polls every processing video once per interval.
func VideoPollJob(videos VideoPoller, interval time.Duration) Job {
	if interval < time.Second {
		interval = time.Second
	}
	return Job{
		Name:    "video_poll",
		Spec:    "@every " + interval.String(),
		Timeout: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			n, err := videos.PollPending(ctx)
			if n > 0 {
				slog.Info("videos polled", "count", n)
			}
			return err
		},
	}
}

// LogRetentionJob purges old system_logs rows daily at 03:00.
func LogRetentionJob(db *gorm.DB) Job {
	return Job{
		Name:    "log_retention",
		Spec:    "0 0 3 * * *",
		Timeout: time.Minute,
		Run: func(ctx context.Context) error {
			_, err := logging.PurgeOlderThan(ctx, db, logging.LogRetention)
			return err
		},
	}
}
