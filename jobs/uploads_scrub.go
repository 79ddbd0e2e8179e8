package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"
)

// ImageLister reports every image reference currently held by a post.
type ImageLister interface {
	ImagePaths(ctx context.Context) ([]string, error)
}

// UploadsScrubJob deletes files in the upload directory that are older
// than the retention window and referenced by no post. Uploads keep the
// client's original name, so a referenced name is never touched even
// when it has been overwritten since.
type UploadsScrubJob struct {
	lister ImageLister
	logger *slog.Logger
}

// NewUploadsScrubJob constructs the scrub job.
func NewUploadsScrubJob(lister ImageLister, logger *slog.Logger) *UploadsScrubJob {
	return &UploadsScrubJob{lister: lister, logger: logger}
}

// Handle processes one scrub task.
func (j *UploadsScrubJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload UploadsScrubPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}
	removed, err := j.Scrub(ctx, payload.Dir, payload.MaxAge)
	if err != nil {
		return err
	}
	if j.logger != nil {
		j.logger.Info("uploads scrub finished",
			slog.String("dir", payload.Dir), slog.Int("removed", removed))
	}
	return nil
}

// Scrub runs the retention pass and returns the number of removed files.
func (j *UploadsScrubJob) Scrub(ctx context.Context, dir string, maxAge time.Duration) (int, error) {
	refs, err := j.lister.ImagePaths(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		referenced[path.Base(ref)] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			if j.logger != nil {
				j.logger.Warn("remove stale upload", slog.String("file", entry.Name()), slog.Any("error", err))
			}
			continue
		}
		removed++
	}
	return removed, nil
}
