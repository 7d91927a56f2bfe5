// Package diagnostics saves what the page looked like when the flow escalated.
package diagnostics

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/domain/entity"
)

var _ output.DiagnosticsPort = (*Recorder)(nil)

type Recorder struct {
	source output.SnapshotPort
	dir    string
	logger output.LoggerPort
	newID  func() string
}

func NewRecorder(source output.SnapshotPort, dir string, logger output.LoggerPort) *Recorder {
	return &Recorder{
		source: source,
		dir:    dir,
		logger: logger.Named("diagnostics"),
		newID:  uuid.NewString,
	}
}

// Record writes <dir>/<runID>-<reason>-<id>.{html,<format>} and returns the
// paths written, screenshot first.
func (r *Recorder) Record(ctx context.Context, runID string, reason entity.EscalationReason) ([]string, error) {
	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("capture snapshot: %w", err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create diagnostics dir: %w", err)
	}

	base := filepath.Join(r.dir, fmt.Sprintf("%s-%s-%s", runID, reason, r.newID()))
	var paths []string

	if shot := snap.Screenshot; shot != nil && len(shot.Data) > 0 {
		ext := shot.Format
		if ext == "" {
			ext = "jpg"
		}
		path := base + "." + ext
		if err := os.WriteFile(path, shot.Data, 0o644); err != nil {
			return paths, fmt.Errorf("write screenshot: %w", err)
		}
		paths = append(paths, path)
	}

	path := base + ".html"
	if err := os.WriteFile(path, []byte(snap.HTML), 0o644); err != nil {
		return paths, fmt.Errorf("write page html: %w", err)
	}
	paths = append(paths, path)

	r.logger.Info("Diagnostics recorded", "run_id", runID, "reason", reason, "url", snap.URL, "files", len(paths))
	return paths, nil
}
