package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/craigtrim/persona-api/internal/domain"
	"go.uber.org/zap"
)

// WriteDir builds every entry and index for domains and writes them under dir.
// It returns the number of entry files written.
func WriteDir(ctx context.Context, dir string, b *Builder, domains []domain.Domain, log *zap.Logger) (int, error) {
	if log == nil {
		log = zap.NewNop()
	}
	written := 0
	for _, d := range domains {
		if !d.Valid() {
			return written, fmt.Errorf("unknown domain %q", d)
		}
		for _, t := range domain.AllTriples() {
			if err := ctx.Err(); err != nil {
				return written, err
			}
			e, err := b.Entry(d, t)
			if err != nil {
				return written, fmt.Errorf("building %s %v: %w", d, t, err)
			}
			if err := writeJSON(filepath.Join(dir, filepath.FromSlash(EntryPath(d, t))), e); err != nil {
				return written, err
			}
			written++
		}
		if err := writeJSON(filepath.Join(dir, string(d), IndexFile), BuildIndex()); err != nil {
			return written, err
		}
		log.Info("corpus domain written", zap.String("domain", string(d)), zap.Int("entries", len(domain.AllTriples())))
	}
	return written, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
