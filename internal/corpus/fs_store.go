package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/craigtrim/persona-api/internal/domain"
	"go.uber.org/zap"
)

type entryKey struct {
	d domain.Domain
	t domain.Triple
}

// FSStore reads a corpus laid out as a directory tree. Indices and entries are
// cached after first read for the store's lifetime.
type FSStore struct {
	fsys    fs.FS
	log     *zap.Logger
	indices *onceCache[domain.Domain, CoherenceIndex]
	entries *onceCache[entryKey, *Entry]
}

// NewFSStore returns a store over fsys, whose root holds one directory per
// domain.
func NewFSStore(fsys fs.FS, log *zap.Logger) *FSStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FSStore{
		fsys:    fsys,
		log:     log,
		indices: newOnceCache[domain.Domain, CoherenceIndex](),
		entries: newOnceCache[entryKey, *Entry](),
	}
}

// NewDirStore returns a store over the corpus rooted at dir.
func NewDirStore(dir string, log *zap.Logger) *FSStore {
	return NewFSStore(os.DirFS(dir), log)
}

// EntryPath returns the slash-separated path of (d, t) relative to the corpus
// root.
func EntryPath(d domain.Domain, t domain.Triple) string {
	return path.Join(string(d), t.Path())
}

func (s *FSStore) Get(ctx context.Context, d domain.Domain, t domain.Triple) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.Valid() || !t.Valid() {
		return nil, fmt.Errorf("%s %v: %w", d, t, ErrNotFound)
	}
	return s.entries.get(entryKey{d, t}, func() (*Entry, error) {
		p := EntryPath(d, t)
		raw, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.log.Warn("corpus entry missing", zap.String("path", p))
				return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrDataIntegrity, p, err)
		}
		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", ErrDataIntegrity, p, err)
		}
		s.log.Debug("corpus entry loaded", zap.String("path", p), zap.Int("texts", len(e.Texts)))
		return &e, nil
	})
}

func (s *FSStore) CoherenceIndex(ctx context.Context, d domain.Domain) (CoherenceIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !d.Valid() {
		return CoherenceIndex{}, nil
	}
	return s.indices.get(d, func() (CoherenceIndex, error) {
		p := path.Join(string(d), IndexFile)
		raw, err := fs.ReadFile(s.fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("coherence index missing", zap.String("domain", string(d)))
			return CoherenceIndex{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrDataIntegrity, p, err)
		}
		var idx CoherenceIndex
		if err := json.Unmarshal(raw, &idx); err != nil {
			return nil, fmt.Errorf("%w: decoding %s: %v", ErrDataIntegrity, p, err)
		}
		return idx, nil
	})
}
