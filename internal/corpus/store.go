package corpus

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hyperjump/qanoon/internal/models"
	"github.com/hyperjump/qanoon/pkg/utils"
)

// Store publishes the current corpus snapshot. Readers never block; Reload
// replaces the snapshot atomically and never mutates a published one.
type Store struct {
	path     string
	logger   *zap.Logger
	snapshot atomic.Pointer[Snapshot]
	mu       sync.Mutex
	onReload []func(*Snapshot)
}

// Open creates a store from path, or from the built-in corpus when path is
// empty.
func Open(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, logger: utils.LoggerOrNop(logger)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing snapshot; Reload is a no-op for it.
func NewStore(snap *Snapshot) *Store {
	s := &Store{logger: zap.NewNop()}
	s.snapshot.Store(snap)
	return s
}

// Path returns the corpus file path, empty for the built-in corpus.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the corpus. On error the previous snapshot stays in place.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap *Snapshot
	var err error
	if s.path == "" {
		if s.snapshot.Load() != nil {
			return nil
		}
		snap, err = Default()
	} else {
		snap, err = LoadFile(s.path)
	}
	if err != nil {
		return fmt.Errorf("reload corpus: %w", err)
	}

	s.snapshot.Store(snap)
	s.logger.Info("corpus loaded",
		zap.String("path", s.path),
		zap.Int("documents", snap.Len()),
		zap.Int("categories", len(snap.Categories())))

	for _, fn := range s.onReload {
		fn(snap)
	}
	return nil
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Documents returns the documents of the current snapshot.
func (s *Store) Documents() []*models.Document {
	return s.Snapshot().Documents()
}

// Get returns a document by id from the current snapshot.
func (s *Store) Get(id string) (*models.Document, error) {
	return s.Snapshot().Get(id)
}
