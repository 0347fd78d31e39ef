package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dosadelight/internal/model"
	"dosadelight/internal/snapshot"

	"github.com/rs/zerolog"
)

// mirrorTimeout bounds a single snapshot upload.
const mirrorTimeout = 30 * time.Second

// fileStore implements Store with one JSON array file per collection.
//
// Appends are serialized per collection: the read-modify-write cycle runs
// under a mutex and the new array replaces the old file by rename, so
// concurrent submissions all persist and readers never observe a partial
// file. This holds within one process only.
type fileStore struct {
	dir       string
	snapshots snapshot.Backend
	logger    zerolog.Logger

	mu    sync.Mutex
	locks map[Collection]*collectionLock
}

// collectionLock guards one collection file. gen counts successful writes;
// mirrored is the newest gen uploaded to the snapshot backend, so an upload
// that lost the race to a newer one is skipped.
type collectionLock struct {
	sync.Mutex
	gen uint64

	mirrorMu sync.Mutex
	mirrored uint64
}

// NewFileStore creates a flat-file store rooted at dir. snapshots may be nil;
// when set, missing files are restored from it and every append is mirrored
// to it.
func NewFileStore(dir string, snapshots snapshot.Backend, logger zerolog.Logger) Store {
	return &fileStore{
		dir:       dir,
		snapshots: snapshots,
		logger:    logger.With().Str("component", "file-store").Logger(),
		locks:     make(map[Collection]*collectionLock),
	}
}

// path returns the file holding collection c.
func (s *fileStore) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

// lock returns the lock guarding collection c.
func (s *fileStore) lock(c Collection) *collectionLock {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[c]
	if !ok {
		l = &collectionLock{}
		s.locks[c] = l
	}
	return l
}

// Ensure creates the collection file containing an empty array if missing.
func (s *fileStore) Ensure(ctx context.Context, c Collection) error {
	l := s.lock(c)
	l.Lock()
	defer l.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", s.dir, err)
	}

	path := s.path(c)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	data := []byte("[]")
	if restored, ok := s.restore(ctx, c); ok {
		data = restored
	}

	if err := WriteFileAtomic(path, data); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to create store file")
		return err
	}

	s.logger.Info().Str("file", path).Msg("store file created")

	return nil
}

// restore tries to seed a missing collection from the snapshot backend.
func (s *fileStore) restore(ctx context.Context, c Collection) ([]byte, bool) {
	if s.snapshots == nil {
		return nil, false
	}

	data, err := s.snapshots.Load(ctx, string(c))
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("collection", string(c)).
			Msg("failed to restore snapshot, starting with an empty store")
		return nil, false
	}

	var docs []model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		s.logger.Warn().
			Err(err).
			Str("collection", string(c)).
			Msg("snapshot is not a JSON array, starting with an empty store")
		return nil, false
	}

	s.logger.Info().
		Str("collection", string(c)).
		Int("records", len(docs)).
		Msg("store restored from snapshot")

	return data, true
}

// ReadAll parses and returns the full collection array.
func (s *fileStore) ReadAll(ctx context.Context, c Collection) ([]model.Document, error) {
	data, err := os.ReadFile(s.path(c))
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", c, err)
	}

	return decode(c, data)
}

// Append reads the full array, adds doc at the end and rewrites the file.
// The snapshot upload runs after the collection lock is released.
func (s *fileStore) Append(ctx context.Context, c Collection, doc model.Document) error {
	l := s.lock(c)

	out, gen, err := s.write(l, c, doc)
	if err != nil {
		return err
	}

	s.mirror(ctx, l, c, out, gen)

	return nil
}

// write performs the locked read-modify-write of Append and returns the new
// file contents with their generation.
func (s *fileStore) write(l *collectionLock, c Collection, doc model.Document) ([]byte, uint64, error) {
	l.Lock()
	defer l.Unlock()

	path := s.path(c)

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to read store file")
		return nil, 0, fmt.Errorf("failed to read collection %s: %w", c, err)
	}

	docs, err := decode(c, data)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to parse store file")
		return nil, 0, err
	}

	docs = append(docs, doc)

	out, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode collection %s: %w", c, err)
	}

	if err := WriteFileAtomic(path, out); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to write store file")
		return nil, 0, err
	}

	l.gen++

	s.logger.Debug().
		Str("collection", string(c)).
		Int("records", len(docs)).
		Msg("record appended")

	return out, l.gen, nil
}

// mirror uploads the new array to the snapshot backend. Failures are logged
// only; the local file is the source of truth. The upload outlives the
// request context so a disconnecting client does not leave the snapshot
// stale.
func (s *fileStore) mirror(ctx context.Context, l *collectionLock, c Collection, data []byte, gen uint64) {
	if s.snapshots == nil {
		return
	}

	l.mirrorMu.Lock()
	defer l.mirrorMu.Unlock()

	if gen <= l.mirrored {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mirrorTimeout)
	defer cancel()

	if err := s.snapshots.Save(ctx, string(c), data); err != nil {
		s.logger.Warn().
			Err(err).
			Str("collection", string(c)).
			Msg("failed to mirror store snapshot")
		return
	}

	l.mirrored = gen
}

// decode parses a collection file into documents.
func decode(c Collection, data []byte) ([]model.Document, error) {
	var docs []model.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, &ParseError{Collection: c, Err: err}
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// WriteFileAtomic writes data to a temp file in the same directory and
// renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
