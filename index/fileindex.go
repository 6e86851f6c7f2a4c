package index

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/trepgo/opentrep/poterrors"
)

// FileIndex is the on-disk InvertedIndex. It keeps a MemIndex in memory
// for queries and persists a gob-encoded snapshot to path on Commit,
// writing through a temp file and an atomic rename so readers never
// observe a partially-written index (spec §5: "the write path is
// exclusive and offline").
type FileIndex struct {
	path string
	mem  *MemIndex
}

// OpenFileIndex loads an existing snapshot at path, or starts from an
// empty index if no file exists yet (e.g. before the first build).
func OpenFileIndex(path string) (*FileIndex, error) {
	fi := &FileIndex{path: path, mem: NewMemIndex()}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return fi, nil
	}
	if err != nil {
		return nil, poterrors.Wrap(poterrors.FileNotFound, path, err)
	}
	defer f.Close()

	var s snapshot
	if err := gob.NewDecoder(f).Decode(&s); err != nil {
		return nil, poterrors.Wrap(poterrors.IndexCorrupt, path, err)
	}
	fi.mem.restoreSnapshot(&s)
	return fi, nil
}

func (fi *FileIndex) BeginBuild(ctx context.Context) error {
	return fi.mem.BeginBuild(ctx)
}

func (fi *FileIndex) AddDocument(ctx context.Context, doc Document, terms, spellingTerms, stemmingTerms, synonymTerms []string) error {
	return fi.mem.AddDocument(ctx, doc, terms, spellingTerms, stemmingTerms, synonymTerms)
}

// Commit finalises the in-memory build and persists it to disk atomically.
func (fi *FileIndex) Commit(ctx context.Context) error {
	if err := fi.mem.Commit(ctx); err != nil {
		return err
	}
	return fi.persist()
}

func (fi *FileIndex) persist() error {
	dir := filepath.Dir(fi.path)
	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return poterrors.Wrap(poterrors.Internal, "create temp index file", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc := gob.NewEncoder(tmp)
	if err := enc.Encode(fi.mem.takeSnapshot()); err != nil {
		tmp.Close()
		return poterrors.Wrap(poterrors.IndexCorrupt, "encode index snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return poterrors.Wrap(poterrors.Internal, "sync temp index file", err)
	}
	if err := tmp.Close(); err != nil {
		return poterrors.Wrap(poterrors.Internal, "close temp index file", err)
	}
	if err := os.Rename(tmpName, fi.path); err != nil {
		return poterrors.Wrap(poterrors.Internal, "rename index file into place", err)
	}
	return nil
}

func (fi *FileIndex) PhraseSearch(ctx context.Context, query string, topK int) (MatchSet, error) {
	return fi.mem.PhraseSearch(ctx, query, topK)
}

func (fi *FileIndex) SpellingSuggestion(ctx context.Context, query string, maxDistance int) (string, bool, error) {
	return fi.mem.SpellingSuggestion(ctx, query, maxDistance)
}

func (fi *FileIndex) Document(ctx context.Context, id DocumentID) (Document, error) {
	return fi.mem.Document(ctx, id)
}

// DocumentCount returns the number of documents currently indexed.
func (fi *FileIndex) DocumentCount() int {
	return fi.mem.DocumentCount()
}
