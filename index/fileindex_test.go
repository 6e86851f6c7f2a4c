package index

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/location"
)

func TestFileIndexOpenMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	fi, err := OpenFileIndex(path)
	require.NoError(t, err)
	assert.Equal(t, 0, fi.DocumentCount())
}

func TestFileIndexPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	ctx := context.Background()

	fi, err := OpenFileIndex(path)
	require.NoError(t, err)
	b := NewBuilder(fi)
	require.NoError(t, b.Rebuild(ctx, []*location.Record{sampleRecord()}))

	reopened, err := OpenFileIndex(path)
	require.NoError(t, err)
	assert.Equal(t, fi.DocumentCount(), reopened.DocumentCount())

	matches, err := reopened.PhraseSearch(ctx, "san francisco", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, 100.0, matches[0].Percent)
}

func TestFileIndexCommitWithoutBuildIsHarmless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.gob")
	fi, err := OpenFileIndex(path)
	require.NoError(t, err)
	require.NoError(t, fi.BeginBuild(context.Background()))
	require.NoError(t, fi.Commit(context.Background()))
}
