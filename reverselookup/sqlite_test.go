package reverselookup

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/location"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reverselookup.db")
	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.InitSchema(ctx))
	require.NoError(t, store.CreateIndexes(ctx))
	return store
}

func sampleRecord() *location.Record {
	return &location.Record{
		Key:        location.Key{IATACode: "SFO", IATAType: location.Airport, GeonamesID: 5391959},
		ICAOCode:   "KSFO",
		FAACode:    "SFO",
		CommonName: "san francisco",
		PageRank:   80,
		NameMatrix: location.NameMatrix{location.StdLanguage: {"san francisco"}},
		UNLOCODEs:  []location.UNLOCODE{{Code: "USSFO"}},
		UICCodes:   []location.UIC{{Code: 1234}},
	}
}

func TestSQLiteStoreRoundTripsByIATA(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleRecord()))

	list, err := store.ByIATA(ctx, "SFO")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "KSFO", list[0].ICAOCode)
}

func TestSQLiteStoreByGeonameID(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleRecord()))

	list, err := store.ByGeonameID(ctx, 5391959)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSQLiteStoreByUNLOCODEUsesDelimiterAnchoredMatch(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleRecord()))

	list, err := store.ByUNLOCODE(ctx, "USSFO")
	require.NoError(t, err)
	require.Len(t, list, 1)

	none, err := store.ByUNLOCODE(ctx, "SSF")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStoreByUICCode(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx, sampleRecord()))

	list, err := store.ByUICCode(ctx, 1234)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSQLiteStoreByUnknownCodeReturnsEmpty(t *testing.T) {
	store := newTestSQLiteStore(t)
	list, err := store.ByICAO(context.Background(), "ZZZZ")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpenRejectsMySQL(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}
