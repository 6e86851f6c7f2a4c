package porfile

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempPOR(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOpenSkipsHeaderAndBlankLines(t *testing.T) {
	content := "iata_code^icao_code\n\nSFO^KSFO\nLAX^KLAX\n"
	path := writeTempPOR(t, "sample.csv", content)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	line, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "SFO^KSFO", line)

	line, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "LAX^KLAX", line)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenUnknownExtensionFails(t *testing.T) {
	path := writeTempPOR(t, "sample.txt", "SFO^KSFO\n")
	_, err := Open(path)
	assert.Error(t, err)
}

func TestOpenMissingFileFails(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
