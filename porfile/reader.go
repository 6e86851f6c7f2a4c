// Package porfile implements the POR flat-file reader (spec §6.1):
// compression-aware line source plus the caret-delimited record parser.
// Grounded on PORFileHelper.cpp's suffix-based decompressor selection and
// PORParserHelper.{hpp,cpp}'s field list; the upstream parser is a
// boost::spirit grammar, which has no Go idiom to translate line-for-line,
// so the field extraction here is a straightforward split-and-convert
// over the same field order and sub-formats spec §6.1 documents.
package porfile

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/trepgo/opentrep/poterrors"
)

const fieldSeparator = "^"
const headerSentinel = "iata_code"

// Open returns a line scanner over path, transparently decompressing by
// file suffix (spec §6.1: ".bz2" -> bzip2, ".gz" -> gzip, ".csv" -> plain).
// The header row (if present) is skipped automatically.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, poterrors.Wrap(poterrors.FileNotFound, path, err)
	}

	var src io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2":
		src = bzip2.NewReader(f)
	case ".gz":
		gz, gzErr := gzip.NewReader(f)
		if gzErr != nil {
			f.Close()
			return nil, poterrors.Wrap(poterrors.PorFileParsing, path, gzErr)
		}
		src = gz
	case ".csv":
		src = f
	default:
		f.Close()
		return nil, poterrors.New(poterrors.FileExtensionUnknown, path)
	}

	return &Reader{file: f, scanner: bufio.NewScanner(src), path: path}, nil
}

// Reader yields raw POR lines, one record per Next call.
type Reader struct {
	file    *os.File
	scanner *bufio.Scanner
	path    string
	line    int
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Next returns the next record line, skipping the header row and blank
// lines. io.EOF is returned (as the error) once input is exhausted.
func (r *Reader) Next() (string, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, headerSentinel) {
			continue
		}
		return line, nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", poterrors.Wrap(poterrors.PorFileParsing, r.path, err)
	}
	return "", io.EOF
}

// LineNumber is the 1-based line number of the most recently returned
// record, for error reporting.
func (r *Reader) LineNumber() int {
	return r.line
}

// Fields splits a raw POR line into its caret-delimited fields.
func Fields(line string) []string {
	return strings.Split(line, fieldSeparator)
}
