package reverselookup

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

func encodeRecord(rec *location.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", poterrors.Wrap(poterrors.Internal, "marshal location record", err)
	}
	return string(data), nil
}

func decodeRecord(data string) (*location.Record, error) {
	var rec location.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, poterrors.Wrap(poterrors.SqlDatabase, "unmarshal location record", err)
	}
	return &rec, nil
}

func joinUNLOCODEs(codes []location.UNLOCODE) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = c.Code
	}
	return unlocodeDelimiter + strings.Join(parts, unlocodeDelimiter) + unlocodeDelimiter
}

func joinUICCodes(codes []location.UIC) string {
	parts := make([]string, len(codes))
	for i, c := range codes {
		parts[i] = strconv.FormatInt(c.Code, 10)
	}
	return uicDelimiter + strings.Join(parts, uicDelimiter) + uicDelimiter
}

// unlocodePattern/uicPattern build a delimiter-anchored LIKE pattern so a
// short code doesn't spuriously match as a substring of a longer one.
func unlocodePattern(code string) string {
	return "%" + unlocodeDelimiter + code + unlocodeDelimiter + "%"
}

func uicPattern(code int64) string {
	return "%" + uicDelimiter + strconv.FormatInt(code, 10) + uicDelimiter + "%"
}
