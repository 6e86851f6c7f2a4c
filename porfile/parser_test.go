package porfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trepgo/opentrep/location"
)

func sampleLine() string {
	fields := make([]string, fieldCount)
	fields[fIATACode] = "sfo"
	fields[fICAOCode] = "ksfo"
	fields[fIsGeonames] = "Y"
	fields[fGeonamesID] = "5391959"
	fields[fEnvelopeID] = ""
	fields[fName] = "san francisco"
	fields[fASCIIName] = "san francisco"
	fields[fLatitude] = "37.6189"
	fields[fLongitude] = "-122.375"
	fields[fFClass] = "S"
	fields[fFCode] = "AIRP"
	fields[fPageRank] = "50.5"
	fields[fDateFrom] = "2000-01-01"
	fields[fDateEnd] = ""
	fields[fCountryCode] = "us"
	fields[fCountryName] = "united states"
	fields[fModDate] = "-1"
	fields[fCityCodeList] = "SFO"
	fields[fCityDetailList] = "SFO|5391959|San Francisco|San Francisco|US|CA"
	fields[fStateCode] = "CA"
	fields[fLocationType] = "A"
	fields[fAltNameSection] = "fr|San Francisco|s=pt|São Francisco|s"
	fields[fUnlcList] = "USSFO|p"
	fields[fUicList] = "1234|p"
	return join(fields)
}

func join(fields []string) string {
	out := fields[0]
	for _, f := range fields[1:] {
		out += "^" + f
	}
	return out
}

func TestParseLineBasicFields(t *testing.T) {
	rec, err := ParseLine(sampleLine())
	require.NoError(t, err)
	assert.Equal(t, "SFO", rec.Key.IATACode)
	assert.Equal(t, location.Airport, rec.Key.IATAType)
	assert.Equal(t, "KSFO", rec.ICAOCode)
	assert.True(t, rec.IsGeonames)
	assert.InDelta(t, 37.6189, rec.Latitude, 1e-9)
	assert.InDelta(t, -122.375, rec.Longitude, 1e-9)
	assert.InDelta(t, 50.5, rec.PageRank, 1e-9)
	assert.False(t, rec.HasModDate)
	assert.Equal(t, "US", rec.CountryCode)
}

func TestParseLineCityDetailList(t *testing.T) {
	rec, err := ParseLine(sampleLine())
	require.NoError(t, err)
	require.Len(t, rec.ServedCities, 1)
	assert.Equal(t, "SFO", rec.ServedCities[0].IATACode)
	assert.Equal(t, int64(5391959), rec.ServedCities[0].GeonamesID)
}

func TestParseLineAltNameSection(t *testing.T) {
	rec, err := ParseLine(sampleLine())
	require.NoError(t, err)
	require.Len(t, rec.AltNames, 2)
	assert.Equal(t, "fr", rec.AltNames[0].Language)
	assert.Equal(t, "San Francisco", rec.AltNames[0].Name)
	assert.Equal(t, "pt", rec.AltNames[1].Language)
	assert.Equal(t, "s", rec.AltNames[1].Qualifiers)
}

func TestParseLineUnlocodeAndUIC(t *testing.T) {
	rec, err := ParseLine(sampleLine())
	require.NoError(t, err)
	require.Len(t, rec.UNLOCODEs, 1)
	assert.Equal(t, "USSFO", rec.UNLOCODEs[0].Code)
	require.Len(t, rec.UICCodes, 1)
	assert.EqualValues(t, 1234, rec.UICCodes[0].Code)
}

func TestParseLineRejectsBadIsGeonames(t *testing.T) {
	fields := make([]string, fieldCount)
	fields[fIsGeonames] = "X"
	_, err := ParseLine(join(fields))
	assert.Error(t, err)
}

func TestParseLineModDateNegativeOneMeansNoModDate(t *testing.T) {
	fields := make([]string, fieldCount)
	fields[fModDate] = "-1"
	rec, err := ParseLine(join(fields))
	require.NoError(t, err)
	assert.False(t, rec.HasModDate)
}
