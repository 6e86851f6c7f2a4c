package porfile

import (
	"strconv"
	"strings"
	"time"

	"github.com/trepgo/opentrep/location"
	"github.com/trepgo/opentrep/poterrors"
)

// fieldCount is the number of caret-delimited fields spec §6.1 defines.
const fieldCount = 51

// Field indices, in the order spec §6.1 lists them.
const (
	fIATACode = iota
	fICAOCode
	fFAACode
	fIsGeonames
	fGeonamesID
	fEnvelopeID
	fName
	fASCIIName
	fLatitude
	fLongitude
	fFClass
	fFCode
	fPageRank
	fDateFrom
	fDateEnd
	fComment
	fCountryCode
	fCC2
	fCountryName
	fContinentName
	fAdm1Code
	fAdm1NameUTF
	fAdm1NameASCII
	fAdm2Code
	fAdm2NameUTF
	fAdm2NameASCII
	fAdm3Code
	fAdm4Code
	fPopulation
	fElevation
	fGTopo30
	fTimezone
	fGMTOffset
	fDSTOffset
	fRawOffset
	fModDate
	fCityCodeList
	fCityNameList
	fCityDetailList
	fTvlPorList
	fStateCode
	fLocationType
	fWikiLink
	fAltNameSection
	fWAC
	fWACName
	fCCYCode
	fUnlcList
	fUicList
	fGeonameLat
	fGeonameLon
)

// ParseLine parses one caret-delimited POR record line into a
// location.Record (spec §6.1 field list and sub-formats).
func ParseLine(line string) (*location.Record, error) {
	fields := Fields(line)
	if len(fields) < fieldCount {
		padded := make([]string, fieldCount)
		copy(padded, fields)
		fields = padded
	}

	rec := &location.Record{NameMatrix: location.NameMatrix{}}

	rec.Key.IATACode = strings.ToUpper(strings.TrimSpace(fields[fIATACode]))
	rec.Key.IATAType = location.ParseIATAType(fields[fLocationType])
	rec.ICAOCode = strings.ToUpper(strings.TrimSpace(fields[fICAOCode]))
	rec.FAACode = strings.ToUpper(strings.TrimSpace(fields[fFAACode]))

	geonamesID, err := parseOptionalInt64(fields[fGeonamesID])
	if err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "geonames_id", err)
	}
	rec.Key.GeonamesID = geonamesID

	switch strings.ToUpper(strings.TrimSpace(fields[fIsGeonames])) {
	case "Y":
		rec.IsGeonames = true
	case "N", "Z", "":
		rec.IsGeonames = false
	default:
		return nil, poterrors.New(poterrors.PorFileParsing, "is_geonames must be Y, N or Z")
	}

	envelopeID, err := parseOptionalInt64(fields[fEnvelopeID])
	if err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "envelope_id", err)
	}
	rec.EnvelopeID = envelopeID

	rec.CommonName = fields[fName]
	rec.ASCIIName = fields[fASCIIName]
	if rec.CommonName != "" {
		rec.NameMatrix.AddName(location.StdLanguage, rec.CommonName)
	}

	if rec.Latitude, err = parseFloat(fields[fLatitude]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "latitude", err)
	}
	if rec.Longitude, err = parseFloat(fields[fLongitude]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "longitude", err)
	}

	rec.FeatureClass = fields[fFClass]
	rec.FeatureCode = fields[fFCode]
	rec.IsAirport = rec.Key.IATAType == location.Airport
	rec.IsCommercial = rec.FeatureCode == "AIRP" || rec.Key.IATAType == location.Airport

	if rec.PageRank, err = parseFloat(fields[fPageRank]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "page_rank", err)
	}

	if rec.DateFrom, err = parseDate(fields[fDateFrom], false); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "date_from", err)
	}
	if rec.DateEnd, err = parseDate(fields[fDateEnd], false); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "date_end", err)
	}

	rec.CountryCode = strings.ToUpper(fields[fCountryCode])
	if cc2 := strings.TrimSpace(fields[fCC2]); cc2 != "" {
		rec.AltCountryCodes = strings.Split(strings.ToUpper(cc2), ",")
	}
	rec.CountryName = fields[fCountryName]
	rec.ContinentName = fields[fContinentName]

	rec.Admin1 = location.AdminLevel{Code: fields[fAdm1Code], NameUTF8: fields[fAdm1NameUTF], NameASCII: fields[fAdm1NameASCII]}
	rec.Admin2 = location.AdminLevel{Code: fields[fAdm2Code], NameUTF8: fields[fAdm2NameUTF], NameASCII: fields[fAdm2NameASCII]}
	rec.Admin3Code = fields[fAdm3Code]
	rec.Admin4Code = fields[fAdm4Code]

	if rec.Population, err = parseOptionalInt64(fields[fPopulation]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "population", err)
	}
	rec.Elevation, err = parseOptionalInt(fields[fElevation])
	if err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "elevation", err)
	}
	rec.GTopo30, err = parseOptionalInt(fields[fGTopo30])
	if err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "gtopo30", err)
	}

	rec.TimeZone = fields[fTimezone]
	if rec.GMTOffset, err = parseOptionalFloat(fields[fGMTOffset]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "gmt_offset", err)
	}
	if rec.DSTOffset, err = parseOptionalFloat(fields[fDSTOffset]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "dst_offset", err)
	}
	if rec.RawOffset, err = parseOptionalFloat(fields[fRawOffset]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "raw_offset", err)
	}

	modRaw := strings.TrimSpace(fields[fModDate])
	if modRaw == "-1" || modRaw == "" {
		rec.HasModDate = false
	} else {
		rec.ModDate, err = parseDate(modRaw, true)
		if err != nil {
			return nil, poterrors.Wrap(poterrors.PorFileParsing, "moddate", err)
		}
		rec.HasModDate = true
	}

	if codes := strings.TrimSpace(fields[fCityCodeList]); codes != "" {
		rec.CityCode = strings.ToUpper(strings.Split(codes, ",")[0])
	}
	if details := strings.TrimSpace(fields[fCityDetailList]); details != "" {
		cities, cErr := parseCityDetailList(details)
		if cErr != nil {
			return nil, poterrors.Wrap(poterrors.PorFileParsing, "city_detail_list", cErr)
		}
		rec.ServedCities = cities
	}

	rec.StateCode = fields[fStateCode]

	rec.WikiLink = fields[fWikiLink]
	if alt := strings.TrimSpace(fields[fAltNameSection]); alt != "" {
		names, aErr := parseAltNameSection(alt)
		if aErr != nil {
			return nil, poterrors.Wrap(poterrors.PorFileParsing, "alt_name_section", aErr)
		}
		rec.AltNames = names
		for _, n := range names {
			lang := n.Language
			if lang == "" {
				lang = location.StdLanguage
			}
			rec.NameMatrix.AddName(lang, n.Name)
		}
	}

	rec.WAC = fields[fWAC]
	rec.WACName = fields[fWACName]
	rec.CurrencyCode = strings.ToUpper(fields[fCCYCode])

	if unlc := strings.TrimSpace(fields[fUnlcList]); unlc != "" {
		codes, uErr := parseUnlocodeList(unlc)
		if uErr != nil {
			return nil, poterrors.Wrap(poterrors.PorFileParsing, "unlc_list", uErr)
		}
		rec.UNLOCODEs = codes
	}
	if uic := strings.TrimSpace(fields[fUicList]); uic != "" {
		codes, uErr := parseUICList(uic)
		if uErr != nil {
			return nil, poterrors.Wrap(poterrors.PorFileParsing, "uic_list", uErr)
		}
		rec.UICCodes = codes
	}

	if rec.GeonameLat, err = parseOptionalFloat(fields[fGeonameLat]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "geoname_lat", err)
	}
	if rec.GeonameLon, err = parseOptionalFloat(fields[fGeonameLon]); err != nil {
		return nil, poterrors.Wrap(poterrors.PorFileParsing, "geoname_lon", err)
	}

	return rec, nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseOptionalFloat(s string) (float64, error) {
	return parseFloat(s)
}

func parseOptionalInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	return v, err
}

func parseOptionalInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseDate(s string, allowNegativeOne bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if allowNegativeOne && s == "-1" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseCityDetailList parses "="-separated CODE|GEONAME_ID|UTF_NAME|ASCII_NAME|COUNTRY|STATE entries.
func parseCityDetailList(s string) ([]location.ServedCity, error) {
	var cities []location.ServedCity
	for _, entry := range strings.Split(s, "=") {
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "|")
		city := location.ServedCity{}
		if len(parts) > 0 {
			city.IATACode = strings.ToUpper(parts[0])
		}
		if len(parts) > 1 && parts[1] != "" {
			id, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, err
			}
			city.GeonamesID = id
		}
		if len(parts) > 2 {
			city.NameUTF8 = parts[2]
		}
		if len(parts) > 3 {
			city.NameASCII = parts[3]
		}
		if len(parts) > 4 {
			city.CountryCode = strings.ToUpper(parts[4])
		}
		if len(parts) > 5 {
			city.StateCode = parts[5]
		}
		cities = append(cities, city)
	}
	return cities, nil
}

// parseAltNameSection parses "="-separated "langcode|name|qualifiers" triples.
func parseAltNameSection(s string) ([]location.AltName, error) {
	var names []location.AltName
	for _, entry := range strings.Split(s, "=") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "|", 3)
		alt := location.AltName{}
		switch len(parts) {
		case 1:
			alt.Name = parts[0]
		case 2:
			alt.Language, alt.Name = parts[0], parts[1]
		default:
			alt.Language, alt.Name, alt.Qualifiers = parts[0], parts[1], parts[2]
		}
		if alt.Name == "" {
			continue
		}
		names = append(names, alt)
	}
	return names, nil
}

// parseUnlocodeList parses "="-separated "UNLOCODE|qualifiers?" entries.
func parseUnlocodeList(s string) ([]location.UNLOCODE, error) {
	var codes []location.UNLOCODE
	for _, entry := range strings.Split(s, "=") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "|", 2)
		u := location.UNLOCODE{Code: strings.ToUpper(parts[0])}
		if len(parts) > 1 {
			u.Qualifiers = parts[1]
		}
		codes = append(codes, u)
	}
	return codes, nil
}

// parseUICList parses "="-separated "UIC|qualifiers?" entries.
func parseUICList(s string) ([]location.UIC, error) {
	var codes []location.UIC
	for _, entry := range strings.Split(s, "=") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "|", 2)
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, err
		}
		u := location.UIC{Code: id}
		if len(parts) > 1 {
			u.Qualifiers = parts[1]
		}
		codes = append(codes, u)
	}
	return codes, nil
}
