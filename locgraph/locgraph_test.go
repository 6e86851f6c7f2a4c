package locgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trepgo/opentrep/location"
)

func TestServedCityParamsPreservesOrder(t *testing.T) {
	cities := []location.ServedCity{{IATACode: "SFO"}, {IATACode: "OAK"}}
	params := servedCityParams(cities)
	assert.Len(t, params, 2)
	assert.Equal(t, "SFO", params[0]["iataCode"])
	assert.Equal(t, "OAK", params[1]["iataCode"])
}
