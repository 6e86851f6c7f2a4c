package hygiene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormaliseCollapsesSeparatorsAndLowercases(t *testing.T) {
	got := Normalise("  SNA  Francicso,, Rio-de+Janero!! ")
	assert.Equal(t, "sna francicso rio de janero", got)
}

func TestNormaliseIsIdempotent(t *testing.T) {
	once := Normalise("Nice Côte d'Azur!!")
	twice := Normalise(once)
	assert.Equal(t, once, twice)
}

func TestTokeniseDropsEmpties(t *testing.T) {
	toks := Tokenise("nce lhr  paris")
	assert.Equal(t, []string{"nce", "lhr", "paris"}, toks)
}

func TestTokeniseOfNormaliseIsIdempotentOnRejoin(t *testing.T) {
	norm := Normalise("nce   lhr   paris")
	toks := Tokenise(norm)
	rejoined := strings.Join(toks, " ")
	assert.Equal(t, Tokenise(rejoined), toks)
}

func TestHintsTransliterate(t *testing.T) {
	hints := Hints([]string{"cote"})
	assert.Len(t, hints, 1)
	assert.Equal(t, "cote", hints[0].Normalised)
	assert.Equal(t, "cote", hints[0].ASCII)
}
