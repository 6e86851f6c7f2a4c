package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerateEmptyYieldsOneEmptyPartition(t *testing.T) {
	sets := Enumerate(nil)
	require.Len(t, sets, 1)
	assert.Empty(t, sets[0].Cells)
}

func TestEnumerateCountIsPowerOfTwo(t *testing.T) {
	for n := 1; n <= 8; n++ {
		tokens := make([]string, n)
		for i := range tokens {
			tokens[i] = "t"
		}
		sets := Enumerate(tokens)
		assert.Len(t, sets, 1<<(n-1), "n=%d", n)
	}
}

func TestEnumerateCoversAllTokensInOrder(t *testing.T) {
	tokens := []string{"san", "francisco", "rio", "de", "janeiro"}
	for _, s := range Enumerate(tokens) {
		assert.Equal(t, tokens, s.Cover())
	}
}

func TestEnumerateKnownPartitionsForThreeTokens(t *testing.T) {
	tokens := []string{"a", "b", "c"}
	sets := Enumerate(tokens)
	var joined []string
	for _, s := range sets {
		joined = append(joined, s.Cells[0])
		for _, c := range s.Cells[1:] {
			joined[len(joined)-1] += "|" + c
		}
	}
	assert.ElementsMatch(t, []string{
		"a|b|c",
		"a b|c",
		"a|b c",
		"a b c",
	}, joined)
}

func TestEnumerateSingleToken(t *testing.T) {
	sets := Enumerate([]string{"nice"})
	require.Len(t, sets, 1)
	assert.Equal(t, []string{"nice"}, sets[0].Cells)
}
