package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-swap/pkg/types"
)

func TestPair_SelectAndSwap(t *testing.T) {
	eth := types.NewToken("ETH", 3000)
	usd := types.NewToken("USD", 1)

	var p Pair
	assert.False(t, p.Complete())

	require.NoError(t, p.Select(From, &eth))
	require.NoError(t, p.Select(To, &usd))
	assert.True(t, p.Complete())

	p.Swap()
	assert.Equal(t, "USD", p.From.Currency)
	assert.Equal(t, "ETH", p.To.Currency)
	assert.Same(t, &usd, p.Get(From))
	assert.Same(t, &eth, p.Get(To))
}

func TestPair_SameTokenBothSides(t *testing.T) {
	eth := types.NewToken("ETH", 3000)

	var p Pair
	require.NoError(t, p.Select(From, &eth))
	require.NoError(t, p.Select(To, &eth))

	p.Swap()
	assert.Same(t, &eth, p.From)
	assert.Same(t, &eth, p.To)
}

func TestPair_SwapWithNilSide(t *testing.T) {
	eth := types.NewToken("ETH", 3000)
	p := Pair{From: &eth}

	p.Swap()
	assert.Nil(t, p.From)
	assert.Same(t, &eth, p.To)
}

func TestPair_SelectUnknownSlot(t *testing.T) {
	var p Pair
	assert.Error(t, p.Select(Slot("middle"), nil))
}

func TestParseSlot(t *testing.T) {
	s, err := ParseSlot(" FROM ")
	require.NoError(t, err)
	assert.Equal(t, From, s)

	s, err = ParseSlot("to")
	require.NoError(t, err)
	assert.Equal(t, To, s)

	_, err = ParseSlot("sideways")
	assert.Error(t, err)
}
