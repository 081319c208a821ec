package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"token-swap/pkg/catalog"
	"token-swap/pkg/mocks"
	"token-swap/pkg/types"
)

func price(f float64) *float64 { return &f }

func raw(currency string, p *float64) types.RawPrice {
	return types.RawPrice{Currency: currency, Price: p}
}

func currencies(records []types.TokenRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Currency)
	}
	return out
}

func TestNew_FirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	c := catalog.New([]types.RawPrice{
		raw("ETH", price(3000)),
		raw("USDC", price(1)),
		raw("ETH", price(2900)),
		raw("BLUR", nil),
		raw("USDC", price(0.99)),
		raw("BLUR", price(0.2)),
	})

	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"ETH", "USDC", "BLUR"}, currencies(c.Records()))

	eth, ok := c.Lookup("ETH")
	require.True(t, ok)
	assert.Equal(t, 3000.0, *eth.Price)

	usdc, ok := c.Lookup("USDC")
	require.True(t, ok)
	assert.Equal(t, 1.0, *usdc.Price)

	blur, ok := c.Lookup("BLUR")
	require.True(t, ok)
	assert.Nil(t, blur.Price, "first BLUR entry had no price")
}

func TestRecords_ReturnsCopy(t *testing.T) {
	t.Parallel()

	c := catalog.New([]types.RawPrice{raw("ETH", price(3000))})
	records := c.Records()
	records[0].Currency = "XXX"

	_, ok := c.Lookup("ETH")
	assert.True(t, ok)
	assert.Equal(t, "ETH", c.At(0).Currency)
	assert.Nil(t, c.At(1))
	assert.Nil(t, c.At(-1))
}

func TestAccessors_DoNotShareMutablePrices(t *testing.T) {
	t.Parallel()

	in := []types.RawPrice{raw("ETH", price(3000))}
	c := catalog.New(in)

	*in[0].Price = 1
	*c.Records()[0].Price = 2
	*c.At(0).Price = 3
	rec, ok := c.Lookup("ETH")
	require.True(t, ok)
	*rec.Price = 4

	again, ok := c.Lookup("ETH")
	require.True(t, ok)
	assert.Equal(t, 3000.0, *again.Price)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      []types.RawPrice
		wantFrom string
		wantTo   string
	}{
		{
			name:     "eth and usd present",
			raw:      []types.RawPrice{raw("BTC", price(1)), raw("USD", price(1)), raw("ETH", price(1))},
			wantFrom: "ETH",
			wantTo:   "USD",
		},
		{
			name:     "fallback to first and second",
			raw:      []types.RawPrice{raw("BTC", price(1)), raw("ATOM", price(1)), raw("OSMO", price(1))},
			wantFrom: "BTC",
			wantTo:   "ATOM",
		},
		{
			name:     "eth only fallback for to",
			raw:      []types.RawPrice{raw("ETH", price(1)), raw("ATOM", price(1))},
			wantFrom: "ETH",
			wantTo:   "ATOM",
		},
		{
			name:     "single record leaves to unset",
			raw:      []types.RawPrice{raw("USD", price(1))},
			wantFrom: "USD",
		},
		{
			name: "empty catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := catalog.New(tt.raw).Defaults()
			if tt.wantFrom == "" {
				assert.Nil(t, from)
			} else {
				require.NotNil(t, from)
				assert.Equal(t, tt.wantFrom, from.Currency)
			}
			if tt.wantTo == "" {
				assert.Nil(t, to)
			} else {
				require.NotNil(t, to)
				assert.Equal(t, tt.wantTo, to.Currency)
			}
		})
	}
}

func TestLoad_WrapsPlainErrorsAsFetchError(t *testing.T) {
	t.Parallel()

	// Arrange: a source failing with an untyped error
	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("connection refused"))
	src.EXPECT().Name().Return("mock").AnyTimes()

	// Act
	c, err := catalog.Load(t.Context(), src)

	// Assert
	require.Nil(t, c)
	require.ErrorIs(t, err, catalog.ErrFetch)
	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "mock", fe.Source)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoad_PassesParseErrorThrough(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).Return(nil, &catalog.ParseError{Source: "mock", Err: errors.New("bad json")})
	src.EXPECT().Name().Return("mock").AnyTimes()

	_, err := catalog.Load(t.Context(), src)

	require.ErrorIs(t, err, catalog.ErrParse)
	assert.NotErrorIs(t, err, catalog.ErrFetch)
}

func TestLoad_BuildsCatalog(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Fetch(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]types.RawPrice, error) {
		return []types.RawPrice{raw("ETH", price(3000)), raw("USD", price(1)), raw("ETH", price(1))}, nil
	})

	c, err := catalog.Load(t.Context(), src)

	require.NoError(t, err)
	assert.Equal(t, []string{"ETH", "USD"}, currencies(c.Records()))
}

func TestFind_CaseInsensitiveFallback(t *testing.T) {
	t.Parallel()

	c := catalog.New([]types.RawPrice{raw("bNEO", price(7)), raw("BNEO", price(8)), raw("stATOM", price(9))})

	rec, ok := c.Find("BNEO")
	require.True(t, ok)
	assert.Equal(t, 8.0, *rec.Price, "exact match first")

	rec, ok = c.Find("statom")
	require.True(t, ok)
	assert.Equal(t, "stATOM", rec.Currency)

	_, ok = c.Find("ETH")
	assert.False(t, ok)

	var empty *catalog.Catalog
	_, ok = empty.Find("ETH")
	assert.False(t, ok)
}

func TestIconURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://icons.example/tokens/ETH.svg", catalog.IconURL("https://icons.example/tokens/", "ETH"))
	assert.Equal(t, "https://icons.example/stATOM.svg", catalog.IconURL("https://icons.example", "stATOM"))
	assert.Equal(t, "https://icons.example/a%2Fb.svg", catalog.IconURL("https://icons.example", "a/b"))
}
