package catalog_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"token-swap/pkg/catalog"
	"token-swap/pkg/mocks"
	"token-swap/pkg/types"
)

const pricesFixture = `[
  {"currency":"BLUR","date":"2023-08-29T07:10:40.000Z","price":0.20811525423728813},
  {"currency":"bNEO","date":"2023-08-29T07:10:50.000Z","price":7.1282679},
  {"currency":"BUSD","date":"2023-08-29T07:10:40.000Z","price":0.999183113},
  {"currency":"BUSD","date":"2023-08-29T07:10:40.000Z","price":0.9998782611186441},
  {"currency":"LUNA","date":"2023-08-29T07:10:40.000Z","price":null}
]`

func TestHTTPSource_Fetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "bar", r.Header.Get("foo"))
		_, _ = io.WriteString(w, pricesFixture)
	}))
	t.Cleanup(srv.Close)

	src := catalog.NewHTTPSource(srv.URL, catalog.WithHeader(http.Header{"foo": []string{"bar"}}))
	raw, err := src.Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, raw, 5)
	assert.Equal(t, "bNEO", raw[1].Currency)
	assert.Nil(t, raw[4].Price)
	assert.Equal(t, 2023, raw[0].Date.Year())

	c := catalog.New(raw)
	assert.Equal(t, 4, c.Len())
	busd, ok := c.Lookup("BUSD")
	require.True(t, ok)
	assert.InDelta(t, 0.999183113, *busd.Price, 1e-12)
}

func TestHTTPSource_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := catalog.NewHTTPSource(srv.URL).Fetch(t.Context())

	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusBadGateway, fe.StatusCode)
	assert.ErrorIs(t, err, catalog.ErrFetch)
}

func TestHTTPSource_MalformedPayload(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"not json":         `<html>`,
		"wrong shape":      `{"currency":"ETH"}`,
		"missing currency": `[{"price":1}]`,
		"price as string":  `[{"currency":"ETH","price":"1"}]`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}))
			t.Cleanup(srv.Close)

			_, err := catalog.NewHTTPSource(srv.URL).Fetch(t.Context())
			require.ErrorIs(t, err, catalog.ErrParse)
		})
	}
}

func TestHTTPSource_WithHTTPClient(t *testing.T) {
	t.Parallel()

	// Arrange: a mock HTTP client
	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)

	// Assert: the request is sent to the configured url
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "http://prices.local/prices.json", req.URL.String())
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(bytes.NewBufferString(`[{"currency":"ETH","price":3000}]`)),
			}, nil
		}).
		Times(1)

	// Act
	raw, err := catalog.NewHTTPSource("http://prices.local/prices.json", catalog.WithHTTPClient(httpClient)).Fetch(t.Context())

	// Assert
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, 3000.0, *raw[0].Price)
}

func TestHTTPSource_Unreachable(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := mocks.NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: no route to host"))

	_, err := catalog.NewHTTPSource("http://prices.local", catalog.WithHTTPClient(httpClient)).Fetch(t.Context())

	var fe *catalog.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.Contains(t, err.Error(), "no route to host")
}

func TestFileSource_RoundTripsSnapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "prices.json")
	p := 3000.0
	require.NoError(t, catalog.SaveSnapshot(path, []types.RawPrice{
		{Currency: "ETH", Price: &p},
		{Currency: "LUNA"},
	}))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")

	raw, err := catalog.NewFileSource(path).Fetch(t.Context())
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, 3000.0, *raw[0].Price)
	assert.Nil(t, raw[1].Price)
}

func TestFileSource_Missing(t *testing.T) {
	t.Parallel()

	_, err := catalog.NewFileSource(filepath.Join(t.TempDir(), "nope.json")).Fetch(t.Context())
	require.ErrorIs(t, err, catalog.ErrFetch)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCachedSource(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	src := mocks.NewMockSource(ctrl)
	src.EXPECT().Name().Return("mock").AnyTimes()

	p := 1.0
	first := []types.RawPrice{{Currency: "ETH", Price: &p}}

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	cached := &catalog.CachedSource{
		Source: src,
		TTL:    time.Minute,
		Log:    zap.NewNop(),
		Now:    func() time.Time { return now },
	}

	// first fetch hits the source, the second is served from cache
	src.EXPECT().Fetch(gomock.Any()).Return(first, nil).Times(1)
	got, err := cached.Fetch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, got)
	got, err = cached.Fetch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// expired and the source fails: stale data is served
	now = now.Add(2 * time.Minute)
	src.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("down")).Times(1)
	got, err = cached.Fetch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// invalidated and the source fails: the error surfaces
	cached.Invalidate()
	src.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("down")).Times(1)
	_, err = cached.Fetch(t.Context())
	require.Error(t, err)
}
