package fmp_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"stockly/internal/provider"
	"stockly/internal/provider/fmp"
)

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	// Assert: a key should still return a client.
	client, err := fmp.NewClient("test")
	require.NoError(t, err)
	require.NotNil(t, client)
	require.Equal(t, "fmp", client.Name())
}

func TestRecords_KeyMetrics(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock controller
	ctrl := gomock.NewController(t)

	// Arrange: create a mock HTTP client
	httpClient := NewMockHTTPClient(ctrl)

	// Assert: stub the Do method
	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, http.MethodGet, req.Method)
			require.Equal(t, "/api/v3/key-metrics/AAPL", req.URL.Path)
			require.Equal(t, "test-key", req.URL.Query().Get("apikey"))
			require.Equal(t, "quarter", req.URL.Query().Get("period"))

			return jsonResponse(http.StatusOK, `[
				{"date":"2023-12-31","peRatio":15.2},
				{"date":"2022-12-31","peRatio":null}
			]`), nil
		}).
		Times(1)

	// Arrange: setup a new client
	client, err := fmp.NewClient("test-key", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	// Act
	records, err := client.Records(t.Context(), " aapl ", provider.KeyMetrics, provider.Quarter)

	// Assert
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "2023-12-31", records[0]["date"])
	require.Nil(t, records[1]["peRatio"])
}

func TestRecords_SegmentsUseV4Query(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/v4/revenue-geographic-segmentation", req.URL.Path)
			require.Equal(t, "MSFT", req.URL.Query().Get("symbol"))
			require.Equal(t, "flat", req.URL.Query().Get("structure"))
			return jsonResponse(http.StatusOK, `[{"2023-06-30":{"United States":1}}]`), nil
		}).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	records, err := client.Records(t.Context(), "MSFT", provider.GeoSegments, provider.Annual)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestTTM(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/v3/ratios-ttm/AAPL", req.URL.Path)
			return jsonResponse(http.StatusOK, `[{"returnOnEquityTTM":1.6}]`), nil
		}).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	records, err := client.TTM(t.Context(), "AAPL", provider.Ratios)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Act: a family without a TTM endpoint never reaches the network
	_, err = client.TTM(t.Context(), "AAPL", provider.IncomeStatement)
	require.ErrorIs(t, err, provider.ErrUnsupported)
}

func TestRecords_EmptyPayloadIsInvalidSymbol(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusOK, `[]`), nil).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	records, err := client.Records(t.Context(), "NOPE", provider.IncomeStatement, provider.Annual)
	require.ErrorIs(t, err, provider.ErrInvalidSymbol)
	require.Nil(t, records)
}

func TestRecords_ErrorObject(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusOK, `{"Error Message":"Invalid ticker"}`), nil).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Records(t.Context(), "NOPE", provider.Ratios, provider.Annual)
	require.ErrorIs(t, err, provider.ErrInvalidSymbol)

	var apiErr *fmp.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Invalid ticker", apiErr.Message)
}

func TestRecords_ErrUnexpectedStatusCode(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusInternalServerError, `boom`), nil).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Records(t.Context(), "AAPL", provider.CashFlow, provider.Annual)

	var apiErr *fmp.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "boom", apiErr.Message)
	require.False(t, errors.Is(err, provider.ErrInvalidSymbol))
}

func TestRecords_ErrPerformingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("error")
		}).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	records, err := client.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
	require.Error(t, err)
	require.Nil(t, records)
}

func TestRecords_ErrCreatingRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Times(0)

	client, err := fmp.NewClient("", fmp.WithHTTPClient(httpClient), fmp.WithBaseURL(string([]rune{0x7f})))
	require.NoError(t, err)

	records, err := client.Records(t.Context(), "AAPL", provider.KeyMetrics, provider.Annual)
	require.Error(t, err)
	require.Nil(t, records)
}

func TestRecords_EmptySymbol(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Times(0)

	client, err := fmp.NewClient("", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	_, err = client.Records(t.Context(), "  ", provider.KeyMetrics, provider.Annual)
	require.ErrorIs(t, err, provider.ErrInvalidSymbol)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, "/api/v3/search", req.URL.Path)
			require.Equal(t, "apple", req.URL.Query().Get("query"))
			require.Equal(t, "NASDAQ", req.URL.Query().Get("exchange"))
			require.Equal(t, "yes", req.Header.Get("X-Test"))

			buffer := &bytes.Buffer{}
			buffer.WriteString(`[{"symbol":"AAPL","name":"Apple Inc.","currency":"USD","exchangeShortName":"NASDAQ"},{"name":"no symbol"}]`)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(buffer)}, nil
		}).
		Times(1)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient), fmp.WithHeader(http.Header{"X-Test": []string{"yes"}}))
	require.NoError(t, err)

	got, err := client.Search(t.Context(), "apple")
	require.NoError(t, err)
	require.Equal(t, []provider.Company{{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD", Exchange: "NASDAQ"}}, got)
}

func TestSearch_BlankQuerySkipsRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().Do(gomock.Any()).Times(0)

	client, err := fmp.NewClient("k", fmp.WithHTTPClient(httpClient))
	require.NoError(t, err)

	got, err := client.Search(t.Context(), " ")
	require.NoError(t, err)
	require.Empty(t, got)
}
