package httpx

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
)

func TestDo_DefaultHeaders(t *testing.T) {
    var gotAgent, gotCookie string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotAgent = r.Header.Get("User-Agent")
        gotCookie = r.Header.Get("Cookie")
        w.WriteHeader(http.StatusNoContent)
    }))
    defer srv.Close()

    c := New(2 * time.Second)
    c.Headers = map[string]string{"Cookie": "A=1"}

    req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
    require.NoError(t, err)
    res, err := c.Do(req)
    require.NoError(t, err)
    res.Body.Close()

    require.Equal(t, "stockly/1.0", gotAgent)
    require.Equal(t, "A=1", gotCookie)
}

func TestDo_RequestHeadersWin(t *testing.T) {
    var gotAgent string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotAgent = r.Header.Get("User-Agent")
    }))
    defer srv.Close()

    req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, http.NoBody)
    require.NoError(t, err)
    req.Header.Set("User-Agent", "browser")
    res, err := New(time.Second).Do(req)
    require.NoError(t, err)
    res.Body.Close()

    require.Equal(t, "browser", gotAgent)
}
