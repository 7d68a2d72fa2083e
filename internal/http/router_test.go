package apihttp_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/sacsbot/internal/calc"
	"github.com/example/sacsbot/internal/dialogue"
	"github.com/example/sacsbot/internal/handlers"
	apihttp "github.com/example/sacsbot/internal/http"
	"github.com/example/sacsbot/internal/rate"
	"github.com/example/sacsbot/internal/session"
	"github.com/example/sacsbot/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ pingErr error }

func (f fakePinger) Ping(context.Context) error { return f.pingErr }

type errString string

func (e errString) Error() string { return string(e) }

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newServer(t *testing.T, d apihttp.Deps) *httptest.Server {
	t.Helper()
	if d.Calc == nil {
		d.Calc = handlers.NewCalculateHandler(calc.New(calc.DefaultLimits()), quietLog())
	}
	if d.Limiter == nil {
		d.Limiter = rate.NewLimiterMap(1000, 1000, time.Minute)
		t.Cleanup(d.Limiter.Stop)
	}
	d.Log = quietLog()
	ts := httptest.NewServer(apihttp.NewRouter(d))
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, hdr map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	cases := []struct {
		name  string
		store session.Pinger
		want  int
	}{
		{"no store", nil, http.StatusOK},
		{"store ok", fakePinger{}, http.StatusOK},
		{"store down", fakePinger{pingErr: errString("down")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newServer(t, apihttp.Deps{Store: tc.store})
			resp := get(t, ts, "/healthz", nil)
			assert.Equal(t, tc.want, resp.StatusCode)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestCalculateRoute(t *testing.T) {
	ts := newServer(t, apihttp.Deps{})
	resp := get(t, ts, "/api/calculate?lines=11&bags=8", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out types.CalculateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 113, out.Total)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimit429(t *testing.T) {
	lm := rate.NewLimiterMap(10, 10, time.Minute)
	defer lm.Stop()
	ts := newServer(t, apihttp.Deps{Limiter: lm})

	var got429 int
	for i := 0; i < 11; i++ {
		resp := get(t, ts, "/api/limits", nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			got429++
		}
	}
	assert.Equal(t, 1, got429)
}

func TestAdminRoutesMountedOnlyWithHandler(t *testing.T) {
	ts := newServer(t, apihttp.Deps{})
	assert.Equal(t, http.StatusNotFound, get(t, ts, "/admin/sessions/1", nil).StatusCode)

	store := session.NewMemoryStore(time.Minute)
	defer store.Stop()
	require.NoError(t, store.Save(context.Background(), dialogue.Session{ChatID: 1, State: dialogue.AwaitingLines}))
	ts2 := newServer(t, apihttp.Deps{Admin: handlers.NewAdminHandler(store, "tok", quietLog()), Store: store})
	assert.Equal(t, http.StatusUnauthorized, get(t, ts2, "/admin/sessions/1", nil).StatusCode)
	assert.Equal(t, http.StatusOK, get(t, ts2, "/admin/sessions/1", map[string]string{"X-Admin-Token": "tok"}).StatusCode)
}
