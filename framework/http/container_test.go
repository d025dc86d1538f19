package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/framework/http"
	"github.com/km-arc/go-container/framework/routing"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func newContainerRouter(t *testing.T, c *container.Container) *routing.Router {
	t.Helper()
	r := routing.New(nil)
	r.Prefix("/_container", gohttp.NewContainerHandler(c, nil).Routes)
	return r
}

func serve(r *routing.Router, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Data
}

// ── Index ────────────────────────────────────────────────────────────────────

func TestContainerHandler_Index(t *testing.T) {
	c := container.New()
	c.Instance("name", "app")
	require.NoError(t, c.Factory("id", func(_ *container.Context) any { return 1 }))

	rr := serve(newContainerRouter(t, c), http.MethodGet, "/_container/")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData(t, rr)
	assert.Equal(t, float64(2), data["count"])

	entries, ok := data["entries"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	assert.Equal(t, "id", first["key"])
	assert.Equal(t, "factory", first["kind"])
	assert.Equal(t, false, first["resolved"])

	second := entries[1].(map[string]any)
	assert.Equal(t, "name", second["key"])
	assert.Equal(t, "string", second["type"])
}

// ── Show ─────────────────────────────────────────────────────────────────────

func TestContainerHandler_Show(t *testing.T) {
	c := container.New()
	c.Instance("port", 8000)

	rr := serve(newContainerRouter(t, c), http.MethodGet, "/_container/port")
	require.Equal(t, http.StatusOK, rr.Code)

	data := decodeData(t, rr)
	assert.Equal(t, "port", data["key"])
	assert.Equal(t, "value", data["kind"])
	assert.Equal(t, "int", data["type"])
	assert.Equal(t, float64(8000), data["value"])
}

func TestContainerHandler_Show_PositionalArgs(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Factory("greeting", func(ctx *container.Context) any {
		if !ctx.Positional() {
			return "hello"
		}
		out := "hello"
		for _, a := range ctx.Args() {
			out += " " + a.(string)
		}
		return out
	}))
	r := newContainerRouter(t, c)

	data := decodeData(t, serve(r, http.MethodGet, "/_container/greeting"))
	assert.Equal(t, "hello", data["value"])

	data = decodeData(t, serve(r, http.MethodGet, "/_container/greeting?arg=big&arg=gopher"))
	assert.Equal(t, "hello big gopher", data["value"])
}

type clockProvider struct {
	container.BaseProvider
}

func (p *clockProvider) Register(c *container.Container) {
	_ = c.Singleton("clock", func(_ *container.Context) any { return "utc" })
}

func (p *clockProvider) IsDeferred() bool   { return true }
func (p *clockProvider) Provides() []string { return []string{"clock"} }

func TestContainerHandler_Show_DeferredReportsLoadedKind(t *testing.T) {
	c := container.New()
	container.NewProviderRegistry(c).Register(&clockProvider{})

	kind, _ := c.KindOf("clock")
	require.Equal(t, container.KindFactory, kind, "placeholder")

	data := decodeData(t, serve(newContainerRouter(t, c), http.MethodGet, "/_container/clock"))
	assert.Equal(t, "singleton", data["kind"])
	assert.Equal(t, "utc", data["value"])
}

func TestContainerHandler_Show_Unknown(t *testing.T) {
	rr := serve(newContainerRouter(t, container.New()), http.MethodGet, "/_container/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestContainerHandler_Show_Cycle(t *testing.T) {
	c := container.New()
	var inner error
	require.NoError(t, c.Factory("a", func(ctx *container.Context) any {
		_, inner = ctx.Container().Resolve("a")
		return "a"
	}))

	rr := serve(newContainerRouter(t, c), http.MethodGet, "/_container/a")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.ErrorIs(t, inner, container.ErrCyclicResolution)
}

// ── Destroy ──────────────────────────────────────────────────────────────────

func TestContainerHandler_Destroy(t *testing.T) {
	c := container.New()
	c.Instance("db", "conn")
	r := newContainerRouter(t, c)

	rr := serve(r, http.MethodDelete, "/_container/db")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, c.Has("db"))

	rr = serve(r, http.MethodDelete, "/_container/db")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
