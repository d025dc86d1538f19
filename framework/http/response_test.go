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
)

// ── Envelopes ────────────────────────────────────────────────────────────────

func TestResponse_Envelopes(t *testing.T) {
	tests := []struct {
		name     string
		write    func(res *gohttp.Response)
		wantCode int
		wantBody string
	}{
		{
			name:     "success wraps data",
			write:    func(res *gohttp.Response) { res.Success(map[string]any{"key": "db"}) },
			wantCode: http.StatusOK,
			wantBody: `{"data":{"key":"db"}}`,
		},
		{
			name:     "raw json",
			write:    func(res *gohttp.Response) { res.JSON(http.StatusAccepted, []string{"a", "b"}) },
			wantCode: http.StatusAccepted,
			wantBody: `["a","b"]`,
		},
		{
			name:     "error carries message",
			write:    func(res *gohttp.Response) { res.Error(http.StatusConflict, "cycle") },
			wantCode: http.StatusConflict,
			wantBody: `{"message":"cycle"}`,
		},
		{
			name:     "not found default",
			write:    func(res *gohttp.Response) { res.NotFound() },
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"Not found."}`,
		},
		{
			name:     "not found custom",
			write:    func(res *gohttp.Response) { res.NotFound("No entry for [db].") },
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"No entry for [db]."}`,
		},
		{
			name:     "not found empty message falls back",
			write:    func(res *gohttp.Response) { res.NotFound("") },
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"Not found."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.write(gohttp.NewResponse(rr))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}

func TestResponse_NoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).NoContent()

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, rr.Body.Len())
	assert.Empty(t, rr.Header().Get("Content-Type"))
}

// ── Snapshot payload ─────────────────────────────────────────────────────────

func TestResponse_SuccessEncodesSnapshot(t *testing.T) {
	c := container.New()
	c.Instance("secret", "hunter2")
	require.NoError(t, c.Singleton("lazy", func(_ *container.Context) any { return 1 }))

	rr := httptest.NewRecorder()
	gohttp.NewResponse(rr).Success(c.Snapshot())
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Data container.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	require.Len(t, body.Data.Entries, 2)
	assert.Equal(t, "lazy", body.Data.Entries[0].Key)
	assert.False(t, body.Data.Entries[0].Resolved)

	// raw values stay out of the encoded snapshot
	assert.NotContains(t, rr.Body.String(), "hunter2")
	assert.Equal(t, "string", body.Data.Entries[1].Type)
}
