package http

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/routing"
)

// ContainerHandler exposes a container over HTTP for inspection.
//
//	GET    /            → snapshot of every entry
//	GET    /{key}       → resolve key; ?arg=a&arg=b resolves positionally
//	DELETE /{key}       → remove key
type ContainerHandler struct {
	c   *container.Container
	log *zap.Logger
}

// NewContainerHandler creates a handler over c.
func NewContainerHandler(c *container.Container, log *zap.Logger) *ContainerHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ContainerHandler{c: c, log: log}
}

// Routes mounts the handler's endpoints on r.
//
//	router.Prefix("/_container", handler.Routes)
func (h *ContainerHandler) Routes(r *routing.Router) {
	r.Get("/", h.Index)
	r.Get("/{key}", h.Show)
	r.Delete("/{key}", h.Destroy)
}

// Index lists every entry.
func (h *ContainerHandler) Index(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(h.c.Snapshot())
}

// Show resolves a single key.
func (h *ContainerHandler) Show(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	key := routing.Param(r, "key")

	if !h.c.Has(key) {
		res.NotFound(fmt.Sprintf("No entry for [%s].", key))
		return
	}

	var args []any
	for _, a := range r.URL.Query()["arg"] {
		args = append(args, a)
	}

	// Resolve only fails on a cycle, which means the wiring is wrong.
	v, err := h.c.Resolve(key, args...)
	if err != nil {
		h.log.Warn("container resolution failed", zap.String("key", key), zap.Error(err))
		res.Error(http.StatusConflict, err.Error())
		return
	}

	// A deferred provider swaps its placeholder for the real entry during
	// Resolve, so the kind is read afterwards.
	kind, ok := h.c.KindOf(key)
	if !ok {
		res.NotFound(fmt.Sprintf("No entry for [%s].", key))
		return
	}

	res.Success(map[string]any{
		"key":   key,
		"kind":  kind.String(),
		"type":  fmt.Sprintf("%T", v),
		"value": render(v),
	})
}

// Destroy removes a key.
func (h *ContainerHandler) Destroy(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	key := routing.Param(r, "key")

	if !h.c.Has(key) {
		res.NotFound(fmt.Sprintf("No entry for [%s].", key))
		return
	}
	h.c.Remove(key)
	h.log.Info("container entry removed", zap.String("key", key))
	res.NoContent()
}

// render keeps JSON scalars as-is and prints everything else.
func render(v any) any {
	switch x := v.(type) {
	case nil, string, bool, int, int64, float64:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
