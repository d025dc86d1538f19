// Package http provides JSON response helpers and the container inspection
// endpoints.
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(map[string]any{"id": 1})   // 200 {"data": {...}}
//	res.NotFound()                          // 404 {"message": "Not found."}
//	res.NoContent()                         // 204
//
// # Container endpoints
//
//	h := gohttp.NewContainerHandler(c, logger)
//	router.Prefix("/_container", h.Routes)
//
//	GET    /_container               {"data": {"count": 3, "entries": [...]}}
//	GET    /_container/request.id    {"data": {"key": "request.id", "kind": "factory", ...}}
//	GET    /_container/request.id?arg=req
//	DELETE /_container/request.id    204
package http
