package handlers

import (
	"net/http"
	"strconv"
)

// pageParams reads limit/offset query parameters, leaving zero values for the
// repo layer to clamp.
func pageParams(r *http.Request) (limit, offset int) {
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, _ = strconv.Atoi(v)
	}
	return limit, offset
}
