package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxPageLimit = 100

var errBadPagination = errors.New("page and limit must be positive integers")

type pageParams struct {
	page  int
	limit int
	set   bool
}

// parsePaginationParams reads ?page and ?limit. Without either, lists are
// returned whole.
func parsePaginationParams(pageStr, limitStr string) (pageParams, error) {
	params := pageParams{page: 1, limit: 20}
	if pageStr == "" && limitStr == "" {
		return params, nil
	}
	params.set = true

	if pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p < 1 {
			return pageParams{}, errBadPagination
		}
		params.page = p
	}

	if limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 {
			return pageParams{}, errBadPagination
		}
		params.limit = min(l, maxPageLimit)
	}

	return params, nil
}

func paginate[T any](items []T, p pageParams) []T {
	if !p.set {
		return items
	}
	if p.page-1 > len(items)/p.limit {
		return []T{}
	}
	start := (p.page - 1) * p.limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+p.limit, len(items))
	return items[start:end]
}

// pageFromQuery aborts the request with 400 on malformed parameters.
func pageFromQuery(c *gin.Context, route string) (pageParams, bool) {
	params, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, "page and limit must be positive integers")
		return pageParams{}, false
	}
	return params, true
}

// listResponse adds paging metadata when the caller asked for a page.
func listResponse(key string, total int, items any, p pageParams) gin.H {
	body := gin.H{"success": true, "count": total, key: items}
	if p.set {
		body["page"] = p.page
		body["limit"] = p.limit
	}
	return body
}
