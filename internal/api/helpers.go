package api

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v5"
)

const (
	defaultPageSize = 100
	maxPageSize     = 10000
)

// intParam parses a non-negative integer; empty input yields def.
func intParam(name, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newInvalidRequest(name, fmt.Sprintf("%s must be an integer, got %q", name, raw))
	}
	if v < 0 {
		return 0, newInvalidRequest(name, fmt.Sprintf("%s must not be negative", name))
	}
	return v, nil
}

func pageParams(c *echo.Context) (offset, limit int, err error) {
	offset, err = intParam("offset", c.QueryParam("offset"), 0)
	if err != nil {
		return 0, 0, err
	}
	limit, err = intParam("limit", c.QueryParam("limit"), defaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	if limit == 0 || limit > maxPageSize {
		return 0, 0, newInvalidRequest("limit", fmt.Sprintf("limit must be between 1 and %d", maxPageSize))
	}
	return offset, limit, nil
}
