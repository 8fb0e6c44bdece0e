package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vijaygla/HRMS-sub000/internal/handler/http/response"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/pagination"
	"github.com/vijaygla/HRMS-sub000/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON decodes the request body into dst and answers 400 on failure.
// An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	slog.Debug("decode request body", "path", r.URL.Path, "error", err)
	response.BadRequest(w, "Invalid request format", nil)
	return false
}

func queryString(q url.Values, key string) *string {
	if v := q.Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(q url.Values, key string, errs *validator.ValidationErrors) *int {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		errs.Add(key, key+" must be a number")
		return nil
	}
	return &n
}

// pageParams reads page and limit; range checks happen in Params.Normalize.
func pageParams(q url.Values, errs *validator.ValidationErrors) pagination.Params {
	var p pagination.Params
	if page := queryInt(q, "page", errs); page != nil {
		p.Page = *page
	}
	if limit := queryInt(q, "limit", errs); limit != nil {
		p.Limit = *limit
	}
	return p
}
