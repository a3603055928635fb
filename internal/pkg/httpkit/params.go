package httpkit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/shop-services/internal/pkg/validation"
)

// DefaultLimit is the page size used when a list request sets none.
const DefaultLimit = 100

// Page is the skip/limit window of a list request.
type Page struct {
	Skip  int `json:"skip" validate:"gte=0"`
	Limit int `json:"limit" validate:"gte=1,lte=1000"`
}

// ParsePage reads skip and limit from the query string.
func ParsePage(r *http.Request) (Page, error) {
	page := Page{Limit: DefaultLimit}

	skip, err := QueryInt(r, "skip")
	if err != nil {
		return Page{}, err
	}
	if skip != nil {
		page.Skip = int(*skip)
	}

	limit, err := QueryInt(r, "limit")
	if err != nil {
		return Page{}, err
	}
	if limit != nil {
		page.Limit = int(*limit)
	}

	if err := validation.Validate(page); err != nil {
		return Page{}, err
	}
	return page, nil
}

// QueryInt returns the named query parameter as an integer, or nil when it is
// absent.
func QueryInt(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, validation.NewError(name, "int", "Input should be a valid integer")
	}
	return &v, nil
}

// PathID parses the named chi URL parameter as a row id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, validation.NewError(name, "int", "Input should be a valid integer")
	}
	return id, nil
}
