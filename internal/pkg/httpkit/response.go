// Package httpkit holds the HTTP plumbing shared by the shop services: JSON
// responses, request binding, query parsing and the common middleware stack.
package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shop-services/internal/pkg/validation"
)

func init() {
	// Money goes over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string                      `json:"error"`
	Detail string                      `json:"detail,omitempty"`
	Fields []validation.FieldViolation `json:"fields,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse without field details.
func WriteError(w http.ResponseWriter, status int, code, detail string) {
	WriteJSON(w, status, ErrorResponse{
		Error:  code,
		Detail: detail,
	})
}

// WriteValidationError writes 422 with the failing fields of a
// *validation.Error. Any other error is reported as 400.
func WriteValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:  "validation_error",
		Detail: "request validation failed",
		Fields: verr.Fields,
	})
}

// Bind decodes the JSON body into dst and validates it. When it returns false
// the error response has already been written.
func Bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			WriteValidationError(w, validation.NewError(typeErr.Field, "type",
				fmt.Sprintf("Input should be a valid %s", typeErr.Type)))
			return false
		}
		WriteError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	if err := validation.Validate(dst); err != nil {
		WriteValidationError(w, err)
		return false
	}
	return true
}
