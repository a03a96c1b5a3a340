package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodyBytes caps the size of a JSON request body.
const MaxRequestBodyBytes = 1 << 20

// ErrInvalidRequestBody is returned by DecodeJSON for bodies that are empty,
// malformed, oversized, or followed by trailing data.
var ErrInvalidRequestBody = errors.New("invalid request body")

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	dec := json.NewDecoder(body)

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequestBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrInvalidRequestBody)
	}
	return nil
}
