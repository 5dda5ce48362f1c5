package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const maxBodyBytes = 64 << 10

// Request is the inbound request handed to endpoint handlers.
type Request struct {
	*http.Request
}

// DecodeBody reads exactly one JSON object into dst. Unknown fields, trailing
// data and bodies over 64 KiB all yield a 400 invalid-format error.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil || r.Body == http.NoBody {
		return goerror.NewInvalidFormat()
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var trailing json.RawMessage
	switch {
	case dec.Decode(dst) != nil:
		return goerror.NewInvalidFormat()
	case !errors.Is(dec.Decode(&trailing), io.EOF):
		return goerror.NewInvalidFormat("Request body must contain a single JSON object")
	}

	return nil
}
