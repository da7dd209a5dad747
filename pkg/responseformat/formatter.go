// Package responseformat encodes and writes API responses as JSON or
// MessagePack, selected per request.
package responseformat

import (
	"encoding/json"
	"net/http"

	"github.com/vmihailenco/msgpack/v5"
)

// Formatter handles encoding and writing responses in JSON or MessagePack format
type Formatter struct{}

// NewFormatter creates a new response formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

// WriteResponse writes the response in the appropriate format based on the query parameter.
// JSON is the default format. MessagePack is used when format=msgpack is specified.
func (f *Formatter) WriteResponse(w http.ResponseWriter, req *http.Request, data any) error {
	return f.WriteResponseWithStatus(w, req, http.StatusOK, data)
}

// WriteResponseWithStatus behaves like WriteResponse with an explicit HTTP status code.
func (f *Formatter) WriteResponseWithStatus(w http.ResponseWriter, req *http.Request, status int, data any) error {
	// Always set CORS header
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Check if MessagePack is requested via format=msgpack query parameter
	if req.URL.Query().Get("format") == "msgpack" {
		return f.writeMsgPack(w, status, data)
	}

	// Default to JSON format (when no format parameter or any other value)
	return f.writeJSON(w, status, data)
}

func (f *Formatter) writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func (f *Formatter) writeMsgPack(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/x-msgpack")
	w.WriteHeader(status)
	encoder := msgpack.NewEncoder(w)
	encoder.SetCustomStructTag("json") // Use json tags for MessagePack
	return encoder.Encode(data)
}
