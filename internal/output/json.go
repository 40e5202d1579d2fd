package output

import (
	"encoding/json"
	"io"
	"time"
)

// TimestampedResponse is embedded in every JSON document.
type TimestampedResponse struct {
	Timestamp string `json:"timestamp"`
}

// NewTimestamped stamps a response with the current UTC time.
func NewTimestamped() TimestampedResponse {
	return TimestampedResponse{Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// ErrorResponse reports a failure in JSON mode.
type ErrorResponse struct {
	TimestampedResponse
	Error string `json:"error"`
}

// NewError creates an error response.
func NewError(msg string) ErrorResponse {
	return ErrorResponse{TimestampedResponse: NewTimestamped(), Error: msg}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// VersionResponse describes the build.
type VersionResponse struct {
	TimestampedResponse
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuiltAt   string `json:"built_at"`
	BuiltBy   string `json:"built_by"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}
