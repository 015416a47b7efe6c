package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/coregx/sqlobject"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Query or database failure
	ExitCommandError = 2 // Bad flags, manifest or arguments
)

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope of every command.
type Response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

// APIError is the error payload of a JSON response.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Success outputs data: lines of text, or a JSON envelope.
func (f *OutputFormatter) Success(data any, lines ...string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(f.Writer, l); err != nil {
			return err
		}
	}
	return nil
}

// Error outputs err in the configured format.
func (f *OutputFormatter) Error(err error) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &APIError{Code: GetExitCode(err), Message: err.Error()},
		})
	}
	_, werr := fmt.Fprintf(f.Writer, "Error: %v\n", err)
	return werr
}

// Records outputs records as attribute maps (json) or one Inspect line each (text).
func (f *OutputFormatter) Records(records []*sqlobject.Record) error {
	data := make([]sqlobject.Attributes, len(records))
	lines := make([]string, len(records))
	for i, r := range records {
		data[i] = r.Attributes()
		lines[i] = r.Inspect()
	}
	if len(records) == 0 {
		lines = []string{"(no records)"}
	}
	return f.Success(data, lines...)
}

// Record outputs one record, or a placeholder when r is nil.
func (f *OutputFormatter) Record(r *sqlobject.Record) error {
	if r == nil {
		return f.Success(nil, "(nil)")
	}
	return f.Success(r.Attributes(), r.Inspect())
}
