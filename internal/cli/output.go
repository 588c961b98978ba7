package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/theaarondumas/unitflow/internal/config"
	"github.com/theaarondumas/unitflow/internal/record"
	"github.com/theaarondumas/unitflow/internal/store"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected entry, storage fault or failed scenarios
	ExitCommandError = 2 // Bad arguments, unreadable config or database
)

// Error codes carried in JSON error responses.
const (
	CodeValidation = "E_VALIDATION"
	CodeStorage    = "E_STORAGE"
	CodeUsage      = "E_USAGE"
	CodeScenario   = "E_SCENARIO"
	CodeInternal   = "E_INTERNAL"
)

// ExitError carries the process exit code for a failed command.
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

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code for err: ExitSuccess for nil, the
// ExitError code when there is one, ExitFailure otherwise.
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

// classify maps a domain error to its response code and exit code.
func classify(err error) (code string, exit int) {
	var exitErr *ExitError
	switch {
	case record.IsValidationError(err):
		return CodeValidation, ExitFailure
	case store.IsStorageError(err):
		return CodeStorage, ExitFailure
	case errors.As(err, &exitErr) && exitErr.Code == ExitCommandError:
		return CodeUsage, ExitCommandError
	case errors.As(err, &exitErr):
		return CodeInternal, exitErr.Code
	}
	return CodeInternal, ExitFailure
}

// OutputFormatter writes command results as JSON envelopes or plain text.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; defaults to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope for every command result.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error body of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON reports whether output is the JSON envelope.
func (f *OutputFormatter) JSON() bool {
	return f.Format == config.FormatJSON
}

// Success writes data. In text mode data is printed with fmt.Fprintln, so
// callers pass a ready-made string or a fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return f.respond(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an error response.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return f.respond(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
// Validation errors list the missing fields as details.
func (f *OutputFormatter) Fail(message string, err error) error {
	code, exit := classify(err)

	var details any
	var verr *record.ValidationError
	if errors.As(err, &verr) {
		details = map[string]any{"missing": verr.Missing}
	}
	if werr := f.Error(code, fmt.Sprintf("%s: %v", message, err), details); werr != nil {
		return werr
	}
	return WrapExitError(exit, message, err)
}

// respond encodes resp as one line of JSON.
func (f *OutputFormatter) respond(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// VerboseLog writes a diagnostic line when verbose output is on. Diagnostics
// go to ErrWriter so JSON on Writer stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, or Writer when it is unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
