package errors

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"

	"github.com/julianstephens/habitlog/internal/api"
	"github.com/julianstephens/habitlog/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %v", err)
	if hint := Hint(err); hint != "" {
		msg += "\n       " + hint
	}
	return msg
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a follow-up suggestion for errors the user can act on.
func Hint(err error) string {
	var netErr net.Error
	var httpErr *api.HTTPError
	switch {
	case stderrors.Is(err, api.ErrUnauthorized):
		return "Your session has ended. Run 'habitlog auth login' to sign in again."
	case stderrors.As(err, &httpErr) && httpErr.Status == 404:
		return "The item was not found. It may have been deleted already."
	case stderrors.As(err, &httpErr) && httpErr.Status >= 500:
		return "The server failed to handle the request. Try again later."
	case stderrors.As(err, &netErr):
		return "Could not reach the server. Check --api-url or HABITLOG_API_URL."
	}
	return ""
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs a formatted error message and exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
