// Package errors renders command failures for the terminal.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/bamboocare/internal/logger"
)

const prefix = "Error: "

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Format prefixes err for display. A nil error renders as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return prefix + err.Error()
}

func Formatf(format string, args ...any) string {
	return prefix + fmt.Sprintf(format, args...)
}

// Fatal logs err, prints it to stderr and exits with status 1. It is a no-op
// for nil.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("bamboocare failed", "error", err)
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}

func Fatalf(format string, args ...any) {
	Fatal(fmt.Errorf(format, args...))
}
