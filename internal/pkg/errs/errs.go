// Package errs is the error plumbing for the whole service. Usecase
// sentinels (ErrReplay, ErrAlreadyClosed, ...) are built with New and
// surfaced with Mark so handlers can match them with errors.Is while the
// wrapped cause keeps its stack for the logs.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// Wrap annotates err with msg, keeping the original stack trace.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

// Mark makes err match markErr under errors.Is without losing err itself.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders the verbose form for log output, truncated to
// maxLines (0 keeps everything).
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
