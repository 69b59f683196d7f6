package terminfo

import (
	"log"
	"os"
)

// Logger receives the non-fatal warnings spec.md §7 requires for
// CapabilityUntranslated, CapabilityTypeMismatch, UnsupportedEscape,
// InvalidPadding, and unrecognized translation-table rows. It mirrors the
// teacher's zli.Errorf convention (one line per warning, no structured
// fields) but is backed by the standard log.Logger rather than a bespoke
// writer, since that's how the rest of the retrieved pack handles this
// class of warning (see aymanbagabas-terminfo's use of log.Printf for the
// same failure modes).
type Logger interface {
	Warnf(format string, args ...any)
}

// DefaultLogger writes warnings to os.Stderr, prefixed "terminfo: ".
var DefaultLogger Logger = stdLogger{log.New(os.Stderr, "terminfo: ", 0)}

// NopLogger discards all warnings.
var NopLogger Logger = nopLogger{}

type stdLogger struct{ l *log.Logger }

func (s stdLogger) Warnf(format string, args ...any) { s.l.Printf(format, args...) }

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}
