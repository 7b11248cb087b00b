// Package emuerr defines the error-kind taxonomy shared by the core
// subsystems (cartridge, cpu, ppu). It exists so a host can switch on
// the failure category instead of matching error strings.
package emuerr

import "fmt"

// Kind classifies a failure the core can raise.
type Kind int

const (
	// InvalidCartridge covers bad magic bytes or a PRG/CHR slice that
	// extends past the supplied image.
	InvalidCartridge Kind = iota
	// UnsupportedMapper is raised when a cartridge names a mapper id
	// other than 0. The loader still falls back to NROM; this kind is
	// exposed so a host can detect and report the fallback.
	UnsupportedMapper
	// FatalCpu covers BRK in test contexts and bus routing invariant
	// violations that should abort the stepping loop.
	FatalCpu
	// InvalidArgument covers host-supplied arguments outside their
	// documented domain, such as a pattern-table index not in {0,1}.
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case InvalidCartridge:
		return "InvalidCartridge"
	case UnsupportedMapper:
		return "UnsupportedMapper"
	case FatalCpu:
		return "FatalCpu"
	case InvalidArgument:
		return "InvalidArgument"
	default:
		return "Unknown"
	}
}

// Error wraps a message with a Kind and, optionally, an underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an Error that carries an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
