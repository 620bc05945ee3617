// Package apperr defines the closed set of failure kinds raised by the domain and
// application layers. Errors are built with samber/oops so that the kind travels as the
// error code and stays discoverable through any amount of wrapping.
package apperr

import (
	"fmt"
	"strings"

	"github.com/samber/oops"
)

// Kind is a stable, transport-independent failure category.
type Kind string

const (
	InvalidArgument    Kind = "invalid-argument"
	NotFound           Kind = "not-found"
	AlreadyExists      Kind = "already-exists"
	PermissionDenied   Kind = "permission-denied"
	Unauthenticated    Kind = "unauthenticated"
	FailedPrecondition Kind = "failed-precondition"
	Aborted            Kind = "aborted"
	OutOfRange         Kind = "out-of-range"
	Unimplemented      Kind = "unimplemented"
	Internal           Kind = "internal"
	Unavailable        Kind = "unavailable"
	DataLoss           Kind = "data-loss"
)

var kinds = map[Kind]struct{}{
	InvalidArgument: {}, NotFound: {}, AlreadyExists: {}, PermissionDenied: {},
	Unauthenticated: {}, FailedPrecondition: {}, Aborted: {}, OutOfRange: {},
	Unimplemented: {}, Internal: {}, Unavailable: {}, DataLoss: {},
}

const (
	fieldKey        = "field"
	unclassifiedKey = "unclassified"
)

// New creates an error of the given kind. The message is also the public message
// exposed to callers.
func New(kind Kind, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return oops.Code(string(kind)).Public(msg).Errorf("%s", msg)
}

// Invalid creates an InvalidArgument error that identifies the offending field.
func Invalid(field, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return oops.Code(string(InvalidArgument)).
		With(fieldKey, field).
		Public(msg).
		Errorf("%s", msg)
}

// Wrap attaches kind to err unless err already carries a kind, in which case the
// more specific inner kind is kept and only the message is added. A kind stamped onto
// an unclassified error gets the wrap message as its public message, so the cause's
// text never reaches callers.
func Wrap(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if _, ok := lookup(err); ok {
		return oops.Wrapf(err, format, args...)
	}
	msg := fmt.Sprintf(format, args...)
	return oops.Code(string(kind)).
		With(unclassifiedKey, true).
		Public(msg).
		Wrapf(err, "%s", msg)
}

// Unclassified reports whether err's kind was stamped by Wrap onto a cause that had
// none, such as a driver or broker failure.
func Unclassified(err error) bool {
	oe, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	v, ok := oe.Context()[unclassifiedKey].(bool)
	return ok && v
}

// KindOf reports the kind carried by err. Errors without a kind are Internal.
func KindOf(err error) Kind {
	if k, ok := lookup(err); ok {
		return k
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// Field returns the field name attached by Invalid, if any.
func Field(err error) string {
	oe, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	if v, ok := oe.Context()[fieldKey]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

// PublicMessage returns the caller-facing message for err. Internal failures never
// leak their detail.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	kind := KindOf(err)
	if kind == Internal {
		return "internal error"
	}
	return oops.GetPublic(err, strings.ReplaceAll(string(kind), "-", " "))
}

func lookup(err error) (Kind, bool) {
	if err == nil {
		return "", false
	}
	oe, ok := oops.AsOops(err)
	if !ok {
		return "", false
	}
	code := fmt.Sprint(oe.Code())
	if _, known := kinds[Kind(code)]; !known {
		return "", false
	}
	return Kind(code), true
}
