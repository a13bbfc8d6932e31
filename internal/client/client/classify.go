package client

import (
	"fmt"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FieldError is one per-field validation message, in backend order.
type FieldError struct {
	Field   string
	Message string
}

// Failure is a failed call described independently of the transport.
// Status 0 means the server could not be reached.
type Failure struct {
	Status      int
	Message     string
	FieldErrors []FieldError
	// Detail is logged locally for server errors, never shown.
	Detail string
	// Cause is returned unchanged when Status is not classified.
	Cause error
}

// Classify maps f onto exactly one outcome. Classified statuses yield an
// *Error; any other status yields f.Cause as is.
func Classify(f Failure) error {
	switch f.Status {
	case 0:
		return newError(f, ErrUnavailable, MsgUnavailable)
	case http.StatusUnauthorized:
		return newError(f, ErrUnauthorized, MsgSessionExpired)
	case http.StatusForbidden:
		return newError(f, ErrForbidden, orDefault(f.Message, MsgForbidden))
	case http.StatusNotFound:
		return newError(f, ErrNotFound, orDefault(f.Message, MsgNotFound))
	case http.StatusConflict:
		return newError(f, ErrConflict, orDefault(f.Message, MsgConflict))
	case http.StatusBadRequest:
		if len(f.FieldErrors) == 0 {
			return newError(f, ErrValidation, orDefault(f.Message, MsgValidation))
		}
		e := newError(f, ErrValidation, FormatFieldErrors(f.FieldErrors))
		e.FieldErrors = make(map[string]string, len(f.FieldErrors))
		for _, fe := range f.FieldErrors {
			e.FieldErrors[fe.Field] = fe.Message
		}
		return e
	case http.StatusInternalServerError:
		return newError(f, ErrServer, MsgServer)
	default:
		if f.Cause != nil {
			return f.Cause
		}
		return fmt.Errorf("unexpected status %d", f.Status)
	}
}

func newError(f Failure, kind error, msg string) *Error {
	return &Error{Status: f.Status, Message: msg, kind: kind, cause: f.Cause}
}

func orDefault(msg, fallback string) string {
	if strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

// FormatFieldErrors renders field errors as "<Field Name>: <msg>" joined by ". ".
func FormatFieldErrors(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, FormatFieldName(fe.Field)+": "+fe.Message)
	}
	return strings.Join(parts, ". ")
}

// FormatFieldName turns a camelCase field into a label:
// "billboardId" becomes "Billboard ID".
func FormatFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	name := b.String()

	if first, size := utf8.DecodeRuneInString(name); size > 0 {
		name = string(unicode.ToUpper(first)) + name[size:]
	}

	if name == "Id" {
		return "ID"
	}
	if strings.HasSuffix(name, " Id") {
		name = strings.TrimSuffix(name, "Id") + "ID"
	}
	return name
}
