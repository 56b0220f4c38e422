package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies conversion failures. Kinds other than
// KindInternalInconsistency describe bad input and can be shown to the user.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindMalformedDocument
	KindUnrecognizedDocumentShape
	KindIncompleteDocument
	KindInternalInconsistency
	KindUnsupportedFile
	KindNotFound
	KindInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedDocument:
		return "malformed_document"
	case KindUnrecognizedDocumentShape:
		return "unrecognized_document_shape"
	case KindIncompleteDocument:
		return "incomplete_document"
	case KindInternalInconsistency:
		return "internal_inconsistency"
	case KindUnsupportedFile:
		return "unsupported_file"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    ErrorKind
	Path    string // document path for IncompleteDocument
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so errors.Is(err, ErrIncompleteDocument) holds for any
// incomplete document error regardless of path.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

var (
	ErrMalformedDocument         = &Error{Kind: KindMalformedDocument, Message: "malformed document"}
	ErrUnrecognizedDocumentShape = &Error{Kind: KindUnrecognizedDocumentShape, Message: "unrecognized document shape"}
	ErrIncompleteDocument        = &Error{Kind: KindIncompleteDocument, Message: "incomplete document, missing"}
	ErrInternalInconsistency     = &Error{Kind: KindInternalInconsistency, Message: "internal inconsistency"}
	ErrUnsupportedFile           = &Error{Kind: KindUnsupportedFile, Message: "unsupported file"}
	ErrNotFound                  = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInvalidArgument           = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
)

func MalformedDocument(err error) error {
	return &Error{Kind: KindMalformedDocument, Message: ErrMalformedDocument.Message, Err: err}
}

func UnrecognizedDocumentShape(root string) error {
	return &Error{
		Kind:    KindUnrecognizedDocumentShape,
		Message: fmt.Sprintf("unrecognized document shape: root element %q is neither Benchmark nor CHECKLIST", root),
	}
}

func IncompleteDocument(path string) error {
	return &Error{Kind: KindIncompleteDocument, Message: ErrIncompleteDocument.Message, Path: path}
}

func InternalInconsistency(format string, args ...any) error {
	return &Error{
		Kind:    KindInternalInconsistency,
		Message: fmt.Sprintf("internal inconsistency: "+format, args...),
	}
}

func UnsupportedFile(format string, args ...any) error {
	return &Error{Kind: KindUnsupportedFile, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsUserError reports whether err was caused by the submitted document or
// request rather than by a bug.
func IsUserError(err error) bool {
	switch KindOf(err) {
	case KindMalformedDocument, KindUnrecognizedDocumentShape, KindIncompleteDocument, KindUnsupportedFile, KindInvalidArgument:
		return true
	}
	return false
}
