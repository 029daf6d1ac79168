package graphql

import (
	"context"
	stderrors "errors"

	"github.com/graphql-go/graphql/gqlerrors"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
)

// Error codes reported in extensions.code
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeNotFound         = "NOT_FOUND"
	CodeTransient        = "TRANSIENT_ERROR"
	CodeDeadlineExceeded = "DEADLINE_EXCEEDED"
	CodeCancelled        = "CANCELLED"
	CodeInternal         = "INTERNAL_ERROR"
	CodeQuery            = "QUERY_ERROR"
)

// Error is a resolver error as exposed to clients
type Error struct {
	Message   string
	Code      string
	Operation string
	Retryable bool
	err       error
}

// Error returns the client facing message
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.err
}

// Extensions implements gqlerrors.ExtendedError
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":      e.Code,
		"operation": e.Operation,
	}
	if e.Retryable {
		ext["retryable"] = true
	}
	return ext
}

var _ gqlerrors.ExtendedError = (*Error)(nil)

// mapError converts a domain error into an Error coded by its class
func mapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var gqlErr *Error
	if stderrors.As(err, &gqlErr) {
		return gqlErr
	}

	e := &Error{Operation: operation, err: err}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		e.Code, e.Message = CodeDeadlineExceeded, "Query timeout exceeded"
	case stderrors.Is(err, context.Canceled):
		e.Code, e.Message = CodeCancelled, "Query cancelled"
	default:
		switch errors.Classify(err) {
		case errors.ErrorInvalid:
			e.Code, e.Message = CodeInvalidInput, "Invalid input: "+err.Error()
		case errors.ErrorNotFound:
			e.Code, e.Message = CodeNotFound, err.Error()
		case errors.ErrorTransient:
			e.Code, e.Message, e.Retryable = CodeTransient, "Temporary error: database unavailable", true
		default:
			e.Code, e.Message = CodeInternal, "Internal server error"
		}
	}
	return e
}

// originalError digs through graphql-go's error wrappers to the resolver error
func originalError(err error) error {
	for err != nil {
		wrapped, ok := err.(interface{ OriginalError() error })
		if !ok {
			return err
		}
		next := wrapped.OriginalError()
		if next == nil {
			return err
		}
		err = next
	}
	return nil
}

// annotateErrors attaches extensions to errors graphql-go left bare and returns
// the code of each error, in order. Validation and null-propagation errors,
// which carry no resolver error, are coded QUERY_ERROR.
func annotateErrors(list []gqlerrors.FormattedError) []string {
	codes := make([]string, len(list))
	for i := range list {
		var gqlErr *Error
		if stderrors.As(originalError(list[i]), &gqlErr) {
			if list[i].Extensions == nil {
				list[i].Extensions = gqlErr.Extensions()
			}
			codes[i] = gqlErr.Code
			continue
		}
		if code, ok := list[i].Extensions["code"].(string); ok {
			codes[i] = code
			continue
		}
		codes[i] = CodeQuery
	}
	return codes
}
