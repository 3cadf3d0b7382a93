package errors

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// NotFoundError signals a mutation or lookup against an ID the store does
// not hold. The legacy behavior was a silent no-op; surfacing it keeps the
// failure mode observable and testable.
type NotFoundError struct {
	Kind string
	ID   string
}

func NewNotFoundError(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

func (e *NotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusNotFound, e.Error()).AddMetaValue("id", e.ID).AddMetaValue("kind", e.Kind)
}

func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// TransitionError signals a workflow operation applied in a state that does
// not allow it, e.g. confirming targets before the brand owner approved.
type TransitionError struct {
	ProductID string
	Op        string
	Message   string
}

func NewTransitionError(op, msg string) *TransitionError {
	return &TransitionError{Op: op, Message: msg}
}

func NewTransitionErrorf(op, format string, args ...any) *TransitionError {
	return &TransitionError{Op: op, Message: fmt.Sprintf(format, args...)}
}

func (e *TransitionError) Error() string {
	if e.ProductID == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: product '%s': %s", e.Op, e.ProductID, e.Message)
}

func (e *TransitionError) AddProduct(productID string) *TransitionError {
	e.ProductID = productID
	return e
}

func (e *TransitionError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error()).AddMetaValue("product_id", e.ProductID).AddMetaValue("op", e.Op)
}

func IsTransitionError(err error) bool {
	_, ok := err.(*TransitionError)
	return ok
}

// ToHTTPError maps any workflow error onto its HTTP form, defaulting to a
// 500 for anything unrecognized.
func ToHTTPError(err error) *httperror.HTTPError {
	switch e := err.(type) {
	case *NotFoundError:
		return e.ToHTTPError()
	case *TransitionError:
		return e.ToHTTPError()
	default:
		if httperror.IsHTTPError(err) {
			return httperror.ToHTTPError(err)
		}
		return httperror.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
