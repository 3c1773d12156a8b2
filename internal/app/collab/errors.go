// internal/app/collab/errors.go
package collab

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure this package returns, so the
// upstream layer can map conflict vs not-found vs internal without
// string matching.
type ErrorKind int

const (
	// KindInternal covers store and decoder failures with no more
	// specific classification.
	KindInternal ErrorKind = iota

	// KindInvalidInput: a validation precondition failed. No side
	// effects were performed.
	KindInvalidInput

	// KindDepthLimitExceeded: the requested traversal depth is over the
	// hard ceiling. A flavor of invalid input, kept distinct so callers
	// can report the limit.
	KindDepthLimitExceeded

	// KindAlreadyExists: create on an existing membership.
	KindAlreadyExists

	// KindNotFound: read on an absent membership or document.
	KindNotFound

	// KindNamespaceNotFound: publish namespace with no workspace bound.
	KindNamespaceNotFound

	// KindPolicyUpdateFailure: the policy store rejected an update; the
	// surrounding transaction was rolled back.
	KindPolicyUpdateFailure

	// KindCommitFailure: transaction commit failed after the logical
	// operations succeeded. Recovery state is ambiguous.
	KindCommitFailure

	// KindMaterializationFailure: the encoded document could not be
	// decoded; wraps the decoder diagnostic.
	KindMaterializationFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindDepthLimitExceeded:
		return "depth_limit_exceeded"
	case KindAlreadyExists:
		return "already_exists"
	case KindNotFound:
		return "not_found"
	case KindNamespaceNotFound:
		return "namespace_not_found"
	case KindPolicyUpdateFailure:
		return "policy_update_failure"
	case KindCommitFailure:
		return "commit_failure"
	case KindMaterializationFailure:
		return "materialization_failure"
	}
	return "internal"
}

// Error is the structured error returned by every operation in this
// package.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return e.Msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the ErrorKind from err, or KindInternal when err does
// not originate here.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// coerce keeps an *Error as-is and wraps anything else as internal, so
// store errors never leak unclassified.
func coerce(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return wrapError(KindInternal, err, format, args...)
}
