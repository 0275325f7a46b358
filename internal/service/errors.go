package service

import (
	"errors"

	"mediareview/internal/biz"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// Error reasons carried by kratos errors.
const (
	ReasonValidation    = "VALIDATION"
	ReasonNotFound      = "NOT_FOUND"
	ReasonAlreadyExists = "ALREADY_EXISTS"
	ReasonStorage       = "STORAGE_FAILURE"
	ReasonInternal      = "INTERNAL"
)

// toKratosError maps biz error categories onto transport errors. The original
// error stays reachable through errors.Is / errors.As.
func toKratosError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, biz.ErrValidation):
		return kerrors.BadRequest(ReasonValidation, msg).WithCause(err)
	case errors.Is(err, biz.ErrNotFound):
		return kerrors.NotFound(ReasonNotFound, msg).WithCause(err)
	case errors.Is(err, biz.ErrAlreadyExists):
		return kerrors.Conflict(ReasonAlreadyExists, msg).WithCause(err)
	case errors.Is(err, biz.ErrStorage):
		return kerrors.ServiceUnavailable(ReasonStorage, msg).WithCause(err)
	default:
		return kerrors.InternalServer(ReasonInternal, msg).WithCause(err)
	}
}
