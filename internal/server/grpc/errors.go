package grpc

import (
	"errors"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	kind error
	code codes.Code
}{
	{common.ErrValidation, codes.InvalidArgument},
	{common.ErrPasswordMismatch, codes.InvalidArgument},
	{common.ErrInvalidRequest, codes.InvalidArgument},
	{common.ErrInvalidOtp, codes.InvalidArgument},
	{common.ErrAlreadyExists, codes.AlreadyExists},
	{common.ErrAlreadyRegistered, codes.AlreadyExists},
	{common.ErrNoPendingRegistration, codes.FailedPrecondition},
	{common.ErrInvalidCredentials, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrNotificationFailed, codes.Unavailable},
}

// toStatus maps an error kind to a gRPC status. Anything else becomes an
// opaque Internal.
func toStatus(err error) error {
	for _, ec := range errorCodes {
		if !errors.Is(err, ec.kind) {
			continue
		}
		msg := ec.kind.Error()
		if ec.kind == common.ErrValidation {
			// field details are safe to show
			msg = err.Error()
		}
		return status.Error(ec.code, msg)
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
