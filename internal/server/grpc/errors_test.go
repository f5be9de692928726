package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: name: cannot be blank", common.ErrValidation), codes.InvalidArgument},
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
		{common.ErrorInternal, codes.Internal},
		{errors.New("pq: relation does not exist"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(toStatus(tt.err)))
		})
	}
}

func TestToStatus_DoesNotLeakInternals(t *testing.T) {
	st := status.Convert(toStatus(errors.New("dial tcp 10.0.0.5:5432: refused")))
	assert.Equal(t, "internal error", st.Message())
}

func TestToStatus_CredentialMessagesMatch(t *testing.T) {
	// unknown user and wrong password both arrive as ErrInvalidCredentials
	a := status.Convert(toStatus(common.ErrInvalidCredentials))
	b := status.Convert(toStatus(fmt.Errorf("login: %w", common.ErrInvalidCredentials)))
	assert.Equal(t, a.Code(), b.Code())
	assert.Equal(t, a.Message(), b.Message())
}

func TestToStatus_ValidationDetails(t *testing.T) {
	st := status.Convert(toStatus(fmt.Errorf("%w: email: must be a valid email address", common.ErrValidation)))
	assert.Contains(t, st.Message(), "email")
}
