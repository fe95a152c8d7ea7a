package fingerprintrpc

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"xdao.co/nodeid/fingerprint"
	"xdao.co/nodeid/trust"
)

var (
	ErrInvalidArgument = errors.New("fingerprintrpc: invalid argument")
	ErrNoPolicy        = errors.New("fingerprintrpc: no trust policy configured")
	ErrBadReply        = errors.New("fingerprintrpc: server reply failed local verification")
)

// mapErr converts a server-side error to a gRPC status.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var fpErr *fingerprint.Error
	switch {
	case errors.As(err, &fpErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNoPolicy):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, trust.ErrUnknownAddress):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, trust.ErrFingerprintMismatch):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// mapRPC converts a gRPC status back to the package sentinels. The server's
// message is kept as context.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.InvalidArgument:
		sentinel = ErrInvalidArgument
	case codes.FailedPrecondition:
		sentinel = ErrNoPolicy
	case codes.NotFound:
		sentinel = trust.ErrUnknownAddress
	case codes.PermissionDenied:
		sentinel = trust.ErrFingerprintMismatch
	default:
		return err
	}
	if st.Message() == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
