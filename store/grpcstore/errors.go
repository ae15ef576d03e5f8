package grpcstore

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Omerhrr/pyth-crosschain/store"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.InvalidArgument:
		// Server uses InvalidArgument for malformed/undefined record IDs.
		return store.ErrInvalidID
	case codes.DataLoss:
		// Server uses DataLoss when bytes do not match the requested ID.
		return store.ErrIDMismatch
	case codes.PermissionDenied:
		// Server refused the record (bad seal or untrusted sealer).
		return store.ErrUntrustedSealer
	default:
		// Best-effort: if the server sent a known store error message,
		// preserve it.
		switch st.Message() {
		case store.ErrNotFound.Error():
			return store.ErrNotFound
		case store.ErrInvalidID.Error():
			return store.ErrInvalidID
		case store.ErrIDMismatch.Error():
			return store.ErrIDMismatch
		default:
			return err
		}
	}
}
