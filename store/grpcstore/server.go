package grpcstore

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Omerhrr/pyth-crosschain/seal"
	"github.com/Omerhrr/pyth-crosschain/store"
)

// Server exposes a store.Store over the RecordStore gRPC service.
//
// When Attestations is non-nil, Put routes through AttestationStore.Ingest
// so the daemon enforces the seal allowlist; otherwise records are stored
// verbatim (for replication between stores that both enforce seals).
type Server struct {
	UnimplementedRecordStoreServer
	Store        store.Store
	Attestations *store.AttestationStore
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing record store")
	}
	b := in.GetValue()
	expected, err := store.RecordID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "record id computation failed")
	}

	var id cid.Cid
	if s.Attestations != nil {
		id, err = s.Attestations.Ingest(b)
	} else {
		id, err = s.Store.Put(b)
	}
	if err != nil {
		return nil, mapErr(err)
	}
	if id.String() != expected.String() {
		return nil, status.Error(codes.DataLoss, store.ErrIDMismatch.Error())
	}
	return wrapperspb.String(id.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing record store")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, store.ErrInvalidID.Error())
	}
	b, err := s.Store.Get(id)
	if err != nil {
		return nil, mapErr(err)
	}
	got, err := store.RecordID(b)
	if err != nil {
		return nil, status.Error(codes.Internal, "record id computation failed")
	}
	if got.String() != id.String() {
		return nil, status.Error(codes.DataLoss, store.ErrIDMismatch.Error())
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	_ = ctx
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing record store")
	}
	id, err := cid.Decode(in.GetValue())
	if err != nil || !id.Defined() {
		return nil, status.Error(codes.InvalidArgument, store.ErrInvalidID.Error())
	}
	return wrapperspb.Bool(s.Store.Has(id)), nil
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case store.IsNotFound(err):
		return status.Error(codes.NotFound, err.Error())
	case err == store.ErrInvalidID:
		return status.Error(codes.InvalidArgument, err.Error())
	case err == store.ErrIDMismatch:
		return status.Error(codes.DataLoss, err.Error())
	case errors.Is(err, store.ErrUntrustedSealer), errors.Is(err, seal.ErrBadSeal):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
