package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophnotes/internal/docrpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Set(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection, id, fields, err := docrpc.ParseSet(req)
	if err != nil {
		return nil, badRequest(err)
	}

	if err := s.documents.Set(ctx, collection, id, fields); err != nil {
		s.logger.Error(ctx, "set failed", "collection", collection, "id", id, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Debug(ctx, "document stored", "collection", collection, "id", id, "user_id", userIDFromContext(ctx))
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection, id, err := docrpc.ParseKey(req)
	if err != nil {
		return nil, badRequest(err)
	}

	doc, err := s.documents.Get(ctx, collection, id)
	if err != nil {
		s.logger.Error(ctx, "get failed", "collection", collection, "id", id, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := docrpc.GetResponse(doc)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	collection, id, err := docrpc.ParseKey(req)
	if err != nil {
		return nil, badRequest(err)
	}

	if err := s.documents.Delete(ctx, collection, id); err != nil {
		s.logger.Error(ctx, "delete failed", "collection", collection, "id", id, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Query(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	collection, field, value, err := docrpc.ParseQuery(req)
	if err != nil {
		return nil, badRequest(err)
	}

	docs, err := s.documents.Query(ctx, collection, field, value)
	if err != nil {
		s.logger.Error(ctx, "query failed", "collection", collection, "field", field, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	resp, err := docrpc.QueryResponse(docs)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *GRPCServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func badRequest(err error) error {
	if errors.Is(err, docrpc.ErrBadRequest) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
