package remote

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/docrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCStore talks to the gophnotes document server.
type GRPCStore struct {
	conn        *grpc.ClientConn
	client      *docrpc.Client
	accessToken string
}

// NewGRPCStore builds the client; grpc.NewClient connects lazily, so this
// does not fail when the server is down.
func NewGRPCStore(addr, accessToken string, opts ...grpc.DialOption) (*GRPCStore, error) {
	s := &GRPCStore{accessToken: accessToken}
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client: %w", err)
	}
	s.conn = conn
	s.client = docrpc.NewClient(conn)
	return s, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCStore) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCStore) Set(ctx context.Context, collection, id string, fields models.Fields) error {
	req, err := docrpc.SetRequest(collection, id, fields)
	if err != nil {
		return err
	}
	if _, err := s.client.Set(ctx, req); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) Get(ctx context.Context, collection, id string) (models.Fields, error) {
	resp, err := s.client.Get(ctx, docrpc.KeyRequest(collection, id))
	if err != nil {
		return nil, mapError(err)
	}
	doc := docrpc.ParseGetResponse(resp)
	if doc == nil {
		return nil, nil
	}
	return models.Fields(doc), nil
}

func (s *GRPCStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Delete(ctx, docrpc.KeyRequest(collection, id)); err != nil {
		return mapError(err)
	}
	return nil
}

func (s *GRPCStore) Query(ctx context.Context, collection, field string, value any) ([]models.Fields, error) {
	req, err := docrpc.QueryRequest(collection, field, value)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	docs := docrpc.ParseQueryResponse(resp)
	out := make([]models.Fields, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Fields(d))
	}
	return out, nil
}

func (s *GRPCStore) Ping(ctx context.Context) error {
	return mapError(s.client.Ping(ctx))
}

func (s *GRPCStore) Close() error {
	return s.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
