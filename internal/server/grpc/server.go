// Package grpc exposes the session manager over gRPC. The service is
// declared by hand on protobuf well-known types, so no generated stubs are
// needed on either side.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
	"google.golang.org/grpc"
)

// Sessions is what the transport needs from the session manager.
type Sessions interface {
	Login(ctx context.Context, req *session.Request, username, password string) (bool, error)
	Logout(ctx context.Context, req *session.Request) error
	CurrentUserID(ctx context.Context, req *session.Request) (int64, bool)
	CurrentUser(ctx context.Context, req *session.Request) (*models.UserView, error)
	HasPermission(ctx context.Context, req *session.Request, key string) bool
}

type GRPCServer struct {
	address  string
	sessions Sessions
	logger   logging.Logger
	now      func() time.Time
}

func NewGRPCServer(a string, l logging.Logger, sessions Sessions) (*GRPCServer, error) {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		sessions: sessions,
		now:      time.Now,
	}, nil
}

// NewServer creates a grpc.Server with the session interceptor installed and
// the auth service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(s.sessionInterceptor)}, opts...)
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&authServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
