package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/session"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

type ctxKey string

const requestKey ctxKey = "sessionRequest"

// sessionInterceptor builds the session.Request for every call. Callers
// without a session id, and callers whose id the handler replaced on login,
// get the id to use from now on in the response header.
func (s *GRPCServer) sessionInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	r := &session.Request{
		SessionID: first(md, common.SessionIDHeaderName),
		UserAgent: first(md, common.UserAgentHeaderName),
		Time:      s.now(),
	}

	incoming := r.SessionID
	if r.SessionID == "" {
		r.SessionID = uuid.NewString()
	}

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		r.ClientIP = hostOnly(p.Addr.String())
	}

	resp, err := handler(context.WithValue(ctx, requestKey, r), req)

	if r.SessionID != incoming {
		if herr := grpc.SetHeader(ctx, metadata.Pairs(common.SessionIDHeaderName, r.SessionID)); herr != nil {
			s.logger.Warn(ctx, "cannot send session id header", "method", info.FullMethod, "error", herr)
		}
	}
	return resp, err
}

// requestFrom returns the request the interceptor stored in ctx, or an empty
// one.
func requestFrom(ctx context.Context) *session.Request {
	if r, ok := ctx.Value(requestKey).(*session.Request); ok {
		return r
	}
	return &session.Request{}
}

func first(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
