package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	fields := req.GetFields()
	username := fields["username"].GetStringValue()

	ok, err := s.sessions.Login(ctx, requestFrom(ctx), username, fields["password"].GetStringValue())
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err)
		if errors.Is(err, common.ErrNoSession) {
			return nil, status.Error(codes.FailedPrecondition, "no session")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Login", "username", username, "success", ok)
	return wrapperspb.Bool(ok), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.sessions.Logout(ctx, requestFrom(ctx)); err != nil {
		s.logger.Error(ctx, "logout failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Status(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	fields := map[string]interface{}{"authenticated": false}
	if id, ok := s.sessions.CurrentUserID(ctx, requestFrom(ctx)); ok {
		fields["authenticated"] = true
		fields["user_id"] = id
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) HasPermission(ctx context.Context, key *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.sessions.HasPermission(ctx, requestFrom(ctx), key.GetValue())), nil
}

func (s *GRPCServer) CurrentUser(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	u, err := s.sessions.CurrentUser(ctx, requestFrom(ctx))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, status.Error(codes.Unauthenticated, "unauthenticated")
		case errors.Is(err, common.ErrorNotFound):
			return nil, status.Error(codes.NotFound, "user not found")
		}
		s.logger.Error(ctx, "reading current user failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	out, err := structpb.NewStruct(userFields(u))
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func userFields(u *models.UserView) map[string]interface{} {
	fields := map[string]interface{}{
		"id":       u.ID,
		"username": u.UserName,
		"created":  u.Created.UTC().Format(time.RFC3339),
		"updated":  u.Updated.UTC().Format(time.RFC3339),
		"group":    nil,
	}
	if u.Group == nil {
		return fields
	}

	perms := make([]interface{}, 0, len(u.Group.Permissions))
	for _, p := range u.Group.Permissions {
		perms = append(perms, map[string]interface{}{"id": p.ID, "key": p.Key, "title": p.Title})
	}
	fields["group"] = map[string]interface{}{
		"id":          u.Group.ID,
		"title":       u.Group.Title,
		"permissions": perms,
	}
	return fields
}
