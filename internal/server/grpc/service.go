package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "gophauth.AuthService"

// authServer is the server side of gophauth.AuthService.
type authServer interface {
	Login(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	Logout(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Status(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	HasPermission(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	CurrentUser(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*authServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", authServer.Login),
		unary("Logout", authServer.Logout),
		unary("Status", authServer.Status),
		unary("HasPermission", authServer.HasPermission),
		unary("CurrentUser", authServer.CurrentUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophauth/auth.proto",
}

// unary adapts a typed method to a grpc.MethodDesc, the way generated code
// does for each method.
func unary[Req, Resp any](name string, call func(authServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(authServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(authServer), ctx, req.(*Req))
			})
		},
	}
}

// AuthClient calls gophauth.AuthService.
type AuthClient struct {
	cc grpc.ClientConnInterface
}

func NewAuthClient(cc grpc.ClientConnInterface) *AuthClient {
	return &AuthClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthClient) Login(ctx context.Context, username, password string, opts ...grpc.CallOption) (bool, error) {
	in, err := structpb.NewStruct(map[string]interface{}{"username": username, "password": password})
	if err != nil {
		return false, err
	}
	out, err := invoke[wrapperspb.BoolValue](ctx, c.cc, "Login", in, opts...)
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *AuthClient) Logout(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "Logout", &emptypb.Empty{}, opts...)
	return err
}

func (c *AuthClient) Status(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "Status", &emptypb.Empty{}, opts...)
}

func (c *AuthClient) HasPermission(ctx context.Context, key string, opts ...grpc.CallOption) (bool, error) {
	out, err := invoke[wrapperspb.BoolValue](ctx, c.cc, "HasPermission", wrapperspb.String(key), opts...)
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *AuthClient) CurrentUser(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "CurrentUser", &emptypb.Empty{}, opts...)
}
