package fingerprintrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "xdao.nodeid.fingerprintrpc.v1.Fingerprints"

// FingerprintsServer is the server API for the Fingerprints gRPC service.
//
// Messages are protobuf well-known types so this package does not require a
// protoc/codegen toolchain.
//
// Proto definition: fingerprints.proto.
type FingerprintsServer interface {
	Derive(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Canonicalize(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Verify(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	Authenticate(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
}

// UnimplementedFingerprintsServer can be embedded to have forward compatible implementations.
type UnimplementedFingerprintsServer struct{}

func (UnimplementedFingerprintsServer) Derive(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Derive not implemented")
}
func (UnimplementedFingerprintsServer) Canonicalize(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Canonicalize not implemented")
}
func (UnimplementedFingerprintsServer) Verify(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Verify not implemented")
}
func (UnimplementedFingerprintsServer) Authenticate(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}

// RegisterFingerprintsServer registers the Fingerprints service on a gRPC server.
func RegisterFingerprintsServer(s grpc.ServiceRegistrar, srv FingerprintsServer) {
	s.RegisterService(&Fingerprints_ServiceDesc, srv)
}

// FingerprintsClient is the client API for the Fingerprints gRPC service.
type FingerprintsClient interface {
	Derive(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Canonicalize(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Authenticate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type fingerprintsClient struct{ cc grpc.ClientConnInterface }

func NewFingerprintsClient(cc grpc.ClientConnInterface) FingerprintsClient {
	return &fingerprintsClient{cc: cc}
}

func (c *fingerprintsClient) Derive(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Derive", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fingerprintsClient) Canonicalize(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Canonicalize", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fingerprintsClient) Verify(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Verify", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *fingerprintsClient) Authenticate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Authenticate", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Fingerprints_Derive_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FingerprintsServer).Derive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Derive"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FingerprintsServer).Derive(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Fingerprints_Canonicalize_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FingerprintsServer).Canonicalize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Canonicalize"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FingerprintsServer).Canonicalize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Fingerprints_Verify_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FingerprintsServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Verify"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FingerprintsServer).Verify(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _Fingerprints_Authenticate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(FingerprintsServer).Authenticate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/Authenticate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(FingerprintsServer).Authenticate(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Fingerprints_ServiceDesc is the grpc.ServiceDesc for Fingerprints service.
var Fingerprints_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FingerprintsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Derive", Handler: _Fingerprints_Derive_Handler},
		{MethodName: "Canonicalize", Handler: _Fingerprints_Canonicalize_Handler},
		{MethodName: "Verify", Handler: _Fingerprints_Verify_Handler},
		{MethodName: "Authenticate", Handler: _Fingerprints_Authenticate_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fingerprints.proto",
}
