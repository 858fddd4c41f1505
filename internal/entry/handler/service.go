package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const serviceName = "omnipos.menu.v1.MenuEntryService"

// MenuEntryServiceServer is the gRPC surface of the entry use case. Messages
// are protobuf well-known types, so clients need no generated stubs.
type MenuEntryServiceServer interface {
	GetMenuStructure(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetEntry(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateEntry(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEntry(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
	SearchEntries(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

var MenuEntryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*MenuEntryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMenuStructure", Handler: unary("GetMenuStructure", MenuEntryServiceServer.GetMenuStructure)},
		{MethodName: "GetEntry", Handler: unary("GetEntry", MenuEntryServiceServer.GetEntry)},
		{MethodName: "CreateEntry", Handler: unary("CreateEntry", MenuEntryServiceServer.CreateEntry)},
		{MethodName: "UpdateEntry", Handler: unary("UpdateEntry", MenuEntryServiceServer.UpdateEntry)},
		{MethodName: "DeleteEntry", Handler: unary("DeleteEntry", MenuEntryServiceServer.DeleteEntry)},
		{MethodName: "SearchEntries", Handler: unary("SearchEntries", MenuEntryServiceServer.SearchEntries)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: menuEntryProtoFile,
}

func RegisterMenuEntryServiceServer(s grpc.ServiceRegistrar, srv MenuEntryServiceServer) {
	s.RegisterService(&MenuEntryService_ServiceDesc, srv)
}

func unary[Req, Resp any](method string, call func(MenuEntryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MenuEntryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MenuEntryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
