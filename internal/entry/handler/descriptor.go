package handler

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

const menuEntryProtoFile = "omnipos/menu/v1/menu_entry.proto"

// menuEntryFileDescriptor describes MenuEntryService so server reflection
// (grpcurl describe, list) can resolve its methods and message types.
var menuEntryFileDescriptor = &descriptorpb.FileDescriptorProto{
	Name:    proto.String(menuEntryProtoFile),
	Package: proto.String("omnipos.menu.v1"),
	Dependency: []string{
		"google/protobuf/empty.proto",
		"google/protobuf/struct.proto",
		"google/protobuf/wrappers.proto",
	},
	Service: []*descriptorpb.ServiceDescriptorProto{{
		Name: proto.String("MenuEntryService"),
		Method: []*descriptorpb.MethodDescriptorProto{
			rpc("GetMenuStructure", ".google.protobuf.Int64Value", ".google.protobuf.Struct"),
			rpc("GetEntry", ".google.protobuf.Int64Value", ".google.protobuf.Struct"),
			rpc("CreateEntry", ".google.protobuf.Struct", ".google.protobuf.Struct"),
			rpc("UpdateEntry", ".google.protobuf.Struct", ".google.protobuf.Struct"),
			rpc("DeleteEntry", ".google.protobuf.Int64Value", ".google.protobuf.Empty"),
			rpc("SearchEntries", ".google.protobuf.Struct", ".google.protobuf.ListValue"),
		},
	}},
	Syntax: proto.String("proto3"),
}

func rpc(name, in, out string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(in),
		OutputType: proto.String(out),
	}
}

func init() {
	fd, err := protodesc.NewFile(menuEntryFileDescriptor, protoregistry.GlobalFiles)
	if err != nil {
		panic("menu entry descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("menu entry descriptor: " + err.Error())
	}
}
