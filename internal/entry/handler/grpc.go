package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ MenuEntryServiceServer = (*EntryHandler)(nil)

type EntryHandler struct {
	uc     entry.UseCase
	logger logger.ZapLogger
}

func NewEntryHandler(uc entry.UseCase, log logger.ZapLogger) *EntryHandler {
	return &EntryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *EntryHandler) GetMenuStructure(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	menu, err := h.uc.GetMenuStructure(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(h.logger, "get menu structure", err)
	}
	return h.toStruct(menu)
}

func (h *EntryHandler) GetEntry(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	e, err := h.uc.GetEntry(ctx, req.GetValue())
	if err != nil {
		return nil, grpcError(h.logger, "get entry", err)
	}
	return h.toStruct(e)
}

func (h *EntryHandler) CreateEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.CreateEntryInput
	if err := fromStruct(req, &input); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	e, err := h.uc.CreateEntry(ctx, &input)
	if err != nil {
		return nil, grpcError(h.logger, "create entry", err)
	}
	return h.toStruct(e)
}

func (h *EntryHandler) UpdateEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input dto.UpdateEntryInput
	if err := fromStruct(req, &input); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	e, err := h.uc.UpdateEntry(ctx, &input)
	if err != nil {
		return nil, grpcError(h.logger, "update entry", err)
	}
	return h.toStruct(e)
}

func (h *EntryHandler) DeleteEntry(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := h.uc.DeleteEntry(ctx, req.GetValue()); err != nil {
		return nil, grpcError(h.logger, "delete entry", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *EntryHandler) SearchEntries(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	var filters dto.SearchFilters
	if err := fromStruct(req, &filters); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	hits, err := h.uc.SearchEntries(ctx, &filters)
	if err != nil {
		return nil, grpcError(h.logger, "search entries", err)
	}

	items, err := toPlain[[]any](hits)
	if err != nil {
		return nil, grpcError(h.logger, "encode search hits", err)
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, grpcError(h.logger, "encode search hits", err)
	}
	return list, nil
}

func (h *EntryHandler) toStruct(v any) (*structpb.Struct, error) {
	m, err := toPlain[map[string]any](v)
	if err != nil {
		return nil, grpcError(h.logger, "encode response", err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, grpcError(h.logger, "encode response", err)
	}
	return s, nil
}

// toPlain re-encodes v through its JSON form so responses carry the same
// snake_case keys on gRPC as on HTTP.
func toPlain[T any](v any) (T, error) {
	var out T
	data, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}

func fromStruct(s *structpb.Struct, v any) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
