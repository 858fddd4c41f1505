package handler

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/entry/format"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestGRPC_GetEntry(t *testing.T) {
	uc := &stubUseCase{display: &format.Display{
		Fields: format.Fields{ID: 4, Kind: format.KindCategory, Name: "Starters", Tags: []format.Tag{}},
		Items:  []format.Item{},
	}}
	h := NewEntryHandler(uc, logger.NewNop())

	res, err := h.GetEntry(context.Background(), wrapperspb.Int64(4))

	require.NoError(t, err)
	assert.Equal(t, int64(4), uc.gotID)
	assert.Equal(t, "Starters", res.Fields["name"].GetStringValue())
	assert.Equal(t, "category", res.Fields["kind"].GetStringValue())
	assert.NotNil(t, res.Fields["items"].GetListValue())
}

func TestGRPC_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{entry.ErrEntryNotFound, codes.NotFound},
		{entry.ErrInvalidMenuID, codes.InvalidArgument},
		{entry.ErrParentMenuMismatch, codes.InvalidArgument},
		{entry.ErrCyclicParent, codes.InvalidArgument},
		{errors.Join(entry.ErrInvalidInput, errors.New("name is required")), codes.InvalidArgument},
		{errors.New("disk full"), codes.Internal},
	}
	for _, tt := range tests {
		h := NewEntryHandler(&stubUseCase{err: tt.err}, logger.NewNop())
		_, err := h.GetMenuStructure(context.Background(), wrapperspb.Int64(1))
		assert.Equal(t, tt.code, status.Code(err), tt.err.Error())
	}
}

func TestGRPC_CreateEntryDecodesStruct(t *testing.T) {
	uc := &stubUseCase{entry: &model.Entry{BaseModel: model.BaseModel{ID: 11}, MenuID: 1, Name: "Bruschetta"}}
	h := NewEntryHandler(uc, logger.NewNop())

	req, err := structpb.NewStruct(map[string]any{
		"menu_id":    1,
		"parent_id":  3,
		"name":       "Bruschetta",
		"price":      8.99,
		"order":      2,
		"properties": map[string]any{"spicy": false},
	})
	require.NoError(t, err)

	res, err := h.CreateEntry(context.Background(), req)
	require.NoError(t, err)

	in := uc.gotCreate
	require.NotNil(t, in)
	assert.Equal(t, int64(1), in.MenuID)
	assert.Equal(t, int64(3), *in.ParentID)
	assert.Equal(t, 8.99, *in.Price)
	assert.Equal(t, 2, in.SortOrder)
	assert.JSONEq(t, `{"spicy":false}`, string(in.Properties))
	assert.Equal(t, float64(11), res.Fields["id"].GetNumberValue())
}

func TestGRPC_SearchEntries(t *testing.T) {
	uc := &stubUseCase{hits: []dto.SearchHit{{ID: 3, MenuID: 1, Name: "Bruschetta", Tags: []string{"Vegetarian"}, Score: 1.2}}}
	h := NewEntryHandler(uc, logger.NewNop())

	req, _ := structpb.NewStruct(map[string]any{"menu_id": 1, "query": "brus"})
	res, err := h.SearchEntries(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, &dto.SearchFilters{MenuID: 1, Query: "brus"}, uc.gotFilters)
	require.Len(t, res.Values, 1)
	assert.Equal(t, "Bruschetta", res.Values[0].GetStructValue().Fields["name"].GetStringValue())
}

func TestGRPC_ServiceOverTheWire(t *testing.T) {
	uc := &stubUseCase{display: &format.Display{Fields: format.Fields{ID: 2, Name: "Soup"}}}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterMenuEntryServiceServer(srv, NewEntryHandler(uc, logger.NewNop()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	out := &structpb.Struct{}
	err = conn.Invoke(ctx, "/omnipos.menu.v1.MenuEntryService/GetEntry", wrapperspb.Int64(2), out)
	require.NoError(t, err)
	assert.Equal(t, "Soup", out.Fields["name"].GetStringValue())

	uc.err = entry.ErrEntryNotFound
	err = conn.Invoke(ctx, "/omnipos.menu.v1.MenuEntryService/DeleteEntry", wrapperspb.Int64(2), &emptypb.Empty{})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
