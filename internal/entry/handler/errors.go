package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func errorCode(err error) codes.Code {
	switch {
	case errors.Is(err, entry.ErrEntryNotFound):
		return codes.NotFound
	case errors.Is(err, entry.ErrInvalidInput),
		errors.Is(err, entry.ErrInvalidMenuID),
		errors.Is(err, entry.ErrParentMenuMismatch),
		errors.Is(err, entry.ErrCyclicParent):
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// grpcError converts a use case error into a status error. Internal errors
// are logged and their details hidden from the caller.
func grpcError(log logger.ZapLogger, op string, err error) error {
	code := errorCode(err)
	if code == codes.Internal {
		log.Error("failed to "+op, zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.NotFound:
		return http.StatusNotFound
	case codes.InvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
