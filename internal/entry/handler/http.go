package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/entry/dto"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
)

type HTTPHandler struct {
	uc     entry.UseCase
	logger logger.ZapLogger
}

func NewHTTPHandler(uc entry.UseCase, log logger.ZapLogger) *HTTPHandler {
	return &HTTPHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *HTTPHandler) Register(r gin.IRouter) {
	menus := r.Group("/menus/:menu_id")
	menus.GET("/structure", h.GetMenuStructure)
	menus.GET("/search", h.SearchEntries)

	entries := r.Group("/entries")
	entries.POST("", h.CreateEntry)
	entries.GET("/:id", h.GetEntry)
	entries.PATCH("/:id", h.UpdateEntry)
	entries.DELETE("/:id", h.DeleteEntry)
}

func (h *HTTPHandler) GetMenuStructure(c *gin.Context) {
	menuID, ok := pathID(c, "menu_id")
	if !ok {
		h.fail(c, "get menu structure", entry.ErrInvalidMenuID)
		return
	}

	menu, err := h.uc.GetMenuStructure(c.Request.Context(), menuID)
	if err != nil {
		h.fail(c, "get menu structure", err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (h *HTTPHandler) SearchEntries(c *gin.Context) {
	menuID, ok := pathID(c, "menu_id")
	if !ok {
		h.fail(c, "search entries", entry.ErrInvalidMenuID)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	hits, err := h.uc.SearchEntries(c.Request.Context(), &dto.SearchFilters{
		MenuID: menuID,
		Query:  c.Query("q"),
		Limit:  limit,
	})
	if err != nil {
		h.fail(c, "search entries", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hits": hits})
}

func (h *HTTPHandler) GetEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.fail(c, "get entry", entry.ErrEntryNotFound)
		return
	}

	e, err := h.uc.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "get entry", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *HTTPHandler) CreateEntry(c *gin.Context) {
	var input dto.CreateEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	e, err := h.uc.CreateEntry(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, "create entry", err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *HTTPHandler) UpdateEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.fail(c, "update entry", entry.ErrEntryNotFound)
		return
	}

	var input dto.UpdateEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.ID = id

	e, err := h.uc.UpdateEntry(c.Request.Context(), &input)
	if err != nil {
		h.fail(c, "update entry", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *HTTPHandler) DeleteEntry(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		h.fail(c, "delete entry", entry.ErrEntryNotFound)
		return
	}

	if err := h.uc.DeleteEntry(c.Request.Context(), id); err != nil {
		h.fail(c, "delete entry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) fail(c *gin.Context, op string, err error) {
	code := errorCode(err)
	if code == codes.Internal {
		h.logger.Error("failed to "+op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(httpStatus(code), gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
