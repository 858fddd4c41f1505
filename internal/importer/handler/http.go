package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-menu-service/internal/entry"
	"github.com/fekuna/omnipos-menu-service/internal/importer"
	"github.com/fekuna/omnipos-menu-service/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImportHandler struct {
	uc     importer.UseCase
	logger logger.ZapLogger
}

func NewImportHandler(uc importer.UseCase, log logger.ZapLogger) *ImportHandler {
	return &ImportHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ImportHandler) Register(r gin.IRouter) {
	r.POST("/menus/:menu_id/imports", h.RequestImport)
	r.GET("/imports/:job_id", h.GetJob)
}

func (h *ImportHandler) RequestImport(c *gin.Context) {
	menuID, err := strconv.ParseInt(c.Param("menu_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": entry.ErrInvalidMenuID.Error()})
		return
	}

	var doc importer.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	job, err := h.uc.RequestImport(c.Request.Context(), menuID, &doc)
	if err != nil {
		h.fail(c, "request import", err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

func (h *ImportHandler) GetJob(c *gin.Context) {
	job, err := h.uc.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		h.fail(c, "get import job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *ImportHandler) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, importer.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, importer.ErrInvalidDocument), errors.Is(err, entry.ErrInvalidMenuID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("failed to "+op, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
