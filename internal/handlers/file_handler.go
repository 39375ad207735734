package handlers

import (
	"io"
	"mime"
	"net/http"
	"path"

	"creatorhub_backend/internal/logger"
	"creatorhub_backend/internal/storage"
	"creatorhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler отдает файлы локального хранилища (аватары, картинки сообщений, подписи)
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, storage storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	files := r.Group("/files")
	{
		files.GET("/*path", h.ServeFile)
		files.HEAD("/*path", h.CheckFileExists)
	}
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key, err := storage.CleanKey(c.Param("path"))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid file path"))
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), key)
	if err != nil || !exists {
		apperrors.HandleError(c, apperrors.ErrNotFound(err))
		return
	}

	reader, err := h.storage.Get(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeFor(key))
	c.Header("Cache-Control", "public, max-age=31536000")
	c.Header("Content-Disposition", "inline")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		logger.CtxWithError(c.Request.Context(), "failed to stream file", err, "key", key)
	}
}

func (h *FileHandler) CheckFileExists(c *gin.Context) {
	key, err := storage.CleanKey(c.Param("path"))
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	exists, err := h.storage.Exists(c.Request.Context(), key)
	if err != nil || !exists {
		c.Status(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", contentTypeFor(key))
	c.Status(http.StatusOK)
}

func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
