package handlers

import (
	"errors"
	"io"
	"net/http"

	"creatorhub_backend/internal/services/dto"
	"creatorhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// formImage достает необязательный файл из multipart формы.
// Вызывающий обязан вызвать closer, если он не nil.
func formImage(c *gin.Context, field string) (*dto.ImageUpload, io.Closer, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, apperrors.NewBadRequestError("Invalid file upload: " + err.Error())
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.InternalError(err)
	}

	return &dto.ImageUpload{
		Reader:      file,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, file, nil
}
