package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caa-backend/internal/http/response"
	"github.com/yungbote/caa-backend/internal/services"
)

const uploadField = "imagem"

var (
	errNoImage      = errors.New("Nenhuma imagem enviada")
	errNoFileChosen = errors.New("Nenhum arquivo selecionado")
)

type UploadHandler struct {
	uploadService services.UploadService
	maxBytes      int64
}

func NewUploadHandler(uploadService services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{uploadService: uploadService, maxBytes: maxBytes}
}

func (h *UploadHandler) UploadImage(c *gin.Context) {
	if h.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large",
				fmt.Errorf("Arquivo excede o limite de %d bytes", h.maxBytes))
		case hasEmptyFilePart(c):
			// multipart reports a file part without a filename as a plain value
			response.RespondError(c, http.StatusBadRequest, "empty_filename", errNoFileChosen)
		default:
			response.RespondError(c, http.StatusBadRequest, "missing_image", errNoImage)
		}
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_image", errNoImage)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_image", errNoImage)
		return
	}

	url, err := h.uploadService.UploadImage(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true, "url": url})
}

func hasEmptyFilePart(c *gin.Context) bool {
	form := c.Request.MultipartForm
	if form == nil {
		return false
	}
	_, ok := form.Value[uploadField]
	return ok
}
