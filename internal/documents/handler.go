package documents

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"transcript-backend/internal/extract"
	"transcript-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
	MaxUploadFiles int
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64, maxUploadFiles int) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes, MaxUploadFiles: maxUploadFiles}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.GET("/documents", h.list)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart form with a files field is required", nil)
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "no files provided", nil)
		return
	}
	if len(files) > h.MaxUploadFiles {
		files = files[:h.MaxUploadFiles]
	}

	views := make([]View, 0, len(files))
	for _, fileHeader := range files {
		data, err := readMultipartFile(fileHeader)
		if err != nil {
			respond.Error(c, http.StatusInternalServerError, "upload_failed", "unable to read "+fileHeader.Filename, nil)
			return
		}

		doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
		if err != nil {
			var unsupported *extract.UnsupportedFileTypeError
			switch {
			case errors.As(err, &unsupported):
				respond.Error(c, http.StatusBadRequest, "unsupported_file_type", unsupported.Error(), nil)
			case errors.Is(err, ErrInvalidInput):
				respond.Error(c, http.StatusBadRequest, "validation_error", "empty file: "+fileHeader.Filename, nil)
			default:
				respond.Error(c, http.StatusInternalServerError, "upload_failed", "failed to process "+fileHeader.Filename, nil)
			}
			return
		}
		views = append(views, ToView(doc))
	}

	c.Set("documentCount", len(views))
	respond.JSON(c, http.StatusCreated, gin.H{"documents": views})
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) list(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	views := make([]View, 0, len(docs))
	for _, doc := range docs {
		views = append(views, ToView(doc))
	}
	respond.OK(c, gin.H{"documents": views})
}
