package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/config"
	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/infrastructure/metrics"
	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver/responses"
)

// VideoHandler exposes the saved video library.
type VideoHandler struct {
	cfg     *config.Config
	service *library.Service
	log     zerolog.Logger
}

func NewVideoHandler(cfg *config.Config, service *library.Service, log zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		cfg:     cfg,
		service: service,
		log:     log.With().Str("component", "video-handler").Logger(),
	}
}

type importRequest struct {
	S3Key string `json:"s3_key" binding:"required"`
	Title string `json:"title"`
}

type listResponse struct {
	Data []library.Record `json:"data"`
}

// Upload godoc
// @Summary      Upload a video
// @Description  Stores a multipart video file on Vimeo and records its reference.
// @Tags         videos
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Video file"
// @Param        title  formData  string  false  "Title"
// @Success      201    {object}  library.Record
// @Failure      400    {object}  responses.ErrorResponse
// @Failure      413    {object}  responses.ErrorResponse
// @Failure      415    {object}  responses.ErrorResponse
// @Failure      507    {object}  responses.ErrorResponse
// @Router       /v1/videos [post]
func (h *VideoHandler) Upload(c *gin.Context) {
	if h.cfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, responses.ErrorResponse{Error: "file too large"})
			return
		}
		responses.BadRequest(c, "multipart field \"file\" is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		responses.BadRequest(c, "unable to read uploaded file")
		return
	}
	defer file.Close()

	mime, err := mimetype.DetectReader(file)
	if err != nil {
		responses.BadRequest(c, "unable to detect file type")
		return
	}
	if !strings.HasPrefix(mime.String(), "video/") {
		c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, responses.ErrorResponse{
			Error:   "unsupported media type",
			Message: mime.String(),
		})
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		responses.BadRequest(c, "unable to rewind uploaded file")
		return
	}

	// Large parts are spooled to disk by the multipart reader; upload those in place.
	var content video.Content
	if osFile, ok := file.(*os.File); ok {
		fc, err := video.NewFileContent(osFile.Name())
		if err != nil {
			responses.HandleError(c, err, "unable to read uploaded file")
			return
		}
		content = fc
	} else {
		content = video.NewReaderContent(file, header.Size)
	}

	record, err := h.service.Upload(c.Request.Context(), c.PostForm("title"), header.Filename, content)
	if err != nil {
		metrics.RecordUpload("multipart", "error", 0)
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		responses.HandleError(c, err, "upload failed")
		return
	}
	metrics.RecordUpload("multipart", "success", record.Bytes)
	c.JSON(http.StatusCreated, record)
}

// Import godoc
// @Summary      Import a video from S3
// @Description  Streams an object from the configured bucket to Vimeo and records its reference.
// @Tags         videos
// @Accept       json
// @Produce      json
// @Param        request  body      importRequest  true  "Import request"
// @Success      201      {object}  library.Record
// @Failure      400      {object}  responses.ErrorResponse
// @Failure      501      {object}  responses.ErrorResponse
// @Router       /v1/videos/import [post]
func (h *VideoHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	record, err := h.service.Import(c.Request.Context(), req.Title, req.S3Key)
	if err != nil {
		metrics.RecordUpload("s3", "error", 0)
		h.log.Error().Err(err).Str("s3_key", req.S3Key).Msg("import failed")
		responses.HandleError(c, err, "import failed")
		return
	}
	metrics.RecordUpload("s3", "success", record.Bytes)
	c.JSON(http.StatusCreated, record)
}

// List godoc
// @Summary      List saved videos
// @Tags         videos
// @Produce      json
// @Success      200  {object}  listResponse
// @Router       /v1/videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, listResponse{Data: records})
}

// Get godoc
// @Summary      Get a saved video
// @Tags         videos
// @Produce      json
// @Param        id   path      string  true  "Video ID (vid_xxx)"
// @Success      200  {object}  library.Record
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/videos/{id} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		responses.HandleError(c, err, "video not found")
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete godoc
// @Summary      Delete a saved video
// @Description  Deletes the remote video, then its reference.
// @Tags         videos
// @Param        id   path  string  true  "Video ID (vid_xxx)"
// @Success      204
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      502  {object}  responses.ErrorResponse
// @Router       /v1/videos/{id} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("delete failed")
		responses.HandleError(c, err, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}
