package responses

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/janhq/vimeo-storage/internal/domain/library"
	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/infrastructure/cache"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	var (
		spaceErr  *video.InsufficientSpaceError
		remoteErr *video.RemoteAPIError
	)
	switch {
	case errors.Is(err, video.ErrObjectNotFound), errors.Is(err, library.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.As(err, &spaceErr):
		return http.StatusInsufficientStorage
	case errors.As(err, &remoteErr):
		return http.StatusBadGateway
	case errors.Is(err, cache.ErrWriteVerificationFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, library.ErrImportDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, video.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// HandleError aborts the request with the status matching err.
func HandleError(reqCtx *gin.Context, err error, message string) {
	reqCtx.AbortWithStatusJSON(StatusFor(err), ErrorResponse{
		Error:   message,
		Message: err.Error(),
	})
}

// BadRequest aborts the request with a 400 and the given message.
func BadRequest(reqCtx *gin.Context, message string) {
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// ValidationError aborts with a 400 describing which request fields failed binding.
func ValidationError(reqCtx *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		BadRequest(reqCtx, "invalid request: "+err.Error())
		return
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	reqCtx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request",
		Message: strings.Join(msgs, "; "),
	})
}
