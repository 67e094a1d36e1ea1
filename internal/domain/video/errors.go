package video

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrObjectNotFound maps a remote 404.
	ErrObjectNotFound = errors.New("video does not exist")
	// ErrInvalidArgument is returned by the selector for an empty candidate list.
	ErrInvalidArgument = errors.New("invalid argument")
)

// RemoteAPIError is any non-success status other than 404.
type RemoteAPIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RemoteAPIError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		return fmt.Sprintf("vimeo API error (status %s): %s", status, body)
	}
	return fmt.Sprintf("vimeo API error (status %s)", status)
}

// InsufficientSpaceError is returned by Save when the account quota cannot hold the upload.
type InsufficientSpaceError struct {
	SizeMB float64
	FreeMB float64
	UsedMB float64
	MaxMB  float64
}

func (e *InsufficientSpaceError) Error() string {
	return fmt.Sprintf("space on vimeo not enough for %.2f MB (free: %.2f MB, used: %.2f MB, max: %.2f MB)",
		e.SizeMB, e.FreeMB, e.UsedMB, e.MaxMB)
}

func checkStatus(resp *APIResponse) error {
	if resp.OK() {
		return nil
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, resp.Status)
	}
	body := string(resp.Body)
	if len(body) > 512 {
		body = body[:512]
	}
	return &RemoteAPIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       body,
	}
}
