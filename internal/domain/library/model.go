package library

import (
	"errors"
	"time"
)

// ErrRecordNotFound is returned when no saved reference has the requested id.
var ErrRecordNotFound = errors.New("video record not found")

// ErrImportDisabled is returned by Import when no object source is configured.
var ErrImportDisabled = errors.New("import source is not configured")

// Record is a saved reference to a remote video.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Reference string    `json:"reference"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
