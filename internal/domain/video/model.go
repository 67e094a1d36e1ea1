package video

import (
	"encoding/json"
	"net/http"
)

// Variant is one rendition of a remote video: a transcoded file, a thumbnail or a download link.
type Variant struct {
	Quality            string `json:"quality,omitempty"`
	Type               string `json:"type,omitempty"`
	PublicName         string `json:"public_name,omitempty"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	Size               int64  `json:"size,omitempty"`
	Link               string `json:"link,omitempty"`
	LinkSecure         string `json:"link_secure,omitempty"`
	LinkWithPlayButton string `json:"link_with_play_button,omitempty"`
	MD5                string `json:"md5,omitempty"`
	CreatedTime        string `json:"created_time,omitempty"`
}

// Pictures groups the thumbnail renditions of a video.
type Pictures struct {
	URI    string    `json:"uri,omitempty"`
	Active bool      `json:"active,omitempty"`
	Sizes  []Variant `json:"sizes"`
}

// Metadata is the decoded subset of a video object returned by the API.
// Raw keeps the full document as received.
type Metadata struct {
	URI          string          `json:"uri"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Link         string          `json:"link,omitempty"`
	Duration     int             `json:"duration,omitempty"`
	Width        int             `json:"width,omitempty"`
	Height       int             `json:"height,omitempty"`
	CreatedTime  string          `json:"created_time"`
	ModifiedTime string          `json:"modified_time"`
	Files        []Variant       `json:"files"`
	Pictures     *Pictures       `json:"pictures,omitempty"`
	Download     []Variant       `json:"download"`
	Raw          json.RawMessage `json:"-"`
}

// OEmbed is an oEmbed response; only "html" is guaranteed.
type OEmbed map[string]any

// HTML returns the embed markup of the response.
func (o OEmbed) HTML() string {
	html, _ := o["html"].(string)
	return html
}

// QuotaSpace is the upload space of the authenticated account in bytes.
type QuotaSpace struct {
	Free int64 `json:"free"`
	Used int64 `json:"used"`
	Max  int64 `json:"max"`
}

// Account is the subset of /me needed for the upload quota check.
type Account struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	UploadQuota *struct {
		Space QuotaSpace `json:"space"`
	} `json:"upload_quota"`
}

// APIResponse is a raw response of the remote API; status translation is left to the caller.
type APIResponse struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *APIResponse) OK() bool {
	return r != nil && r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}
