package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver/handlers"
	"github.com/janhq/vimeo-storage/internal/interfaces/render"
)

const remoteVideoJSON = `{
	"uri": "/videos/42",
	"name": "Launch",
	"created_time": "2020-01-02T03:04:05Z",
	"modified_time": "2020-02-03T04:05:06Z",
	"files": [
		{"width": 640, "height": 360, "size": 100, "link_secure": "https://cdn/sd"},
		{"width": 1920, "height": 1080, "size": 900, "link_secure": "https://cdn/fhd"}
	],
	"pictures": {"sizes": [{"width": 100, "height": 75, "link": "https://img/100"}]},
	"download": [{"width": 640, "height": 360, "link": "https://dl/sd"}]
}`

// MockVideoClient serves canned API responses keyed by path.
type MockVideoClient struct {
	Responses map[string]*video.APIResponse
	OEmbedFn  func(params url.Values) (*video.APIResponse, error)
}

func (m *MockVideoClient) Get(_ context.Context, path string) (*video.APIResponse, error) {
	if resp, ok := m.Responses[path]; ok {
		return resp, nil
	}
	return &video.APIResponse{StatusCode: http.StatusNotFound, Status: "404 Not Found"}, nil
}

func (m *MockVideoClient) Delete(context.Context, string) (*video.APIResponse, error) {
	return nil, errors.New("not supported")
}

func (m *MockVideoClient) Upload(context.Context, string, string) (string, error) {
	return "", errors.New("not supported")
}

func (m *MockVideoClient) OEmbed(_ context.Context, _ string, params url.Values) (*video.APIResponse, error) {
	if m.OEmbedFn != nil {
		return m.OEmbedFn(params)
	}
	if params.Get("url") != "https://vimeo.com/42" {
		return &video.APIResponse{StatusCode: http.StatusNotFound}, nil
	}
	return &video.APIResponse{StatusCode: http.StatusOK, Body: []byte(`{"type":"video","html":"<iframe src=\"https://player.vimeo.com/video/42\"></iframe>"}`)}, nil
}

func setupRemoteTestRouter(client video.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := video.NewStore(client, nil, video.Options{}, zerolog.Nop())
	handler := handlers.NewRemoteHandler(store, render.NewRenderer(store, zerolog.Nop()), zerolog.Nop())

	r := gin.New()
	remote := r.Group("/v1/remote/:vid")
	{
		remote.GET("", handler.Metadata)
		remote.GET("/oembed", handler.OEmbed)
		remote.GET("/embed", handler.Embed)
		remote.GET("/stat", handler.Stat)
		remote.GET("/exists", handler.Exists)
		remote.GET("/optimal", handler.Optimal)
		remote.GET("/player", handler.Player)
	}
	return r
}

func defaultClient() *MockVideoClient {
	return &MockVideoClient{Responses: map[string]*video.APIResponse{
		"/videos/42": {StatusCode: http.StatusOK, Body: []byte(remoteVideoJSON)},
	}}
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRemoteHandler_Metadata(t *testing.T) {
	router := setupRemoteTestRouter(defaultClient())

	w := get(router, "/v1/remote/42")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, remoteVideoJSON, w.Body.String())

	w = get(router, "/v1/remote/43")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoteHandler_MetadataUpstreamFailure(t *testing.T) {
	client := &MockVideoClient{Responses: map[string]*video.APIResponse{
		"/videos/42": {StatusCode: http.StatusInternalServerError, Body: []byte("maintenance")},
	}}
	w := get(setupRemoteTestRouter(client), "/v1/remote/42")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRemoteHandler_OEmbedAndEmbed(t *testing.T) {
	var seen url.Values
	client := defaultClient()
	client.OEmbedFn = func(params url.Values) (*video.APIResponse, error) {
		seen = params
		return &video.APIResponse{StatusCode: http.StatusOK, Body: []byte(`{"html":"<iframe></iframe>","width":600}`)}, nil
	}
	router := setupRemoteTestRouter(client)

	w := get(router, "/v1/remote/42/oembed?width=600")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"html":"<iframe></iframe>","width":600}`, w.Body.String())
	assert.Equal(t, "600", seen.Get("width"))
	assert.Equal(t, "https://vimeo.com/42", seen.Get("url"))

	w = get(router, "/v1/remote/42/embed")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"html":"<iframe></iframe>"}`, w.Body.String())
}

func TestRemoteHandler_Stat(t *testing.T) {
	w := get(setupRemoteTestRouter(defaultClient()), "/v1/remote/42/stat")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/videos/42", body["reference"])
	assert.Equal(t, float64(900), body["size"])
	assert.Equal(t, "https://cdn/fhd", body["url"])
	assert.Equal(t, "2020-01-02T03:04:05Z", body["created_time"])
	assert.Equal(t, "2020-02-03T04:05:06Z", body["modified_time"])
	assert.Equal(t, body["modified_time"], body["accessed_time"])
}

func TestRemoteHandler_StatNotFound(t *testing.T) {
	w := get(setupRemoteTestRouter(defaultClient()), "/v1/remote/7/stat")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "stat lookup failed")
}

func TestRemoteHandler_Exists(t *testing.T) {
	router := setupRemoteTestRouter(defaultClient())

	w := get(router, "/v1/remote/42/exists")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":true}`, w.Body.String())

	w = get(router, "/v1/remote/7/exists")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"exists":false}`, w.Body.String())
}

func TestRemoteHandler_Optimal(t *testing.T) {
	router := setupRemoteTestRouter(defaultClient())

	w := get(router, "/v1/remote/42/optimal?width=1800")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		File     *video.Variant `json:"file"`
		Picture  *video.Variant `json:"picture"`
		Download *video.Variant `json:"download"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.File)
	assert.Equal(t, "https://cdn/fhd", body.File.LinkSecure)
	require.NotNil(t, body.Picture)
	assert.Equal(t, "https://img/100", body.Picture.Link)
	require.NotNil(t, body.Download)
	assert.Equal(t, "https://dl/sd", body.Download.Link)

	w = get(router, "/v1/remote/42/optimal?width=wide")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(router, "/v1/remote/42/optimal?height=-5")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "height must satisfy min=0")
}

func TestRemoteHandler_Player(t *testing.T) {
	router := setupRemoteTestRouter(defaultClient())

	w := get(router, "/v1/remote/42/player?width=640")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	page := w.Body.String()
	assert.Contains(t, page, "<h1>Launch</h1>")
	assert.Contains(t, page, `<iframe src="https://player.vimeo.com/video/42"></iframe>`)
	assert.Contains(t, page, `<a href="https://cdn/sd">640x360</a>`)
}

func TestRemoteHandler_PlayerMissingVideo(t *testing.T) {
	w := get(setupRemoteTestRouter(defaultClient()), "/v1/remote/99/player")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "Video unavailable."))
}
