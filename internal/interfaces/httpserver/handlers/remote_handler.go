package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/janhq/vimeo-storage/internal/domain/video"
	"github.com/janhq/vimeo-storage/internal/interfaces/httpserver/responses"
	"github.com/janhq/vimeo-storage/internal/interfaces/render"
)

const playerTemplate = `<!DOCTYPE html>
<html>
<head><title>{{ .Title }}</title></head>
<body>
{{ with vimeo_block .Ref .Options }}<h1>{{ .name }}</h1>
{{ vimeo $.Ref $.Options }}
{{ with .optimal_file }}<p><a href="{{ .LinkSecure }}">{{ .Width }}x{{ .Height }}</a></p>{{ end }}
{{ with .optimal_picture }}<img src="{{ .Link }}" width="{{ .Width }}" height="{{ .Height }}">{{ end }}
{{ else }}<p>Video unavailable.</p>
{{ end }}</body>
</html>
`

// RemoteHandler exposes remote videos directly by their Vimeo id.
type RemoteHandler struct {
	store    *video.Store
	renderer *render.Renderer
	log      zerolog.Logger
}

func NewRemoteHandler(store *video.Store, renderer *render.Renderer, log zerolog.Logger) *RemoteHandler {
	return &RemoteHandler{
		store:    store,
		renderer: renderer,
		log:      log.With().Str("component", "remote-handler").Logger(),
	}
}

type statResponse struct {
	Reference    string    `json:"reference"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedTime  time.Time `json:"created_time"`
	ModifiedTime time.Time `json:"modified_time"`
	AccessedTime time.Time `json:"accessed_time"`
}

type optimalQuery struct {
	Width  int `form:"width" binding:"min=0"`
	Height int `form:"height" binding:"min=0"`
}

type optimalResponse struct {
	File     *video.Variant `json:"file"`
	Picture  *video.Variant `json:"picture"`
	Download *video.Variant `json:"download"`
}

func reference(c *gin.Context) string {
	return "/videos/" + c.Param("vid")
}

// queryOptions returns the query string as oEmbed options, last value wins.
func queryOptions(c *gin.Context) map[string]string {
	opts := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			opts[key] = values[len(values)-1]
		}
	}
	return opts
}

// Metadata godoc
// @Summary      Get remote video metadata
// @Tags         remote
// @Produce      json
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  responses.ErrorResponse
// @Router       /v1/remote/{vid} [get]
func (h *RemoteHandler) Metadata(c *gin.Context) {
	md, err := h.store.Metadata(c.Request.Context(), reference(c))
	if err != nil {
		responses.HandleError(c, err, "metadata lookup failed")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", md.Raw)
}

// OEmbed godoc
// @Summary      Get the oEmbed document of a remote video
// @Description  Query parameters are forwarded as oEmbed arguments.
// @Tags         remote
// @Produce      json
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/remote/{vid}/oembed [get]
func (h *RemoteHandler) OEmbed(c *gin.Context) {
	oembed, err := h.store.OEmbed(c.Request.Context(), reference(c), queryOptions(c))
	if err != nil {
		responses.HandleError(c, err, "oembed lookup failed")
		return
	}
	c.JSON(http.StatusOK, oembed)
}

// Embed godoc
// @Summary      Get the embed code of a remote video
// @Tags         remote
// @Produce      json
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200  {object}  map[string]string
// @Router       /v1/remote/{vid}/embed [get]
func (h *RemoteHandler) Embed(c *gin.Context) {
	html, err := h.store.EmbedCode(c.Request.Context(), reference(c), queryOptions(c))
	if err != nil {
		responses.HandleError(c, err, "embed lookup failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"html": html})
}

// Stat godoc
// @Summary      Get size, link and timestamps of a remote video
// @Tags         remote
// @Produce      json
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200  {object}  statResponse
// @Router       /v1/remote/{vid}/stat [get]
func (h *RemoteHandler) Stat(c *gin.Context) {
	ref := reference(c)
	out := statResponse{Reference: ref}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.Size, err = h.store.Size(ctx, ref)
		return err
	})
	g.Go(func() (err error) {
		out.URL, err = h.store.URL(ctx, ref)
		return err
	})
	g.Go(func() (err error) {
		out.CreatedTime, err = h.store.CreatedTime(ctx, ref)
		return err
	})
	g.Go(func() (err error) {
		out.ModifiedTime, err = h.store.ModifiedTime(ctx, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		responses.HandleError(c, err, "stat lookup failed")
		return
	}
	out.AccessedTime = out.ModifiedTime
	c.JSON(http.StatusOK, out)
}

// Exists godoc
// @Summary      Check whether a remote video exists
// @Tags         remote
// @Produce      json
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200  {object}  map[string]bool
// @Router       /v1/remote/{vid}/exists [get]
func (h *RemoteHandler) Exists(c *gin.Context) {
	exists, err := h.store.Exists(c.Request.Context(), reference(c))
	if err != nil {
		responses.HandleError(c, err, "existence check failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// Optimal godoc
// @Summary      Pick the renditions closest to a size
// @Tags         remote
// @Produce      json
// @Param        vid     path   string  true   "Vimeo video id"
// @Param        width   query  int     false  "Requested width"
// @Param        height  query  int     false  "Requested height"
// @Success      200  {object}  optimalResponse
// @Failure      400  {object}  responses.ErrorResponse
// @Router       /v1/remote/{vid}/optimal [get]
func (h *RemoteHandler) Optimal(c *gin.Context) {
	var query optimalQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		responses.ValidationError(c, err)
		return
	}
	width, height := query.Width, query.Height

	file := h.store.File(reference(c))
	ctx := c.Request.Context()
	var (
		out optimalResponse
		err error
	)
	if out.File, err = file.OptimalFile(ctx, width, height); err != nil {
		responses.HandleError(c, err, "metadata lookup failed")
		return
	}
	if out.Picture, err = file.OptimalPicture(ctx, width, height); err != nil {
		responses.HandleError(c, err, "metadata lookup failed")
		return
	}
	if out.Download, err = file.OptimalDownload(ctx, width, height); err != nil {
		responses.HandleError(c, err, "metadata lookup failed")
		return
	}
	c.JSON(http.StatusOK, out)
}

// Player godoc
// @Summary      Render an HTML player page
// @Tags         remote
// @Produce      html
// @Param        vid  path  string  true  "Vimeo video id"
// @Success      200
// @Router       /v1/remote/{vid}/player [get]
func (h *RemoteHandler) Player(c *gin.Context) {
	ctx := c.Request.Context()
	tmpl, err := template.New("player").Funcs(h.renderer.FuncMap(ctx)).Parse(playerTemplate)
	if err != nil {
		responses.HandleError(c, err, "player template is invalid")
		return
	}

	var page bytes.Buffer
	data := map[string]any{"Title": c.Param("vid"), "Ref": reference(c), "Options": optionBits(queryOptions(c))}
	if err := tmpl.Execute(&page, data); err != nil {
		h.log.Error().Err(err).Str("vid", c.Param("vid")).Msg("player render failed")
		responses.HandleError(c, err, "player render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page.Bytes())
}

// optionBits renders options as key=value template arguments, ordered by key.
func optionBits(opts map[string]string) []string {
	keys := make([]string, 0, len(opts))
	for key := range opts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	bits := make([]string, 0, len(keys))
	for _, key := range keys {
		bits = append(bits, key+"="+opts[key])
	}
	return bits
}
