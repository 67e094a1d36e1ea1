// Package render exposes remote videos to html/template pages.
package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/janhq/vimeo-storage/internal/domain/video"
)

var optionPattern = regexp.MustCompile(`^(\w+)=(.+)$`)

// ParseOptions turns key=value bits into an options map.
func ParseOptions(bits []string) (map[string]string, error) {
	options := make(map[string]string, len(bits))
	for _, bit := range bits {
		m := optionPattern.FindStringSubmatch(bit)
		if m == nil {
			return nil, fmt.Errorf("invalid option %q: expected key=value", bit)
		}
		options[m[1]] = m[2]
	}
	return options, nil
}

// Renderer produces embed markup and template data for saved references.
type Renderer struct {
	store *video.Store
	log   zerolog.Logger
}

func NewRenderer(store *video.Store, log zerolog.Logger) *Renderer {
	return &Renderer{store: store, log: log.With().Str("component", "render").Logger()}
}

// Embed returns the embed code of ref. Missing videos and timeouts render as empty output.
func (r *Renderer) Embed(ctx context.Context, ref string, opts map[string]string) (template.HTML, error) {
	html, err := r.store.EmbedCode(ctx, ref, opts)
	if err != nil {
		return "", r.swallow(ref, err)
	}
	return template.HTML(html), nil
}

// Block returns the video object extended with optimal_file, optimal_picture, optimal_download
// and oembed. The width and height options select the optimal renditions.
// Missing videos and timeouts yield a nil map.
func (r *Renderer) Block(ctx context.Context, ref string, opts map[string]string) (map[string]any, error) {
	data, err := r.block(ctx, ref, opts)
	if err != nil {
		return nil, r.swallow(ref, err)
	}
	return data, nil
}

func (r *Renderer) block(ctx context.Context, ref string, opts map[string]string) (map[string]any, error) {
	file := r.store.File(ref)
	md, err := file.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(md.Raw, &data); err != nil {
		return nil, fmt.Errorf("decode video metadata: %w", err)
	}

	width, height := dimension(opts["width"]), dimension(opts["height"])
	data["optimal_file"] = video.Optimal(md.Files, width, height)
	if md.Pictures != nil {
		data["optimal_picture"] = video.Optimal(md.Pictures.Sizes, width, height)
	} else {
		data["optimal_picture"] = (*video.Variant)(nil)
	}
	data["optimal_download"] = video.Optimal(md.Download, width, height)

	oembed, err := file.OEmbed(ctx, opts)
	if err != nil {
		return nil, err
	}
	data["oembed"] = oembed
	return data, nil
}

// FuncMap exposes vimeo and vimeo_block to templates executed for ctx. Options are key=value
// strings, given one by one or as a []string:
//
//	{{ vimeo .Ref "width=600" }}
//	{{ with vimeo_block .Ref "autoplay=1" }}{{ .name }}{{ end }}
func (r *Renderer) FuncMap(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"vimeo": func(ref string, args ...any) (template.HTML, error) {
			opts, err := templateOptions(args)
			if err != nil {
				return "", err
			}
			return r.Embed(ctx, ref, opts)
		},
		"vimeo_block": func(ref string, args ...any) (map[string]any, error) {
			opts, err := templateOptions(args)
			if err != nil {
				return nil, err
			}
			return r.Block(ctx, ref, opts)
		},
	}
}

func templateOptions(args []any) (map[string]string, error) {
	var bits []string
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			bits = append(bits, v)
		case []string:
			bits = append(bits, v...)
		default:
			return nil, fmt.Errorf("invalid option %v: expected key=value", arg)
		}
	}
	return ParseOptions(bits)
}

func (r *Renderer) swallow(ref string, err error) error {
	switch {
	case errors.Is(err, video.ErrObjectNotFound):
		r.log.Error().Err(err).Str("ref", ref).Msg("attempt to render a video that does not exist")
		return nil
	case isTimeout(err):
		r.log.Error().Err(err).Str("ref", ref).Msg("timeout reached while rendering video")
		return nil
	default:
		return err
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func dimension(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
