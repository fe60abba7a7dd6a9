package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	_ "golang.org/x/image/webp"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
)

const (
	DefaultMapURL        = "https://cdn.gametools.network/maps/battlebit/%s.jpg"
	DefaultBasePath      = "./info_image.jpg"
	DefaultCompositePath = "./map_mode.jpg"
	DefaultBrightness    = -25
)

var (
	ErrAssetFetch = errors.New("render: map asset fetch failed")
	ErrRender     = errors.New("render: failed")
)

type Options struct {
	MapURLTemplate string // fmt-шаблон с одним %s под id карты
	BasePath       string // исходная картинка карты (баннер)
	CompositePath  string // картинка с оверлеем (аватар)
	Brightness     int
	Gamemodes      map[string]string // поверх стандартной таблицы
}

type Renderer struct {
	http  *http.Client
	opts  Options
	font  *opentype.Font
	modes map[string]string
	log   zerolog.Logger
}

// Result — что получилось за один рендер.
type Result struct {
	BasePath      string
	CompositePath string
	Overlay       string
}

// New готовит рендерер; шрифт зашит в бинарь.
func New(opts Options, log zerolog.Logger) (*Renderer, error) {
	if opts.MapURLTemplate == "" {
		opts.MapURLTemplate = DefaultMapURL
	}
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.CompositePath == "" {
		opts.CompositePath = DefaultCompositePath
	}

	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: load font: %v", ErrRender, err)
	}

	return &Renderer{
		http:  &http.Client{Timeout: 30 * time.Second},
		opts:  opts,
		font:  f,
		modes: Modes(opts.Gamemodes),
		log:   log.With().Str("component", "render").Logger(),
	}, nil
}

// Abbrev — короткий код режима с учётом overrides из конфига.
func (r *Renderer) Abbrev(gamemode string) string {
	return r.modes[gamemode]
}

// Render качает картинку карты сервера, сохраняет её как есть, затемняет копию,
// рисует код режима и сохраняет композит.
func (r *Renderer) Render(ctx context.Context, s bbapi.Server) (Result, error) {
	mapID := bbapi.MapID(s.Map)

	base, err := r.fetchMap(ctx, mapID)
	if err != nil {
		return Result{}, err
	}

	if err := save(base, r.opts.BasePath); err != nil {
		return Result{}, err
	}

	overlay := r.Abbrev(s.Gamemode)
	img, err := Compose(base, overlay, r.opts.Brightness, r.font)
	if err != nil {
		return Result{}, err
	}

	if err := save(img, r.opts.CompositePath); err != nil {
		return Result{}, err
	}

	b := img.Bounds()
	r.log.Debug().
		Str("map", mapID).
		Str("overlay", overlay).
		Int("width", b.Dx()).
		Int("height", b.Dy()).
		Msg("composite rendered")

	return Result{
		BasePath:      r.opts.BasePath,
		CompositePath: r.opts.CompositePath,
		Overlay:       overlay,
	}, nil
}

// Compose возвращает затемнённую копию base с текстом overlay.
func Compose(base image.Image, overlay string, brightness int, f *opentype.Font) (*image.NRGBA, error) {
	img := Brighten(base, brightness)
	b := img.Bounds()
	scale, anchor := Layout(b.Dx(), b.Dy())
	if err := drawText(img, f, overlay, scale, anchor.Add(b.Min)); err != nil {
		return nil, fmt.Errorf("%w: draw overlay: %v", ErrRender, err)
	}
	return img, nil
}

func (r *Renderer) fetchMap(ctx context.Context, mapID string) (image.Image, error) {
	url := fmt.Sprintf(r.opts.MapURLTemplate, mapID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetFetch, err)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssetFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrAssetFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrAssetFetch, url, err)
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrAssetFetch, url, err)
	}
	return img, nil
}

func save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrRender, path, err)
	}
	return nil
}
