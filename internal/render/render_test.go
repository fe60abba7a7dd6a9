package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/EgorLis/bbstatusbot/internal/bbapi"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testFont(t *testing.T) *opentype.Font {
	t.Helper()
	f, err := opentype.Parse(gobold.TTF)
	require.NoError(t, err)
	return f
}

// cdn отдаёт одну и ту же картинку и запоминает запрошенные пути
type cdn struct {
	mu    sync.Mutex
	paths []string
}

func (c *cdn) start(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.paths = append(c.paths, r.URL.Path)
		c.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRenderer(t *testing.T, mapURL string) (*Renderer, string) {
	t.Helper()
	dir := t.TempDir()
	r, err := New(Options{
		MapURLTemplate: mapURL + "/maps/battlebit/%s.jpg",
		BasePath:       filepath.Join(dir, "info_image.jpg"),
		CompositePath:  filepath.Join(dir, "map_mode.jpg"),
		Brightness:     DefaultBrightness,
	}, zerolog.Nop())
	require.NoError(t, err)
	return r, dir
}

func TestAbbrev_Total(t *testing.T) {
	assert.Equal(t, "CQ", Abbrev("CONQ"))
	assert.Equal(t, "FL", Abbrev("FRONTLINE"))
	assert.Equal(t, "GGT", Abbrev("GunGameTeam)"))
	assert.Equal(t, "ELI", Abbrev("ELI"))

	for _, unknown := range []string{"UNKNOWN", "", "conq", "GunGameTeam"} {
		assert.Equal(t, "", Abbrev(unknown), unknown)
	}
}

func TestModes_Overrides(t *testing.T) {
	m := Modes(map[string]string{"GunGameTeam": "GGT", "CONQ": "CONQ"})
	assert.Equal(t, "GGT", m["GunGameTeam"])
	assert.Equal(t, "CONQ", m["CONQ"])
	assert.Equal(t, "RS", m["RUSH"])
	// стандартная таблица не меняется
	assert.Equal(t, "CQ", Abbrev("CONQ"))
}

func TestLayout_Reference(t *testing.T) {
	scale, anchor := Layout(700, 600)
	assert.Equal(t, 233.0, scale.X)
	assert.InDelta(t, 352.94, scale.Y, 0.01)
	assert.Equal(t, image.Pt(200, 100), anchor)
}

func TestLayout_Linear(t *testing.T) {
	s1, a1 := Layout(700, 600)
	s2, a2 := Layout(1400, 1200)

	assert.Equal(t, 2*s1.X, s2.X)
	assert.InDelta(t, 2*s1.Y, s2.Y, 1e-9)
	assert.Equal(t, a1.Mul(2), a2)
}

func TestBrighten(t *testing.T) {
	img := solid(2, 2, color.NRGBA{R: 100, G: 10, B: 250, A: 200})

	dark := Brighten(img, -25)
	assert.Equal(t, color.NRGBA{R: 75, G: 0, B: 225, A: 200}, dark.NRGBAAt(0, 0))

	light := Brighten(img, 25)
	assert.Equal(t, color.NRGBA{R: 125, G: 35, B: 255, A: 200}, light.NRGBAAt(1, 1))

	// исходник не трогаем
	assert.Equal(t, color.NRGBA{R: 100, G: 10, B: 250, A: 200}, img.NRGBAAt(0, 0))
}

func TestCompose_DrawsOverlay(t *testing.T) {
	base := solid(700, 600, color.NRGBA{R: 125, G: 125, B: 125, A: 255})
	f := testFont(t)

	withText, err := Compose(base, "CQ", -25, f)
	require.NoError(t, err)
	empty, err := Compose(base, "", -25, f)
	require.NoError(t, err)

	// без текста — просто затемнённая картинка
	for _, p := range []image.Point{{0, 0}, {350, 300}, {699, 599}} {
		assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, empty.NRGBAAt(p.X, p.Y))
	}

	white := 0
	b := withText.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if withText.NRGBAAt(x, y) == (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
				white++
			}
		}
	}
	assert.Greater(t, white, 1000, "overlay text must be drawn in white")

	// левее точки привязки текста нет
	assert.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, withText.NRGBAAt(10, 300))
}

func TestRender_Success(t *testing.T) {
	var c cdn
	srv := c.start(t, http.StatusOK, pngBytes(t, solid(350, 300, color.NRGBA{R: 90, G: 120, B: 200, A: 255})))
	r, _ := newRenderer(t, srv.URL)

	res, err := r.Render(context.Background(), bbapi.Server{Name: "Foo", Map: "Old_Cobalt", Gamemode: "CONQ"})
	require.NoError(t, err)
	assert.Equal(t, "CQ", res.Overlay)
	assert.Equal(t, []string{"/maps/battlebit/Cobalt.jpg"}, c.paths)

	for _, p := range []string{res.BasePath, res.CompositePath} {
		img, err := imaging.Open(p)
		require.NoError(t, err, p)
		assert.Equal(t, 350, img.Bounds().Dx())
		assert.Equal(t, 300, img.Bounds().Dy())
	}
}

func TestRender_UnknownGamemode(t *testing.T) {
	var c cdn
	srv := c.start(t, http.StatusOK, pngBytes(t, solid(70, 60, color.NRGBA{A: 255})))
	r, _ := newRenderer(t, srv.URL)

	res, err := r.Render(context.Background(), bbapi.Server{Map: "Azagor", Gamemode: "UNKNOWN"})
	require.NoError(t, err)
	assert.Equal(t, "", res.Overlay)
}

func TestRender_AssetFetchError(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		var c cdn
		srv := c.start(t, http.StatusNotFound, nil)
		r, _ := newRenderer(t, srv.URL)
		_, err := r.Render(context.Background(), bbapi.Server{Map: "Nope"})
		assert.ErrorIs(t, err, ErrAssetFetch)
	})
	t.Run("not an image", func(t *testing.T) {
		var c cdn
		srv := c.start(t, http.StatusOK, []byte("definitely not a jpeg"))
		r, _ := newRenderer(t, srv.URL)
		_, err := r.Render(context.Background(), bbapi.Server{Map: "Cobalt"})
		assert.ErrorIs(t, err, ErrAssetFetch)
	})
}

func TestRender_WriteError(t *testing.T) {
	var c cdn
	srv := c.start(t, http.StatusOK, pngBytes(t, solid(10, 10, color.NRGBA{A: 255})))
	dir := t.TempDir()
	r, err := New(Options{
		MapURLTemplate: srv.URL + "/%s.jpg",
		// каталог вместо файла — запись упадёт
		BasePath:      dir,
		CompositePath: filepath.Join(dir, "map_mode.jpg"),
	}, zerolog.Nop())
	require.NoError(t, err)

	_, err = r.Render(context.Background(), bbapi.Server{Map: "Cobalt"})
	assert.ErrorIs(t, err, ErrRender)
}
