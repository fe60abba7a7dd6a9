package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Scale — размер глифов в пикселях по горизонтали и вертикали.
type Scale struct {
	X, Y float64
}

// Layout считает размер шрифта и точку вывода текста от размеров картинки.
func Layout(width, height int) (Scale, image.Point) {
	scale := Scale{
		X: float64(width / 3),
		Y: float64(height) / 1.7,
	}
	anchor := image.Pt(int(float64(width)/3.5), int(float64(height)/6.0))
	return scale, anchor
}

// Brighten сдвигает каждый RGB канал на delta (с обрезкой до 0..255), альфу не трогает.
func Brighten(img image.Image, delta int) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampChannel(int(c.R) + delta),
			G: clampChannel(int(c.G) + delta),
			B: clampChannel(int(c.B) + delta),
			A: c.A,
		}
	})
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// drawText рисует text белым цветом: верх строки в точке at, высота глифов scale.Y,
// ширина растягивается в scale.X/scale.Y раз.
func drawText(dst *image.NRGBA, f *opentype.Font, text string, scale Scale, at image.Point) error {
	if text == "" || scale.X <= 0 || scale.Y <= 0 {
		return nil
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    scale.Y,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := (m.Ascent + m.Descent).Ceil()
	width := font.MeasureString(face, text).Ceil()
	if width <= 0 || height <= 0 {
		return nil
	}

	// сначала маска в естественной ширине
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(text)

	stretchedW := int(math.Round(float64(width) * scale.X / scale.Y))
	if stretchedW < 1 {
		return nil
	}
	stretched := image.NewAlpha(image.Rect(0, 0, stretchedW, height))
	xdraw.BiLinear.Scale(stretched, stretched.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)

	r := image.Rect(at.X, at.Y, at.X+stretchedW, at.Y+height)
	xdraw.DrawMask(dst, r, image.White, image.Point{}, stretched, image.Point{}, xdraw.Over)
	return nil
}
