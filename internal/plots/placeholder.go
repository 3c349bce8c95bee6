package plots

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder renders a blank w×h image with msg centered on it.
func Placeholder(w, h int, msg string) ([]byte, error) {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}),
		Face: basicfont.Face7x13,
	}
	tw := d.MeasureString(msg).Ceil()
	x := (w - tw) / 2
	if x < 0 {
		x = 0
	}
	d.Dot = fixed.P(x, h/2)
	d.DrawString(msg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
