package texture

import (
	"image"
	"image/color"
	"strings"

	"github.com/Carmen-Shannon/safehouse/common"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

type textStyle struct {
	face       font.Face
	foreground color.Color
	background color.Color
	padding    int
	lineGap    int
}

// RenderText rasterizes text into RGBA staging data. Lines are split on '\n' and drawn
// left-aligned with the 7x13 bitmap font unless WithFace overrides it. The texture is sized to
// fit the widest line plus padding on every side.
//
// Parameters:
//   - text: the text to draw
//   - options: functional options
//
// Returns:
//   - common.TextureStagingData: the rasterized text
func RenderText(text string, options ...TextBuilderOption) common.TextureStagingData {
	st := &textStyle{
		face:       basicfont.Face7x13,
		foreground: color.White,
		background: color.Transparent,
		padding:    2,
	}
	for _, opt := range options {
		opt(st)
	}

	lines := strings.Split(text, "\n")
	metrics := st.face.Metrics()
	lineHeight := metrics.Height.Ceil() + st.lineGap

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(st.face, line).Ceil())
	}
	width += 2 * st.padding
	height := len(lines)*lineHeight - st.lineGap + 2*st.padding

	img := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(st.background), image.Point{}, xdraw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(st.foreground),
		Face: st.face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(st.padding, st.padding+i*lineHeight+metrics.Ascent.Ceil())
		d.DrawString(line)
	}

	return FromImage(img)
}
