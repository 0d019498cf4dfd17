package texture

import (
	"image/color"

	"golang.org/x/image/font"
)

// TextBuilderOption configures RenderText.
type TextBuilderOption func(*textStyle)

// WithFace sets the font face.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - TextBuilderOption: option function to apply
func WithFace(face font.Face) TextBuilderOption {
	return func(st *textStyle) {
		st.face = face
	}
}

// WithForeground sets the glyph color. The default is white.
func WithForeground(c color.Color) TextBuilderOption {
	return func(st *textStyle) {
		st.foreground = c
	}
}

// WithBackground sets the fill color behind the text. The default is transparent.
func WithBackground(c color.Color) TextBuilderOption {
	return func(st *textStyle) {
		st.background = c
	}
}

// WithPadding sets the margin in pixels around the text block.
func WithPadding(px int) TextBuilderOption {
	return func(st *textStyle) {
		if px >= 0 {
			st.padding = px
		}
	}
}

// WithLineGap sets extra pixels between lines.
func WithLineGap(px int) TextBuilderOption {
	return func(st *textStyle) {
		if px >= 0 {
			st.lineGap = px
		}
	}
}
