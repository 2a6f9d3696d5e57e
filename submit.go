package globe

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ensureWhite returns the renderer's 1x1 white source image, creating it on
// first use. Untextured triangles sample it and carry their color in the
// vertices.
func (r *Renderer) ensureWhite() *ebiten.Image {
	if r.white == nil {
		r.white = ebiten.NewImage(1, 1)
		r.white.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return r.white
}

// ensureFont lazily parses the label font. A parse failure is logged once
// and disables label text.
func (r *Renderer) ensureFont() *text.GoTextFaceSource {
	if r.fontSource != nil || r.fontFailed {
		return r.fontSource
	}
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		r.fontFailed = true
		debugLogf("label font: %v", err)
		return nil
	}
	r.fontSource = src
	return src
}

// submit clears dst to the background color and draws the sorted commands,
// one DrawTriangles32 call per triangle command.
func (r *Renderer) submit(dst *ebiten.Image, bg Color) {
	dst.Fill(bg.toRGBA())
	r.stats.drawCallCount = 0
	if len(r.commands) == 0 {
		return
	}

	white := r.ensureWhite()
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true

	for i := range r.commands {
		cmd := &r.commands[i]
		if cmd.Type == CommandText {
			r.submitText(dst, cmd)
			continue
		}
		if cmd.indEnd <= cmd.indStart {
			continue
		}
		op.Blend = cmd.BlendMode.EbitenBlend()
		dst.DrawTriangles32(r.verts[cmd.vertStart:cmd.vertEnd], r.inds[cmd.indStart:cmd.indEnd], white, &op)
		r.stats.drawCallCount++
	}
}

func (r *Renderer) submitText(dst *ebiten.Image, cmd *RenderCommand) {
	src := r.ensureFont()
	if src == nil {
		return
	}
	face := &text.GoTextFace{Source: src, Size: cmd.textSize}
	op := &text.DrawOptions{}
	op.GeoM.Translate(cmd.textX, cmd.textY)
	op.ColorScale.ScaleWithColor(cmd.color.toRGBA())
	text.Draw(dst, cmd.text, face, op)
	r.stats.drawCallCount++
}
