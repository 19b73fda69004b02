package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const glyphAtlasWidth = 512

// Glyph describes one character's placement and metrics within the glyph atlas.
type Glyph struct {
	// Pixel rectangle in the atlas (top-left origin).
	X, Y, Width, Height float32
	// Offset from the pen position to the glyph's top-left corner.
	BearingX, BearingY float32
	Advance            float32
}

// GlyphAtlas is a baked single-channel glyph sheet.
type GlyphAtlas struct {
	Image  *image.Alpha
	Glyphs map[rune]Glyph
}

// BakeGlyphs rasterises printable ASCII from the embedded Go Mono face at the given pixel size.
func BakeGlyphs(pixels int) (*GlyphAtlas, error) {
	f, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(pixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	const padding = 1
	rowHeight := face.Metrics().Height.Ceil() + padding
	glyphs := make(map[rune]Glyph)

	// First pass packs rows to size the sheet, second pass draws. The face reuses its
	// mask buffer between Glyph calls, so each mask is copied out.
	type placed struct {
		r    rune
		dr   image.Rectangle
		mask *image.Alpha
		x, y int
		adv  fixed.Int26_6
	}
	var all []placed
	x, y := 0, 0
	for r := rune(32); r <= 126; r++ {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		if x+dr.Dx()+padding > glyphAtlasWidth {
			x = 0
			y += rowHeight
		}
		own := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(own, own.Bounds(), mask, maskp, draw.Src)
		all = append(all, placed{r, dr, own, x, y, advance})
		x += dr.Dx() + padding
	}

	img := image.NewAlpha(image.Rect(0, 0, glyphAtlasWidth, y+rowHeight))
	for _, p := range all {
		w, h := p.dr.Dx(), p.dr.Dy()
		if w > 0 && h > 0 {
			draw.Draw(img, image.Rect(p.x, p.y, p.x+w, p.y+h), p.mask, image.Point{}, draw.Src)
		}
		glyphs[p.r] = Glyph{
			X:        float32(p.x),
			Y:        float32(p.y),
			Width:    float32(w),
			Height:   float32(h),
			BearingX: float32(p.dr.Min.X),
			BearingY: float32(-p.dr.Min.Y),
			Advance:  float32(math.Round(float64(p.adv) / 64.0)),
		}
	}
	return &GlyphAtlas{Image: img, Glyphs: glyphs}, nil
}

// Measure returns the width in pixels text occupies at scale 1.
func (a *GlyphAtlas) Measure(text string) float32 {
	var w float32
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			g = a.Glyphs[' ']
		}
		w += g.Advance
	}
	return w
}

// AppendQuads appends two triangles per glyph of text with the pen starting on the
// baseline at (x, y). Each vertex is (x, y, u, v).
func (a *GlyphAtlas) AppendQuads(dst []float32, text string, x, y, scale float32) []float32 {
	aw := float32(a.Image.Rect.Dx())
	ah := float32(a.Image.Rect.Dy())
	for _, r := range text {
		g, ok := a.Glyphs[r]
		if !ok {
			x += a.Glyphs[' '].Advance * scale
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			x0 := x + g.BearingX*scale
			y0 := y - g.BearingY*scale
			x1 := x0 + g.Width*scale
			y1 := y0 + g.Height*scale
			u0, v0 := g.X/aw, g.Y/ah
			u1, v1 := (g.X+g.Width)/aw, (g.Y+g.Height)/ah
			dst = append(dst,
				x0, y1, u0, v1,
				x0, y0, u0, v0,
				x1, y0, u1, v0,
				x0, y1, u0, v1,
				x1, y0, u1, v0,
				x1, y1, u1, v1,
			)
		}
		x += g.Advance * scale
	}
	return dst
}

// TextRenderer draws screen-space text lines from a glyph atlas.
type TextRenderer struct {
	atlas      *GlyphAtlas
	texture    uint32
	shader     *Shader
	projection mgl32.Mat4
	vao        uint32
	vbo        uint32
	vertices   []float32
}

// NewTextRenderer bakes the glyph atlas and uploads it. A GL context must be current.
func NewTextRenderer(pixels, width, height int) (*TextRenderer, error) {
	atlas, err := BakeGlyphs(pixels)
	if err != nil {
		return nil, err
	}
	shader, err := NewEmbeddedShader("text")
	if err != nil {
		return nil, err
	}
	tr := &TextRenderer{atlas: atlas, shader: shader}
	tr.Resize(width, height)

	gl.GenTextures(1, &tr.texture)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := atlas.Image.Rect
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(b.Dx()), int32(b.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Image.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindVertexArray(0)
	return tr, nil
}

// Resize updates the pixel projection.
func (tr *TextRenderer) Resize(width, height int) {
	tr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// RenderLines draws lines top to bottom starting at (x, y), lineStep pixels apart.
func (tr *TextRenderer) RenderLines(lines []string, x, y, lineStep, scale float32, color mgl32.Vec3) {
	tr.vertices = tr.vertices[:0]
	for _, line := range lines {
		y += lineStep
		tr.vertices = tr.atlas.AppendQuads(tr.vertices, line, x, y, scale)
	}
	if len(tr.vertices) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	tr.shader.Use()
	tr.shader.SetVector3("textColor", color)
	tr.shader.SetMatrix4("projection", tr.projection)
	tr.shader.SetInt("glyphs", 0)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)

	size := len(tr.vertices) * 4
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(tr.vertices))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(tr.vertices)/4))

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
}

// Delete frees the GL objects.
func (tr *TextRenderer) Delete() {
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteTextures(1, &tr.texture)
	tr.shader.Delete()
}
