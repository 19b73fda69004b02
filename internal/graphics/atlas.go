package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Texture is a GPU texture handle.
type Texture struct {
	ID     uint32
	Width  int
	Height int
}

// Bind binds the texture to unit.
func (t *Texture) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete frees the texture.
func (t *Texture) Delete() {
	gl.DeleteTextures(1, &t.ID)
}

// DecodeAtlas decodes a png, jpeg, bmp or webp atlas and prepares it for upload.
func DecodeAtlas(r io.Reader, size int) (*image.RGBA, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode atlas: %w", err)
	}
	slog.Debug("atlas decoded", "format", format, "bounds", img.Bounds())
	return PrepareAtlas(img, size), nil
}

// PrepareAtlas rescales img to size x size with nearest-neighbour sampling and flips it so
// the first image row lands at the top of UV space.
func PrepareAtlas(img image.Image, size int) *image.RGBA {
	scaled := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	flipped := image.NewRGBA(scaled.Bounds())
	stride := scaled.Stride
	for y := range size {
		src := scaled.Pix[y*stride : (y+1)*stride]
		dst := flipped.Pix[(size-1-y)*stride : (size-y)*stride]
		copy(dst, src)
	}
	return flipped
}

// tileRect returns tile (tx, ty) in image space, where ty counts up from the bottom row.
func tileRect(tx, ty, tile, tiles int) image.Rectangle {
	y0 := (tiles - 1 - ty) * tile
	return image.Rect(tx*tile, y0, (tx+1)*tile, y0+tile)
}

// ProceduralAtlas paints flat-coloured tiles for the built-in blocks. It is used when no
// atlas image is available.
func ProceduralAtlas(size, tile int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	tiles := size / tile
	magenta := color.RGBA{255, 0, 255, 255}
	fill(img, img.Bounds(), magenta)

	grass := color.RGBA{95, 159, 53, 255}
	dirt := color.RGBA{134, 96, 67, 255}
	stone := color.RGBA{125, 125, 125, 255}
	bedrock := color.RGBA{60, 60, 60, 255}

	fill(img, tileRect(0, 15, tile, tiles), grass)
	fill(img, tileRect(1, 15, tile, tiles), stone)
	fill(img, tileRect(2, 15, tile, tiles), dirt)
	side := tileRect(3, 15, tile, tiles)
	fill(img, side, dirt)
	fill(img, image.Rect(side.Min.X, side.Min.Y, side.Max.X, side.Min.Y+max(tile/4, 1)), grass)
	fill(img, tileRect(1, 14, tile, tiles), bedrock)

	// Checker the rough tiles so faces stay readable without lighting.
	for _, r := range []image.Rectangle{tileRect(1, 15, tile, tiles), tileRect(1, 14, tile, tiles)} {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if (x/2+y/2)%2 == 0 {
					c := img.RGBAAt(x, y)
					c.R, c.G, c.B = c.R-12, c.G-12, c.B-12
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// LoadAtlas loads the atlas at path into a GL texture. A missing file falls back to the
// procedural atlas.
func LoadAtlas(path string, size, tile int, log *slog.Logger) (*Texture, error) {
	var rgba *image.RGBA
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn("atlas not found, using procedural tiles", "path", path)
		rgba = PrepareAtlas(ProceduralAtlas(size, tile), size)
	case err != nil:
		return nil, fmt.Errorf("open atlas: %w", err)
	default:
		defer f.Close()
		if rgba, err = DecodeAtlas(f, size); err != nil {
			return nil, fmt.Errorf("atlas %s: %w", path, err)
		}
	}
	return UploadTexture(rgba), nil
}

// UploadTexture creates a nearest-filtered GL texture from rgba.
func UploadTexture(rgba *image.RGBA) *Texture {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	size := rgba.Rect.Size()
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return &Texture{ID: texture, Width: size.X, Height: size.Y}
}
