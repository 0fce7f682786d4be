package asset

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"

	"github.com/hexaengine/hexa/pkg/vmath"
)

// sniffLen is how many leading bytes filetype needs to recognise an image.
const sniffLen = 262

// Texture is an RGBA pixel buffer owned by a module.
type Texture struct {
	id     ID
	pixels *image.NRGBA
	sum    uint64
}

// NewTexture copies img into a new unnamed texture.
func NewTexture(img image.Image) *Texture {
	t := &Texture{pixels: toNRGBA(img)}
	t.sum = checksum(t.pixels)
	return t
}

func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func checksum(img *image.NRGBA) uint64 {
	return xxhash.Sum64(img.Pix)
}

// DecodeTexture reads a PNG or BMP image.
func DecodeTexture(r io.Reader) (*Texture, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("read texture header: %w", err)
	}
	kind, _ := filetype.Match(head)
	switch kind.Extension {
	case "png", "bmp":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, kind.MIME.Value)
	}

	img, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("decode %s texture: %w", kind.Extension, err)
	}
	return NewTexture(img), nil
}

func LoadTextureFile(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTexture(f)
}

func (t *Texture) ID() ID { return t.id }

func (t *Texture) Width() int { return t.pixels.Rect.Dx() }

func (t *Texture) Height() int { return t.pixels.Rect.Dy() }

func (t *Texture) Size() vmath.Vector2 {
	return vmath.Vec2(float32(t.Width()), float32(t.Height()))
}

func (t *Texture) Pixel(x, y int) color.NRGBA {
	return t.pixels.NRGBAAt(x, y)
}

// Pixels returns a copy of the pixel buffer.
func (t *Texture) Pixels() *image.NRGBA {
	return toNRGBA(t.pixels)
}

// PutPixels replaces the pixel data. The new image must have the texture's size.
func (t *Texture) PutPixels(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != t.Width() || b.Dy() != t.Height() {
		return fmt.Errorf("%w: %dx%d into %dx%d", ErrSizeMismatch, b.Dx(), b.Dy(), t.Width(), t.Height())
	}
	t.pixels = toNRGBA(img)
	t.sum = checksum(t.pixels)
	return nil
}

// Checksum is the xxhash of the pixel data, used to skip no-op reloads.
func (t *Texture) Checksum() uint64 { return t.sum }

func (t *Texture) SaveBMP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, t.pixels); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode bmp %s: %w", path, err)
	}
	return f.Close()
}
