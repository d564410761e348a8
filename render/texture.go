package render

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/lixenwraith/simloop/core"
)

var (
	// ErrTextureExists rejects loading under an id already in use
	ErrTextureExists = eris.New("texture already exists")

	// ErrTextureNotFound is returned for an id with no loaded texture
	ErrTextureNotFound = eris.New("texture not found")
)

// Texture is a decoded RGBA pixel grid
type Texture struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major
}

// NewTexture creates a transparent texture
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the pixel at (x, y), transparent when out of bounds
func (t *Texture) At(x, y int) core.Color {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return core.Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Set writes the pixel at (x, y)
func (t *Texture) Set(x, y int, c core.Color) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// Bounds returns the full-texture source rectangle
func (t *Texture) Bounds() core.Rect {
	return core.NewRect(0, 0, t.Width, t.Height)
}

// TextureFromImage converts any decoded image to straight-alpha 8-bit pixels
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			var c core.Color
			if a > 0 {
				// Un-premultiply 16-bit channels
				c = core.RGBA(uint8(r*0xffff/a>>8), uint8(g*0xffff/a>>8), uint8(bl*0xffff/a>>8), uint8(a>>8))
			}
			t.Set(x-b.Min.X, y-b.Min.Y, c)
		}
	}
	return t
}

// DecodeTexture reads a PNG, JPEG or GIF stream
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, eris.Wrap(err, "failed to decode texture")
	}
	return TextureFromImage(img), nil
}

// TextureCache owns the textures referenced by draw commands
type TextureCache struct {
	textures map[string]*Texture
}

// NewTextureCache creates an empty cache
func NewTextureCache() *TextureCache {
	return &TextureCache{textures: make(map[string]*Texture)}
}

// Add registers an already decoded texture
func (tc *TextureCache) Add(id string, t *Texture) error {
	if _, ok := tc.textures[id]; ok {
		return eris.Wrapf(ErrTextureExists, "%q", id)
	}
	tc.textures[id] = t
	return nil
}

// Load decodes the image file at path and registers it under id
func (tc *TextureCache) Load(id, path string) error {
	if _, ok := tc.textures[id]; ok {
		return eris.Wrapf(ErrTextureExists, "%q", id)
	}
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "texture %q", id)
	}
	defer f.Close()

	t, err := DecodeTexture(f)
	if err != nil {
		return eris.Wrapf(err, "texture %q from %s", id, path)
	}
	tc.textures[id] = t
	return nil
}

// LoadBytes decodes encoded image bytes and registers them under id
func (tc *TextureCache) LoadBytes(id string, data []byte) error {
	if _, ok := tc.textures[id]; ok {
		return eris.Wrapf(ErrTextureExists, "%q", id)
	}
	t, err := DecodeTexture(bytes.NewReader(data))
	if err != nil {
		return eris.Wrapf(err, "texture %q", id)
	}
	tc.textures[id] = t
	return nil
}

// Unload drops the texture registered under id
func (tc *TextureCache) Unload(id string) error {
	if _, ok := tc.textures[id]; !ok {
		return eris.Wrapf(ErrTextureNotFound, "%q", id)
	}
	delete(tc.textures, id)
	return nil
}

// Get returns the texture registered under id
func (tc *TextureCache) Get(id string) (*Texture, error) {
	t, ok := tc.textures[id]
	if !ok {
		return nil, eris.Wrapf(ErrTextureNotFound, "%q", id)
	}
	return t, nil
}

// Len returns the number of loaded textures
func (tc *TextureCache) Len() int {
	return len(tc.textures)
}
