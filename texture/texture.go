// Package texture loads source images into immutable RGBA buffers that every
// pixel machine of a render can sample concurrently.
package texture

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/chazu/pixelmachine/vm"
)

// Texture is a decoded image resized to the canvas. It is never modified
// after construction.
type Texture struct {
	Name   string
	img    *image.NRGBA
	digest [32]byte
}

// New copies img into a texture. The copy is anchored at (0, 0) so callers
// can keep using img.
func New(name string, img image.Image) *Texture {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Texture{Name: name, img: dst, digest: digest(dst)}
}

// Width implements vm.Sampler.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height implements vm.Sampler.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// RGBA implements vm.Sampler. Channels are returned exactly as stored.
func (t *Texture) RGBA(x, y int) (r, g, b, a uint8) {
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Digest is the SHA-256 of the texture's dimensions and pixels.
func (t *Texture) Digest() [32]byte { return t.digest }

func digest(img *image.NRGBA) [32]byte {
	h := sha256.New()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(img.Rect.Dx()))
	binary.BigEndian.PutUint32(dims[4:], uint32(img.Rect.Dy()))
	h.Write(dims[:])
	for y := 0; y < img.Rect.Dy(); y++ {
		off := y * img.Stride
		h.Write(img.Pix[off : off+img.Rect.Dx()*4])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Samplers converts textures for use by vm.NewMachine.
func Samplers(textures []*Texture) []vm.Sampler {
	out := make([]vm.Sampler, len(textures))
	for i, t := range textures {
		out[i] = t
	}
	return out
}

// Fill scales src with nearest-neighbor sampling so that it covers a
// width x height canvas while keeping its aspect ratio, then crops the
// centered width x height region.
func Fill(src image.Image, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}

	ratio := math.Max(float64(width)/float64(sb.Dx()), float64(height)/float64(sb.Dy()))
	sw := max(int(math.Round(float64(sb.Dx())*ratio)), width)
	sh := max(int(math.Round(float64(sb.Dy())*ratio)), height)

	scaled := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), src, sb, draw.Src, nil)

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	offset := image.Pt((sw-width)/2, (sh-height)/2)
	draw.Draw(out, out.Bounds(), scaled, offset, draw.Src)
	return out, nil
}
