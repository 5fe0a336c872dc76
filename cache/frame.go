package cache

import (
	"fmt"
	"image"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Frame is the stored form of a rendered image.
type Frame struct {
	Width  int    `cbor:"1,keyasint"`
	Height int    `cbor:"2,keyasint"`
	Stride int    `cbor:"3,keyasint"`
	Pix    []byte `cbor:"4,keyasint"`
}

// NewFrame captures img. The pixel rows are copied without padding.
func NewFrame(img *image.NRGBA) *Frame {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	pix := make([]byte, 0, w*h*4)
	for y := 0; y < h; y++ {
		off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		pix = append(pix, img.Pix[off:off+w*4]...)
	}
	return &Frame{Width: w, Height: h, Stride: w * 4, Pix: pix}
}

// Image rebuilds the image a frame was captured from.
func (f *Frame) Image() (*image.NRGBA, error) {
	if f.Width <= 0 || f.Height <= 0 || f.Stride < f.Width*4 || len(f.Pix) < f.Stride*(f.Height-1)+f.Width*4 {
		return nil, fmt.Errorf("cache: malformed frame %dx%d (stride %d, %d bytes)", f.Width, f.Height, f.Stride, len(f.Pix))
	}
	return &image.NRGBA{
		Pix:    f.Pix,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}, nil
}

// MarshalFrame serializes a Frame to CBOR bytes.
func MarshalFrame(f *Frame) ([]byte, error) {
	return cborEncMode.Marshal(f)
}

// UnmarshalFrame deserializes a Frame from CBOR bytes.
func UnmarshalFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cache: unmarshal frame: %w", err)
	}
	return &f, nil
}
