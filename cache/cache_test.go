package cache

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"
)

type digest [32]byte

func (d digest) Digest() [32]byte { return d }

func testImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), uint8(x + y), 255})
		}
	}
	return img
}

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// ---------------------------------------------------------------------------
// Keys
// ---------------------------------------------------------------------------

func TestKey(t *testing.T) {
	a := digest{1}
	b := digest{2}
	base := Key("dim drop", 4, 4, []Digester{a, b})

	if len(base) != 64 {
		t.Errorf("key length = %d, want 64", len(base))
	}
	if Key("dim drop", 4, 4, []Digester{a, b}) != base {
		t.Error("key is not stable")
	}

	differ := map[string]string{
		"program":       Key("dim dup", 4, 4, []Digester{a, b}),
		"width":         Key("dim drop", 5, 4, []Digester{a, b}),
		"height":        Key("dim drop", 4, 5, []Digester{a, b}),
		"texture order": Key("dim drop", 4, 4, []Digester{b, a}),
		"texture count": Key("dim drop", 4, 4, []Digester{a}),
	}
	for what, k := range differ {
		if k == base {
			t.Errorf("changing %s did not change the key", what)
		}
	}
}

// ---------------------------------------------------------------------------
// Frames
// ---------------------------------------------------------------------------

func TestFrameRoundTrip(t *testing.T) {
	src := testImage(3, 2)
	data, err := MarshalFrame(NewFrame(src))
	if err != nil {
		t.Fatal(err)
	}
	f, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	img, err := f.Image()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() || !bytes.Equal(img.Pix, src.Pix) {
		t.Error("frame did not round-trip")
	}
}

func TestFrameOfSubImage(t *testing.T) {
	src := testImage(4, 4)
	sub := src.SubImage(image.Rect(1, 1, 3, 3)).(*image.NRGBA)

	f := NewFrame(sub)
	if f.Width != 2 || f.Height != 2 || len(f.Pix) != 16 {
		t.Fatalf("frame = %dx%d with %d bytes", f.Width, f.Height, len(f.Pix))
	}
	img, err := f.Image()
	if err != nil {
		t.Fatal(err)
	}
	if got := img.NRGBAAt(0, 0); got != src.NRGBAAt(1, 1) {
		t.Errorf("(0,0) = %v, want %v", got, src.NRGBAAt(1, 1))
	}
}

func TestFrameMalformed(t *testing.T) {
	bad := []*Frame{
		{Width: 0, Height: 1, Stride: 0},
		{Width: 2, Height: 2, Stride: 4, Pix: make([]byte, 16)},
		{Width: 2, Height: 2, Stride: 8, Pix: make([]byte, 8)},
	}
	for _, f := range bad {
		if _, err := f.Image(); err == nil {
			t.Errorf("Image(%+v) succeeded", f)
		}
	}
	if _, err := UnmarshalFrame([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error for garbage CBOR")
	}
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

func TestGetMiss(t *testing.T) {
	c := openTemp(t)
	img, ok, err := c.Get("nothing")
	if err != nil || ok || img != nil {
		t.Errorf("Get = %v, %v, %v; want miss", img, ok, err)
	}
}

func TestPutGet(t *testing.T) {
	c := openTemp(t)
	src := testImage(5, 3)

	if err := c.Put("k", src); err != nil {
		t.Fatalf("Put: %v", err)
	}
	img, ok, err := c.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if !bytes.Equal(img.Pix, src.Pix) {
		t.Error("stored image differs")
	}

	// Replace.
	if err := c.Put("k", testImage(1, 1)); err != nil {
		t.Fatal(err)
	}
	img, _, _ = c.Get("k")
	if img.Bounds().Dx() != 1 {
		t.Errorf("width after replace = %d, want 1", img.Bounds().Dx())
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put("k", testImage(2, 2)); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if _, ok, err := c.Get("k"); !ok || err != nil {
		t.Errorf("Get after reopen = %v, %v", ok, err)
	}
}

func TestPrune(t *testing.T) {
	c := openTemp(t)
	if err := c.Put("old", testImage(1, 1)); err != nil {
		t.Fatal(err)
	}

	n, err := c.Prune(time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
	if _, ok, _ := c.Get("old"); ok {
		t.Error("frame survived prune")
	}
}
