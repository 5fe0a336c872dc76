package texture

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var log = commonlog.GetLogger("pixelmachine.texture")

// Decode reads an image in any registered format.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}

// Load decodes the image at path and fills it to width x height.
func Load(path string, width, height int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open texture: %w", err)
	}
	defer f.Close()

	img, format, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode %s: %w", path, err)
	}

	filled, err := Fill(img, width, height)
	if err != nil {
		return nil, fmt.Errorf("cannot resize %s: %w", path, err)
	}

	log.Debugf("loaded %s (%s %dx%d)", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return New(filepath.Base(path), filled), nil
}

// LoadAll loads every path in parallel and returns the textures in the same
// order. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, paths []string, width, height int) ([]*Texture, error) {
	start := time.Now()
	textures := make([]*Texture, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := Load(path, width, height)
			if err != nil {
				return err
			}
			textures[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("loaded %d textures in %s", len(textures), time.Since(start))
	return textures, nil
}
