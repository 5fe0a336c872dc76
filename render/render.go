// Package render evaluates a program once per pixel of a canvas and encodes
// the resulting image.
package render

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/pixelmachine/vm"
)

var log = commonlog.GetLogger("pixelmachine.render")

// Job describes one render.
type Job struct {
	Program  string
	Width    int
	Height   int
	Textures []vm.Sampler

	// Workers bounds the number of rows evaluated at once. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
}

// PixelError reports the pixel whose evaluation failed.
type PixelError struct {
	X, Y int
	Err  error
}

func (e *PixelError) Error() string {
	return fmt.Sprintf("pixel (%d, %d): %v", e.X, e.Y, e.Err)
}

func (e *PixelError) Unwrap() error {
	return e.Err
}

// Render runs job.Program on a fresh machine for every pixel. Rows are
// evaluated in parallel; the first failure cancels the rows not yet started
// and no image is returned.
func Render(ctx context.Context, job Job) (*image.NRGBA, error) {
	if job.Width <= 0 || job.Height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", job.Width, job.Height)
	}
	workers := job.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	log.Infof("rendering %dx%d with %d textures on %d workers", job.Width, job.Height, len(job.Textures), workers)

	img := image.NewNRGBA(image.Rect(0, 0, job.Width, job.Height))
	w, h := uint32(job.Width), uint32(job.Height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < job.Height; y++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := img.Pix[y*img.Stride : y*img.Stride+job.Width*4]
			for x := 0; x < job.Width; x++ {
				m := vm.NewMachine(uint32(x), uint32(y), w, h, job.Textures)
				c, err := m.Interpret(job.Program)
				if err != nil {
					return &PixelError{X: x, Y: y, Err: err}
				}
				row[x*4+0] = c.R
				row[x*4+1] = c.G
				row[x*4+2] = c.B
				row[x*4+3] = c.A
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancellation that landed between rows leaves nothing for Wait to report.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Infof("rendered in %s", time.Since(start))
	return img, nil
}
