package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chazu/pixelmachine/cache"
	"github.com/chazu/pixelmachine/manifest"
	"github.com/chazu/pixelmachine/render"
	"github.com/chazu/pixelmachine/texture"
)

type renderOptions struct {
	workers int
	noCache bool
	output  string
}

// handleRenderCommand processes the `pixelmachine render` subcommand.
func handleRenderCommand(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var verbosity countFlag
	fs.Var(&verbosity, "v", "Verbose output (repeat for more)")
	workers := fs.Int("workers", 0, "Rows rendered in parallel (default: number of CPUs)")
	noCache := fs.Bool("no-cache", false, "Ignore and do not update the render cache")
	output := fs.String("o", "", "Write the image here instead of the manifest's output")
	logFile := fs.String("log", "", "Write logs to this file instead of stderr")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pixelmachine render [options] [manifest]\n\n")
		fmt.Fprintf(os.Stderr, "Without a manifest, pixelmachine.toml is searched for upwards from\n")
		fmt.Fprintf(os.Stderr, "the current directory. Manifests may be TOML, JSON or YAML.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)
	configureLogging(int(verbosity), *logFile)

	m, err := loadManifest(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := runRender(ctx, m, renderOptions{workers: *workers, noCache: *noCache, output: *output})
	if err != nil {
		fatal(err)
	}
	fmt.Println(out)
}

func loadManifest(path string) (*manifest.Manifest, error) {
	if path != "" {
		log.Infof("loading manifest from %s", path)
		return manifest.Load(path)
	}
	m, err := manifest.FindAndLoad(".")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("no manifest given and no " + manifest.FileName + " found")
	}
	return m, nil
}

// runRender renders m and writes the image, returning the output path.
func runRender(ctx context.Context, m *manifest.Manifest, opts renderOptions) (string, error) {
	start := time.Now()

	program, err := m.ReadProgram()
	if err != nil {
		return "", err
	}

	textures, err := texture.LoadAll(ctx, m.InputPaths(), m.Width, m.Height)
	if err != nil {
		return "", err
	}

	out := opts.output
	if out == "" {
		out = m.OutputPath()
	}

	var store *cache.Cache
	var key string
	if path := m.CachePath(); path != "" && !opts.noCache {
		store, err = cache.Open(path)
		if err != nil {
			return "", err
		}
		defer store.Close()

		digests := make([]cache.Digester, len(textures))
		for i, t := range textures {
			digests[i] = t
		}
		key = cache.Key(program, m.Width, m.Height, digests)

		img, ok, err := store.Get(key)
		if err != nil {
			log.Warningf("cache lookup failed: %v", err)
		} else if ok {
			log.Info("cache hit")
			if err := render.Save(out, img); err != nil {
				return "", err
			}
			log.Noticef("DURATION %s", time.Since(start))
			return out, nil
		}
	}

	workers := opts.workers
	if workers == 0 {
		workers = m.Render.Workers
	}
	img, err := render.Render(ctx, render.Job{
		Program:  program,
		Width:    m.Width,
		Height:   m.Height,
		Textures: texture.Samplers(textures),
		Workers:  workers,
	})
	if err != nil {
		return "", err
	}

	if store != nil {
		if err := store.Put(key, img); err != nil {
			log.Warningf("cache update failed: %v", err)
		}
	}

	if err := render.Save(out, img); err != nil {
		return "", err
	}
	log.Noticef("DURATION %s", time.Since(start))
	return out, nil
}
