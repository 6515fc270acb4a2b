package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/oliverbestmann/ssr/scene"
	"github.com/urfave/cli"
)

func WritePreview(ctx *cli.Context) error {
	settings, err := loadSettings(ctx)
	if err != nil {
		return err
	}

	path := ctx.Args().First()
	if path == "" {
		path = "preview.png"
	}

	opts := scene.DefaultOptions()
	opts.Width = ctx.Int("width")
	opts.Height = ctx.Int("height")
	opts.Seed = ctx.Uint64("seed")

	buffers := scene.Generate(opts)

	// what the reflections pass sees in its scratch buffers
	img := scene.Downsample(buffers.Color, settings.Downsamples)

	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}

	defer fp.Close()

	if err := png.Encode(fp, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	slog.Info("Preview written",
		slog.String("path", path),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("height", img.Bounds().Dy()),
	)

	return nil
}
