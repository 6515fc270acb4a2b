package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/oliverbestmann/ssr/pulse"
	"github.com/urfave/cli"
)

func main() {
	// environment from a local .env file, if there is one
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.Any("err", err))
	}

	app := cli.NewApp()
	app.Name = "ssrdemo"
	app.Usage = "screen space reflections on a synthetic scene"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "v",
			Usage:  "enable verbose logging",
			EnvVar: "SSR_VERBOSE",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging, including the native webgpu library",
		},
		cli.StringFlag{
			Name:   "settings, s",
			Usage:  "load reflection settings from a json file",
			EnvVar: "SSR_SETTINGS",
		},
	}

	app.Before = configureLogging

	sceneFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "camera width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "camera height",
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "defaults",
			Usage:  "print the default settings as a table and as json",
			Action: PrintDefaults,
		},
		{
			Name:  "plan",
			Usage: "record one frame without a gpu and print the commands",
			Description: `
Runs the reflections pass on a recording command buffer and prints every
command of the frame, followed by the number of draws and copies.`,
			Flags:  sceneFlags,
			Action: PrintPlan,
		},
		{
			Name:      "preview",
			Usage:     "write the scene color at the resolution of the scratch buffers",
			ArgsUsage: "output.png",
			Flags: append(sceneFlags, cli.Uint64Flag{
				Name:  "seed",
				Value: 1337,
				Usage: "scene seed",
			}),
			Action: WritePreview,
		},
		{
			Name:  "run",
			Usage: "render the scene in a window",
			Description: `
Keys:
  SPACE   toggle reflections
  D       cycle through downsample levels
  R       reload the settings file
  ESC     quit`,
			Flags: append(sceneFlags, cli.StringFlag{
				Name:  "cpuprofile",
				Usage: "write a cpu profile to this directory",
			}),
			Action: RunDemo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func configureLogging(ctx *cli.Context) error {
	level := slog.LevelInfo

	switch {
	case ctx.GlobalBool("vv"):
		level = slog.LevelDebug
		pulse.ConfigureLogLevel("INFO")

	case ctx.GlobalBool("v"):
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: level <= slog.LevelDebug, Level: level})
	slog.SetDefault(slog.New(handler))

	return nil
}
