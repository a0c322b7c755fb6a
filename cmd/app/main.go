package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/logger"
	"github.com/1F47E/go-framereel/internal/preset"
)

var app = cli.NewApp()
var log = logger.Log

// loaded in app.Before
var (
	settings     *cfg.Config
	configPath   string
	configExists bool
)

func init() {
	app.Name = "framereel"
	app.Usage = "An image sequence to video converter"
	app.UsageText = "framereel [--config FILE] command [options]"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "config file (default ~/.config/framereel/config.toml or ./framereel.toml)",
		},
	}
	app.Before = loadSettings
	app.Commands = []cli.Command{
		{
			Name:      "convert",
			Aliases:   []string{"c"},
			Usage:     "Convert a folder of images into a video",
			UsageText: "framereel convert --images DIR --out-dir DIR --name FILE [--codec NAME] [--framerate NAME | --fps N]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "images, i", Usage: "folder with the image sequence"},
				cli.StringFlag{Name: "out-dir, o", Usage: "folder for the video"},
				cli.StringFlag{Name: "name, n", Usage: "video file name, the extension follows the codec preset"},
				cli.StringFlag{Name: "codec", Usage: "codec preset name (default: first preset by name)"},
				cli.StringFlag{Name: "framerate, r", Usage: "framerate preset name"},
				cli.IntFlag{Name: "fps", Usage: "framerate in frames per second, overrides --framerate"},
				cli.StringFlag{Name: "ext", Usage: "output extension, overrides the codec preset"},
				cli.StringFlag{Name: "ui", Usage: "progress display: auto|tui|bar|plain"},
			},
			Action: convertAction,
		},
		{
			Name:    "preset",
			Aliases: []string{"p"},
			Usage:   "Manage codec and framerate presets",
			Subcommands: []cli.Command{
				{
					Name:      "add",
					Usage:     "Add or replace a preset",
					UsageText: "framereel preset add [--ext .mkv] codec|framerate NAME VALUE",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "ext", Usage: "explicit output extension for a codec preset"},
					},
					Action: presetAddAction,
				},
				{
					Name:   "list",
					Usage:  "Show all presets",
					Action: presetListAction,
				},
				{
					Name:   "init",
					Usage:  "Write sample presets where none exist",
					Action: presetInitAction,
				},
			},
		},
		{
			Name:   "check",
			Usage:  "Check the encoder and configured paths",
			Action: checkAction,
		},
		{
			Name:  "config",
			Usage: "Manage the config file",
			Subcommands: []cli.Command{
				{
					Name:  "init",
					Usage: "Write a sample config file",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
					},
					Action: configInitAction,
				},
			},
		},
	}
}

func loadSettings(c *cli.Context) error {
	loaded, resolved, exists, err := cfg.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	settings, configPath, configExists = loaded, resolved, exists
	if err := logger.Configure(settings.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if exists {
		log.Debugf("Config loaded from %s", resolved)
	}
	return nil
}

func openStore() (*preset.Store, error) {
	return preset.Open(settings.Paths.CodecPresets, settings.Paths.FrameratePresets)
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
