package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/preset"
	"github.com/1F47E/go-framereel/internal/video"
)

func presetAddAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return fmt.Errorf("usage: %s", c.Command.UsageText)
	}
	kind, err := preset.ParseKind(c.Args().Get(0))
	if err != nil {
		return err
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	name, value := c.Args().Get(1), c.Args().Get(2)
	if kind == preset.KindCodec {
		// reject templates the invoker could not resolve
		if _, err := video.ParseTemplate(value); err != nil {
			return err
		}
	}
	if err := store.Add(kind, name, value, c.String("ext")); err != nil {
		return err
	}
	fmt.Printf("Saved %s preset %q\n", kind, name)
	return nil
}

func presetListAction(c *cli.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	codecs, framerates := store.Codecs(), store.Framerates()
	if len(codecs) == 0 && len(framerates) == 0 {
		fmt.Println("No presets defined. Run `framereel preset init` to add samples.")
		return nil
	}
	fmt.Println("Codec presets (" + settings.Paths.CodecPresets + ")")
	fmt.Println(renderTable([]string{"Name", "Command", "Extension"}, codecRows(codecs)))
	fmt.Println("Framerate presets (" + settings.Paths.FrameratePresets + ")")
	fmt.Println(renderTable([]string{"Name", "FPS"}, framerateRows(framerates), 2))
	return nil
}

func presetInitAction(c *cli.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	seeded, err := store.Seed()
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Println("Presets already exist, nothing to do")
		return nil
	}
	fmt.Printf("Sample presets written to %s and %s\n", settings.Paths.CodecPresets, settings.Paths.FrameratePresets)
	return nil
}

func checkAction(c *cli.Context) error {
	status := video.CheckEncoder(context.Background(), settings.Encoder.Binary)
	rows := checkRows(status)
	fmt.Println(renderTable([]string{"Check", "Status", "Detail"}, rows))
	if !status.Available {
		return fmt.Errorf("%w: %s", video.ErrEncoderNotFound, status.Detail)
	}
	return nil
}

func configInitAction(c *cli.Context) error {
	path := c.GlobalString("config")
	var err error
	if path == "" {
		path, err = cfg.DefaultConfigPath()
	} else {
		path, err = cfg.ExpandPath(path)
	}
	if err != nil {
		return err
	}
	if err = cfg.CreateSample(path, c.Bool("force")); err != nil {
		if errors.Is(err, cfg.ErrConfigExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	fmt.Printf("Sample config written to %s\n", path)
	return nil
}

func codecRows(m preset.Mapping) [][]string {
	rows := make([][]string, 0, len(m))
	for _, name := range m.Names() {
		v := m[name]
		ext := v.Extension
		if ext == "" {
			ext = video.ExtensionFromTemplate(v.Command) + " (from command)"
		}
		rows = append(rows, []string{name, v.Command, ext})
	}
	return rows
}

func framerateRows(m preset.Mapping) [][]string {
	rows := make([][]string, 0, len(m))
	for _, name := range m.Names() {
		fps := m[name].Command
		if n, err := strconv.Atoi(fps); err != nil || n <= 0 {
			fps += " (invalid)"
		}
		rows = append(rows, []string{name, fps})
	}
	return rows
}

func checkRows(status video.Status) [][]string {
	encoder := []string{"Encoder", "missing", status.Detail}
	if status.Available {
		encoder = []string{"Encoder", "ok", status.Version}
	}

	config := []string{"Config", "defaults", configPath + " (not found)"}
	if configExists {
		config = []string{"Config", "ok", configPath}
	}

	return [][]string{
		encoder,
		config,
		pathRow("Codec presets", settings.Paths.CodecPresets),
		pathRow("Framerate presets", settings.Paths.FrameratePresets),
		pathRow("Work dir", settings.Paths.WorkDir),
		{"Intermediate codec", "ok", settings.Encoder.IntermediateCodec},
	}
}

func pathRow(label, path string) []string {
	if _, err := os.Stat(path); err != nil {
		return []string{label, "missing", path + " (created on first use)"}
	}
	return []string{label, "ok", path}
}
