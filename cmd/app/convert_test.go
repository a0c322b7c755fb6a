package main

import (
	"errors"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/preset"
)

func convertContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("convert", flag.ContinueOnError)
	for _, name := range []string{"images", "out-dir", "name", "codec", "framerate", "ext", "ui"} {
		set.String(name, "", "")
	}
	set.Int("fps", 0, "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(app, set, nil)
}

func testStore(t *testing.T) *preset.Store {
	t.Helper()
	dir := t.TempDir()
	store, err := preset.Open(filepath.Join(dir, "presets.json"), filepath.Join(dir, "framerate_presets.json"))
	if err != nil {
		t.Fatal(err)
	}
	adds := []struct {
		kind             preset.Kind
		name, value, ext string
	}{
		{preset.KindCodec, "h264", "ffmpeg -y -i input -c:v libx264 output.mp4", ""},
		{preset.KindCodec, "ffv1", "ffmpeg -y -i input -c:v ffv1 output", ".mkv"},
		{preset.KindFramerate, "film", "24", ""},
	}
	for _, a := range adds {
		if err := store.Add(a.kind, a.name, a.value, a.ext); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestBuildJob(t *testing.T) {
	store := testStore(t)
	base := []string{"--images", "/in", "--out-dir", "/out", "--name", "clip"}

	testCases := []struct {
		name      string
		args      []string
		codec     string
		framerate int
		ext       string
	}{
		{"framerate preset", []string{"--codec", "h264", "--framerate", "film"}, "h264", 24, ""},
		{"fps overrides framerate preset", []string{"--codec", "h264", "--framerate", "film", "--fps", "50"}, "h264", 50, ""},
		{"unknown framerate preset falls back", []string{"--codec", "h264", "--framerate", "nope"}, "h264", cfg.DefaultFramerate, ""},
		{"default codec is first by name", nil, "ffv1", cfg.DefaultFramerate, ".mkv"},
		{"ext overrides preset extension", []string{"--codec", "ffv1", "--ext", ".mov"}, "ffv1", cfg.DefaultFramerate, ".mov"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			j, err := buildJob(convertContext(t, append(append([]string{}, base...), tc.args...)...), store)
			if err != nil {
				t.Fatalf("buildJob: %v", err)
			}
			if j.CodecName != tc.codec || j.Framerate != tc.framerate || j.Extension != tc.ext {
				t.Errorf("codec=%q fps=%d ext=%q, want %q %d %q", j.CodecName, j.Framerate, j.Extension, tc.codec, tc.framerate, tc.ext)
			}
			if j.ImageDir != "/in" || j.OutputDir != "/out" || j.OutputName != "clip" {
				t.Errorf("paths = %q %q %q", j.ImageDir, j.OutputDir, j.OutputName)
			}
			if want := store.Codecs()[tc.codec].Command; j.Template != want {
				t.Errorf("template = %q, want %q", j.Template, want)
			}
		})
	}
}

func TestBuildJobUnknownCodec(t *testing.T) {
	_, err := buildJob(convertContext(t, "--codec", "nope"), testStore(t))
	if !errors.Is(err, preset.ErrUnknownPreset) {
		t.Fatalf("got %v, want ErrUnknownPreset", err)
	}
	if !strings.Contains(err.Error(), `"nope"`) || !strings.Contains(err.Error(), "framereel preset add codec") {
		t.Errorf("message = %q", err)
	}

	dir := t.TempDir()
	empty, err := preset.Open(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = buildJob(convertContext(t), empty)
	if !errors.Is(err, preset.ErrUnknownPreset) || !strings.Contains(err.Error(), "framereel preset init") {
		t.Errorf("empty store: got %v", err)
	}
}

func TestJobFailedExitsSilently(t *testing.T) {
	err := jobFailed(errors.New("encode: ffmpeg exited with code 1"))
	exit, ok := err.(cli.ExitCoder)
	if !ok {
		t.Fatalf("got %T, want cli.ExitCoder", err)
	}
	if exit.ExitCode() != 1 {
		t.Errorf("exit code = %d", exit.ExitCode())
	}
	if err.Error() != "" {
		t.Errorf("message %q would be printed again", err.Error())
	}
}
