package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/core"
	"github.com/1F47E/go-framereel/internal/job"
	"github.com/1F47E/go-framereel/internal/logger"
	"github.com/1F47E/go-framereel/internal/preset"
	"github.com/1F47E/go-framereel/internal/storage"
	"github.com/1F47E/go-framereel/internal/tui"
	"github.com/1F47E/go-framereel/internal/video"
)

const eventsBuffer = 64

func convertAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	log := logger.Log.WithField("scope", "convert")

	// a missing encoder only fails the job, the rest of the app still works
	if status := video.CheckEncoder(ctx, settings.Encoder.Binary); !status.Available {
		log.Warnf("%s. Install ffmpeg or set encoder.binary in %s", status.Detail, configPath)
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	j, err := buildJob(c, store)
	if err != nil {
		return err
	}

	uiMode := settings.UI.Mode
	if c.IsSet("ui") {
		uiMode = c.String("ui")
		if err := cfg.ValidateUIMode(uiMode); err != nil {
			return err
		}
	}
	mode := tui.ResolveMode(uiMode, os.Stdout)
	invoker := &video.Invoker{}
	if mode == cfg.UITUI {
		logFile, restore, err := redirectLog(settings.Paths.WorkDir)
		if err != nil {
			return err
		}
		defer restore()
		// the widget owns the terminal, keep the encoder's own output next to the log
		invoker.Stderr = logFile
	}

	events := make(chan tui.Event, eventsBuffer)
	conv := core.NewCore(ctx, events, core.Options{
		WorkDir:           settings.Paths.WorkDir,
		Binary:            settings.Encoder.Binary,
		IntermediateCodec: settings.Encoder.IntermediateCodec,
		Invoker:           invoker,
	})
	progressCh, unsubscribe := conv.Progress().Subscribe()
	defer unsubscribe()

	task, err := conv.Start(j)
	if err != nil {
		return err
	}

	renderCtx, stopRender := context.WithCancel(ctx)
	defer stopRender()
	go func() {
		<-task.Done()
		stopRender()
	}()
	renderer := tui.NewRenderer(mode, os.Stdout, progressCh, task.Cancel)
	if err := renderer.Run(renderCtx, events); err != nil {
		log.Warnf("progress display failed: %v", err)
	}

	res, err := task.Wait()
	if err != nil {
		return jobFailed(err)
	}
	log.Debugf("Encoder command: %s", res.Command)
	log.Debugf("Finished in %s", res.Duration.Round(time.Millisecond))
	return nil
}

// buildJob resolves presets and flags into a conversion job. Validation of
// the job itself happens in the core.
func buildJob(c *cli.Context, store *preset.Store) (job.Job, error) {
	codecName, codec, err := store.Codec(c.String("codec"))
	if err != nil {
		return job.Job{}, fmt.Errorf("%w (add one with `framereel preset add codec NAME COMMAND` or run `framereel preset init`)", err)
	}

	fps := c.Int("fps")
	if !c.IsSet("fps") {
		if fps, err = store.Framerate(c.String("framerate")); err != nil {
			return job.Job{}, err
		}
	}

	ext := codec.Extension
	if c.IsSet("ext") {
		ext = c.String("ext")
	}
	return job.New(c.String("images"), c.String("out-dir"), c.String("name"), fps, codecName, codec.Command, ext), nil
}

// jobFailed exits non-zero without printing err again: the core has logged
// it and the renderer has shown it.
func jobFailed(err error) error {
	logger.Log.WithField("scope", "convert").Debugf("exit after failed job: %v", err)
	return cli.NewExitError("", 1)
}

// redirectLog moves logging into the work dir while the widget owns the
// terminal. The returned func restores stderr and closes the file.
func redirectLog(workDir string) (*os.File, func(), error) {
	if err := storage.EnsureDir(workDir); err != nil {
		return nil, nil, err
	}
	path := filepath.Join(workDir, cfg.LogFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.Redirect(f)
	return f, func() {
		logger.Redirect(os.Stderr)
		_ = f.Close()
	}, nil
}
