package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/job"
	"github.com/1F47E/go-framereel/internal/logger"
	"github.com/1F47E/go-framereel/internal/storage"
	"github.com/1F47E/go-framereel/internal/tui"
	"github.com/1F47E/go-framereel/internal/video"
	"github.com/1F47E/go-framereel/internal/workers"
	"github.com/google/uuid"
)

type State int32

const (
	StateIdle State = iota
	StateValidating
	StateAssembling
	StateEncoding
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAssembling:
		return "assembling"
	case StateEncoding:
		return "encoding"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Result describes a finished conversion.
type Result struct {
	JobID    uuid.UUID
	Output   string
	Frames   int
	Command  string
	Duration time.Duration
}

// Task is a conversion running in the background.
type Task struct {
	*workers.Task
	result Result
}

// Wait blocks until the conversion ends.
func (t *Task) Wait() (Result, error) {
	err := t.Task.Wait()
	return t.result, err
}

// Start runs j in the background. Only one job may run at a time, within
// this process and across processes sharing the work dir; otherwise ErrBusy.
func (c *Core) Start(j job.Job) (*Task, error) {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.worker.Busy() {
		return nil, ErrBusy
	}
	if err := storage.EnsureDir(c.workDir); err != nil {
		return nil, err
	}
	ok, err := c.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire job lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s held by another process)", ErrBusy, c.lock.Path())
	}

	t := &Task{}
	wt, err := c.worker.Submit(func(ctx context.Context) error {
		defer func() {
			if err := c.lock.Unlock(); err != nil {
				logger.Log.WithField("scope", "core").Warnf("release job lock: %v", err)
			}
		}()
		res, err := c.run(ctx, j)
		t.result = res
		return err
	})
	if err != nil {
		_ = c.lock.Unlock()
		return nil, err
	}
	t.Task = wt
	return t, nil
}

// Convert runs j and waits for it.
func (c *Core) Convert(j job.Job) (Result, error) {
	t, err := c.Start(j)
	if err != nil {
		return Result{}, err
	}
	return t.Wait()
}

// Idle -> Validating -> Assembling -> Encoding -> Done -> Idle.
// Any failure resets progress to 0 and returns to Idle.
func (c *Core) run(ctx context.Context, j job.Job) (res Result, err error) {
	log := logger.Log.WithField("scope", "core convert").WithField("job", j.ID.String())
	started := time.Now()
	res.JobID = j.ID

	c.progress.Reset()
	defer func() {
		if err != nil {
			c.progress.Reset()
			log.Errorf("Conversion failed: %v", err)
			c.emitFinal(tui.NewEventError(err))
		}
		c.setState(StateIdle)
	}()

	// Validating
	c.setState(StateValidating)
	c.emit(tui.NewEventSpin("Validating..."))
	if err = j.Validate(); err != nil {
		return res, err
	}
	tpl, err := video.ParseTemplate(j.Template)
	if err != nil {
		return res, err
	}
	output := video.ResolveOutputPath(j.OutputDir, j.OutputName, j.Template, j.Extension)
	log.Debug(j.Print())

	// Assembling
	c.setState(StateAssembling)
	c.emit(tui.NewEventSpin("Scanning images..."))
	images, err := storage.ScanImages(j.ImageDir)
	if err != nil {
		return res, err
	}
	if len(images) == 0 {
		return res, fmt.Errorf("%w: %s", ErrNoImages, j.ImageDir)
	}
	res.Frames = len(images)
	if err = storage.EnsureDir(j.OutputDir); err != nil {
		return res, err
	}

	temp := storage.TempVideoPath(c.workDir, j.ID, c.codec)
	defer func() {
		if rmErr := storage.RemoveIfExists(temp); rmErr != nil {
			log.Warnf("remove intermediate %s: %v", temp, rmErr)
		}
	}()

	total := len(images)
	c.emit(tui.NewEventBar(fmt.Sprintf("Assembling frames... %d/%d", 0, total), 0))
	err = c.assembler.Assemble(ctx, j.ImageDir, images, j.Framerate, temp, func(written, total int) {
		c.progress.Advance(float64(written) / float64(total) * cfg.ProgressAssemblyShare)
		c.emit(tui.NewEventBar(fmt.Sprintf("Assembling frames... %d/%d", written, total), c.progress.Value()/100))
	})
	if err != nil {
		return res, fmt.Errorf("assemble %s: %w", j.ImageDir, err)
	}
	log.Debugf("Intermediate written: %s", temp)

	// Encoding
	c.setState(StateEncoding)
	cmd := tpl.Resolve(temp, output)
	res.Command = cmd.String()
	c.emit(tui.NewEventSpin(fmt.Sprintf("Encoding %s...", filepath.Base(output))))

	existed := storage.Exists(output)
	if err = c.invoker.Run(ctx, cmd); err != nil {
		// never delete a file that was there before the job
		if !existed {
			_ = storage.RemoveIfExists(output)
		}
		if errors.Is(err, video.ErrEncoderNotFound) {
			return res, fmt.Errorf("%w (is %s installed?)", err, tpl.Program())
		}
		return res, fmt.Errorf("encode: %w", err)
	}

	// Done
	c.setState(StateDone)
	c.progress.Set(cfg.ProgressDone)
	res.Output = output
	res.Duration = time.Since(started)
	log.Infof("Video created: %s (%d frames, %s)", output, res.Frames, res.Duration.Round(time.Millisecond))
	c.emitFinal(tui.NewEventDone(fmt.Sprintf("Video created successfully: %s", output)))
	return res, nil
}

const finalEventTimeout = time.Second

// final events are not dropped while the reader keeps up
func (c *Core) emitFinal(e tui.Event) {
	if c.eventsCh == nil {
		return
	}
	select {
	case c.eventsCh <- e:
	case <-time.After(finalEventTimeout):
	}
}
