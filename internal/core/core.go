package core

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/core/progress"
	"github.com/1F47E/go-framereel/internal/encoder"
	"github.com/1F47E/go-framereel/internal/tui"
	"github.com/1F47E/go-framereel/internal/video"
	"github.com/1F47E/go-framereel/internal/workers"
	"github.com/gofrs/flock"
)

var (
	ErrNoImages = errors.New("no images found in the selected folder")
	ErrBusy     = workers.ErrBusy
)

// Assembler writes an ordered image list into the intermediate video.
type Assembler interface {
	Assemble(ctx context.Context, dir string, images []string, fps int, out string, progress encoder.ProgressFunc) error
}

// Invoker runs the final encoder command.
type Invoker interface {
	Run(ctx context.Context, cmd video.Command) error
}

// Options configures a Core. Nil Assembler/Invoker get the ffmpeg-backed ones.
type Options struct {
	WorkDir           string
	Binary            string
	IntermediateCodec string
	Assembler         Assembler
	Invoker           Invoker
}

type Core struct {
	startMu   sync.Mutex
	eventsCh  chan tui.Event
	worker    *workers.Worker
	progress  *progress.Tracker
	assembler Assembler
	invoker   Invoker
	workDir   string
	codec     string
	lock      *flock.Flock
	state     atomic.Int32
}

// NewCore builds the conversion core. eventsCh may be nil; sends to it never
// block, so it should be buffered.
func NewCore(ctx context.Context, eventsCh chan tui.Event, opts Options) *Core {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.Binary == "" {
		opts.Binary = "ffmpeg"
	}
	if opts.IntermediateCodec == "" {
		opts.IntermediateCodec = cfg.IntermediateFFV1
	}
	if opts.Assembler == nil {
		opts.Assembler = encoder.NewAssembler(encoder.IntermediateOpener(opts.Binary, opts.IntermediateCodec))
	}
	if opts.Invoker == nil {
		opts.Invoker = &video.Invoker{}
	}
	return &Core{
		eventsCh:  eventsCh,
		worker:    workers.NewWorker(ctx),
		progress:  progress.New(),
		assembler: opts.Assembler,
		invoker:   opts.Invoker,
		workDir:   opts.WorkDir,
		codec:     opts.IntermediateCodec,
		lock:      flock.New(filepath.Join(opts.WorkDir, cfg.LockFileName)),
	}
}

// Progress exposes the job progress value.
func (c *Core) Progress() *progress.Tracker {
	return c.progress
}

// State returns the current job phase.
func (c *Core) State() State {
	return State(c.state.Load())
}

func (c *Core) setState(s State) {
	c.state.Store(int32(s))
}

func (c *Core) emit(e tui.Event) {
	if c.eventsCh == nil {
		return
	}
	select {
	case c.eventsCh <- e:
	default:
	}
}
