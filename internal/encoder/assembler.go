package encoder

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/1F47E/go-framereel/internal/logger"
	"github.com/1F47E/go-framereel/internal/video"
)

// OpenFunc starts a frame writer for a width x height stream at fps.
type OpenFunc func(ctx context.Context, path string, width, height, fps int) (video.FrameWriter, error)

// ProgressFunc is called after every written frame.
type ProgressFunc func(written, total int)

// Assembler writes an image sequence into the intermediate video.
type Assembler struct {
	decoder *FrameDecoder
	open    OpenFunc
}

func NewAssembler(open OpenFunc) *Assembler {
	return &Assembler{
		decoder: NewFrameDecoder(),
		open:    open,
	}
}

// IntermediateOpener returns an OpenFunc backed by the external encoder.
func IntermediateOpener(binary, codec string) OpenFunc {
	return func(ctx context.Context, path string, width, height, fps int) (video.FrameWriter, error) {
		return video.OpenIntermediate(ctx, binary, codec, path, width, height, fps)
	}
}

// Assemble decodes images (names relative to dir) in the given order and writes
// each one as a frame of out. The writer is opened at the size of the first
// image; every later image must have the same size.
func (a *Assembler) Assemble(ctx context.Context, dir string, images []string, fps int, out string, progress ProgressFunc) (err error) {
	log := logger.Log.WithField("scope", "assembler")
	total := len(images)
	if total == 0 {
		return fmt.Errorf("no frames to assemble")
	}

	// decode the first frame before anything is started
	first, err := a.decoder.DecodeFrame(filepath.Join(dir, images[0]))
	if err != nil {
		return err
	}
	size := first.Bounds().Size()
	log.Debugf("Sequence: %d frames, %dx%d @ %d fps", total, size.X, size.Y, fps)

	w, err := a.open(ctx, out, size.X, size.Y, fps)
	if err != nil {
		return fmt.Errorf("open intermediate: %w", err)
	}
	defer func() {
		if err != nil {
			w.Abort()
		}
	}()

	now := time.Now()
	var img image.Image = first
	for i, name := range images {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if i > 0 {
			img, err = a.decoder.DecodeFrame(path)
			if err != nil {
				return err
			}
		}
		if got := img.Bounds().Size(); got != size {
			return &DimensionMismatchError{Path: path, Index: i, Width: got.X, Height: got.Y, Want: size}
		}
		if err = w.WriteFrame(img); err != nil {
			return fmt.Errorf("write frame %d (%s): %w", i+1, name, err)
		}
		if progress != nil {
			progress(i+1, total)
		}
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("finalize intermediate: %w", err)
	}
	log.Debugf("Intermediate done. Took time: %s", time.Since(now))
	return nil
}
