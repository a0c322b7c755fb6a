package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strconv"
	"sync"

	cfg "github.com/1F47E/go-framereel/internal/config"
	"github.com/1F47E/go-framereel/internal/logger"
)

// FrameWriter receives decoded frames in order.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	// Close flushes and finalizes the file.
	Close() error
	// Abort stops writing and discards whatever the process was doing.
	Abort()
}

// Intermediate writes raw RGBA frames into an encoder process that produces
// the lossless intermediate file.
type Intermediate struct {
	ctx     context.Context
	program string
	width   int
	height  int
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  *bytes.Buffer
	once    sync.Once
	waitErr error
}

// IntermediateArgs builds the encoder argv for the intermediate file.
func IntermediateArgs(binary, codec, path string, width, height, fps int) []string {
	args := []string{
		binary,
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
	}
	switch codec {
	case cfg.IntermediateMJPEG:
		args = append(args, "-c:v", "mjpeg", "-q:v", "1", "-pix_fmt", "yuvj444p")
	default:
		args = append(args, "-c:v", "ffv1", "-level", "3", "-pix_fmt", "yuv444p")
	}
	return append(args, path)
}

// OpenIntermediate starts the encoder process for a width x height stream.
func OpenIntermediate(ctx context.Context, binary, codec, path string, width, height, fps int) (*Intermediate, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", fps)
	}
	args := IntermediateArgs(binary, codec, path, width, height, fps)
	logger.Log.WithField("scope", "intermediate").Debugf("Running encoder command: %s", Command{Args: args}.String())

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("encoder stdin: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	if err := cmd.Start(); err != nil {
		return nil, processError(ctx, binary, err, "")
	}
	return &Intermediate{
		ctx:     ctx,
		program: binary,
		width:   width,
		height:  height,
		cmd:     cmd,
		stdin:   stdin,
		stderr:  stderr,
	}, nil
}

// WriteFrame sends one frame. The frame must match the stream size.
func (w *Intermediate) WriteFrame(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame size %dx%d does not match stream %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}
	if _, err := w.stdin.Write(RGBAPixels(img)); err != nil {
		// the process died, its exit status says why
		if werr := w.wait(); werr != nil {
			return werr
		}
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

func (w *Intermediate) Close() error {
	return w.wait()
}

func (w *Intermediate) Abort() {
	if w.cmd.Process != nil {
		_ = w.cmd.Process.Kill()
	}
	_ = w.wait()
}

func (w *Intermediate) wait() error {
	w.once.Do(func() {
		_ = w.stdin.Close()
		if err := w.cmd.Wait(); err != nil {
			w.waitErr = processError(w.ctx, w.program, err, w.stderr.String())
		}
	})
	return w.waitErr
}

// RGBAPixels returns the frame as tightly packed 8-bit RGBA rows.
func RGBAPixels(img image.Image) []byte {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*b.Dx() && b.Min == (image.Point{}) {
		return rgba.Pix[:4*b.Dx()*b.Dy()]
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst.Pix
}
