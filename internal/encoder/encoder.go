package encoder

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// DecodeError is returned when an image in the sequence cannot be read or
// decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DimensionMismatchError is returned when a frame differs in size from the
// first frame of the sequence. Frames are never resized.
type DimensionMismatchError struct {
	Path   string
	Index  int
	Width  int
	Height int
	Want   image.Point
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("frame %d (%s) is %dx%d, sequence is %dx%d",
		e.Index+1, e.Path, e.Width, e.Height, e.Want.X, e.Want.Y)
}

// FrameDecoder turns image files into frames.
type FrameDecoder struct{}

func NewFrameDecoder() *FrameDecoder {
	return &FrameDecoder{}
}

// DecodeFrame reads and decodes one image file.
func (f *FrameDecoder) DecodeFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Path: path, Err: fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())}
	}
	return img, nil
}
