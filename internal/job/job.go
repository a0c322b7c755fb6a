package job

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError reports a missing or invalid job field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Job is one image sequence to video conversion. It lives only for the
// duration of a single run.
type Job struct {
	ID         uuid.UUID
	ImageDir   string
	OutputDir  string
	OutputName string
	Framerate  int
	CodecName  string
	Template   string
	Extension  string
}

func New(imageDir, outputDir, outputName string, fps int, codecName, template, ext string) Job {
	return Job{
		ID:         uuid.New(),
		ImageDir:   strings.TrimSpace(imageDir),
		OutputDir:  strings.TrimSpace(outputDir),
		OutputName: strings.TrimSpace(outputName),
		Framerate:  fps,
		CodecName:  codecName,
		Template:   template,
		Extension:  ext,
	}
}

// Validate checks the fields required before any side effect happens.
func (j *Job) Validate() error {
	switch {
	case j.ImageDir == "":
		return &ValidationError{Field: "image folder", Reason: "is required"}
	case j.OutputDir == "":
		return &ValidationError{Field: "output folder", Reason: "is required"}
	case j.OutputName == "":
		return &ValidationError{Field: "output file name", Reason: "is required"}
	case j.Framerate <= 0:
		return &ValidationError{Field: "framerate", Reason: fmt.Sprintf("must be positive, got %d", j.Framerate)}
	case strings.TrimSpace(j.Template) == "":
		return &ValidationError{Field: "codec command", Reason: "is required"}
	}
	return nil
}

func (j *Job) Print() string {
	return fmt.Sprintf("Job %s: images=%s out=%s/%s fps=%d codec=%s", j.ID, j.ImageDir, j.OutputDir, j.OutputName, j.Framerate, j.CodecName)
}
