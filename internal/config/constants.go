package config

// NOTE: extensions are matched case-sensitively, same as the sequence writers
// that produce them
var ImageExtensions = []string{".png", ".jpg", ".jpeg"}

const (
	// frames per second used when the framerate preset is unknown
	DefaultFramerate = 30

	// extension appended when the codec template has no usable hint
	DefaultOutputExtension = ".mp4"

	// assembly covers the first half of the progress scale,
	// the external encode jumps straight to the end
	ProgressAssemblyShare = 50.0
	ProgressDone          = 100.0

	// intermediate codecs
	IntermediateFFV1  = "ffv1"
	IntermediateMJPEG = "mjpeg"

	// ui modes
	UIAuto  = "auto"
	UITUI   = "tui"
	UIBar   = "bar"
	UIPlain = "plain"

	// Path
	TempVideoPrefix = "framereel-"
	LockFileName    = "framereel.lock"
	LogFileName     = "framereel.log"
)

// IntermediateExt maps an intermediate codec to its container extension.
func IntermediateExt(codec string) string {
	if codec == IntermediateMJPEG {
		return ".avi"
	}
	return ".mkv"
}
