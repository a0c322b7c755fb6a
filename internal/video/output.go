package video

import (
	"path/filepath"
	"strings"
	"unicode"

	cfg "github.com/1F47E/go-framereel/internal/config"
)

// ExtensionFromTemplate guesses the output extension from a command template:
// the text after the last dot up to the next whitespace. Falls back to .mp4.
//
// NOTE: a flag value with a dot after the output token (-crf 18.5) wins over
// the real extension. Presets can pin the extension explicitly instead.
func ExtensionFromTemplate(template string) string {
	idx := strings.LastIndex(template, ".")
	if idx < 0 {
		return cfg.DefaultOutputExtension
	}
	rest := template[idx+1:]
	if end := strings.IndexFunc(rest, unicode.IsSpace); end >= 0 {
		rest = rest[:end]
	}
	rest = strings.Trim(rest, `"'`)
	if rest == "" {
		return cfg.DefaultOutputExtension
	}
	return "." + rest
}

// EnsureExtension makes name end with ext (case-insensitive), replacing any
// other extension it had.
func EnsureExtension(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

// ResolveOutputPath builds the final output file path. explicitExt, when set,
// takes precedence over the template heuristic.
func ResolveOutputPath(dir, name, template, explicitExt string) string {
	ext := explicitExt
	if ext == "" {
		ext = ExtensionFromTemplate(template)
	} else if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return filepath.Join(dir, EnsureExtension(name, ext))
}
