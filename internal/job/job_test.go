package job

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	const tpl = "ffmpeg -i input output.mp4"
	testCases := []struct {
		name  string
		job   Job
		field string
	}{
		{"ok", New("/img", "/out", "clip", 24, "h264", tpl, ""), ""},
		{"missing images", New(" ", "/out", "clip", 24, "h264", tpl, ""), "image folder"},
		{"missing output dir", New("/img", "", "clip", 24, "h264", tpl, ""), "output folder"},
		{"missing name", New("/img", "/out", "", 24, "h264", tpl, ""), "output file name"},
		{"bad fps", New("/img", "/out", "clip", 0, "h264", tpl, ""), "framerate"},
		{"missing template", New("/img", "/out", "clip", 30, "", "", ""), "codec command"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.job.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if vErr.Field != tc.field {
				t.Errorf("field = %q, want %q", vErr.Field, tc.field)
			}
		})
	}
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	a := New("/img", "/out", "a", 30, "", "", "")
	b := New("/img", "/out", "a", 30, "", "", "")
	if a.ID == b.ID {
		t.Error("expected distinct job ids")
	}
}
