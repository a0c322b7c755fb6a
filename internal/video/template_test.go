package video

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveCommandString(t *testing.T) {
	tpl, err := ParseTemplate("ffmpeg -i input -c:v libx264 output")
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	cmd := tpl.Resolve("temp_video.mp4", "/out/final.mp4")
	want := "ffmpeg -i temp_video.mp4 -c:v libx264 /out/final.mp4"
	if got := cmd.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		in       string
		out      string
		want     []string
	}{
		{
			name:     "extension hint on output token",
			template: "ffmpeg -y -i input -c:v libx264 output.mp4",
			in:       "/tmp/a.mkv",
			out:      "/videos/clip.mp4",
			want:     []string{"ffmpeg", "-y", "-i", "/tmp/a.mkv", "-c:v", "libx264", "/videos/clip.mp4"},
		},
		{
			name:     "paths with spaces and keywords stay one argument",
			template: "ffmpeg -i input output",
			in:       "/tmp/my input dir/x.mkv",
			out:      "/out/output; rm -rf ~.mp4",
			want:     []string{"ffmpeg", "-i", "/tmp/my input dir/x.mkv", "/out/output; rm -rf ~.mp4"},
		},
		{
			name:     "braced placeholders inside an argument",
			template: "ffmpeg -i {input} -f mp4 file:{output}",
			in:       "a.mkv",
			out:      "b.mp4",
			want:     []string{"ffmpeg", "-i", "a.mkv", "-f", "mp4", "file:b.mp4"},
		},
		{
			name:     "words containing the tokens are untouched",
			template: "ffmpeg -i input -metadata title=outputs -max_muxing_queue_size 1024 output",
			in:       "a.mkv",
			out:      "b.mp4",
			want:     []string{"ffmpeg", "-i", "a.mkv", "-metadata", "title=outputs", "-max_muxing_queue_size", "1024", "b.mp4"},
		},
		{
			name:     "quoted filter argument",
			template: `ffmpeg -i input -vf "scale=1280:-2,format=yuv420p" output.mkv`,
			in:       "a.mkv",
			out:      "b.mkv",
			want:     []string{"ffmpeg", "-i", "a.mkv", "-vf", "scale=1280:-2,format=yuv420p", "b.mkv"},
		},
		{
			name:     "extension hint on braced output",
			template: "ffmpeg -i {input} -c:v libx264 {output}.mkv",
			in:       "/work/tmp.mkv",
			out:      "/out/clip.mkv",
			want:     []string{"ffmpeg", "-i", "/work/tmp.mkv", "-c:v", "libx264", "/out/clip.mkv"},
		},
		{
			name:     "extension hint on braced output inside an argument",
			template: "ffmpeg -i input -f matroska file:{output}.mkv",
			in:       "a.mkv",
			out:      "/out/clip.mkv",
			want:     []string{"ffmpeg", "-i", "a.mkv", "-f", "matroska", "file:/out/clip.mkv"},
		},
		{
			name:     "quoted operators are plain text",
			template: `ffmpeg -i input -metadata "comment=a;b && c > d" output.mp4`,
			in:       "a.mkv",
			out:      "b.mp4",
			want:     []string{"ffmpeg", "-i", "a.mkv", "-metadata", "comment=a;b && c > d", "b.mp4"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tpl, err := ParseTemplate(tc.template)
			if err != nil {
				t.Fatalf("ParseTemplate: %v", err)
			}
			cmd := tpl.Resolve(tc.in, tc.out)
			if !reflect.DeepEqual(cmd.Args, tc.want) {
				t.Errorf("got %q, want %q", cmd.Args, tc.want)
			}
			if cmd.Input != tc.in || cmd.Output != tc.out {
				t.Errorf("paths = %q, %q", cmd.Input, cmd.Output)
			}
		})
	}
}

func TestParseTemplateErrors(t *testing.T) {
	testCases := []struct {
		name     string
		template string
	}{
		{"empty", "   "},
		{"no input", "ffmpeg -i in.mp4 output"},
		{"no output", "ffmpeg -i input out.mp4"},
		{"program only", "input"},
		{"unterminated quote", `ffmpeg -i input "output`},
		{"stderr redirect", "ffmpeg -i input -c:v libx264 output.mp4 2> encode.log"},
		{"and list", "ffmpeg -i input -c:v libx264 output.mp4 && echo done"},
		{"command separator", "ffmpeg -i input output.mp4 ; rm -rf x"},
		{"pipe", "ffmpeg -i input -f mpegts output | tee copy.ts"},
		{"input redirect", "ffmpeg -i input output.mp4 < answers.txt"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTemplate(tc.template)
			if !errors.Is(err, ErrTemplate) {
				t.Errorf("got %v, want ErrTemplate", err)
			}
		})
	}
}

func TestCommandStringQuotes(t *testing.T) {
	cmd := Command{Args: []string{"ffmpeg", "-i", "my file.mkv", "it's.mp4", ""}}
	want := `ffmpeg -i 'my file.mkv' 'it'\''s.mp4' ''`
	if got := cmd.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestParseTemplateWindowsPaths(t *testing.T) {
	defer func(v bool) { literalBackslashes = v }(literalBackslashes)
	literalBackslashes = true

	tpl, err := ParseTemplate(`C:\ffmpeg\bin\ffmpeg.exe -i input -vf "subtitles=C:\subs\a b.srt" 'D:\x\' output.mp4`)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	want := []string{`C:\ffmpeg\bin\ffmpeg.exe`, "-i", "in.mkv", "-vf", `subtitles=C:\subs\a b.srt`, `D:\x\`, "out.mp4"}
	if got := tpl.Resolve("in.mkv", "out.mp4").Args; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
	if tpl.Program() != `C:\ffmpeg\bin\ffmpeg.exe` {
		t.Errorf("program = %q", tpl.Program())
	}
}

func TestParseTemplateBackslashEscapes(t *testing.T) {
	defer func(v bool) { literalBackslashes = v }(literalBackslashes)
	literalBackslashes = false

	tpl, err := ParseTemplate(`ffmpeg -i input -metadata title=a\ b output`)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	want := []string{"ffmpeg", "-i", "x", "-metadata", "title=a b", "y"}
	if got := tpl.Resolve("x", "y").Args; !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}
