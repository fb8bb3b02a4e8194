package tuitest

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func TestMouseClickEncodesX10Reports(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		x, y int
		want []byte
	}{
		{name: "origin", x: 0, y: 0, want: []byte("\x1b[M !!\x1b[M#!!")},
		{name: "cell", x: 5, y: 2, want: []byte("\x1b[M &#\x1b[M#&#")},
		{name: "clamped", x: -4, y: 900, want: []byte{27, '[', 'M', 32, 33, 255, 27, '[', 'M', 35, 33, 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MouseClick(tc.x, tc.y); !bytes.Equal(got, tc.want) {
				t.Fatalf("MouseClick(%d, %d) = %q want %q", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestReplayRebuildsScreen(t *testing.T) {
	t.Parallel()

	raw := []byte("boot\r\n" +
		"\x1b[?1049h\x1b[2J\x1b[1;1H" +
		"\x1b[2;3H⚒ new\r\n\x1b[7m  └─ new\x1b[0m" +
		"\x1b[1A\x1b[80D\x1b[2K\x1b[2;3H⚒ root" +
		"\x1b[?1049l" +
		"bye")
	frames := replay(raw, 20, 4)
	if len(frames) != 2 {
		t.Fatalf("frame count mismatch: got %d want 2", len(frames))
	}

	editor := frames[0]
	if got := editor.Line(1); got != "  ⚒ root" {
		t.Fatalf("row 1 mismatch: got %q want %q", got, "  ⚒ root")
	}
	if got := editor.Line(2); got != "  └─ new" {
		t.Fatalf("row 2 mismatch: got %q want %q", got, "  └─ new")
	}
	if editor.At(2, 1) != '⚒' || editor.At(0, 0) != ' ' {
		t.Fatalf("cell lookup mismatch: %q %q", editor.At(2, 1), editor.At(0, 0))
	}
	if x, y, ok := editor.Find("└─ new"); !ok || x != 2 || y != 2 {
		t.Fatalf("Find() = (%d, %d, %v) want (2, 2, true)", x, y, ok)
	}

	main := frames[1]
	if want := "boot\nbye"; main.Plain() != want {
		t.Fatalf("main screen mismatch: got %q want %q", main.Plain(), want)
	}

	rec := &Recording{Frames: append(frames, Frame{Index: 2, Lines: []string{"", ""}})}
	final, ok := rec.FinalFrame()
	if !ok || final.Index != 1 {
		t.Fatalf("final frame should skip blank frames, got %+v", final)
	}
	if !rec.Contains("⚒ root") || rec.Contains("missing") {
		t.Fatal("Contains() disagrees with frames")
	}
}

func TestReplayScrollsAtBottom(t *testing.T) {
	t.Parallel()

	frames := replay([]byte("one\r\ntwo\r\nthree"), 10, 2)
	final := frames[len(frames)-1]
	if final.Line(0) != "two" || final.Line(1) != "three" {
		t.Fatalf("scroll mismatch: %q", final.Lines)
	}
}

func TestResponderAnswersQueriesInOrder(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	tr := newTerminalResponder(&out)
	tr.Process([]byte("abc\x1b]11;?\x07def\x1b["))
	tr.Process([]byte("6n"))

	want := "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R"
	if out.String() != want {
		t.Fatalf("responses mismatch: got %q want %q", out.String(), want)
	}
}

func TestRunRecordsAllowedExitCode(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("pty unavailable")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh unavailable")
	}

	rec, err := Run(context.Background(), Config{
		Command:          []string{sh, "-c", "read line; printf 'got %s' \"$line\"; exit 3"},
		Steps:            []Step{{Delay: 50 * time.Millisecond, Input: Text("hi\n")}},
		AllowedExitCodes: []int{3},
		Timeout:          5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rec.ExitCode != 3 {
		t.Fatalf("exit code mismatch: got %d want 3", rec.ExitCode)
	}
	if !bytes.Contains(rec.Raw, []byte("got hi")) {
		t.Fatalf("output missing: %q", rec.Raw)
	}

	if _, err := Run(context.Background(), Config{Command: []string{sh, "-c", "exit 4"}}); err == nil {
		t.Fatal("disallowed exit codes should fail the run")
	}
}
