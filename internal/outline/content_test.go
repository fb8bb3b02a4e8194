package outline

import (
	"errors"
	"math"
	"testing"
)

func TestSparklineScalesAgainstMaximum(t *testing.T) {
	t.Parallel()

	got := []rune(Sparkline([]int64{1, 2, 5, 2, 3}))
	if len(got) != 5 {
		t.Fatalf("glyph count mismatch: got %d want 5", len(got))
	}
	if got[2] != sparkBars[8] {
		t.Fatalf("maximum should draw the top level, got %q", got[2])
	}
	if got[0] != sparkBars[1] {
		t.Fatalf("value 1 of 5 should draw level 1, got %q", got[0])
	}
	if got[0] == ' ' {
		t.Fatal("smallest sample should not be blank")
	}
	if want := "▁▃█▃▄"; string(got) != want {
		t.Fatalf("sparkline mismatch: got %q want %q", string(got), want)
	}
}

func TestSparklineEdgeCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		samples []int64
		want    string
	}{
		{name: "empty", samples: nil, want: ""},
		{name: "all zero", samples: []int64{0, 0}, want: "  "},
		{name: "negative clamps", samples: []int64{-3, 4}, want: " █"},
		{name: "single", samples: []int64{7}, want: "█"},
		{name: "large values", samples: []int64{1 << 61, 1 << 62}, want: "▄█"},
		{name: "max int64", samples: []int64{math.MaxInt64 / 2, math.MaxInt64}, want: "▃█"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sparkline(tc.samples); got != tc.want {
				t.Fatalf("sparkline mismatch: got %q want %q", got, tc.want)
			}
		})
	}
}

func TestTextContentEditing(t *testing.T) {
	t.Parallel()

	content := TextContent("né")
	if content.Len() != 2 {
		t.Fatalf("len counts runes: got %d want 2", content.Len())
	}
	if err := content.Append('w'); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if content.Text != "néw" {
		t.Fatalf("append mismatch: got %q", content.Text)
	}
	for i := 0; i < 5; i++ {
		if err := content.Backspace(); err != nil {
			t.Fatalf("Backspace() error = %v", err)
		}
	}
	if content.Text != "" {
		t.Fatalf("backspace should clamp at empty, got %q", content.Text)
	}
}

func TestPlotContentRejectsEdits(t *testing.T) {
	t.Parallel()

	content := PlotContent(1, 2, 3)
	if err := content.Append('x'); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Append() error = %v, want ErrInvalidOperation", err)
	}
	if err := content.Backspace(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("Backspace() error = %v, want ErrInvalidOperation", err)
	}
	if content.Len() != 3 || content.Render() != "▂▅█" {
		t.Fatalf("plot changed after rejected edits: %+v", content)
	}
}

func TestParseContentKindRoundTrip(t *testing.T) {
	t.Parallel()

	for _, kind := range []ContentKind{KindText, KindPlot} {
		got, err := ParseContentKind(kind.String())
		if err != nil || got != kind {
			t.Fatalf("ParseContentKind(%q) = %v, %v", kind.String(), got, err)
		}
	}
	if _, err := ParseContentKind("task"); err == nil {
		t.Fatal("unknown kinds should be rejected")
	}
}
