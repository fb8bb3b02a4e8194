package outline

import (
	"fmt"
	"math/bits"
	"unicode/utf8"
)

// ContentKind discriminates the Content union.
type ContentKind uint8

const (
	KindText ContentKind = iota
	KindPlot
)

func (k ContentKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPlot:
		return "plot"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseContentKind is the inverse of ContentKind.String.
func ParseContentKind(value string) (ContentKind, error) {
	switch value {
	case "text":
		return KindText, nil
	case "plot":
		return KindPlot, nil
	default:
		return 0, fmt.Errorf("outline: unknown content kind %q", value)
	}
}

// Content is the payload of a node: editable text or a read-only series of
// samples drawn as a sparkline. Only the field matching Kind is meaningful.
type Content struct {
	Kind    ContentKind
	Text    string
	Samples []int64
}

// TextContent returns editable text content.
func TextContent(text string) Content {
	return Content{Kind: KindText, Text: text}
}

// PlotContent returns plot content over a private copy of samples.
func PlotContent(samples ...int64) Content {
	return Content{Kind: KindPlot, Samples: append([]int64(nil), samples...)}
}

// Len is the number of columns the content occupies: runes for text,
// samples for a plot.
func (c Content) Len() int {
	switch c.Kind {
	case KindText:
		return utf8.RuneCountInString(c.Text)
	case KindPlot:
		return len(c.Samples)
	default:
		return 0
	}
}

// Append adds r to the end of text content.
func (c *Content) Append(r rune) error {
	switch c.Kind {
	case KindText:
		c.Text += string(r)
		return nil
	default:
		return fmt.Errorf("append to %s content: %w", c.Kind, ErrInvalidOperation)
	}
}

// Backspace drops the last rune of text content. Empty text stays empty.
func (c *Content) Backspace() error {
	switch c.Kind {
	case KindText:
		if c.Text == "" {
			return nil
		}
		_, size := utf8.DecodeLastRuneInString(c.Text)
		c.Text = c.Text[:len(c.Text)-size]
		return nil
	default:
		return fmt.Errorf("backspace on %s content: %w", c.Kind, ErrInvalidOperation)
	}
}

// Render returns the characters drawn for the content.
func (c Content) Render() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindPlot:
		return Sparkline(c.Samples)
	default:
		return ""
	}
}

// sparkBars is the plot palette, blank through full block.
var sparkBars = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline draws one palette glyph per sample, scaled against the series
// maximum with floor((levels-1) * n / max). A series whose maximum is not
// positive draws every sample at the blank level.
func Sparkline(samples []int64) string {
	if len(samples) == 0 {
		return ""
	}
	max := samples[0]
	for _, n := range samples[1:] {
		if n > max {
			max = n
		}
	}
	top := int64(len(sparkBars) - 1)
	out := make([]rune, 0, len(samples))
	for _, n := range samples {
		idx := int64(0)
		if max > 0 && n > 0 {
			// 128-bit product: top*n overflows int64 for n above MaxInt64/8.
			hi, lo := bits.Mul64(uint64(top), uint64(n))
			q, _ := bits.Div64(hi, lo, uint64(max))
			idx = int64(q)
		}
		if idx > top {
			idx = top
		}
		out = append(out, sparkBars[idx])
	}
	return string(out)
}
