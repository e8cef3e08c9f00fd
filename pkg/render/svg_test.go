package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestSVGWriter(t *testing.T) {
	var buf bytes.Buffer
	svg := NewSVGWriter(&buf, 512, 512)
	svg.Line(1, 2, 3, 4, ColorBlack)
	if err := svg.Close(); err != nil {
		t.Fatal(err)
	}

	want := `<svg version="1.1" xmlns:xlink="http://www.w3.org/1999/xlink" xmlns="http://www.w3.org/2000/svg" height="512" width="512">
<line x1="1" y1="2" x2="3" y2="4" style="stroke:rgb(0,0,0);stroke-width:1" />
</svg>
`
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
	if svg.Lines() != 1 {
		t.Errorf("Lines = %d, want 1", svg.Lines())
	}
}

func TestSVGWriterOptions(t *testing.T) {
	var buf bytes.Buffer
	svg := NewSVGWriter(&buf, 300, 200)
	svg.StrokeWidth = 0.5
	svg.Background = ColorWhite
	svg.Line(0, 0, 10, 10, RGB(255, 0, 10))
	if err := svg.Close(); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		`height="200" width="300"`,
		`<rect width="100%" height="100%" fill="rgb(255,255,255)" />`,
		`style="stroke:rgb(255,0,10);stroke-width:0.5"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSVGWriterEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewSVGWriter(&buf, 10, 10).Close(); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "</svg>" {
		t.Errorf("empty document = %q", buf.String())
	}
}

var errBroken = errors.New("broken pipe")

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errBroken }

func TestSVGWriterStickyError(t *testing.T) {
	svg := NewSVGWriter(brokenWriter{}, 10, 10)
	// Enough output to overflow the buffer before Close.
	for range 1000 {
		svg.Line(1, 1, 2, 2, ColorBlack)
	}
	if !errors.Is(svg.Err(), errBroken) {
		t.Errorf("Err = %v, want %v", svg.Err(), errBroken)
	}
	if err := svg.Close(); !errors.Is(err, errBroken) {
		t.Errorf("Close = %v, want %v", err, errBroken)
	}
	if svg.Lines() >= 1000 {
		t.Errorf("Lines = %d, failed writes should not count", svg.Lines())
	}
}
