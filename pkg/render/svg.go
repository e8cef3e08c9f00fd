package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// LineSink receives projected edges in raster coordinates.
type LineSink interface {
	Line(x0, y0, x1, y1 int, c Color)
}

// SVGWriter streams one <line> element per edge. The header is written with
// the first line or on Close, so the fields can be set after construction.
// The first write error sticks and is returned by Close.
type SVGWriter struct {
	Width, Height int
	StrokeWidth   float64
	// Background fills the canvas when its alpha is non-zero.
	Background Color

	bw      *bufio.Writer
	started bool
	lines   int
	err     error
}

// NewSVGWriter returns a writer for an image of width x height pixels.
func NewSVGWriter(w io.Writer, width, height int) *SVGWriter {
	return &SVGWriter{
		Width:       width,
		Height:      height,
		StrokeWidth: 1,
		bw:          bufio.NewWriter(w),
	}
}

func (s *SVGWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.bw, format, args...)
}

func (s *SVGWriter) begin() {
	if s.started {
		return
	}
	s.started = true
	s.printf("<svg version=\"1.1\" xmlns:xlink=\"http://www.w3.org/1999/xlink\" xmlns=\"http://www.w3.org/2000/svg\" height=\"%d\" width=\"%d\">\n",
		s.Height, s.Width)
	if s.Background.A != 0 {
		s.printf("<rect width=\"100%%\" height=\"100%%\" fill=\"rgb(%d,%d,%d)\" />\n",
			s.Background.R, s.Background.G, s.Background.B)
	}
}

// Line writes a single stroked segment.
func (s *SVGWriter) Line(x0, y0, x1, y1 int, c Color) {
	s.begin()
	s.printf("<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" style=\"stroke:rgb(%d,%d,%d);stroke-width:%s\" />\n",
		x0, y0, x1, y1, c.R, c.G, c.B, strconv.FormatFloat(s.StrokeWidth, 'f', -1, 64))
	if s.err == nil {
		s.lines++
	}
}

// Lines returns how many segments were written.
func (s *SVGWriter) Lines() int {
	return s.lines
}

// Err returns the first write error, if any.
func (s *SVGWriter) Err() error {
	return s.err
}

// Close writes the closing tag and flushes.
func (s *SVGWriter) Close() error {
	s.begin()
	s.printf("</svg>\n")
	if s.err == nil {
		s.err = s.bw.Flush()
	}
	return s.err
}
