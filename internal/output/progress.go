package output

import (
	"fmt"
	"io"
	"strings"
)

// Progress is the indicator shown while a request is in flight.
type Progress interface {
	Finish()
}

type NopProgress struct{}

func (NopProgress) Finish() {}

type lineProgress struct {
	w        io.Writer
	finished bool
}

// NewProgress prints title immediately and completes the line on Finish.
// Repeated Finish calls are ignored.
func NewProgress(w io.Writer, title string, enabled bool) Progress {
	if !enabled || w == nil {
		return NopProgress{}
	}
	title = strings.TrimRight(strings.TrimSpace(title), ".")
	fmt.Fprintf(w, "%s... ", title)
	return &lineProgress{w: w}
}

func (p *lineProgress) Finish() {
	if p.finished {
		return
	}
	p.finished = true
	fmt.Fprintln(p.w, "done")
}
