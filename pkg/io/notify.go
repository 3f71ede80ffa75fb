package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dissect/pkg/core/flip"
	"github.com/matzehuels/dissect/pkg/errors"
)

// WriteFlip writes the notification for ev: its index, then its new endpoints.
func WriteFlip(w io.Writer, ev flip.Event) error {
	if _, err := fmt.Fprintf(w, "%d\n%d,%d\n", ev.Index, ev.New.L, ev.New.R); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write flip notification")
	}
	return nil
}

// FileSink rewrites a notification file on every flip.
type FileSink struct {
	Path string
}

// NewFileSink returns a sink writing to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Notify truncates the file and writes the notification for ev.
func (s *FileSink) Notify(ev flip.Event) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "%s cannot be opened", s.Path)
	}
	if err := WriteFlip(f, ev); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", s.Path)
	}
	return nil
}

var _ flip.Sink = (*FileSink)(nil)
