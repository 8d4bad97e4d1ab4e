// Package sampler implements the interactive patch sampling session as
// an explicit state machine, independent of any windowing surface.
package sampler

import (
	"fmt"
	"path/filepath"
	"time"

	"micrograph-prep/pkg/geometry"
)

// Phase identifies the session state.
type Phase int

const (
	// PhaseIdle means no pointer position is known yet.
	PhaseIdle Phase = iota
	// PhasePositioned means the preview box has a location.
	PhasePositioned
	// PhaseTerminated is absorbing; no further events are processed.
	PhaseTerminated
)

// PatchWriter persists one clipped source region, resampled to a fixed
// square output resolution.
type PatchWriter interface {
	Write(region geometry.RectInt, outputSize int, path string) error
}

// Config holds the fixed parameters of a sampling session.
type Config struct {
	CropBoxPx   int
	OutputSize  int
	OutputDir   string
	ImageWidth  int
	ImageHeight int
}

// Session is the interactive sampling state machine. One instance per
// interactive run; events are dispatched synchronously by a
// single-threaded event loop, so Session does no locking.
type Session struct {
	cfg    Config
	writer PatchWriter
	now    func() time.Time

	phase      Phase
	pos        geometry.PointInt
	savedCount int
}

// NewSession creates a session in the Idle phase.
func NewSession(cfg Config, writer PatchWriter) *Session {
	return &Session{
		cfg:    cfg,
		writer: writer,
		now:    time.Now,
	}
}

// SetClock overrides the timestamp source used for patch filenames.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// SavedCount returns the number of patches committed so far.
func (s *Session) SavedCount() int {
	return s.savedCount
}

// Handle applies one event and returns the effects the adapter should
// carry out. Events after termination are ignored.
func (s *Session) Handle(ev Event) []Effect {
	if s.phase == PhaseTerminated {
		return nil
	}

	switch e := ev.(type) {
	case PointerMove:
		s.pos = geometry.PointInt{X: e.X, Y: e.Y}
		s.phase = PhasePositioned
		return []Effect{PreviewMoved{Box: s.previewBox()}}

	case Commit:
		s.pos = geometry.PointInt{X: e.X, Y: e.Y}
		s.phase = PhasePositioned
		return s.commit(e.X, e.Y)

	case KeyPress:
		if e.Key == 'q' || e.Key == 'Q' {
			return s.terminate()
		}
		return nil

	case CloseRequest:
		return s.terminate()
	}

	return nil
}

// previewBox is the box anchored at the current pointer position. It
// extends right and down and is not clipped; clipping happens at
// commit time.
func (s *Session) previewBox() geometry.RectInt {
	return geometry.RectInt{
		X:      s.pos.X,
		Y:      s.pos.Y,
		Width:  s.cfg.CropBoxPx,
		Height: s.cfg.CropBoxPx,
	}
}

func (s *Session) commit(x, y int) []Effect {
	box := geometry.RectInt{X: x, Y: y, Width: s.cfg.CropBoxPx, Height: s.cfg.CropBoxPx}
	region := box.Clip(s.cfg.ImageWidth, s.cfg.ImageHeight)

	// A pointer entirely outside the image clips to nothing; resampling
	// an empty region is undefined, so the commit is rejected.
	if region.Empty() {
		return []Effect{CommitSkipped{Reason: "selection outside image bounds"}}
	}

	filename := fmt.Sprintf("patch_%03d_%s.png", s.savedCount+1, s.now().Format("150405"))
	path := filepath.Join(s.cfg.OutputDir, filename)

	if err := s.writer.Write(region, s.cfg.OutputSize, path); err != nil {
		return []Effect{CommitSkipped{Reason: err.Error()}}
	}

	s.savedCount++
	return []Effect{PatchSaved{Path: path, Count: s.savedCount}}
}

func (s *Session) terminate() []Effect {
	s.phase = PhaseTerminated
	return []Effect{SessionEnded{Total: s.savedCount}}
}
