package sampler

import (
	"micrograph-prep/pkg/geometry"
)

// Event is a single input delivered to a sampling session. The
// windowing adapter translates raw pointer/keyboard input into these.
type Event interface {
	isEvent()
}

// PointerMove repositions the preview box so its top-left corner sits
// at the pointer.
type PointerMove struct {
	X, Y int
}

// Commit requests a patch capture at the given position.
type Commit struct {
	X, Y int
}

// KeyPress is a keyboard event. Only 'q' is meaningful.
type KeyPress struct {
	Key rune
}

// CloseRequest is the external window-close signal.
type CloseRequest struct{}

func (PointerMove) isEvent()  {}
func (Commit) isEvent()       {}
func (KeyPress) isEvent()     {}
func (CloseRequest) isEvent() {}

// Effect describes a side effect the adapter should surface after a
// transition: redraw the preview, report a save, or shut down.
type Effect interface {
	isEffect()
}

// PreviewMoved asks the adapter to redraw the preview box.
type PreviewMoved struct {
	Box geometry.RectInt
}

// PatchSaved reports a successful patch commit.
type PatchSaved struct {
	Path  string
	Count int
}

// CommitSkipped reports a commit that was rejected or failed; the
// session continues.
type CommitSkipped struct {
	Reason string
}

// SessionEnded reports session termination with the total number of
// patches saved.
type SessionEnded struct {
	Total int
}

func (PreviewMoved) isEffect()  {}
func (PatchSaved) isEffect()    {}
func (CommitSkipped) isEffect() {}
func (SessionEnded) isEffect()  {}
