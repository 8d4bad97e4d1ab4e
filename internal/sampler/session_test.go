package sampler

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"micrograph-prep/pkg/geometry"
)

// fakeWriter records write requests instead of touching gocv or disk.
type fakeWriter struct {
	regions []geometry.RectInt
	sizes   []int
	paths   []string
	err     error
}

func (f *fakeWriter) Write(region geometry.RectInt, outputSize int, path string) error {
	if f.err != nil {
		return f.err
	}
	f.regions = append(f.regions, region)
	f.sizes = append(f.sizes, outputSize)
	f.paths = append(f.paths, path)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
}

func newTestSession(w PatchWriter) *Session {
	s := NewSession(Config{
		CropBoxPx:   100,
		OutputSize:  128,
		OutputDir:   "out",
		ImageWidth:  640,
		ImageHeight: 480,
	}, w)
	s.SetClock(fixedClock)
	return s
}

func TestPointerMovePositionsPreview(t *testing.T) {
	s := newTestSession(&fakeWriter{})

	if s.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %v, want PhaseIdle", s.Phase())
	}

	effects := s.Handle(PointerMove{X: 30, Y: 40})
	if s.Phase() != PhasePositioned {
		t.Errorf("phase after move = %v, want PhasePositioned", s.Phase())
	}
	if len(effects) != 1 {
		t.Fatalf("effects = %v, want one PreviewMoved", effects)
	}
	preview, ok := effects[0].(PreviewMoved)
	if !ok {
		t.Fatalf("effect = %T, want PreviewMoved", effects[0])
	}
	want := geometry.RectInt{X: 30, Y: 40, Width: 100, Height: 100}
	if preview.Box != want {
		t.Errorf("preview box = %+v, want %+v", preview.Box, want)
	}

	// The box follows subsequent moves, top-left anchored.
	effects = s.Handle(PointerMove{X: 600, Y: 450})
	preview = effects[0].(PreviewMoved)
	want = geometry.RectInt{X: 600, Y: 450, Width: 100, Height: 100}
	if preview.Box != want {
		t.Errorf("preview box after second move = %+v, want %+v", preview.Box, want)
	}
}

func TestCommitInsideBounds(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	s.Handle(PointerMove{X: 50, Y: 60})
	effects := s.Handle(Commit{X: 50, Y: 60})

	if len(effects) != 1 {
		t.Fatalf("effects = %v, want one PatchSaved", effects)
	}
	saved, ok := effects[0].(PatchSaved)
	if !ok {
		t.Fatalf("effect = %T, want PatchSaved", effects[0])
	}
	if saved.Count != 1 {
		t.Errorf("saved count = %d, want 1", saved.Count)
	}
	wantPath := filepath.Join("out", "patch_001_092653.png")
	if saved.Path != wantPath {
		t.Errorf("path = %q, want %q", saved.Path, wantPath)
	}

	if len(w.regions) != 1 {
		t.Fatalf("writer calls = %d, want 1", len(w.regions))
	}
	wantRegion := geometry.RectInt{X: 50, Y: 60, Width: 100, Height: 100}
	if w.regions[0] != wantRegion {
		t.Errorf("region = %+v, want %+v", w.regions[0], wantRegion)
	}
	if w.sizes[0] != 128 {
		t.Errorf("output size = %d, want 128", w.sizes[0])
	}
}

func TestCommitWithoutPriorMove(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	effects := s.Handle(Commit{X: 10, Y: 10})
	if _, ok := effects[0].(PatchSaved); !ok {
		t.Fatalf("effect = %T, want PatchSaved", effects[0])
	}
	if s.Phase() != PhasePositioned {
		t.Errorf("phase after commit = %v, want PhasePositioned", s.Phase())
	}
}

func TestCommitClipsAtEdge(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	// Box overhangs right and bottom; source region clips, output size
	// stays fixed.
	effects := s.Handle(Commit{X: 600, Y: 430})
	if _, ok := effects[0].(PatchSaved); !ok {
		t.Fatalf("effect = %T, want PatchSaved", effects[0])
	}

	wantRegion := geometry.RectInt{X: 600, Y: 430, Width: 40, Height: 50}
	if w.regions[0] != wantRegion {
		t.Errorf("region = %+v, want %+v", w.regions[0], wantRegion)
	}
	if w.sizes[0] != 128 {
		t.Errorf("output size = %d, want 128", w.sizes[0])
	}
}

func TestCommitOutsideBoundsIsNoOp(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	effects := s.Handle(Commit{X: 700, Y: 500})
	skipped, ok := effects[0].(CommitSkipped)
	if !ok {
		t.Fatalf("effect = %T, want CommitSkipped", effects[0])
	}
	if skipped.Reason == "" {
		t.Error("CommitSkipped has no reason")
	}
	if s.SavedCount() != 0 {
		t.Errorf("saved count = %d, want 0", s.SavedCount())
	}
	if len(w.regions) != 0 {
		t.Errorf("writer was called for an empty region: %+v", w.regions)
	}
}

func TestCommitWriterFailureDoesNotCount(t *testing.T) {
	w := &fakeWriter{err: errors.New("disk full")}
	s := newTestSession(w)

	effects := s.Handle(Commit{X: 10, Y: 10})
	if _, ok := effects[0].(CommitSkipped); !ok {
		t.Fatalf("effect = %T, want CommitSkipped", effects[0])
	}
	if s.SavedCount() != 0 {
		t.Errorf("saved count = %d, want 0 after failed write", s.SavedCount())
	}
}

func TestSavedCountAndFilenameSequence(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)

	s.Handle(Commit{X: 0, Y: 0})
	s.Handle(PointerMove{X: 100, Y: 100})
	s.Handle(Commit{X: 100, Y: 100})
	s.Handle(Commit{X: 200, Y: 200})

	if s.SavedCount() != 3 {
		t.Fatalf("saved count = %d, want 3", s.SavedCount())
	}
	wantNames := []string{"patch_001_092653.png", "patch_002_092653.png", "patch_003_092653.png"}
	for i, want := range wantNames {
		if got := filepath.Base(w.paths[i]); got != want {
			t.Errorf("patch %d filename = %q, want %q", i, got, want)
		}
	}
}

func TestQuitKeyTerminates(t *testing.T) {
	s := newTestSession(&fakeWriter{})
	s.Handle(Commit{X: 10, Y: 10})

	effects := s.Handle(KeyPress{Key: 'q'})
	ended, ok := effects[0].(SessionEnded)
	if !ok {
		t.Fatalf("effect = %T, want SessionEnded", effects[0])
	}
	if ended.Total != 1 {
		t.Errorf("total = %d, want 1", ended.Total)
	}
	if s.Phase() != PhaseTerminated {
		t.Errorf("phase = %v, want PhaseTerminated", s.Phase())
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	s := newTestSession(&fakeWriter{})
	if effects := s.Handle(KeyPress{Key: 'x'}); effects != nil {
		t.Errorf("effects for unbound key = %v, want none", effects)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want PhaseIdle", s.Phase())
	}
}

func TestCloseRequestTerminates(t *testing.T) {
	s := newTestSession(&fakeWriter{})
	effects := s.Handle(CloseRequest{})
	ended, ok := effects[0].(SessionEnded)
	if !ok {
		t.Fatalf("effect = %T, want SessionEnded", effects[0])
	}
	if ended.Total != 0 {
		t.Errorf("total = %d, want 0", ended.Total)
	}
}

func TestTerminatedIsAbsorbing(t *testing.T) {
	w := &fakeWriter{}
	s := newTestSession(w)
	s.Handle(KeyPress{Key: 'q'})

	for _, ev := range []Event{
		PointerMove{X: 5, Y: 5},
		Commit{X: 5, Y: 5},
		KeyPress{Key: 'q'},
		CloseRequest{},
	} {
		if effects := s.Handle(ev); effects != nil {
			t.Errorf("Handle(%T) after termination = %v, want nil", ev, effects)
		}
	}
	if s.SavedCount() != 0 {
		t.Errorf("saved count changed after termination: %d", s.SavedCount())
	}
	if len(w.regions) != 0 {
		t.Error("writer was called after termination")
	}
}
