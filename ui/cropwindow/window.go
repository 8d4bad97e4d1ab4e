// Package cropwindow is the Fyne windowing adapter for the interactive
// patch sampler. It translates raw pointer and keyboard input into
// sampler events and renders the preview box the session returns.
package cropwindow

import (
	"image"
	"image/color"
	"log"

	"micrograph-prep/internal/sampler"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const windowTitle = "Crop Tool — Click to Save Patches. Press Q to Quit"

// Run opens the interactive window over the source image and blocks
// until the session terminates (q keypress or window close). It
// returns the total number of patches saved.
func Run(src image.Image, session *sampler.Session) int {
	a := app.New()
	win := a.NewWindow(windowTitle)

	area := newImageArea(src)
	area.dispatch = func(ev sampler.Event) {
		apply(win, area, session.Handle(ev))
	}

	win.Canvas().SetOnTypedRune(func(r rune) {
		apply(win, area, session.Handle(sampler.KeyPress{Key: r}))
	})
	win.SetCloseIntercept(func() {
		apply(win, area, session.Handle(sampler.CloseRequest{}))
	})

	win.SetContent(area)
	win.Resize(fyne.NewSize(float32(src.Bounds().Dx()), float32(src.Bounds().Dy())))
	win.SetFixedSize(true)
	win.ShowAndRun()

	return session.SavedCount()
}

// apply carries out the effects of one transition. Dispatch is
// synchronous and single-threaded, so a slow patch write stalls the
// preview; that is the accepted trade-off.
func apply(win fyne.Window, area *imageArea, effects []sampler.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case sampler.PreviewMoved:
			area.movePreview(e.Box.X, e.Box.Y, e.Box.Width, e.Box.Height)
		case sampler.PatchSaved:
			log.Printf("Saved: %s (%d total)", e.Path, e.Count)
		case sampler.CommitSkipped:
			log.Printf("Warning: patch not saved: %s", e.Reason)
		case sampler.SessionEnded:
			log.Printf("Total patches saved: %d", e.Total)
			win.Close()
		}
	}
}

// imageArea shows the source image at 1:1 scale and forwards pointer
// input. Widget coordinates map directly onto image pixels.
type imageArea struct {
	widget.BaseWidget

	img     *fynecanvas.Image
	preview *fynecanvas.Rectangle
	size    fyne.Size

	dispatch func(sampler.Event)
}

func newImageArea(src image.Image) *imageArea {
	img := fynecanvas.NewImageFromImage(src)
	img.FillMode = fynecanvas.ImageFillOriginal
	img.ScaleMode = fynecanvas.ImageScalePixels

	preview := fynecanvas.NewRectangle(color.Transparent)
	preview.StrokeColor = color.NRGBA{R: 255, A: 255}
	preview.StrokeWidth = 2
	preview.Hide()

	a := &imageArea{
		img:     img,
		preview: preview,
		size:    fyne.NewSize(float32(src.Bounds().Dx()), float32(src.Bounds().Dy())),
	}
	a.ExtendBaseWidget(a)
	return a
}

func (a *imageArea) movePreview(x, y, w, h int) {
	a.preview.Move(fyne.NewPos(float32(x), float32(y)))
	a.preview.Resize(fyne.NewSize(float32(w), float32(h)))
	a.preview.Show()
	a.preview.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (a *imageArea) MouseIn(ev *desktop.MouseEvent) {
	a.MouseMoved(ev)
}

// MouseMoved implements desktop.Hoverable.
func (a *imageArea) MouseMoved(ev *desktop.MouseEvent) {
	if a.dispatch != nil {
		a.dispatch(sampler.PointerMove{X: int(ev.Position.X), Y: int(ev.Position.Y)})
	}
}

// MouseOut implements desktop.Hoverable.
func (a *imageArea) MouseOut() {}

// Tapped commits a patch at the click position.
func (a *imageArea) Tapped(ev *fyne.PointEvent) {
	if a.dispatch != nil {
		a.dispatch(sampler.Commit{X: int(ev.Position.X), Y: int(ev.Position.Y)})
	}
}

// CreateRenderer implements fyne.Widget.
func (a *imageArea) CreateRenderer() fyne.WidgetRenderer {
	return &imageAreaRenderer{area: a}
}

type imageAreaRenderer struct {
	area *imageArea
}

func (r *imageAreaRenderer) Layout(fyne.Size) {
	r.area.img.Resize(r.area.size)
	r.area.img.Move(fyne.NewPos(0, 0))
}

func (r *imageAreaRenderer) MinSize() fyne.Size {
	return r.area.size
}

func (r *imageAreaRenderer) Refresh() {
	r.area.img.Refresh()
	r.area.preview.Refresh()
}

func (r *imageAreaRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.area.img, r.area.preview}
}

func (r *imageAreaRenderer) Destroy() {}
