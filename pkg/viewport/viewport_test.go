package viewport

import (
	"math"
	"testing"

	"github.com/tomhaller/depview/pkg/geom"
)

const epsilon = 1e-9

func newReady(t *testing.T) *Controller {
	t.Helper()
	c := New(Config{})
	c.SetContentSize(geom.Size{Width: 1000, Height: 800})
	c.Resize(800, 600)
	if c.Window().Width <= 0 {
		t.Fatal("controller did not initialize")
	}
	return c
}

func TestInitializationWaitsForBothSizes(t *testing.T) {
	c := New(Config{})
	c.Resize(800, 600)
	if w := c.Window(); w.Width != 0 {
		t.Errorf("window initialized without content: %+v", w)
	}

	c.SetContentSize(geom.Size{Width: 1000, Height: 800})
	w := c.Window()
	if w.Width != 800 || w.Height != 600 {
		t.Errorf("initial window = %vx%v, want container size 800x600", w.Width, w.Height)
	}
	// Centered on the content.
	if cx := w.Center(); cx.X != 500 || cx.Y != 400 {
		t.Errorf("initial center = %+v, want (500, 400)", cx)
	}
}

func TestResizeIgnoresZeroDimensions(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.Resize(0, 600)
	c.Resize(800, 0)
	c.Resize(-10, -10)

	if c.Window() != before {
		t.Errorf("window changed on invalid resize: %+v", c.Window())
	}
}

func TestResizePreservesWidthAndCenter(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.Resize(800, 400)
	after := c.Window()

	if after.Width != before.Width {
		t.Errorf("width changed on resize: %v -> %v", before.Width, after.Width)
	}
	if want := before.Width * 400 / 800; math.Abs(after.Height-want) > epsilon {
		t.Errorf("height = %v, want %v", after.Height, want)
	}
	if bc, ac := before.Center(), after.Center(); math.Abs(bc.X-ac.X) > epsilon || math.Abs(bc.Y-ac.Y) > epsilon {
		t.Errorf("center moved on resize: %+v -> %+v", bc, ac)
	}
}

func TestWheelWithoutModifierIsIgnored(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.Wheel(geom.Point{X: 400, Y: 300}, -200, false)

	if c.Window() != before {
		t.Error("plain wheel changed the window")
	}
}

func TestWheelAnchorsOnCursor(t *testing.T) {
	c := newReady(t)
	cursor := geom.Point{X: 200, Y: 150}
	before := c.ToContent(cursor)

	c.Wheel(cursor, -400, true)

	after := c.ToContent(cursor)
	if math.Abs(after.X-before.X) > epsilon || math.Abs(after.Y-before.Y) > epsilon {
		t.Errorf("content point under cursor moved: %+v -> %+v", before, after)
	}
	if c.Zoom() <= 1.3 {
		t.Errorf("zoom = %v, want > initial 1.3", c.Zoom())
	}
}

func TestWheelZoomClamps(t *testing.T) {
	c := newReady(t)
	cursor := geom.Point{X: 400, Y: 300}

	c.Wheel(cursor, -10000, true)
	if z := c.Zoom(); math.Abs(z-DefaultMaxZoom) > epsilon {
		t.Errorf("zoom after extreme zoom-in = %v, want %v", z, DefaultMaxZoom)
	}

	c.Wheel(cursor, 10000, true)
	if z := c.Zoom(); math.Abs(z-DefaultMinZoom) > epsilon {
		t.Errorf("zoom after extreme zoom-out = %v, want %v", z, DefaultMinZoom)
	}
}

func TestWheelPreservesAspectRatio(t *testing.T) {
	c := newReady(t)
	c.Wheel(geom.Point{X: 123, Y: 456}, -300, true)

	w := c.Window()
	if got, want := w.Width/w.Height, 800.0/600.0; math.Abs(got-want) > epsilon {
		t.Errorf("window aspect = %v, want container aspect %v", got, want)
	}
}

func TestPanTranslatesWindow(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.PointerDown(geom.Point{X: 100, Y: 100}, 0)
	if !c.IsPanning() {
		t.Fatal("IsPanning() = false after PointerDown")
	}
	c.PointerMove(geom.Point{X: 150, Y: 120})
	result := c.PointerUp()

	if !result.DidPan {
		t.Error("DidPan = false for a 50px drag")
	}
	if c.IsPanning() {
		t.Error("IsPanning() = true after PointerUp")
	}

	after := c.Window()
	// Window at zoom 1:1 in an 800x600 container maps pixels 1:1; dragging
	// right and down moves the window left and up.
	if math.Abs(after.X-(before.X-50)) > epsilon || math.Abs(after.Y-(before.Y-20)) > epsilon {
		t.Errorf("origin = (%v, %v), want (%v, %v)", after.X, after.Y, before.X-50, before.Y-20)
	}
}

func TestSmallDragIsAClick(t *testing.T) {
	c := newReady(t)

	c.PointerDown(geom.Point{X: 100, Y: 100}, 0)
	c.PointerMove(geom.Point{X: 102, Y: 102})
	if result := c.PointerUp(); result.DidPan {
		t.Error("DidPan = true for a sub-threshold wiggle")
	}
}

func TestNonPrimaryButtonDoesNotPan(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.PointerDown(geom.Point{X: 100, Y: 100}, 2)
	c.PointerMove(geom.Point{X: 300, Y: 300})
	result := c.PointerUp()

	if result.DidPan {
		t.Error("DidPan = true for secondary button")
	}
	if c.Window() != before {
		t.Error("window moved on secondary-button drag")
	}
}

func TestMoveWithoutDownIsIgnored(t *testing.T) {
	c := newReady(t)
	before := c.Window()

	c.PointerMove(geom.Point{X: 500, Y: 500})

	if c.Window() != before {
		t.Error("window moved without an active gesture")
	}
}

func TestResetViewFitsLargeContent(t *testing.T) {
	c := New(Config{})
	c.SetContentSize(geom.Size{Width: 2000, Height: 1000})
	c.Resize(800, 600)

	c.ResetView()

	w := c.Window()
	// Padded content (2040x1040) must fit inside the window.
	if w.Width < 2040-epsilon {
		t.Errorf("window width = %v, want >= 2040", w.Width)
	}
	if cx := w.Center(); math.Abs(cx.X-1000) > epsilon || math.Abs(cx.Y-500) > epsilon {
		t.Errorf("reset center = %+v, want content center (1000, 500)", cx)
	}
}

func TestResetViewCapsAtOneToOne(t *testing.T) {
	c := New(Config{})
	c.SetContentSize(geom.Size{Width: 400, Height: 300})
	c.Resize(800, 600)

	c.ResetView()

	w := c.Window()
	// Small content is not magnified past 1:1: the window stays at
	// container scale.
	if w.Width != 800 || w.Height != 600 {
		t.Errorf("window = %vx%v, want 800x600", w.Width, w.Height)
	}
}

func TestZoomStepsKeepCenter(t *testing.T) {
	c := newReady(t)
	before := c.Window().Center()

	c.ZoomIn()
	c.ZoomIn()
	c.ZoomOut()

	after := c.Window().Center()
	if math.Abs(after.X-before.X) > epsilon || math.Abs(after.Y-before.Y) > epsilon {
		t.Errorf("center drifted across zoom steps: %+v -> %+v", before, after)
	}
	if c.Zoom() <= 1.3 {
		t.Errorf("zoom = %v, want > initial after net zoom-in", c.Zoom())
	}
}

func TestContentChangeReinitializes(t *testing.T) {
	c := newReady(t)
	c.ZoomIn()
	zoomed := c.Window()

	// Same identity: window untouched.
	c.SetContentSize(geom.Size{Width: 1000, Height: 800})
	if c.Window() != zoomed {
		t.Error("window reset on identical content size")
	}

	// New identity: window recenters at container scale.
	c.SetContentSize(geom.Size{Width: 600, Height: 600})
	w := c.Window()
	if w.Width != 800 || w.Height != 600 {
		t.Errorf("window = %vx%v after content change, want 800x600", w.Width, w.Height)
	}
	if cx := w.Center(); cx.X != 300 || cx.Y != 300 {
		t.Errorf("center = %+v, want new content center (300, 300)", cx)
	}
}

func TestViewBoxFormat(t *testing.T) {
	c := newReady(t)
	if got, want := c.ViewBox(), "100.00 100.00 800.00 600.00"; got != want {
		t.Errorf("ViewBox() = %q, want %q", got, want)
	}
}
