// Package viewport implements the stateful pan/zoom controller that owns a
// rectangular view window (in content coordinates) over a laid-out canvas.
//
// The controller is a pure state machine: the host feeds it resize
// observations, wheel events and pointer events, and reads back the current
// window to drive its renderer (e.g. as an SVG viewBox). All mutation is
// synchronous; the controller is single-threaded by contract, matching the
// event-driven host it serves.
package viewport

import (
	"fmt"
	"math"

	"github.com/tomhaller/depview/pkg/geom"
)

// Defaults for Config fields left at zero.
const (
	DefaultMinZoom = 1.0
	DefaultMaxZoom = 10.0
	DefaultPadding = 20.0

	// wheelBase is the per-unit wheel zoom factor: factor = wheelBase^(-deltaY).
	wheelBase = 1.002

	// stepFactor is the multiplicative step for ZoomIn/ZoomOut.
	stepFactor = 1.2

	// panThreshold is the cumulative pointer travel (in pixels) beyond which
	// a gesture counts as a pan rather than a click.
	panThreshold = 5.0
)

// Config bounds the zoom range and sets the content padding.
type Config struct {
	MinZoom float64
	MaxZoom float64
	Padding float64
}

// PanResult is returned by PointerUp so the host can distinguish a drag from
// a click without sharing mutable state across event handlers.
type PanResult struct {
	// DidPan is true when the gesture's cumulative travel exceeded the pan
	// threshold; the host should suppress click semantics in that case.
	DidPan bool
}

// panState tracks an in-flight drag gesture.
type panState struct {
	startPixel  geom.Point
	lastPixel   geom.Point
	startOrigin geom.Point
	traveled    float64
}

// Controller owns the view window over one content extent inside one display
// container. The zero value is not usable - use New.
type Controller struct {
	cfg       Config
	container geom.Size // display container, in pixels
	content   geom.Size // canvas extent, in content units
	window    geom.Rect // visible slice of content space

	initialized bool
	initFor     geom.Size // content identity the window was initialized for
	pan         *panState
}

// New creates a controller with zero-value fields of cfg replaced by
// defaults. The window stays uninitialized until both a positive container
// size and a positive content size have been observed.
func New(cfg Config) *Controller {
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = DefaultMinZoom
	}
	if cfg.MaxZoom <= 0 {
		cfg.MaxZoom = DefaultMaxZoom
	}
	if cfg.Padding <= 0 {
		cfg.Padding = DefaultPadding
	}
	return &Controller{cfg: cfg}
}

// Window returns the current view window in content coordinates.
func (c *Controller) Window() geom.Rect { return c.window }

// ViewBox renders the window in SVG viewBox form: "x y width height".
func (c *Controller) ViewBox() string {
	return fmt.Sprintf("%.2f %.2f %.2f %.2f", c.window.X, c.window.Y, c.window.Width, c.window.Height)
}

// Zoom returns the current zoom level derived from the window width.
func (c *Controller) Zoom() float64 {
	if c.window.Width <= 0 {
		return 1
	}
	return c.paddedWidth() / c.window.Width
}

// IsPanning reports whether a drag gesture is in flight.
func (c *Controller) IsPanning() bool { return c.pan != nil }

// SetContentSize records the canvas extent. A size with a different identity
// than the one the window was initialized for (a new graph) schedules
// reinitialization, which happens immediately when the container is already
// known and otherwise on the next valid resize observation.
func (c *Controller) SetContentSize(sz geom.Size) {
	c.content = sz
	if c.initialized && sz == c.initFor {
		return
	}
	c.initialized = false
	if c.container.IsPositive() && c.content.IsPositive() {
		c.initialize()
	}
}

// Resize handles a container size observation. Zero or negative dimensions
// are transient layout states and are ignored. The first valid observation
// (with positive content) initializes the window; later observations keep
// the window width and recompute its height for the new aspect ratio, around
// an unchanged center.
func (c *Controller) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.container = geom.Size{Width: width, Height: height}

	if !c.initialized {
		if c.content.IsPositive() {
			c.initialize()
		}
		return
	}

	center := c.window.Center()
	c.window.Height = c.window.Width * height / width
	c.window.X = center.X - c.window.Width/2
	c.window.Y = center.Y - c.window.Height/2
}

// initialize sets the window to exactly the container's pixel size centered
// over the content. This is a deliberate 1:1 default rather than fit-all:
// large graphs would otherwise open illegibly small.
func (c *Controller) initialize() {
	center := geom.Point{X: c.content.Width / 2, Y: c.content.Height / 2}
	c.window = geom.Rect{
		X:      center.X - c.container.Width/2,
		Y:      center.Y - c.container.Height/2,
		Width:  c.container.Width,
		Height: c.container.Height,
	}
	c.initialized = true
	c.initFor = c.content
}

// ToContent converts a container pixel position into content coordinates
// under the current window.
func (c *Controller) ToContent(pixel geom.Point) geom.Point {
	return geom.Point{
		X: c.window.X + pixel.X/c.container.Width*c.window.Width,
		Y: c.window.Y + pixel.Y/c.container.Height*c.window.Height,
	}
}

// Wheel handles a wheel event at the given container pixel position. Plain
// scrolling must not hijack the page, so without the zoom modifier the event
// is ignored. With it, the window scales by wheelBase^(-deltaY) anchored on
// the cursor: the content point under the cursor stays put.
func (c *Controller) Wheel(pixel geom.Point, deltaY float64, zoomModifier bool) {
	if !zoomModifier || !c.initialized || !c.container.IsPositive() {
		return
	}

	anchor := c.ToContent(pixel)
	factor := math.Pow(wheelBase, -deltaY)

	c.window.Width /= factor
	c.clampWindowSize()

	// Re-anchor so the cursor's content point stays under the cursor.
	c.window.X = anchor.X - pixel.X/c.container.Width*c.window.Width
	c.window.Y = anchor.Y - pixel.Y/c.container.Height*c.window.Height
}

// ZoomIn zooms one step in about the window center.
func (c *Controller) ZoomIn() { c.stepZoom(stepFactor) }

// ZoomOut zooms one step out about the window center.
func (c *Controller) ZoomOut() { c.stepZoom(1 / stepFactor) }

func (c *Controller) stepZoom(factor float64) {
	if !c.initialized {
		return
	}
	center := c.window.Center()
	c.window.Width /= factor
	c.clampWindowSize()
	c.window.X = center.X - c.window.Width/2
	c.window.Y = center.Y - c.window.Height/2
}

// ResetView fits the padded content inside the container without ever
// zooming in past 1:1, and centers it.
func (c *Controller) ResetView() {
	if !c.container.IsPositive() || !c.content.IsPositive() {
		return
	}
	paddedW := c.paddedWidth()
	paddedH := c.content.Height + 2*c.cfg.Padding

	scale := math.Min(c.container.Width/paddedW, c.container.Height/paddedH)
	if scale > 1 {
		scale = 1
	}

	center := geom.Point{X: c.content.Width / 2, Y: c.content.Height / 2}
	c.window = geom.Rect{Width: c.container.Width / scale, Height: c.container.Height / scale}
	c.window.X = center.X - c.window.Width/2
	c.window.Y = center.Y - c.window.Height/2
	c.initialized = true
	c.initFor = c.content
}

// paddedWidth is the content width plus padding on both sides - the
// reference extent for zoom clamping.
func (c *Controller) paddedWidth() float64 {
	return c.content.Width + 2*c.cfg.Padding
}

// clampWindowSize clamps the window width to the configured zoom range and
// recomputes the height from the container's aspect ratio. Callers reposition
// the window origin afterwards.
func (c *Controller) clampWindowSize() {
	paddedW := c.paddedWidth()
	minWidth := paddedW / c.cfg.MaxZoom
	maxWidth := paddedW / c.cfg.MinZoom

	if c.window.Width < minWidth {
		c.window.Width = minWidth
	}
	if c.window.Width > maxWidth {
		c.window.Width = maxWidth
	}
	if c.container.IsPositive() {
		c.window.Height = c.window.Width * c.container.Height / c.container.Width
	}
}
