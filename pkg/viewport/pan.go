package viewport

import (
	"math"

	"github.com/tomhaller/depview/pkg/geom"
)

// PointerDown begins a drag gesture at the given container pixel position.
// Only the primary button pans; other buttons are ignored.
func (c *Controller) PointerDown(pixel geom.Point, button int) {
	if button != 0 || !c.initialized {
		return
	}
	c.pan = &panState{
		startPixel:  pixel,
		lastPixel:   pixel,
		startOrigin: geom.Point{X: c.window.X, Y: c.window.Y},
	}
}

// PointerMove updates an in-flight drag. The pixel delta from the gesture
// start is scaled into content units and subtracted from the window origin,
// so dragging right moves the visible window left. Moves without a prior
// PointerDown are ignored.
func (c *Controller) PointerMove(pixel geom.Point) {
	if c.pan == nil || !c.container.IsPositive() {
		return
	}
	c.pan.traveled += math.Hypot(pixel.X-c.pan.lastPixel.X, pixel.Y-c.pan.lastPixel.Y)
	c.pan.lastPixel = pixel

	scaleX := c.window.Width / c.container.Width
	scaleY := c.window.Height / c.container.Height
	c.window.X = c.pan.startOrigin.X - (pixel.X-c.pan.startPixel.X)*scaleX
	c.window.Y = c.pan.startOrigin.Y - (pixel.Y-c.pan.startPixel.Y)*scaleY
}

// PointerUp ends the gesture and reports whether it was a pan. Gestures whose
// cumulative travel stays within the pan threshold count as clicks, so a
// slightly shaky press still selects instead of nudging the view.
func (c *Controller) PointerUp() PanResult {
	if c.pan == nil {
		return PanResult{}
	}
	result := PanResult{DidPan: c.pan.traveled > panThreshold}
	c.pan = nil
	return result
}
