package preview

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// circleSegments is the polygon resolution used for discs and rings.
const circleSegments = 48

// canvas maps world coordinates (origin bottom left, y up) onto an RGBA
// image.
type canvas struct {
	img   *image.RGBA
	scale float64
	world float64
}

func newCanvas(width int, world float64) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, width))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return &canvas{img: img, scale: float64(width) / world, world: world}
}

func (c *canvas) px(x, y float64) (float32, float32) {
	return float32(x * c.scale), float32((c.world - y) * c.scale)
}

func (c *canvas) fill(z *vector.Rasterizer, col color.Color) {
	z.DrawOp = draw.Over
	z.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func (c *canvas) rasterizer() *vector.Rasterizer {
	b := c.img.Bounds()
	return vector.NewRasterizer(b.Dx(), b.Dy())
}

// circlePath adds a closed circle to z. Reversed circles subtract from
// forward ones, which is how rings are cut.
func (c *canvas) circlePath(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		if reverse {
			a = -a
		}
		x, y := c.px(cx+r*math.Cos(a), cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// disc fills a circle of world radius r.
func (c *canvas) disc(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	z := c.rasterizer()
	c.circlePath(z, cx, cy, r, false)
	c.fill(z, col)
}

// stroke keeps a world line width at least one pixel wide.
func (c *canvas) stroke(width float64) float64 {
	return math.Max(width, 1/c.scale)
}

// ring strokes a circle of world radius r with a line width in world units.
func (c *canvas) ring(cx, cy, r, width float64, col color.Color) {
	if r <= 0 {
		return
	}
	width = c.stroke(width)
	outer := r + width/2
	inner := math.Max(r-width/2, 0)

	z := c.rasterizer()
	c.circlePath(z, cx, cy, outer, false)
	if inner > 0 {
		c.circlePath(z, cx, cy, inner, true)
	}
	c.fill(z, col)
}

// line strokes a segment with a width in world units.
func (c *canvas) line(x0, y0, x1, y1, width float64, col color.Color) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	width = c.stroke(width)
	nx, ny := -dy/length*width/2, dx/length*width/2

	z := c.rasterizer()
	z.MoveTo(c.px(x0+nx, y0+ny))
	z.LineTo(c.px(x1+nx, y1+ny))
	z.LineTo(c.px(x1-nx, y1-ny))
	z.LineTo(c.px(x0-nx, y0-ny))
	z.ClosePath()
	c.fill(z, col)
}
