package layout

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Op is a path drawing primitive. MoveTo, Horizontal and Vertical take
// absolute coordinates; the curve and line primitives are relative to the pen.
type Op int

const (
	OpMoveTo      Op = iota // M x,y
	OpHorizontal            // H x
	OpVertical              // V y
	OpLine                  // l dx,dy
	OpCubic                 // c dx1,dy1 dx2,dy2 dx,dy
	OpSmoothCubic           // s dx2,dy2 dx,dy
	OpArc                   // a r,r 0 0,sweep dx,dy
	OpClose                 // z
)

var opLetters = [...]string{"M", "H", "V", "l", "c", "s", "a", "z"}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opLetters) {
		return opLetters[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// MarshalText 让调试 JSON 中的 op 以 SVG 字母输出。
func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Step 是路径中的一条指令。Shape 非空时表示它属于某个具名子路径。
type Step struct {
	Op    Op        `json:"op"`
	Args  []float64 `json:"args,omitempty"`
	Sweep bool      `json:"sweep,omitempty"`
	Shape string    `json:"shape,omitempty"`
}

// 坐标精度：绝对坐标统一舍入，避免缩放时的亚像素抖动。
const coordPrecision = 1e3

func roundCoord(v float64) float64 {
	r := math.Round(v*coordPrecision) / coordPrecision
	if r == 0 {
		return 0 // 去掉 -0
	}
	return r
}

func line(dx, dy float64) Step { return Step{Op: OpLine, Args: []float64{dx, dy}} }

func cubic(dx1, dy1, dx2, dy2, dx, dy float64) Step {
	return Step{Op: OpCubic, Args: []float64{dx1, dy1, dx2, dy2, dx, dy}}
}

func smoothCubic(dx2, dy2, dx, dy float64) Step {
	return Step{Op: OpSmoothCubic, Args: []float64{dx2, dy2, dx, dy}}
}

func arc(r float64, sweep bool, dx, dy float64) Step {
	return Step{Op: OpArc, Args: []float64{r, r, dx, dy}, Sweep: sweep}
}

func tag(shape string, steps ...Step) []Step {
	for i := range steps {
		steps[i].Shape = shape
	}
	return steps
}

// Path is an ordered instruction stream.
type Path struct {
	Steps []Step `json:"steps"`
}

func (p *Path) moveTo(x, y float64) {
	p.Steps = append(p.Steps, Step{Op: OpMoveTo, Args: []float64{roundCoord(x), roundCoord(y)}})
}

func (p *Path) horizontal(x float64) {
	p.Steps = append(p.Steps, Step{Op: OpHorizontal, Args: []float64{roundCoord(x)}})
}

func (p *Path) vertical(y float64) {
	p.Steps = append(p.Steps, Step{Op: OpVertical, Args: []float64{roundCoord(y)}})
}

func (p *Path) add(steps ...Step) { p.Steps = append(p.Steps, steps...) }

func (p *Path) close() { p.Steps = append(p.Steps, Step{Op: OpClose}) }

// Closed reports whether the stream ends with an explicit close.
func (p Path) Closed() bool {
	return len(p.Steps) > 0 && p.Steps[len(p.Steps)-1].Op == OpClose
}

// Point 是绝对坐标点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Trace returns the absolute pen position after every step.
// Close returns the pen to the start of the current subpath.
func (p Path) Trace() []Point {
	pts := make([]Point, 0, len(p.Steps))
	var pen, start Point
	for _, s := range p.Steps {
		switch s.Op {
		case OpMoveTo:
			pen = Point{s.Args[0], s.Args[1]}
			start = pen
		case OpHorizontal:
			pen.X = s.Args[0]
		case OpVertical:
			pen.Y = s.Args[0]
		case OpLine:
			pen.X += s.Args[0]
			pen.Y += s.Args[1]
		case OpCubic:
			pen.X += s.Args[4]
			pen.Y += s.Args[5]
		case OpSmoothCubic, OpArc:
			pen.X += s.Args[2]
			pen.Y += s.Args[3]
		case OpClose:
			pen = start
		}
		pen = Point{roundCoord(pen.X), roundCoord(pen.Y)}
		pts = append(pts, pen)
	}
	return pts
}

// Extent returns the bounding box of all traced end points.
func (p Path) Extent() Rect {
	pts := p.Trace()
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY, maxX, maxY := pts[0].X, pts[0].Y, pts[0].X, pts[0].Y
	for _, pt := range pts[1:] {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Mirror negates every x coordinate about the local origin and flips arc sweeps.
func (p Path) Mirror() Path {
	out := Path{Steps: make([]Step, len(p.Steps))}
	for i, s := range p.Steps {
		m := Step{Op: s.Op, Sweep: s.Sweep, Shape: s.Shape}
		m.Args = append([]float64(nil), s.Args...)
		switch s.Op {
		case OpMoveTo, OpHorizontal, OpLine:
			m.Args[0] = negate(m.Args[0])
		case OpCubic:
			m.Args[0], m.Args[2], m.Args[4] = negate(m.Args[0]), negate(m.Args[2]), negate(m.Args[4])
		case OpSmoothCubic:
			m.Args[0], m.Args[2] = negate(m.Args[0]), negate(m.Args[2])
		case OpArc:
			m.Args[2] = negate(m.Args[2])
			m.Sweep = !s.Sweep
		}
		out.Steps[i] = m
	}
	return out
}

// Translate shifts the absolute primitives by (dx, dy).
func (p Path) Translate(dx, dy float64) Path {
	out := Path{Steps: make([]Step, len(p.Steps))}
	for i, s := range p.Steps {
		m := s
		m.Args = append([]float64(nil), s.Args...)
		switch s.Op {
		case OpMoveTo:
			m.Args[0], m.Args[1] = roundCoord(m.Args[0]+dx), roundCoord(m.Args[1]+dy)
		case OpHorizontal:
			m.Args[0] = roundCoord(m.Args[0] + dx)
		case OpVertical:
			m.Args[0] = roundCoord(m.Args[0] + dy)
		}
		out.Steps[i] = m
	}
	return out
}

func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// String renders the stream as SVG path data.
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p.Steps {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Op.String())
		switch s.Op {
		case OpArc:
			sweep := "0"
			if s.Sweep {
				sweep = "1"
			}
			fmt.Fprintf(&b, " %s,%s 0 0,%s %s,%s", num(s.Args[0]), num(s.Args[1]), sweep, num(s.Args[2]), num(s.Args[3]))
		case OpClose:
		default:
			for j := 0; j < len(s.Args); j += 2 {
				b.WriteByte(' ')
				b.WriteString(num(s.Args[j]))
				if j+1 < len(s.Args) {
					b.WriteByte(',')
					b.WriteString(num(s.Args[j+1]))
				}
			}
		}
	}
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(roundCoord(v), 'f', -1, 64)
}

// Shapes lists the named sub-paths in drawing order. Consecutive steps of one
// shape count once.
func (p Path) Shapes() []string {
	var out []string
	prev := ""
	for _, s := range p.Steps {
		if s.Shape != "" && s.Shape != prev {
			out = append(out, s.Shape)
		}
		prev = s.Shape
	}
	return out
}

// MarshalJSON 同时输出 SVG 路径字符串与结构化指令。
func (p Path) MarshalJSON() ([]byte, error) {
	type steps Path
	return json.Marshal(struct {
		D string `json:"d"`
		steps
	}{D: p.String(), steps: steps(p)})
}
