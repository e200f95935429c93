package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/brick/block"
)

func TestStubBlockOutline(t *testing.T) {
	d := mustRender(t, &block.Block{Type: "stub"}, Options{})
	const want = "M 0,8 a 8,8 0 0,1 8,-8 H 40 V 24 H 8 a 8,8 0 0,1 -8,-8 z"
	if got := d.Outline.String(); got != want {
		t.Fatalf("outline = %q, want %q", got, want)
	}
	if len(d.Inline) != 0 {
		t.Fatalf("stub block has %d inline cutouts", len(d.Inline))
	}
	if d.Width != 40 || d.Height != 24 {
		t.Fatalf("size = %gx%g, want 40x24", d.Width, d.Height)
	}
}

func TestOutlineAlwaysCloses(t *testing.T) {
	for name, b := range sampleBlocks() {
		for _, rtl := range []bool{false, true} {
			b.RTL = rtl
			d := mustRender(t, b, Options{Highlight: true})
			require.True(t, d.Outline.Closed(), "%s rtl=%v", name, rtl)
			require.Equal(t, OpMoveTo, d.Outline.Steps[0].Op, name)
			require.True(t, d.Highlight.Closed(), name)
			for _, c := range d.Inline {
				require.True(t, c.Path.Closed(), name)
			}
			// close 把笔带回起点，整条轮廓首尾相接。
			pts := d.Outline.Trace()
			require.Equal(t, pts[0], pts[len(pts)-1], name)
		}
	}
}

func TestSimpleStatementScenario(t *testing.T) {
	b := sampleBlocks()["statement"]
	d := mustRender(t, b, Options{})
	require.Equal(t, []string{
		ShapeCornerTopLeft,
		ShapeNotchLeftRight,
		ShapeNotchRightLeft,
		ShapeInsideCornerTop,
		ShapeInsideCornerBot,
		ShapeNotchRightLeft,
		ShapeCornerBottomLeft,
	}, d.Outline.Shapes())
	require.Empty(t, d.Inline)

	b.SquareTopLeft, b.SquareBottomLeft = true, true
	d = mustRender(t, b, Options{})
	require.Zero(t, countShape(d.Outline, ShapeCornerTopLeft))
	require.Zero(t, countShape(d.Outline, ShapeCornerBottomLeft))
	require.Equal(t, 1, countShape(d.Outline, ShapeNotchLeftRight))
}

func TestStatementCutoutGeometry(t *testing.T) {
	tokens := DefaultTokens()
	b := sampleBlocks()["statement"]
	l := mustRows(t, b, nil)
	p, err := drawOutline(l, tokens)
	require.NoError(t, err)

	var row *Row
	var top float64
	for i, r := range l.Rows {
		if r.HasStatement {
			row, top = r, rowTops(l)[i]
		}
	}
	require.NotNil(t, row)

	// 内侧竖边位于 StatementEdge，从 top+r 到 top+height-r。
	pts := p.Trace()
	var inner []Point
	for i, s := range p.Steps {
		if s.Shape == ShapeInsideCornerTop || s.Shape == ShapeInsideCornerBot {
			inner = append(inner, pts[i])
		}
	}
	require.Len(t, inner, 2)
	require.Equal(t, Point{X: row.StatementEdge, Y: top + tokens.CornerRadius}, inner[0])
	require.Equal(t, Point{X: row.StatementEdge + tokens.CornerRadius, Y: top + row.Height}, inner[1])
}

func TestSingleExternalInputScenario(t *testing.T) {
	tokens := DefaultTokens()
	b := sampleBlocks()["external"]
	l := mustRows(t, b, nil)
	rows := contentRowsOf(l)
	require.Len(t, rows, 1)
	require.True(t, rows[0].HasExternalInput)

	d := mustRender(t, b, Options{})
	require.Equal(t, 1, countShape(d.Outline, ShapeTabDown))
	require.Zero(t, countShape(d.Outline, ShapeTabUp))

	// 该行的右边缘是行自身宽度，而不是主体宽度。
	maxX := math.Inf(-1)
	for _, pt := range d.Outline.Trace() {
		maxX = math.Max(maxX, pt.X)
	}
	require.Equal(t, rows[0].Width, maxX)
	require.Equal(t, l.BodyWidth+tokens.TabWidth, maxX)
}

func TestOutputTabOnLeftEdge(t *testing.T) {
	tokens := DefaultTokens()
	d := mustRender(t, &block.Block{Type: "value", HasOutput: true}, Options{})
	require.Equal(t, 1, countShape(d.Outline, ShapeTabUp))
	ext := d.Outline.Extent()
	require.Equal(t, -tokens.TabWidth, ext.X)
	// 值块四角均为直角。
	require.Zero(t, countShape(d.Outline, ShapeCornerTopLeft))
	require.Zero(t, countShape(d.Outline, ShapeCornerBottomLeft))
}

func TestHatAndJaggedShapes(t *testing.T) {
	d := mustRender(t, sampleBlocks()["hat"], Options{})
	require.Equal(t, 1, countShape(d.Outline, ShapeHat))
	// 帽子的控制点伸到 y=0，轮廓端点从帽子高度开始。
	require.Equal(t, DefaultTokens().HatHeight, d.Outline.Extent().Y)

	d = mustRender(t, sampleBlocks()["collapsed"], Options{})
	require.Equal(t, 1, countShape(d.Outline, ShapeJaggedTeeth))
	require.Zero(t, countShape(d.Outline, ShapeInsideCornerTop), "collapsed blocks hide statement inputs")
}

func TestCollapsedRightEdgeStaysFlush(t *testing.T) {
	d := mustRender(t, sampleBlocks()["collapsed"], Options{})
	tokens := DefaultTokens()
	pts := d.Outline.Trace()
	teethMin := math.Inf(1)
	for i, s := range d.Outline.Steps {
		if s.Shape == ShapeJaggedTeeth {
			teethMin = math.Min(teethMin, pts[i].X)
			continue
		}
		// 锯齿之外的右边缘都在块宽度处。
		if s.Op == OpVertical {
			require.Equal(t, d.Width, pts[i].X, "step %d of %s", i, d.Outline)
		}
	}
	require.Equal(t, d.Width-tokens.JaggedTeethWidth, teethMin)
	require.Equal(t, d.Width, d.Outline.Extent().X+d.Outline.Extent().Width)
}

func TestSpacerHeightDeferredIntoEdges(t *testing.T) {
	l := mustRows(t, sampleBlocks()["mixed"], nil)
	p, err := drawOutline(l, DefaultTokens())
	require.NoError(t, err)
	// 没有两条连续的竖边。
	for i := 1; i < len(p.Steps); i++ {
		if p.Steps[i].Op == OpVertical && p.Steps[i-1].Op == OpVertical {
			t.Fatalf("consecutive vertical edges at step %d: %s", i, p)
		}
	}
	// 只有底部的 next 凹口伸出块高度之外。
	require.Equal(t, l.Height+DefaultTokens().NotchHeight, maxY(p.Trace()))
}

func maxY(pts []Point) float64 {
	m := math.Inf(-1)
	for _, pt := range pts {
		m = math.Max(m, pt.Y)
	}
	return m
}

func TestMalformedRowsAreRejected(t *testing.T) {
	tokens := DefaultTokens()
	base := func() *Layout { return mustRows(t, sampleBlocks()["statement"], nil) }

	cases := map[string]func(l *Layout){
		"two kinds": func(l *Layout) { l.Rows[1].HasExternalInput = true; l.Rows[1].HasStatement = true },
		"spacer and statement": func(l *Layout) {
			l.Rows[0].HasStatement = true
		},
		"negative height": func(l *Layout) { l.Rows[1].Height = -1 },
		"nan width":       func(l *Layout) { l.Rows[1].Width = math.NaN() },
		"statement without input": func(l *Layout) {
			for _, r := range l.Rows {
				if r.HasStatement {
					r.Elements = r.Elements[:1]
				}
			}
		},
		"statement too short": func(l *Layout) {
			for _, r := range l.Rows {
				if r.HasStatement {
					r.Height = tokens.CornerRadius
				}
			}
		},
		"bad edge": func(l *Layout) {
			for _, r := range l.Rows {
				if r.HasStatement {
					r.StatementEdge = math.Inf(1)
				}
			}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			l := base()
			mutate(l)
			_, err := drawOutline(l, tokens)
			require.True(t, errors.Is(err, ErrMalformedRow), "got %v", err)
		})
	}
}
