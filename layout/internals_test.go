package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ByLCY/brick/block"
)

func TestTwoInlineInputsScenario(t *testing.T) {
	b := sampleBlocks()["inline"]
	l := mustRows(t, b, nil)
	d := mustRender(t, b, Options{})
	require.Len(t, d.Inline, 2)
	require.Zero(t, countShape(d.Outline, ShapeTabDown), "inline cutouts are not part of the outline")

	var centerline float64
	for i, r := range l.Rows {
		if r.HasInlineInput {
			centerline = rowTops(l)[i] + r.Height/2
		}
	}
	for _, c := range d.Inline {
		require.True(t, c.Path.Closed())
		require.Equal(t, 1, countShape(c.Path, ShapeTabDown))
		ext := c.Path.Extent()
		require.InDelta(t, centerline, ext.Y+ext.Height/2, 1e-9)
	}
	require.Less(t, d.Inline[0].Path.Extent().X, d.Inline[1].Path.Extent().X)
	require.Equal(t, "A", d.Inline[0].Name)
	require.Equal(t, "B", d.Inline[1].Name)
}

func TestInlineCutoutGeometry(t *testing.T) {
	tokens := DefaultTokens()
	in := NewInlineInput(nil, Box{}, tokens)
	p := inlineCutout(in, 10, 20, tokens)
	ext := p.Extent()
	require.Equal(t, Rect{X: 10, Y: 20, Width: in.Width, Height: in.Height}, ext)
	require.Equal(t, "M 18,20 V 25 c 0,10 -8,-8 -8,7.5 s 8,-2.5 8,7.5 V 46 H 40 V 20 z", p.String())
}

func TestFieldPlacements(t *testing.T) {
	tokens := DefaultTokens()
	lbl, txt := label(20, 10), textField(30, 16)
	b := &block.Block{Type: "fields", Inputs: []*block.Input{dummy(lbl, txt)}}
	l := mustRows(t, b, nil)
	d := mustRender(t, b, Options{})
	require.Len(t, d.Placements, 2)

	var top, height float64
	for i, r := range l.Rows {
		if !r.IsSpacerRow {
			top, height = rowTops(l)[i], r.Height
		}
	}
	first, second := d.Placements[0], d.Placements[1]
	require.Equal(t, tokens.InRowSpacing, first.X)
	require.Equal(t, top+(height-10)/2, first.Y)
	// 可编辑文本字段带固定偏移，不影响后续元素的游标。
	require.Equal(t, tokens.InRowSpacing*2+20+EditableFieldNudge, second.X)
	require.Equal(t, top+(height-16)/2, second.Y)
	require.Equal(t, 30.0, second.Width, "placement never resizes the measurable")
}

func TestIconPlacementLeadsFirstRow(t *testing.T) {
	b := sampleBlocks()["mixed"]
	d := mustRender(t, b, Options{})
	require.Equal(t, KindIcon, d.Placements[0].Kind)
	require.Equal(t, 1, d.Placements[0].Row, "icons sit in the first content row")
	for _, p := range d.Placements {
		if p.Kind == KindIcon {
			require.Equal(t, 16.0, p.Width)
		}
	}
}

func TestMirrorSymmetry(t *testing.T) {
	for name, b := range sampleBlocks() {
		b.RTL = false
		ltr := mustRender(t, b, Options{Highlight: true})
		b.RTL = true
		rtl := mustRender(t, b, Options{Highlight: true})

		require.Len(t, rtl.Placements, len(ltr.Placements), name)
		for i := range ltr.Placements {
			lp, rp := ltr.Placements[i], rtl.Placements[i]
			require.Equal(t, -(lp.X + lp.Width), rp.X, "%s placement %d", name, i)
			require.Equal(t, lp.Y, rp.Y, "%s placement %d", name, i)
		}

		requireMirrored(t, ltr.Outline, rtl.Outline)
		requireMirrored(t, *ltr.Highlight, *rtl.Highlight)
		for i := range ltr.Inline {
			requireMirrored(t, ltr.Inline[i].Path, rtl.Inline[i].Path)
		}
		for i := range ltr.Connections {
			require.Equal(t, negate(ltr.Connections[i].X), rtl.Connections[i].X, name)
			require.Equal(t, ltr.Connections[i].Y, rtl.Connections[i].Y, name)
		}
	}
}

func requireMirrored(t *testing.T, ltr, rtl Path) {
	t.Helper()
	a, b := ltr.Trace(), rtl.Trace()
	require.Len(t, b, len(a))
	for i := range a {
		require.Equal(t, Point{X: negate(a[i].X), Y: a[i].Y}, b[i], "point %d", i)
	}
	for i := range ltr.Steps {
		if ltr.Steps[i].Op == OpArc {
			require.NotEqual(t, ltr.Steps[i].Sweep, rtl.Steps[i].Sweep)
		}
	}
}

func TestMirrorContentRespectsFlipRTL(t *testing.T) {
	flip, keep := label(10, 10), label(10, 10)
	keep.noFlip = true
	b := &block.Block{Type: "rtl", RTL: true, Inputs: []*block.Input{dummy(flip, keep)}}
	d := mustRender(t, b, Options{})
	require.True(t, d.Placements[0].MirrorContent)
	require.False(t, d.Placements[1].MirrorContent)

	b.RTL = false
	d = mustRender(t, b, Options{})
	require.False(t, d.Placements[0].MirrorContent)
}
