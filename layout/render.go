package layout

import (
	"fmt"

	"github.com/ByLCY/brick/block"
)

// Drawing is the renderer-agnostic path description of one block, in the
// block's local coordinates. For right-to-left blocks x grows leftwards from
// the origin, so every x is zero or negative.
type Drawing struct {
	Outline    Path           `json:"outline"`
	Inline     []InlineCutout `json:"inline,omitempty"`
	Highlight  *Path          `json:"highlight,omitempty"`
	Placements []Placement    `json:"placements,omitempty"`

	Connections []Connection `json:"connections,omitempty"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	RTL    bool    `json:"rtl,omitempty"`

	// Layout 只在 DebugOptions.Rows 打开时保留在 JSON 中。
	Layout *Layout `json:"layout,omitempty"`
}

// Bounds returns the block's bounding box in local coordinates: the block
// body from y=0 (the top of the hat) to Height, plus whatever the outline's
// tabs and notches add around it.
func (d *Drawing) Bounds() Rect {
	body := Rect{Width: d.Width, Height: d.Height}
	if d.RTL {
		body.X = -d.Width
	}
	return d.Outline.Extent().Union(body)
}

// Render lays out one block and builds its path description. sizes holds the
// already measured children of b's connected inputs; missing entries are
// treated as empty inputs.
func Render(b *block.Block, sizes ConnectedSizes, opts Options) (*Drawing, error) {
	t := opts.tokens()
	l, err := opts.rows().BuildRows(b, t, sizes)
	if err != nil {
		return nil, fmt.Errorf("构建行失败: %w", err)
	}
	if l == nil || l.TopRow == nil || l.BottomRow == nil {
		return nil, fmt.Errorf("%w: 行构建器没有返回首尾行", ErrMalformedRow)
	}
	outline, err := drawOutline(l, t)
	if err != nil {
		return nil, err
	}
	inline, placements := drawInternals(l, t)

	d := &Drawing{
		Outline:     outline,
		Inline:      inline,
		Placements:  placements,
		Connections: connections(l, inline, t),
		Width:       l.Width,
		Height:      l.Height,
		RTL:         l.RTL,
	}
	if opts.Highlight {
		h := outline.Translate(t.HighlightOffset, t.HighlightOffset)
		d.Highlight = &h
	}
	if opts.Debug.Rows {
		d.Layout = l
	}
	if l.RTL {
		d.mirror()
	}
	return d, nil
}

// mirror 在所有几何计算完成后统一镜像。placement 已在计算时镜像。
func (d *Drawing) mirror() {
	d.Outline = d.Outline.Mirror()
	if d.Highlight != nil {
		h := d.Highlight.Mirror()
		d.Highlight = &h
	}
	for i := range d.Inline {
		d.Inline[i].Path = d.Inline[i].Path.Mirror()
		d.Inline[i].X = negate(d.Inline[i].X)
	}
	for i := range d.Connections {
		d.Connections[i].X = negate(d.Connections[i].X)
	}
}

// connections 计算连接点（镜像前）。子块原点放在这些位置即可与父块吻合。
func connections(l *Layout, inline []InlineCutout, t *Tokens) []Connection {
	var out []Connection
	if l.HasPrevious {
		out = append(out, Connection{Kind: ConnPrevious, X: 0, Y: l.StartY})
	}
	if l.HasOutput {
		out = append(out, Connection{Kind: ConnOutput, X: 0, Y: l.StartY})
	}
	cursorY := l.StartY + l.TopRow.Height
	for _, row := range l.Rows {
		switch {
		case row.HasStatement:
			in, _ := row.statementInput()
			out = append(out, Connection{Kind: ConnStatement, Input: inputName(in.Input), X: row.StatementEdge, Y: cursorY, In: in.Input})
		case row.HasExternalInput:
			out = append(out, externalConnection(row, cursorY))
		}
		cursorY += row.Height
	}
	for _, c := range inline {
		out = append(out, Connection{Kind: ConnInput, Input: c.Name, X: c.X, Y: c.Y, In: c.Input})
	}
	if l.HasNext {
		out = append(out, Connection{Kind: ConnNext, X: 0, Y: l.Height})
	}
	for i := range out {
		out[i].X, out[i].Y = roundCoord(out[i].X), roundCoord(out[i].Y)
	}
	return out
}

func externalConnection(row *Row, y float64) Connection {
	c := Connection{Kind: ConnInput, X: row.Width, Y: y}
	for _, m := range row.Elements {
		if e, ok := m.(ExternalInputMeasurable); ok {
			c.Input, c.In = inputName(e.Input), e.Input
		}
	}
	return c
}

// Connection returns the first connection of the given kind and input name.
func (d *Drawing) Connection(kind ConnectionKind, input string) (Connection, bool) {
	for _, c := range d.Connections {
		if c.Kind == kind && c.Input == input {
			return c, true
		}
	}
	return Connection{}, false
}
