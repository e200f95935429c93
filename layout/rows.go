package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/brick/block"
)

// DefaultRowBuilder groups inputs into rows:
//   - inline value inputs and dummy inputs join the row being built;
//   - a statement input starts its own HasStatement row;
//   - an external value input starts its own HasExternalInput row.
//
// Content rows are separated by spacer rows and framed by a top and a bottom cap.
var DefaultRowBuilder RowBuilder = RowBuilderFunc(BuildRows)

// BuildRows is the default RowBuilder.
func BuildRows(b *block.Block, t *Tokens, sizes ConnectedSizes) (*Layout, error) {
	if b == nil {
		return nil, fmt.Errorf("layout: block 为空")
	}
	l := &Layout{
		Block:       b,
		RTL:         b.RTL,
		HasPrevious: b.HasPrevious,
		HasNext:     b.HasNext,
		HasOutput:   b.HasOutput,
		HasHat:      b.ShowsHat(),
	}
	// 值块、帽子块与被接在上一块之后的块使用直角。
	l.SquareTopLeft = b.SquareTopLeft || b.HasOutput || l.HasHat
	l.SquareBottomLeft = b.SquareBottomLeft || b.HasOutput || b.Next != nil

	l.TopRow = buildTopRow(l, t)
	var content []*Row
	if b.Collapsed {
		content = collapsedRows(b, t)
	} else {
		content = contentRows(b, t, sizes)
	}
	l.BottomRow = buildBottomRow(l, t)

	l.BodyWidth = bodyWidth(l, content, t)
	for _, r := range content {
		stretch(r, l.BodyWidth)
	}
	l.TopRow.Width = l.BodyWidth
	l.BottomRow.Width = l.BodyWidth

	for i, r := range content {
		l.Rows = append(l.Rows, spacerRow(l.BodyWidth, t.SpacerHeight))
		l.Rows = append(l.Rows, r)
		if i == len(content)-1 {
			l.Rows = append(l.Rows, spacerRow(l.BodyWidth, t.SpacerHeight))
		}
	}

	total := l.TopRow.Height + l.BottomRow.Height
	for _, r := range l.Rows {
		total += r.Height
	}
	minHeight := t.MinBlockHeight
	if l.HasOutput {
		minHeight = math.Max(minHeight, t.TabOffsetFromTop+t.TabHeight+t.CornerRadius)
	}
	if total < minHeight {
		l.BottomRow.Height += minHeight - total
		total = minHeight
	}

	l.Width = l.BodyWidth
	for _, r := range l.Rows {
		l.Width = math.Max(l.Width, r.Width)
	}
	l.Height = l.StartY + total
	return l, nil
}

func buildTopRow(l *Layout, t *Tokens) *Row {
	top := &Row{}
	top.add(NewCorner(t, false, !l.SquareTopLeft))
	if l.HasHat {
		hat := NewHat(t)
		l.StartY = hat.AscenderHeight
		// 帽子画在起点之上，不占用顶行高度。
		top.Elements = append(top.Elements, hat)
		top.Width += hat.Width
	}
	if l.HasPrevious {
		top.add(InRowSpacer{clampedBox(t.NotchOffsetLeft-top.Width, 0)})
		top.add(NewConnection(t, false))
	}
	top.add(NewCorner(t, true, false))
	return top
}

func buildBottomRow(l *Layout, t *Tokens) *Row {
	bottom := &Row{}
	bottom.add(NewCorner(t, false, !l.SquareBottomLeft))
	if l.HasNext {
		bottom.add(InRowSpacer{clampedBox(t.NotchOffsetLeft-bottom.Width, 0)})
		// 下方凸出的凹口不计入行高。
		next := NewConnection(t, true)
		bottom.Elements = append(bottom.Elements, next)
		bottom.Width += next.Width
	}
	bottom.add(NewCorner(t, true, false))
	return bottom
}

func spacerRow(width, height float64) *Row {
	return &Row{IsSpacerRow: true, Width: width, Height: clampSize(height)}
}

// contentRows 按输入顺序把图标、字段与输入分配到各行。
func contentRows(b *block.Block, t *Tokens, sizes ConnectedSizes) []*Row {
	var rows []*Row
	cur := newContentRow(t)
	for _, icon := range b.Icons {
		if m := NewIconMeasurable(icon, t); m.IsVisible {
			cur.addPadded(m, t)
		}
	}
	flush := func() {
		if cur.hasContent() {
			rows = append(rows, cur)
		}
		cur = newContentRow(t)
	}

	for _, in := range b.Inputs {
		switch {
		case in.Kind == block.InputStatement:
			flush()
			addFields(cur, in, t)
			cur.StatementEdge = cur.Width
			cur.add(NewStatementInput(in, sizes.of(in), t))
			cur.HasStatement = true
			flush()
		case in.Kind == block.InputValue && !in.Inline:
			flush()
			addFields(cur, in, t)
			cur.add(NewExternalInput(in, sizes.of(in), t))
			cur.HasExternalInput = true
			flush()
		case in.Kind == block.InputValue:
			addFields(cur, in, t)
			cur.addPadded(NewInlineInput(in, sizes.of(in), t), t)
			cur.HasInlineInput = true
		default:
			addFields(cur, in, t)
		}
	}
	flush()
	return rows
}

func collapsedRows(b *block.Block, t *Tokens) []*Row {
	row := newContentRow(t)
	if b.Summary != nil {
		row.addPadded(NewFieldMeasurable(b.Summary, t), t)
	}
	row.add(NewJaggedEdge(t))
	row.HasJaggedEdge = true
	return []*Row{row}
}

func newContentRow(t *Tokens) *Row {
	r := &Row{}
	r.add(NewInRowSpacer(t.InRowSpacing))
	return r
}

// addPadded 追加元素及其后的行内间距。
func (r *Row) addPadded(m Measurable, t *Tokens) {
	r.add(m)
	r.add(NewInRowSpacer(t.InRowSpacing))
}

func addFields(r *Row, in *block.Input, t *Tokens) {
	for _, f := range in.Fields {
		r.addPadded(NewFieldMeasurable(f, t), t)
	}
}

// bodyWidth 是所有普通行右边缘对齐的宽度。语句行与外部输入行只贡献
// 其主体部分，不包括所连接的子块。
func bodyWidth(l *Layout, content []*Row, t *Tokens) float64 {
	w := math.Max(t.MinBlockWidth, l.TopRow.Width)
	w = math.Max(w, l.BottomRow.Width)
	for _, r := range content {
		switch {
		case r.HasExternalInput:
			w = math.Max(w, r.Width-t.TabWidth)
		case r.HasStatement:
			w = math.Max(w, r.Width+t.CornerRadius)
		default:
			w = math.Max(w, r.Width)
		}
	}
	return w
}

// stretch 插入弹性间距，使普通行宽度等于主体宽度；外部输入行的主体部分同样
// 对齐，随后再加上连接口宽度。
func stretch(r *Row, body float64) {
	switch {
	case r.HasStatement:
		return
	case r.HasExternalInput:
		gap := body - (r.Width - r.Elements[len(r.Elements)-1].Extent().Width)
		if gap > 0 {
			r.insertBeforeLast(NewInRowSpacer(gap))
		}
	case r.HasJaggedEdge:
		if gap := body - r.Width; gap > 0 {
			r.insertBeforeLast(NewInRowSpacer(gap))
		}
	default:
		if gap := body - r.Width; gap > 0 {
			r.add(NewInRowSpacer(gap))
		}
	}
}

func (r *Row) insertBeforeLast(m Measurable) {
	last := r.Elements[len(r.Elements)-1]
	r.Elements = append(r.Elements[:len(r.Elements)-1], m, last)
	r.Width += m.Extent().Width
}
