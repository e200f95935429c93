package layout

import (
	"testing"

	"github.com/ByLCY/brick/block"
)

// stubField 是固定尺寸的字段，避免测试依赖文本测量。
type stubField struct {
	kind     block.FieldKind
	w, h     float64
	editable bool
	noFlip   bool

	x, y   float64
	placed int
}

func (f *stubField) Kind() block.FieldKind    { return f.kind }
func (f *stubField) Size() (float64, float64) { return f.w, f.h }
func (f *stubField) Editable() bool           { return f.editable }
func (f *stubField) FlipRTL() bool            { return f.noFlip }
func (f *stubField) MoveTo(x, y float64)      { f.x, f.y = x, y; f.placed++ }

type stubIcon struct {
	w, h   float64
	hidden bool
}

func (i stubIcon) Name() string             { return "stub" }
func (i stubIcon) Size() (float64, float64) { return i.w, i.h }
func (i stubIcon) Visible() bool            { return !i.hidden }

func label(w, h float64) *stubField { return &stubField{kind: block.FieldLabel, w: w, h: h} }

func textField(w, h float64) *stubField {
	return &stubField{kind: block.FieldText, w: w, h: h, editable: true}
}

func dummy(fields ...block.Field) *block.Input {
	return &block.Input{Kind: block.InputDummy, Fields: fields}
}

func inlineValue(name string, target *block.Block, fields ...block.Field) *block.Input {
	return &block.Input{Name: name, Kind: block.InputValue, Inline: true, Target: target, Fields: fields}
}

func externalValue(name string, target *block.Block, fields ...block.Field) *block.Input {
	return &block.Input{Name: name, Kind: block.InputValue, Target: target, Fields: fields}
}

func statement(name string, target *block.Block, fields ...block.Field) *block.Input {
	return &block.Input{Name: name, Kind: block.InputStatement, Target: target, Fields: fields}
}

func mustRows(t *testing.T, b *block.Block, sizes ConnectedSizes) *Layout {
	t.Helper()
	l, err := BuildRows(b, DefaultTokens(), sizes)
	if err != nil {
		t.Fatalf("BuildRows error: %v", err)
	}
	return l
}

func mustRender(t *testing.T, b *block.Block, opts Options) *Drawing {
	t.Helper()
	d, err := Render(b, nil, opts)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	return d
}

// rowTops 返回每一行顶边的 y。
func rowTops(l *Layout) []float64 {
	tops := make([]float64, len(l.Rows))
	y := l.StartY + l.TopRow.Height
	for i, r := range l.Rows {
		tops[i] = y
		y += r.Height
	}
	return tops
}

func contentRowsOf(l *Layout) []*Row {
	var out []*Row
	for _, r := range l.Rows {
		if !r.IsSpacerRow {
			out = append(out, r)
		}
	}
	return out
}

func countShape(p Path, shape string) int {
	n := 0
	for _, s := range p.Shapes() {
		if s == shape {
			n++
		}
	}
	return n
}

// sampleBlocks 覆盖各种行与连接组合，用于全局性质测试。
func sampleBlocks() map[string]*block.Block {
	return map[string]*block.Block{
		"stub": {Type: "stub"},
		"statement": {Type: "controls_repeat", HasPrevious: true, HasNext: true,
			Inputs: []*block.Input{dummy(label(30, 12)), statement("DO", nil, label(12, 12))}},
		"external": {Type: "set", HasPrevious: true, HasNext: true,
			Inputs: []*block.Input{externalValue("VALUE", nil, label(20, 12))}},
		"inline": {Type: "compare", HasOutput: true,
			Inputs: []*block.Input{inlineValue("A", nil), inlineValue("B", nil, textField(16, 14))}},
		"hat": {Type: "when_started", Hat: true, HasNext: true,
			Inputs: []*block.Input{dummy(label(60, 12))}},
		"collapsed": {Type: "proc", Collapsed: true, Summary: label(80, 12),
			Inputs: []*block.Input{statement("STACK", nil)}},
		"mixed": {Type: "mixed", HasPrevious: true, HasNext: true,
			Icons: []block.Icon{stubIcon{w: 16, h: 16}, stubIcon{w: 16, h: 16, hidden: true}},
			Inputs: []*block.Input{
				inlineValue("A", nil, label(10, 12)),
				externalValue("B", nil),
				statement("C", nil),
				statement("D", nil),
				dummy(textField(24, 16)),
			}},
	}
}
