package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/brick/block"
)

var (
	// ErrMalformedRow 表示行构建器违反了行分类约定。
	ErrMalformedRow = errors.New("layout: malformed row")
	// ErrUnclosedContour 表示轮廓没有以 close 结束。
	ErrUnclosedContour = errors.New("layout: unclosed contour")
)

// Row 是块内的一条水平带。HasStatement、HasExternalInput、IsSpacerRow 互斥。
type Row struct {
	Elements []Measurable

	Width  float64
	Height float64

	HasStatement     bool
	HasExternalInput bool
	IsSpacerRow      bool
	HasInlineInput   bool
	HasJaggedEdge    bool

	// StatementEdge 是语句输入左边缘的 x，只对 HasStatement 行有意义。
	StatementEdge float64
}

func (r *Row) add(m Measurable) {
	r.Elements = append(r.Elements, m)
	box := m.Extent()
	r.Width += box.Width
	r.Height = math.Max(r.Height, box.Height)
}

// hasContent reports whether the row holds anything besides spacers.
func (r *Row) hasContent() bool {
	for _, m := range r.Elements {
		if m.Kind() != KindInRowSpacer {
			return true
		}
	}
	return false
}

func (r *Row) statementInput() (StatementInputMeasurable, int) {
	found, n := StatementInputMeasurable{}, 0
	for _, m := range r.Elements {
		if s, ok := m.(StatementInputMeasurable); ok {
			found = s
			n++
		}
	}
	return found, n
}

// validate 检查一行是否满足绘制阶段依赖的约定。
func (r *Row) validate(t *Tokens) error {
	if r == nil {
		return fmt.Errorf("%w: nil row", ErrMalformedRow)
	}
	kinds := 0
	for _, b := range []bool{r.HasStatement, r.HasExternalInput, r.IsSpacerRow} {
		if b {
			kinds++
		}
	}
	if kinds > 1 {
		return fmt.Errorf("%w: statement=%v external=%v spacer=%v", ErrMalformedRow, r.HasStatement, r.HasExternalInput, r.IsSpacerRow)
	}
	if math.IsNaN(r.Width) || math.IsNaN(r.Height) || r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: size %gx%g", ErrMalformedRow, r.Width, r.Height)
	}
	if !r.HasStatement {
		return nil
	}
	if _, n := r.statementInput(); n != 1 {
		return fmt.Errorf("%w: statement row has %d statement inputs", ErrMalformedRow, n)
	}
	if math.IsNaN(r.StatementEdge) || math.IsInf(r.StatementEdge, 0) || r.StatementEdge < 0 {
		return fmt.Errorf("%w: statement edge %g", ErrMalformedRow, r.StatementEdge)
	}
	if r.Height < 2*t.CornerRadius {
		return fmt.Errorf("%w: statement row height %g below two corner radii", ErrMalformedRow, r.Height)
	}
	return nil
}

type rowJSON struct {
	Width            float64       `json:"width"`
	Height           float64       `json:"height"`
	HasStatement     bool          `json:"hasStatement,omitempty"`
	HasExternalInput bool          `json:"hasExternalInput,omitempty"`
	IsSpacerRow      bool          `json:"isSpacerRow,omitempty"`
	StatementEdge    float64       `json:"statementEdge,omitempty"`
	Elements         []elementJSON `json:"elements,omitempty"`
}

type elementJSON struct {
	Kind   Kind    `json:"kind"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MarshalJSON 输出每个元素的种类与尺寸，供调试 JSON 使用。
func (r *Row) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		Width:            r.Width,
		Height:           r.Height,
		HasStatement:     r.HasStatement,
		HasExternalInput: r.HasExternalInput,
		IsSpacerRow:      r.IsSpacerRow,
		StatementEdge:    r.StatementEdge,
	}
	for _, m := range r.Elements {
		box := m.Extent()
		out.Elements = append(out.Elements, elementJSON{Kind: m.Kind(), Width: box.Width, Height: box.Height})
	}
	return json.Marshal(out)
}

// Layout is the row model of one block: the sole input of both path builders.
type Layout struct {
	Block *block.Block `json:"-"`

	RTL              bool `json:"rtl,omitempty"`
	HasPrevious      bool `json:"hasPrevious,omitempty"`
	HasNext          bool `json:"hasNext,omitempty"`
	HasOutput        bool `json:"hasOutput,omitempty"`
	HasHat           bool `json:"hasHat,omitempty"`
	SquareTopLeft    bool `json:"squareTopLeft,omitempty"`
	SquareBottomLeft bool `json:"squareBottomLeft,omitempty"`

	// StartY 是帽子占用的高度，轮廓从这里开始。
	StartY    float64 `json:"startY"`
	TopRow    *Row    `json:"topRow"`
	Rows      []*Row  `json:"rows"`
	BottomRow *Row    `json:"bottomRow"`

	BodyWidth float64 `json:"bodyWidth"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// RowBuilder turns a block into its row model. Custom builders must honour the
// same row classification contract as the default one.
type RowBuilder interface {
	BuildRows(b *block.Block, t *Tokens, sizes ConnectedSizes) (*Layout, error)
}

// RowBuilderFunc adapts a function to RowBuilder.
type RowBuilderFunc func(b *block.Block, t *Tokens, sizes ConnectedSizes) (*Layout, error)

func (f RowBuilderFunc) BuildRows(b *block.Block, t *Tokens, sizes ConnectedSizes) (*Layout, error) {
	return f(b, t, sizes)
}

// ConnectedSizes 记录每个已连接输入上子块（或块栈）的尺寸。
type ConnectedSizes map[*block.Input]Box

func (s ConnectedSizes) of(in *block.Input) Box {
	if s == nil {
		return Box{}
	}
	return s[in]
}
