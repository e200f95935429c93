package layout

import (
	"math"

	"github.com/ByLCY/brick/block"
)

// Kind tags the concrete measurable variant. The path builders switch on it.
type Kind int

const (
	KindField Kind = iota
	KindIcon
	KindLeftRoundCorner
	KindLeftSquareCorner
	KindRightRoundCorner
	KindRightSquareCorner
	KindHat
	KindJaggedEdge
	KindInRowSpacer
	KindInlineInput
	KindExternalInput
	KindStatementInput
	KindPreviousConnection
	KindNextConnection
)

var kindNames = [...]string{
	"field", "icon",
	"left-round-corner", "left-square-corner", "right-round-corner", "right-square-corner",
	"hat", "jagged-edge", "in-row-spacer",
	"inline-input", "external-input", "statement-input",
	"previous-connection", "next-connection",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Box 是已解析的宽高。
type Box struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Extent returns the resolved size.
func (b Box) Extent() Box { return b }

// Measurable is one layout participant. Implementations are value types:
// their size is fixed once constructed.
type Measurable interface {
	Kind() Kind
	Extent() Box
}

// clampSize 把负数与非有限值收敛为 0，避免 NaN 传进绘制阶段。
func clampSize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func clampedBox(w, h float64) Box { return Box{Width: clampSize(w), Height: clampSize(h)} }

// FieldMeasurable wraps one field.
type FieldMeasurable struct {
	Box
	Field      block.Field `json:"-"`
	IsEditable bool        `json:"isEditable,omitempty"`
	FlipRTL    bool        `json:"flipRtl,omitempty"`
	// Nudge 标记需要固定水平偏移的可编辑文本/下拉字段。
	Nudge bool `json:"nudge,omitempty"`
}

func NewFieldMeasurable(f block.Field, _ *Tokens) FieldMeasurable {
	w, h := f.Size()
	kind := f.Kind()
	return FieldMeasurable{
		Box:        clampedBox(w, h),
		Field:      f,
		IsEditable: f.Editable(),
		FlipRTL:    f.FlipRTL(),
		Nudge:      f.Editable() && (kind == block.FieldText || kind == block.FieldDropdown),
	}
}

func (FieldMeasurable) Kind() Kind { return KindField }

// IconMeasurable wraps one icon.
type IconMeasurable struct {
	Box
	Icon      block.Icon `json:"-"`
	IsVisible bool       `json:"isVisible"`
}

func NewIconMeasurable(icon block.Icon, _ *Tokens) IconMeasurable {
	m := IconMeasurable{Icon: icon, IsVisible: icon.Visible()}
	if m.IsVisible {
		m.Box = clampedBox(icon.Size())
	}
	return m
}

func (IconMeasurable) Kind() Kind { return KindIcon }

// CornerMeasurable 只占位，尺寸全部来自 token。
// 圆角只计入半个半径的高度，剩下的弧线伸进相邻行。
type CornerMeasurable struct {
	Box
	Right bool `json:"right,omitempty"`
	Round bool `json:"round,omitempty"`
}

func NewCorner(t *Tokens, right, round bool) CornerMeasurable {
	c := CornerMeasurable{Right: right, Round: round}
	if round {
		c.Box = clampedBox(t.CornerRadius, t.CornerRadius/2)
	} else {
		c.Box = clampedBox(t.NoPadding, t.NoPadding)
	}
	return c
}

func (c CornerMeasurable) Kind() Kind {
	switch {
	case c.Right && c.Round:
		return KindRightRoundCorner
	case c.Right:
		return KindRightSquareCorner
	case c.Round:
		return KindLeftRoundCorner
	default:
		return KindLeftSquareCorner
	}
}

// HatMeasurable is the rounded start cap of event blocks.
type HatMeasurable struct {
	Box
	AscenderHeight float64 `json:"ascenderHeight"`
}

func NewHat(t *Tokens) HatMeasurable {
	return HatMeasurable{Box: clampedBox(t.HatWidth, t.HatHeight), AscenderHeight: clampSize(t.HatHeight)}
}

func (HatMeasurable) Kind() Kind { return KindHat }

// JaggedEdgeMeasurable is the zig-zag right edge of a collapsed block.
type JaggedEdgeMeasurable struct{ Box }

func NewJaggedEdge(t *Tokens) JaggedEdgeMeasurable {
	return JaggedEdgeMeasurable{clampedBox(t.JaggedTeethWidth, t.JaggedTeethHeight)}
}

func (JaggedEdgeMeasurable) Kind() Kind { return KindJaggedEdge }

// InRowSpacer 是行内的纯水平间隔。
type InRowSpacer struct{ Box }

func NewInRowSpacer(width float64) InRowSpacer {
	return InRowSpacer{clampedBox(width, 0)}
}

func (InRowSpacer) Kind() Kind { return KindInRowSpacer }

// InlineInputMeasurable is the hole of an inline value input. Its width
// includes the tab that the connected block's output protrudes into.
type InlineInputMeasurable struct {
	Box
	Input             *block.Input `json:"-"`
	ConnectionWidth   float64      `json:"connectionWidth"`
	ConnectionOffsetY float64      `json:"connectionOffsetY"`
}

// NewInlineInput sizes the hole from the connected block, or from the empty
// defaults when nothing is connected (connected.Width == 0).
func NewInlineInput(in *block.Input, connected Box, t *Tokens) InlineInputMeasurable {
	w := math.Max(clampSize(connected.Width), t.EmptyInlineInputWidth)
	h := math.Max(clampSize(connected.Height), t.EmptyInlineInputHeight)
	return InlineInputMeasurable{
		Box:               clampedBox(w+t.TabWidth, h),
		Input:             in,
		ConnectionWidth:   t.TabWidth,
		ConnectionOffsetY: t.TabOffsetFromTop,
	}
}

func (InlineInputMeasurable) Kind() Kind { return KindInlineInput }

// ExternalInputMeasurable is the tab cut into the right edge of an external row.
type ExternalInputMeasurable struct {
	Box
	Input *block.Input `json:"-"`
}

func NewExternalInput(in *block.Input, connected Box, t *Tokens) ExternalInputMeasurable {
	h := math.Max(clampSize(connected.Height), t.TabOffsetFromTop+t.TabHeight)
	return ExternalInputMeasurable{Box: clampedBox(t.TabWidth, h), Input: in}
}

func (ExternalInputMeasurable) Kind() Kind { return KindExternalInput }

// StatementInputMeasurable is the notch of a C-shaped statement input.
// Its width ignores the connected stack, which hangs outside the body.
type StatementInputMeasurable struct {
	Box
	Input       *block.Input `json:"-"`
	NotchOffset float64      `json:"notchOffset"`
}

func NewStatementInput(in *block.Input, connected Box, t *Tokens) StatementInputMeasurable {
	h := math.Max(clampSize(connected.Height), t.EmptyStatementInputHeight)
	return StatementInputMeasurable{
		Box:         clampedBox(t.NotchOffsetLeft+t.NotchWidth, h),
		Input:       in,
		NotchOffset: t.NotchOffsetLeft,
	}
}

func (StatementInputMeasurable) Kind() Kind { return KindStatementInput }

// ConnectionMeasurable is the previous (top) or next (bottom) notch.
type ConnectionMeasurable struct {
	Box
	Next bool `json:"next,omitempty"`
}

func NewConnection(t *Tokens, next bool) ConnectionMeasurable {
	return ConnectionMeasurable{Box: clampedBox(t.NotchWidth, t.NotchHeight), Next: next}
}

func (c ConnectionMeasurable) Kind() Kind {
	if c.Next {
		return KindNextConnection
	}
	return KindPreviousConnection
}
