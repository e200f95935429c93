package layout

import (
	"fmt"
	"math"
	"reflect"
)

// Tokens 是绘制块形状的设计常量（单位：像素）。
// 渲染期间只读；同一个 *Tokens 可以被多个块共享。
type Tokens struct {
	CornerRadius float64 `json:"cornerRadius"`

	NotchWidth      float64 `json:"notchWidth"`
	NotchHeight     float64 `json:"notchHeight"`
	NotchOffsetLeft float64 `json:"notchOffsetLeft"` // 左边缘到凹口起点的距离

	TabWidth         float64 `json:"tabWidth"`
	TabHeight        float64 `json:"tabHeight"`
	TabOffsetFromTop float64 `json:"tabOffsetFromTop"`

	JaggedTeethWidth  float64 `json:"jaggedTeethWidth"`
	JaggedTeethHeight float64 `json:"jaggedTeethHeight"`

	HatWidth  float64 `json:"hatWidth"`
	HatHeight float64 `json:"hatHeight"`

	SpacerHeight float64 `json:"spacerHeight"` // 行间空白行的高度
	InRowSpacing float64 `json:"inRowSpacing"` // 同一行元素之间的间距
	NoPadding    float64 `json:"noPadding"`

	MinBlockWidth             float64 `json:"minBlockWidth"`
	MinBlockHeight            float64 `json:"minBlockHeight"`
	EmptyInlineInputWidth     float64 `json:"emptyInlineInputWidth"`
	EmptyInlineInputHeight    float64 `json:"emptyInlineInputHeight"`
	EmptyStatementInputHeight float64 `json:"emptyStatementInputHeight"`

	HighlightOffset float64 `json:"highlightOffset"`
}

// DefaultTokens returns the stock token set.
func DefaultTokens() *Tokens {
	return &Tokens{
		CornerRadius:              8,
		NotchWidth:                15,
		NotchHeight:               4,
		NotchOffsetLeft:           15,
		TabWidth:                  8,
		TabHeight:                 15,
		TabOffsetFromTop:          5,
		JaggedTeethWidth:          6,
		JaggedTeethHeight:         12,
		HatWidth:                  100,
		HatHeight:                 15,
		SpacerHeight:              5,
		InRowSpacing:              5,
		NoPadding:                 0,
		MinBlockWidth:             40,
		MinBlockHeight:            24,
		EmptyInlineInputWidth:     22,
		EmptyInlineInputHeight:    26,
		EmptyStatementInputHeight: 24,
		HighlightOffset:           0.5,
	}
}

// Validate 检查常量是否可用于绘制。
func (t *Tokens) Validate() error {
	if t == nil {
		return fmt.Errorf("tokens 为空")
	}
	v := reflect.ValueOf(*t)
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i).Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("token %s 非法: %v", v.Type().Field(i).Name, f)
		}
	}
	if 2*t.CornerRadius > t.EmptyStatementInputHeight {
		return fmt.Errorf("cornerRadius %g 过大，空语句输入高度只有 %g", t.CornerRadius, t.EmptyStatementInputHeight)
	}
	if t.NotchOffsetLeft < t.CornerRadius {
		return fmt.Errorf("notchOffsetLeft %g 小于 cornerRadius %g", t.NotchOffsetLeft, t.CornerRadius)
	}
	if t.TabOffsetFromTop+t.TabHeight > t.EmptyInlineInputHeight {
		return fmt.Errorf("tab 超出空内联输入高度 %g", t.EmptyInlineInputHeight)
	}
	return nil
}

// Shape names tag the steps of each named sub-path.
const (
	ShapeCornerTopLeft    = "corner-top-left"
	ShapeCornerBottomLeft = "corner-bottom-left"
	ShapeInsideCornerTop  = "inside-corner-top"
	ShapeInsideCornerBot  = "inside-corner-bottom"
	ShapeNotchLeftRight   = "notch-left-to-right"
	ShapeNotchRightLeft   = "notch-right-to-left"
	ShapeTabDown          = "tab-down"
	ShapeTabUp            = "tab-up"
	ShapeHat              = "hat"
	ShapeJaggedTeeth      = "jagged-teeth"
)

// notch 是上下连接的凹口；从左到右时凹入块内，从右到左时向下凸出。
func (t *Tokens) notch(leftToRight bool) []Step {
	w, h := t.NotchWidth, t.NotchHeight
	slope := w * 2 / 5
	flat := w - 2*slope
	name := ShapeNotchLeftRight
	if !leftToRight {
		slope, flat = -slope, -flat
		name = ShapeNotchRightLeft
	}
	return tag(name,
		line(slope, h),
		line(flat, 0),
		line(slope, -h),
	)
}

// tab 是值连接的拼图形状，始终向左凸出；down 决定绘制方向。
func (t *Tokens) tab(down bool) []Step {
	w, h := t.TabWidth, t.TabHeight
	sign := 1.0
	name := ShapeTabDown
	if !down {
		sign = -1
		name = ShapeTabUp
	}
	return tag(name,
		cubic(0, sign*h*2/3, -w, -sign*h*8/15, -w, sign*h/2),
		smoothCubic(w, -sign*h/6, w, sign*h/2),
	)
}

func (t *Tokens) cornerTopLeft() []Step {
	r := t.CornerRadius
	return tag(ShapeCornerTopLeft, arc(r, true, r, -r))
}

func (t *Tokens) cornerBottomLeft() []Step {
	r := t.CornerRadius
	return tag(ShapeCornerBottomLeft, arc(r, true, -r, -r))
}

func (t *Tokens) insideCornerTop() []Step {
	r := t.CornerRadius
	return tag(ShapeInsideCornerTop, arc(r, false, -r, r))
}

func (t *Tokens) insideCornerBottom() []Step {
	r := t.CornerRadius
	return tag(ShapeInsideCornerBot, arc(r, false, r, r))
}

func (t *Tokens) hat() []Step {
	w, h := t.HatWidth, t.HatHeight
	return tag(ShapeHat, cubic(w*0.3, -h, w*0.7, -h, w, 0))
}

// jaggedTeeth 画出折叠块右侧的锯齿：向内咬进锯齿测量元素占用的宽度，起止 x 相同。
func (t *Tokens) jaggedTeeth() []Step {
	w, q := t.JaggedTeethWidth, t.JaggedTeethHeight/4
	return tag(ShapeJaggedTeeth,
		line(-w, q),
		line(w, q),
		line(-w, q),
		line(w, q),
	)
}
