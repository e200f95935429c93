package block

import "unicode/utf8"

// FieldKind 标识字段种类。
type FieldKind int

const (
	FieldLabel FieldKind = iota
	FieldText
	FieldDropdown
	FieldCheckbox
	FieldImage
	FieldVariable
)

var fieldKindNames = map[FieldKind]string{
	FieldLabel:    "label",
	FieldText:     "text",
	FieldDropdown: "dropdown",
	FieldCheckbox: "checkbox",
	FieldImage:    "image",
	FieldVariable: "variable",
}

func (k FieldKind) String() string {
	if s, ok := fieldKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseFieldKind maps a DSL keyword to a FieldKind.
func ParseFieldKind(s string) (FieldKind, bool) {
	for k, name := range fieldKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// Field 是块上的一个字段。尺寸在构建时已经测量完成。
type Field interface {
	Kind() FieldKind
	Size() (width, height float64)
	Editable() bool
	// FlipRTL 为 true 时，块镜像后字段内容本身不翻转。
	FlipRTL() bool
}

// Icon 是块左上角的装饰图标（警告、注释等）。
type Icon interface {
	Name() string
	Size() (width, height float64)
	Visible() bool
}

// Positioner 由需要得知最终绘制坐标的字段或图标实现。
type Positioner interface {
	MoveTo(x, y float64)
}

// BasicField is the stock Field implementation built from the DSL.
type BasicField struct {
	FieldKind  FieldKind `json:"kind"`
	Text       string    `json:"text,omitempty"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	IsEditable bool      `json:"editable,omitempty"`
	NoFlip     bool      `json:"noFlip,omitempty"`

	// 布局阶段回填的坐标
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Placed bool    `json:"placed"`
}

var (
	_ Field      = (*BasicField)(nil)
	_ Positioner = (*BasicField)(nil)
	_ Icon       = (*BasicIcon)(nil)
	_ Positioner = (*BasicIcon)(nil)
)

func (f *BasicField) Kind() FieldKind          { return f.FieldKind }
func (f *BasicField) Size() (float64, float64) { return f.Width, f.Height }
func (f *BasicField) Editable() bool           { return f.IsEditable }
func (f *BasicField) FlipRTL() bool            { return f.NoFlip }
func (f *BasicField) MoveTo(x, y float64)      { f.X, f.Y, f.Placed = x, y, true }

// String returns the displayed text.
func (f *BasicField) String() string { return f.Text }

// BasicIcon is the stock Icon implementation.
type BasicIcon struct {
	IconName string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Hidden   bool    `json:"hidden,omitempty"`

	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Placed bool    `json:"placed"`
}

func (i *BasicIcon) Name() string             { return i.IconName }
func (i *BasicIcon) Size() (float64, float64) { return i.Width, i.Height }
func (i *BasicIcon) Visible() bool            { return !i.Hidden }
func (i *BasicIcon) MoveTo(x, y float64)      { i.X, i.Y, i.Placed = x, y, true }

// TextMeasurer 负责测量单行文本的宽高（像素）。
type TextMeasurer interface {
	MeasureText(text string) (width, height float64)
}

// EstimateMeasurer 在没有字体可用时按字符数粗略估算文本尺寸。
type EstimateMeasurer struct {
	FontSize float64
}

func (m EstimateMeasurer) MeasureText(text string) (float64, float64) {
	size := m.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0, size * 1.25
	}
	return size * 0.55 * float64(n), size * 1.25
}

const (
	DefaultFontSize = 11.0

	fieldPaddingX      = 5.0
	fieldPaddingY      = 2.0
	dropdownArrowWidth = 12.0
	checkboxSize       = 16.0
	defaultImageSize   = 16.0
)

// NewField measures a field of the given kind using m.
// width/height are only used by image fields; zero selects the default size.
func NewField(kind FieldKind, text string, m TextMeasurer, width, height float64) *BasicField {
	f := &BasicField{FieldKind: kind, Text: text}
	switch kind {
	case FieldCheckbox:
		f.Width, f.Height = checkboxSize, checkboxSize
		f.IsEditable = true
	case FieldImage:
		f.Width, f.Height = width, height
		if f.Width == 0 {
			f.Width = defaultImageSize
		}
		if f.Height == 0 {
			f.Height = defaultImageSize
		}
	case FieldLabel:
		f.Width, f.Height = m.MeasureText(text)
	default:
		w, h := m.MeasureText(text)
		f.Width = w + 2*fieldPaddingX
		f.Height = h + 2*fieldPaddingY
		if kind == FieldDropdown {
			f.Width += dropdownArrowWidth
		}
		f.IsEditable = true
	}
	return f
}
