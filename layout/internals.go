package layout

import "github.com/ByLCY/brick/block"

// EditableFieldNudge 是可编辑文本/下拉字段的固定水平偏移。它不从 token 或字段
// 尺寸推导，只用于补偿这两类字段自带的内边距。
const EditableFieldNudge = 5

// Placement 是字段或图标在块本地坐标中的左上角位置。
type Placement struct {
	Kind   Kind    `json:"kind"`
	Row    int     `json:"row"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// MirrorContent 表示渲染器应水平翻转该元素的内容。
	MirrorContent bool `json:"mirrorContent,omitempty"`

	Field block.Field `json:"-"`
	Icon  block.Icon  `json:"-"`
}

// InlineCutout 是一个内联值输入的闭合切口及其连接点。
type InlineCutout struct {
	Input *block.Input `json:"-"`
	Name  string       `json:"name,omitempty"`
	Path  Path         `json:"path"`
	// X、Y 是被连接块的本地原点（切口左侧的凸起之后）。
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// drawInternals 逐行计算字段/图标的位置，并为每个内联输入生成独立的切口路径。
// 只读取行模型，不修改任何尺寸；坐标按从左到右计算，RTL 时只镜像 placement。
func drawInternals(l *Layout, t *Tokens) ([]InlineCutout, []Placement) {
	var (
		cutouts    []InlineCutout
		placements []Placement
	)
	cursorY := l.StartY + l.TopRow.Height
	for i, row := range l.Rows {
		if row.IsSpacerRow {
			cursorY += row.Height
			continue
		}
		centerline := cursorY + row.Height/2
		cursorX := 0.0
		for _, m := range row.Elements {
			box := m.Extent()
			switch e := m.(type) {
			case InlineInputMeasurable:
				yTop := centerline - box.Height/2
				cutouts = append(cutouts, InlineCutout{
					Input: e.Input,
					Name:  inputName(e.Input),
					Path:  inlineCutout(e, cursorX, yTop, t),
					X:     cursorX + e.ConnectionWidth,
					Y:     yTop,
				})
			case FieldMeasurable:
				x := cursorX
				if e.Nudge {
					x += EditableFieldNudge
				}
				placements = append(placements, place(l, i, m, x, centerline, !e.FlipRTL, e.Field, nil))
			case IconMeasurable:
				if e.IsVisible {
					placements = append(placements, place(l, i, m, cursorX, centerline, false, nil, e.Icon))
				}
			}
			cursorX += box.Width
		}
		cursorY += row.Height
	}
	return cutouts, placements
}

func place(l *Layout, row int, m Measurable, x, centerline float64, mirror bool, f block.Field, icon block.Icon) Placement {
	box := m.Extent()
	p := Placement{
		Kind:   m.Kind(),
		Row:    row,
		X:      roundCoord(x),
		Y:      roundCoord(centerline - box.Height/2),
		Width:  box.Width,
		Height: box.Height,
		Field:  f,
		Icon:   icon,
	}
	if l.RTL {
		p.X = roundCoord(-(x + box.Width))
		p.MirrorContent = mirror
	}
	return p
}

// inlineCutout 画出内联输入的空洞：左侧带向下的 tab，其余三边为直线。
func inlineCutout(in InlineInputMeasurable, x, yTop float64, t *Tokens) Path {
	var p Path
	p.moveTo(x+in.ConnectionWidth, yTop)
	p.vertical(yTop + in.ConnectionOffsetY)
	p.add(t.tab(true)...)
	p.vertical(yTop + in.Height)
	p.horizontal(x + in.Width)
	p.vertical(yTop)
	p.close()
	return p
}

func inputName(in *block.Input) string {
	if in == nil {
		return ""
	}
	return in.Name
}
