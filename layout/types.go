package layout

import "github.com/ByLCY/brick/block"

// 该文件定义布局结果，供渲染器、HTTP 接口与调试 JSON 共用。

// Result 保存一次工作区渲染的全部块。
type Result struct {
	Blocks []*BlockResult `json:"blocks"`
	// Bounds 是所有成功渲染的块轮廓在工作区坐标中的外接矩形。
	Bounds Rect    `json:"bounds"`
	Tokens *Tokens `json:"tokens"`
}

// BlockResult 记录单个块的绘制结果及其在工作区中的原点。
// Err 不为空时 Drawing 为 nil，其余块不受影响。
type BlockResult struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Colour string  `json:"colour,omitempty"`
	Parent string  `json:"parent,omitempty"`
	Depth  int     `json:"depth"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`

	Drawing *Drawing `json:"drawing,omitempty"`
	Err     error    `json:"-"`
	Error   string   `json:"error,omitempty"`
}

// Failed reports whether the block produced no drawing.
func (r *BlockResult) Failed() bool { return r.Err != nil || r.Drawing == nil }

// Rect 是轴对齐矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rect covers no area and sits at the origin.
func (r Rect) Empty() bool { return r == Rect{} }

// Union returns the smallest rect containing both r and o. An empty rect is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Offset moves the rect by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// ConnectionKind 区分四类连接点。
type ConnectionKind string

const (
	ConnPrevious  ConnectionKind = "previous"
	ConnNext      ConnectionKind = "next"
	ConnOutput    ConnectionKind = "output"
	ConnInput     ConnectionKind = "input"
	ConnStatement ConnectionKind = "statement"
)

// Connection 是连接点在块本地坐标中的位置，也就是被连接块原点应放置的位置。
type Connection struct {
	Kind  ConnectionKind `json:"kind"`
	Input string         `json:"input,omitempty"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`

	In *block.Input `json:"-"`
}
