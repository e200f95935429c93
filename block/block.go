// Package block 描述块的结构：输入、字段、图标与连接状态。
// 布局阶段只读取这些数据，从不回写。
package block

// InputKind 区分三类输入。
type InputKind int

const (
	InputDummy     InputKind = iota // 只承载字段，不接受连接
	InputValue                      // 值输入，接受带 output 的块
	InputStatement                  // 语句输入，接受一串带 previous 的块
)

func (k InputKind) String() string {
	switch k {
	case InputDummy:
		return "dummy"
	case InputValue:
		return "value"
	case InputStatement:
		return "statement"
	default:
		return "unknown"
	}
}

// Block is a read-only view over one block of the workspace.
type Block struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Colour string  `json:"colour,omitempty"`
	X      float64 `json:"x,omitempty"` // 顶层块在工作区中的位置
	Y      float64 `json:"y,omitempty"`

	RTL bool `json:"rtl,omitempty"`

	HasPrevious bool `json:"hasPrevious,omitempty"`
	HasNext     bool `json:"hasNext,omitempty"`
	HasOutput   bool `json:"hasOutput,omitempty"`
	Hat         bool `json:"hat,omitempty"`

	SquareTopLeft    bool `json:"squareTopLeft,omitempty"`
	SquareBottomLeft bool `json:"squareBottomLeft,omitempty"`

	Collapsed     bool   `json:"collapsed,omitempty"`
	CollapsedText string `json:"collapsedText,omitempty"`
	// Summary 是折叠后唯一显示的字段。
	Summary Field `json:"-"`

	Icons  []Icon   `json:"-"`
	Inputs []*Input `json:"inputs"`
	Next   *Block   `json:"next,omitempty"`
}

// Input 是块上的一个输入槽位。
type Input struct {
	Name   string    `json:"name,omitempty"`
	Kind   InputKind `json:"kind"`
	Inline bool      `json:"inline,omitempty"`
	Fields []Field   `json:"-"`
	// Target 是连接在此输入上的块；语句输入时为块栈的第一块。
	Target *Block `json:"target,omitempty"`
}

// ShowsHat reports whether the rounded start cap is drawn. A hat only makes
// sense on a block that nothing can attach above.
func (b *Block) ShowsHat() bool {
	return b.Hat && !b.HasPrevious && !b.HasOutput
}

// Walk visits b, its input targets and its next chain in depth-first order.
func (b *Block) Walk(fn func(*Block)) {
	for cur := b; cur != nil; cur = cur.Next {
		fn(cur)
		for _, in := range cur.Inputs {
			if in.Target != nil {
				in.Target.Walk(fn)
			}
		}
	}
}
