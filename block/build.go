package block

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.jetify.com/typeid/v2"

	"github.com/ByLCY/brick/binding"
	"github.com/ByLCY/brick/dsl"
)

const (
	idPrefix          = "block"
	defaultIconSize   = 16.0
	collapsedTextMax  = 30
	collapsedEllipsis = "…"
)

// Options 控制从 DSL 构建块的行为。
type Options struct {
	Measurer TextMeasurer
	Data     any  // 字段文本中 ${path} 绑定的数据
	RTL      bool // 强制所有块从右到左
}

// FromWorkspace 把 DSL AST 转换为顶层块列表，并校验连接是否合法。
func FromWorkspace(ws *dsl.Workspace, opts Options) ([]*Block, error) {
	if ws == nil {
		return nil, fmt.Errorf("工作区为空")
	}
	if opts.Measurer == nil {
		opts.Measurer = EstimateMeasurer{}
	}
	blocks := make([]*Block, 0, len(ws.Blocks))
	seen := map[string]bool{}
	for _, src := range ws.Blocks {
		b, err := fromBlock(src, opts)
		if err != nil {
			return nil, err
		}
		var dup string
		b.Walk(func(child *Block) {
			if seen[child.ID] && dup == "" {
				dup = child.ID
			}
			seen[child.ID] = true
		})
		if dup != "" {
			return nil, fmt.Errorf("块 id 重复: %s", dup)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func fromBlock(src *dsl.Block, opts Options) (*Block, error) {
	attrs := src.Attrs
	b := &Block{
		Type:             src.Type,
		RTL:              opts.RTL || attrs.Flag("rtl"),
		HasPrevious:      attrs.Flag("prev"),
		HasNext:          attrs.Flag("next"),
		HasOutput:        attrs.Flag("output"),
		Hat:              attrs.Flag("hat"),
		SquareTopLeft:    attrs.Flag("square") || attrs.Flag("square-top"),
		SquareBottomLeft: attrs.Flag("square") || attrs.Flag("square-bottom"),
		Collapsed:        attrs.Flag("collapsed"),
	}
	if b.HasOutput && b.HasPrevious {
		return nil, fmt.Errorf("%s: 块 %s 不能同时声明 output 与 prev", src.Pos, src.Type)
	}
	if id, ok := attrs.String("id"); ok && id != "" {
		b.ID = id
	} else {
		b.ID = typeid.MustGenerate(idPrefix).String()
	}
	if colour, ok := attrs.String("colour"); ok {
		b.Colour = colour
	}
	var err error
	if b.X, err = attrs.Number("x"); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}
	if b.Y, err = attrs.Number("y"); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}

	// 方向属于整棵块树：子块继承父块的方向。
	inner := opts
	inner.RTL = b.RTL
	for _, item := range src.Items {
		switch {
		case item.Icon != nil:
			icon, err := buildIcon(item.Icon)
			if err != nil {
				return nil, err
			}
			b.Icons = append(b.Icons, icon)
		case item.Input != nil:
			in, err := buildInput(item.Input, inner)
			if err != nil {
				return nil, err
			}
			b.Inputs = append(b.Inputs, in)
		case item.Next != nil:
			if b.Next != nil {
				return nil, fmt.Errorf("%s: 块 %s 只能有一个 next", item.Next.Pos, src.Type)
			}
			next, err := fromBlock(item.Next, inner)
			if err != nil {
				return nil, err
			}
			if next.RTL != b.RTL {
				return nil, fmt.Errorf("%s: 块 %s 的方向与 %s 不一致", item.Next.Pos, next.Type, src.Type)
			}
			if !b.HasNext || !next.HasPrevious {
				return nil, fmt.Errorf("%s: 块 %s 无法接在 %s 之后（需要 next 与 prev）", item.Next.Pos, next.Type, src.Type)
			}
			// 接在上一块之后的块左上角为直角，与上一块的直角左下角贴合。
			next.SquareTopLeft = true
			b.Next = next
		}
	}

	if b.Collapsed {
		if text, ok := attrs.String("collapsed"); ok && !isFlagWord(text) {
			b.CollapsedText = binding.Interpolate(text, opts.Data)
		} else {
			b.CollapsedText = summarize(b)
		}
		b.Summary = NewField(FieldLabel, b.CollapsedText, opts.Measurer, 0, 0)
	}
	return b, nil
}

func buildIcon(src *dsl.Icon) (*BasicIcon, error) {
	icon := &BasicIcon{IconName: src.Name, Hidden: src.Attrs.Flag("hidden")}
	var err error
	if icon.Width, err = src.Attrs.Number("width"); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}
	if icon.Height, err = src.Attrs.Number("height"); err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}
	if icon.Width == 0 {
		icon.Width = defaultIconSize
	}
	if icon.Height == 0 {
		icon.Height = defaultIconSize
	}
	return icon, nil
}

func buildInput(src *dsl.Input, opts Options) (*Input, error) {
	in := &Input{Name: string(src.Name), Inline: src.Attrs.Flag("inline")}
	switch src.Kind {
	case "value":
		in.Kind = InputValue
	case "statement":
		in.Kind = InputStatement
	default:
		in.Kind = InputDummy
	}
	if in.Inline && in.Kind != InputValue {
		return nil, fmt.Errorf("%s: 只有值输入可以声明 inline", src.Pos)
	}
	for _, item := range src.Items {
		if item.Field != nil {
			f, err := buildField(item.Field, opts)
			if err != nil {
				return nil, err
			}
			in.Fields = append(in.Fields, f)
			continue
		}
		if in.Target != nil {
			return nil, fmt.Errorf("%s: 输入 %q 只能连接一个块", item.Block.Pos, in.Name)
		}
		target, err := fromBlock(item.Block, opts)
		if err != nil {
			return nil, err
		}
		if target.RTL != opts.RTL {
			return nil, fmt.Errorf("%s: 块 %s 的方向与所在输入 %q 的块不一致", item.Block.Pos, target.Type, in.Name)
		}
		switch in.Kind {
		case InputDummy:
			return nil, fmt.Errorf("%s: dummy 输入不能连接块", item.Block.Pos)
		case InputValue:
			if !target.HasOutput {
				return nil, fmt.Errorf("%s: 块 %s 缺少 output，不能接入值输入 %q", item.Block.Pos, target.Type, in.Name)
			}
		case InputStatement:
			if !target.HasPrevious {
				return nil, fmt.Errorf("%s: 块 %s 缺少 prev，不能接入语句输入 %q", item.Block.Pos, target.Type, in.Name)
			}
		}
		in.Target = target
	}
	return in, nil
}

func buildField(src *dsl.Field, opts Options) (*BasicField, error) {
	kind, ok := ParseFieldKind(src.Kind)
	if !ok {
		return nil, fmt.Errorf("%s: 未知字段类型 %s", src.Pos, src.Kind)
	}
	text := ""
	if src.Text != nil {
		text = binding.Interpolate(string(*src.Text), opts.Data)
	}
	width, err := src.Attrs.Number("width")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}
	height, err := src.Attrs.Number("height")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Pos, err)
	}
	f := NewField(kind, text, opts.Measurer, width, height)
	f.NoFlip = src.Attrs.Flag("noflip")
	return f, nil
}

func isFlagWord(s string) bool {
	switch s {
	case "", "true", "yes", "1":
		return true
	}
	return false
}

// summarize 用字段文本拼出折叠块的摘要。
func summarize(b *Block) string {
	var parts []string
	for _, in := range b.Inputs {
		for _, f := range in.Fields {
			if bf, ok := f.(*BasicField); ok && bf.Text != "" {
				parts = append(parts, bf.Text)
			}
		}
		if in.Target != nil {
			parts = append(parts, "?")
		}
	}
	text := strings.Join(parts, " ")
	if text == "" {
		text = b.Type
	}
	if utf8.RuneCountInString(text) > collapsedTextMax {
		runes := []rune(text)
		text = string(runes[:collapsedTextMax-1]) + collapsedEllipsis
	}
	return text
}
