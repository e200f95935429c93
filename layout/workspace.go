package layout

import (
	"fmt"
	"log/slog"

	"github.com/ByLCY/brick/block"
)

// RenderWorkspace renders every block tree of a workspace. Children are
// rendered before their parents so connected sizes flow upwards; the result
// lists blocks parent first, each positioned at its parent's connection point.
//
// A block that fails to render is reported in its BlockResult and treated as
// an empty input by its parent; siblings are unaffected. Only invalid tokens
// fail the whole pass.
func RenderWorkspace(blocks []*block.Block, opts Options) (*Result, error) {
	t := opts.tokens()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tokens 校验失败: %w", err)
	}
	opts.Tokens = t
	p := &pass{
		opts:    opts,
		log:     opts.logger(),
		results: make(map[*block.Block]*BlockResult),
	}
	res := &Result{Tokens: t}
	for _, top := range blocks {
		p.stack(top)
		p.position(res, top, top.X, top.Y, "", 0)
	}
	for _, br := range res.Blocks {
		if br.Failed() {
			continue
		}
		res.Bounds = res.Bounds.Union(br.Drawing.Bounds().Offset(br.X, br.Y))
	}
	return res, nil
}

type pass struct {
	opts    Options
	log     *slog.Logger
	results map[*block.Block]*BlockResult
}

// stack renders a next-chain and returns its combined size: widest block,
// summed heights. Failed blocks contribute nothing.
func (p *pass) stack(top *block.Block) Box {
	var size Box
	for b := top; b != nil; b = b.Next {
		r := p.render(b)
		if r.Failed() {
			continue
		}
		size.Width = max(size.Width, r.Drawing.Width)
		size.Height += r.Drawing.Height
	}
	return size
}

func (p *pass) render(b *block.Block) *BlockResult {
	if r, ok := p.results[b]; ok {
		return r
	}
	sizes := ConnectedSizes{}
	for _, in := range connected(b) {
		if size := p.stack(in.Target); size != (Box{}) {
			sizes[in] = size
		}
	}
	r := &BlockResult{ID: b.ID, Type: b.Type, Colour: b.Colour}
	d, err := p.draw(b, sizes)
	if err != nil {
		r.Err, r.Error = err, err.Error()
		p.log.Error("block render failed", slog.String("id", b.ID), slog.String("type", b.Type), slog.Any("err", err))
	} else {
		r.Drawing = d
		p.log.Debug("block rendered", slog.String("id", b.ID), slog.Float64("width", d.Width), slog.Float64("height", d.Height))
	}
	p.results[b] = r
	return r
}

// draw 把自定义 RowBuilder 等引发的 panic 转为该块自己的错误。
func (p *pass) draw(b *block.Block, sizes ConnectedSizes) (d *Drawing, err error) {
	defer func() {
		if v := recover(); v != nil {
			d, err = nil, fmt.Errorf("%w: panic: %v", ErrMalformedRow, v)
		}
	}()
	return Render(b, sizes, p.opts)
}

// connected 返回连接了子块的输入。折叠块隐藏所有输入，其子块不参与布局。
func connected(b *block.Block) []*block.Input {
	if b.Collapsed {
		return nil
	}
	var ins []*block.Input
	for _, in := range b.Inputs {
		if in.Target != nil {
			ins = append(ins, in)
		}
	}
	return ins
}

// position 前序遍历，按连接点确定每个块在工作区中的原点。
func (p *pass) position(res *Result, b *block.Block, x, y float64, parent string, depth int) {
	for cur := b; cur != nil; cur = cur.Next {
		r := p.render(cur)
		r.X, r.Y, r.Parent, r.Depth = x, y, parent, depth
		res.Blocks = append(res.Blocks, r)
		if r.Failed() {
			// 没有连接点可用，子块堆叠在失败块的原点。
			for _, in := range connected(cur) {
				p.position(res, in.Target, x, y, cur.ID, depth+1)
			}
			if cur.Next != nil {
				p.position(res, cur.Next, x, y, cur.ID, depth)
			}
			return
		}
		Place(r.Drawing, x, y)
		for _, in := range connected(cur) {
			c, ok := connectionFor(r.Drawing, in)
			if !ok {
				p.log.Warn("input has no connection point", slog.String("id", cur.ID), slog.String("input", in.Name))
				c = Connection{}
			}
			p.position(res, in.Target, x+c.X, y+c.Y, cur.ID, depth+1)
		}
		next, ok := r.Drawing.Connection(ConnNext, "")
		if !ok {
			next = Connection{Y: r.Drawing.Height}
		}
		x, y = x+next.X, y+next.Y
		parent = cur.ID
	}
}

func connectionFor(d *Drawing, in *block.Input) (Connection, bool) {
	for _, c := range d.Connections {
		if c.In == in {
			return c, true
		}
	}
	return Connection{}, false
}

// Place 把块的 placement 平移到 (x, y) 后交给实现了 block.Positioner 的字段与图标。
func Place(d *Drawing, x, y float64) {
	if d == nil {
		return
	}
	for _, pl := range d.Placements {
		var target any = pl.Field
		if pl.Icon != nil {
			target = pl.Icon
		}
		if pos, ok := target.(block.Positioner); ok {
			pos.MoveTo(roundCoord(x+pl.X), roundCoord(y+pl.Y))
		}
	}
}
