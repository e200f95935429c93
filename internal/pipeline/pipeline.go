// Package pipeline 串联 DSL 解析、块构建与布局，供 CLI 与 HTTP 服务共用。
package pipeline

import (
	"fmt"
	"io"

	"github.com/ByLCY/brick/block"
	"github.com/ByLCY/brick/dsl"
	"github.com/ByLCY/brick/layout"
)

type Pipeline struct {
	Measurer block.TextMeasurer
	Layout   layout.Options
	// RTL 强制所有块从右到左。
	RTL bool
}

// Run 解析 r 中的工作区描述并完成布局。单个块的渲染失败记录在结果中，不会返回错误。
func (p Pipeline) Run(r io.Reader, data any) (*layout.Result, error) {
	ws, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}
	measurer := p.Measurer
	if measurer == nil {
		measurer = block.EstimateMeasurer{}
	}
	blocks, err := block.FromWorkspace(ws, block.Options{Measurer: measurer, Data: data, RTL: p.RTL})
	if err != nil {
		return nil, fmt.Errorf("构建块失败: %w", err)
	}
	res, err := layout.RenderWorkspace(blocks, p.Layout)
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}
	return res, nil
}
