package renderer

import "github.com/ByLCY/brick/layout"

// Renderer 将工作区的路径描述输出为最终文件，例如 SVG 或 PDF。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}

// Func adapts a function to Renderer.
type Func func(result *layout.Result) ([]byte, error)

func (f Func) Render(result *layout.Result) ([]byte, error) { return f(result) }
