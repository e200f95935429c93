package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MarshalDebugJSON 将布局结果编码为缩进 JSON，每条路径同时带有 SVG 字符串。
func MarshalDebugJSON(res *Result) ([]byte, error) {
	if res == nil {
		return []byte("null"), nil
	}
	return json.MarshalIndent(res, "", "  ")
}

// WriteDebugJSON 将布局结果写入文件，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := MarshalDebugJSON(res)
	if err != nil {
		return fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
