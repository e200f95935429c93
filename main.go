package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ByLCY/brick/internal/config"
	"github.com/ByLCY/brick/internal/pipeline"
	"github.com/ByLCY/brick/internal/server"
	"github.com/ByLCY/brick/layout"
	"github.com/ByLCY/brick/renderer"
	canvasrenderer "github.com/ByLCY/brick/renderer/canvas"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	input := flag.String("in", "examples/demo.brick", "DSL 文件路径")
	output := flag.String("out", "output/demo.svg", "输出文件路径")
	format := flag.String("format", cfg.Format, "输出格式：svg 或 pdf")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugRows := flag.Bool("debug-rows", false, "在调试 JSON 中保留行模型")
	dataJSON := flag.String("data", "", "绑定到字段文本的 JSON 数据")
	rtl := flag.Bool("rtl", cfg.RTL, "所有块从右到左排列")
	font := flag.String("font", cfg.FontPath, "TTF/OTF 字体路径；为空时按字符数估算文字宽度")
	serve := flag.Bool("serve", false, "以 HTTP 服务方式运行")
	addr := flag.String("addr", cfg.Addr, "HTTP 服务监听地址")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	tokens, err := cfg.DesignTokens()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if *serve {
		srv, err := server.New(server.Options{
			Tokens:       tokens,
			Highlight:    cfg.Highlight,
			RTL:          *rtl,
			FontPath:     *font,
			FontSize:     cfg.FontSize,
			MaxBodyBytes: cfg.MaxBodyBytes,
		})
		if err != nil {
			log.Fatalf("启动服务失败: %v", err)
		}
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := srv.ListenAndServe(ctx, *addr); err != nil {
			log.Fatalf("服务异常退出: %v", err)
		}
		return
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	f, err := canvasrenderer.ParseFormat(*format)
	if err != nil {
		log.Fatalf("%v", err)
	}
	cr, err := canvasrenderer.New(canvasrenderer.Options{Format: f, FontPath: *font, FontSize: cfg.FontSize})
	if err != nil {
		log.Fatalf("创建渲染器失败: %v", err)
	}
	p := pipeline.Pipeline{
		Measurer: cr,
		RTL:      *rtl,
		Layout: layout.Options{
			Tokens:    tokens,
			Highlight: cfg.Highlight,
			Debug:     layout.DebugOptions{Rows: *debugRows},
		},
	}
	if err := run(*input, *output, *debug, inputData, p, cr); err != nil {
		log.Fatalf("生成失败: %v", err)
	}
	fmt.Printf("已生成 %s：%s\n", f, *output)
}

// run 串联解析、布局与渲染。
func run(inputPath, outputPath, debugPath string, data any, p pipeline.Pipeline, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 DSL 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	result, err := p.Run(file, data)
	if err != nil {
		return err
	}
	for _, br := range result.Blocks {
		if br.Failed() {
			slog.Warn("block skipped", "id", br.ID, "type", br.Type, "error", br.Err)
		}
	}

	if debugPath != "" {
		if err := layout.WriteDebugJSON(result, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}
