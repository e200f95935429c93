package layout

import "log/slog"

// Options 配置渲染阶段所需的依赖。零值可用：使用默认 token、默认行构建器与 slog.Default()。
type Options struct {
	Tokens *Tokens
	// Highlight 为 true 时为每个块生成偏移的高亮轮廓。
	Highlight bool
	// Rows 替换默认的行构建器。
	Rows   RowBuilder
	Logger *slog.Logger
	Debug  DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Rows bool // 在结果中保留行模型，便于在调试 JSON 中查看
}

func (o Options) tokens() *Tokens {
	if o.Tokens == nil {
		return DefaultTokens()
	}
	return o.Tokens
}

func (o Options) rows() RowBuilder {
	if o.Rows == nil {
		return DefaultRowBuilder
	}
	return o.Rows
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
