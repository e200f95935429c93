package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/ByLCY/brick/layout"
)

// Prefix 是所有环境变量的前缀，例如 BRICK_ADDR。
const Prefix = "BRICK"

type Config struct {
	Addr         string  `envconfig:"ADDR" default:":8080"`
	Format       string  `envconfig:"FORMAT" default:"svg"`
	FontPath     string  `envconfig:"FONT"`
	FontSize     float64 `envconfig:"FONT_SIZE" default:"11"`
	RTL          bool    `envconfig:"RTL"`
	Highlight    bool    `envconfig:"HIGHLIGHT" default:"true"`
	LogLevel     string  `envconfig:"LOG_LEVEL" default:"info"`
	MaxBodyBytes int64   `envconfig:"MAX_BODY_BYTES" default:"1048576"`

	Tokens TokenOverrides `envconfig:"TOKEN"`
}

// TokenOverrides 覆盖默认 design token；未设置的字段保持默认值。
type TokenOverrides struct {
	CornerRadius      *float64 `envconfig:"CORNER_RADIUS"`
	NotchWidth        *float64 `envconfig:"NOTCH_WIDTH"`
	NotchHeight       *float64 `envconfig:"NOTCH_HEIGHT"`
	NotchOffsetLeft   *float64 `envconfig:"NOTCH_OFFSET_LEFT"`
	TabWidth          *float64 `envconfig:"TAB_WIDTH"`
	TabHeight         *float64 `envconfig:"TAB_HEIGHT"`
	TabOffsetFromTop  *float64 `envconfig:"TAB_OFFSET_FROM_TOP"`
	SpacerHeight      *float64 `envconfig:"SPACER_HEIGHT"`
	InRowSpacing      *float64 `envconfig:"IN_ROW_SPACING"`
	MinBlockWidth     *float64 `envconfig:"MIN_BLOCK_WIDTH"`
	MinBlockHeight    *float64 `envconfig:"MIN_BLOCK_HEIGHT"`
	HatWidth          *float64 `envconfig:"HAT_WIDTH"`
	HatHeight         *float64 `envconfig:"HAT_HEIGHT"`
	HighlightOffset   *float64 `envconfig:"HIGHLIGHT_OFFSET"`
	JaggedTeethWidth  *float64 `envconfig:"JAGGED_TEETH_WIDTH"`
	JaggedTeethHeight *float64 `envconfig:"JAGGED_TEETH_HEIGHT"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DesignTokens 返回应用覆盖后的 token，并做一次校验。
func (c *Config) DesignTokens() (*layout.Tokens, error) {
	t := layout.DefaultTokens()
	o := c.Tokens
	for _, f := range []struct {
		v   *float64
		dst *float64
	}{
		{o.CornerRadius, &t.CornerRadius},
		{o.NotchWidth, &t.NotchWidth},
		{o.NotchHeight, &t.NotchHeight},
		{o.NotchOffsetLeft, &t.NotchOffsetLeft},
		{o.TabWidth, &t.TabWidth},
		{o.TabHeight, &t.TabHeight},
		{o.TabOffsetFromTop, &t.TabOffsetFromTop},
		{o.SpacerHeight, &t.SpacerHeight},
		{o.InRowSpacing, &t.InRowSpacing},
		{o.MinBlockWidth, &t.MinBlockWidth},
		{o.MinBlockHeight, &t.MinBlockHeight},
		{o.HatWidth, &t.HatWidth},
		{o.HatHeight, &t.HatHeight},
		{o.HighlightOffset, &t.HighlightOffset},
		{o.JaggedTeethWidth, &t.JaggedTeethWidth},
		{o.JaggedTeethHeight, &t.JaggedTeethHeight},
	} {
		if f.v != nil {
			*f.dst = *f.v
		}
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("token 覆盖无效: %w", err)
	}
	return t, nil
}

// Level maps LogLevel to a slog level; unknown names mean info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
