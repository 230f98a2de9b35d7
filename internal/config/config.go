package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/nerdneilsfield/docimport/internal/detection"
)

// ErrInvalidConfig 表示配置值不合法
var ErrInvalidConfig = errors.New("invalid config")

// Config 保存检测流水线和命令行的全部配置
type Config struct {
	// 检测开关
	DetectHeadingsByFormatting bool `mapstructure:"detect_headings_by_formatting"`
	DetectHeadingsByKeyword    bool `mapstructure:"detect_headings_by_keyword"`
	DetectCodeByStyle          bool `mapstructure:"detect_code_by_style"`
	DetectCodeByFont           bool `mapstructure:"detect_code_by_font"`
	DetectCodeByShading        bool `mapstructure:"detect_code_by_shading"`
	DetectTheoremEnvironments  bool `mapstructure:"detect_theorem_environments"`
	DetectBlockquotesByStyle   bool `mapstructure:"detect_blockquotes_by_style"`
	DetectBlockquotesByIndent  bool `mapstructure:"detect_blockquotes_by_indent"`
	DetectAbstractByStyle      bool `mapstructure:"detect_abstract_by_style"`
	DetectBibliographyEntries  bool `mapstructure:"detect_bibliography_entries"`
	DetectManualLists          bool `mapstructure:"detect_manual_lists"`
	DetectCaptions             bool `mapstructure:"detect_captions"`

	// 样式和字体集合
	MonospaceFonts            []string `mapstructure:"monospace_fonts"`
	CodeStylePatterns         []string `mapstructure:"code_style_patterns"`
	QuoteStylePatterns        []string `mapstructure:"quote_style_patterns"`
	TheoremStylePatterns      []string `mapstructure:"theorem_style_patterns"`
	AbstractStylePatterns     []string `mapstructure:"abstract_style_patterns"`
	BibliographyStylePatterns []string `mapstructure:"bibliography_style_patterns"`
	EquationStylePatterns     []string `mapstructure:"equation_style_patterns"`
	CaptionStylePatterns      []string `mapstructure:"caption_style_patterns"`

	MinHeadingLevel      int     `mapstructure:"min_heading_level"`
	MaxHeadingLevel      int     `mapstructure:"max_heading_level"`
	ShadingMinBrightness int     `mapstructure:"shading_min_brightness"`
	ShadingMaxBrightness int     `mapstructure:"shading_max_brightness"`
	BlockquoteMinIndent  int     `mapstructure:"blockquote_min_indent"` // twips
	HangingIndentMin     int     `mapstructure:"hanging_indent_min"`    // twips
	HeadingMinFontSize   float64 `mapstructure:"heading_min_font_size"`
	HeadingLargeFontSize float64 `mapstructure:"heading_large_font_size"`
	MaxHeadingLength     int     `mapstructure:"max_heading_length"`

	DisabledRules []string `mapstructure:"disabled_rules"` // 按 id 关闭的规则
	KeywordsFile  string   `mapstructure:"keywords_file"`  // 额外章节关键词（TOML）

	Debug      bool   `mapstructure:"debug"`
	Verbose    bool   `mapstructure:"verbose"`
	ReportFile string `mapstructure:"report_file"` // 为空时不写 JSON 报告
}

// LoadConfig 从文件加载配置，找不到文件时使用默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".docimport")
		v.SetConfigType("yaml")
	}

	// 环境变量，例如 DOCIMPORT_DETECT_CODE_BY_FONT=false
	v.SetEnvPrefix("DOCIMPORT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config.KeywordsFile != "" && configPath != "" && !filepath.IsAbs(config.KeywordsFile) {
		// 相对路径以配置文件所在目录为准
		config.KeywordsFile = filepath.Join(filepath.Dir(configPath), config.KeywordsFile)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	d := detection.DefaultOptions()
	return &Config{
		DetectHeadingsByFormatting: d.DetectHeadingsByFormatting,
		DetectHeadingsByKeyword:    d.DetectHeadingsByKeyword,
		DetectCodeByStyle:          d.DetectCodeByStyle,
		DetectCodeByFont:           d.DetectCodeByFont,
		DetectCodeByShading:        d.DetectCodeByShading,
		DetectTheoremEnvironments:  d.DetectTheoremEnvironments,
		DetectBlockquotesByStyle:   d.DetectBlockquotesByStyle,
		DetectBlockquotesByIndent:  d.DetectBlockquotesByIndent,
		DetectAbstractByStyle:      d.DetectAbstractByStyle,
		DetectBibliographyEntries:  d.DetectBibliographyEntries,
		DetectManualLists:          d.DetectManualLists,
		DetectCaptions:             d.DetectCaptions,

		MonospaceFonts:            d.MonospaceFonts,
		CodeStylePatterns:         d.CodeStylePatterns,
		QuoteStylePatterns:        d.QuoteStylePatterns,
		TheoremStylePatterns:      d.TheoremStylePatterns,
		AbstractStylePatterns:     d.AbstractStylePatterns,
		BibliographyStylePatterns: d.BibliographyStylePatterns,
		EquationStylePatterns:     d.EquationStylePatterns,
		CaptionStylePatterns:      d.CaptionStylePatterns,

		MinHeadingLevel:      d.MinHeadingLevel,
		MaxHeadingLevel:      d.MaxHeadingLevel,
		ShadingMinBrightness: d.ShadingMinBrightness,
		ShadingMaxBrightness: d.ShadingMaxBrightness,
		BlockquoteMinIndent:  d.BlockquoteMinIndent,
		HangingIndentMin:     d.HangingIndentMin,
		HeadingMinFontSize:   d.HeadingMinFontSize,
		HeadingLargeFontSize: d.HeadingLargeFontSize,
		MaxHeadingLength:     d.MaxHeadingLength,
	}
}

func setDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("detect_headings_by_formatting", d.DetectHeadingsByFormatting)
	v.SetDefault("detect_headings_by_keyword", d.DetectHeadingsByKeyword)
	v.SetDefault("detect_code_by_style", d.DetectCodeByStyle)
	v.SetDefault("detect_code_by_font", d.DetectCodeByFont)
	v.SetDefault("detect_code_by_shading", d.DetectCodeByShading)
	v.SetDefault("detect_theorem_environments", d.DetectTheoremEnvironments)
	v.SetDefault("detect_blockquotes_by_style", d.DetectBlockquotesByStyle)
	v.SetDefault("detect_blockquotes_by_indent", d.DetectBlockquotesByIndent)
	v.SetDefault("detect_abstract_by_style", d.DetectAbstractByStyle)
	v.SetDefault("detect_bibliography_entries", d.DetectBibliographyEntries)
	v.SetDefault("detect_manual_lists", d.DetectManualLists)
	v.SetDefault("detect_captions", d.DetectCaptions)

	v.SetDefault("monospace_fonts", d.MonospaceFonts)
	v.SetDefault("code_style_patterns", d.CodeStylePatterns)
	v.SetDefault("quote_style_patterns", d.QuoteStylePatterns)
	v.SetDefault("theorem_style_patterns", d.TheoremStylePatterns)
	v.SetDefault("abstract_style_patterns", d.AbstractStylePatterns)
	v.SetDefault("bibliography_style_patterns", d.BibliographyStylePatterns)
	v.SetDefault("equation_style_patterns", d.EquationStylePatterns)
	v.SetDefault("caption_style_patterns", d.CaptionStylePatterns)

	v.SetDefault("min_heading_level", d.MinHeadingLevel)
	v.SetDefault("max_heading_level", d.MaxHeadingLevel)
	v.SetDefault("shading_min_brightness", d.ShadingMinBrightness)
	v.SetDefault("shading_max_brightness", d.ShadingMaxBrightness)
	v.SetDefault("blockquote_min_indent", d.BlockquoteMinIndent)
	v.SetDefault("hanging_indent_min", d.HangingIndentMin)
	v.SetDefault("heading_min_font_size", d.HeadingMinFontSize)
	v.SetDefault("heading_large_font_size", d.HeadingLargeFontSize)
	v.SetDefault("max_heading_length", d.MaxHeadingLength)

	v.SetDefault("disabled_rules", []string{})
	v.SetDefault("keywords_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("report_file", "")
}

// DetectionOptions 把配置转换为规则集选项
func (c *Config) DetectionOptions() detection.Options {
	return detection.Options{
		DetectHeadingsByFormatting: c.DetectHeadingsByFormatting,
		DetectHeadingsByKeyword:    c.DetectHeadingsByKeyword,
		DetectCodeByStyle:          c.DetectCodeByStyle,
		DetectCodeByFont:           c.DetectCodeByFont,
		DetectCodeByShading:        c.DetectCodeByShading,
		DetectTheoremEnvironments:  c.DetectTheoremEnvironments,
		DetectBlockquotesByStyle:   c.DetectBlockquotesByStyle,
		DetectBlockquotesByIndent:  c.DetectBlockquotesByIndent,
		DetectAbstractByStyle:      c.DetectAbstractByStyle,
		DetectBibliographyEntries:  c.DetectBibliographyEntries,
		DetectManualLists:          c.DetectManualLists,
		DetectCaptions:             c.DetectCaptions,

		MonospaceFonts:            c.MonospaceFonts,
		CodeStylePatterns:         c.CodeStylePatterns,
		QuoteStylePatterns:        c.QuoteStylePatterns,
		TheoremStylePatterns:      c.TheoremStylePatterns,
		AbstractStylePatterns:     c.AbstractStylePatterns,
		BibliographyStylePatterns: c.BibliographyStylePatterns,
		EquationStylePatterns:     c.EquationStylePatterns,
		CaptionStylePatterns:      c.CaptionStylePatterns,

		MinHeadingLevel:      c.MinHeadingLevel,
		MaxHeadingLevel:      c.MaxHeadingLevel,
		ShadingMinBrightness: c.ShadingMinBrightness,
		ShadingMaxBrightness: c.ShadingMaxBrightness,
		BlockquoteMinIndent:  c.BlockquoteMinIndent,
		HangingIndentMin:     c.HangingIndentMin,
		HeadingMinFontSize:   c.HeadingMinFontSize,
		HeadingLargeFontSize: c.HeadingLargeFontSize,
		MaxHeadingLength:     c.MaxHeadingLength,
	}
}

// Validate 检查数值范围
func (c *Config) Validate() error {
	if err := c.DetectionOptions().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PipelineOptions 组装流水线选项，包括关键词覆盖文件
func (c *Config) PipelineOptions() (detection.PipelineOptions, error) {
	keywords, err := c.KeywordRegistry()
	if err != nil {
		return detection.PipelineOptions{}, err
	}
	return detection.PipelineOptions{
		Detection:       c.DetectionOptions(),
		DisabledRuleIDs: c.DisabledRules,
		Keywords:        keywords,
	}, nil
}
