package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nerdneilsfield/docimport/internal/detection"
)

// KeywordOverrides 是关键词覆盖文件的结构：
//
//	[sections]
//	introduction = ["Einstieg", "Overview"]
//	literature_review = ["Prior Art"]
type KeywordOverrides struct {
	Sections map[string][]string `toml:"sections"`
}

// LoadKeywordOverrides 读取 TOML 关键词文件，并把章节名解析为 SectionType
func LoadKeywordOverrides(path string) (map[detection.SectionType][]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var overrides KeywordOverrides
	if err := toml.Unmarshal(content, &overrides); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keywords file %s: %w", path, err)
	}
	if len(overrides.Sections) == 0 {
		return nil, fmt.Errorf("%w: keywords file %s has no [sections] table", ErrInvalidConfig, path)
	}

	out := make(map[detection.SectionType][]string, len(overrides.Sections))
	for name, keywords := range overrides.Sections {
		section, err := detection.ParseSectionType(name)
		if err != nil {
			return nil, fmt.Errorf("keywords file %s: %w", path, err)
		}
		if section == detection.SectionUnknown {
			return nil, fmt.Errorf("%w: keywords file %s assigns keywords to Unknown", ErrInvalidConfig, path)
		}
		out[section] = append(out[section], keywords...)
	}
	return out, nil
}

// KeywordRegistry 返回内置关键词，若配置了覆盖文件则返回合并后的副本
func (c *Config) KeywordRegistry() (*detection.KeywordRegistry, error) {
	if c.KeywordsFile == "" {
		return detection.DefaultKeywords(), nil
	}
	extra, err := LoadKeywordOverrides(c.KeywordsFile)
	if err != nil {
		return nil, err
	}
	return detection.DefaultKeywords().With(extra), nil
}
