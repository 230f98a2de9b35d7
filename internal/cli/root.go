package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/docimport/internal/config"
	"github.com/nerdneilsfield/docimport/internal/detection"
	"github.com/nerdneilsfield/docimport/internal/logger"
)

var (
	// 命令行标志变量
	cfgFile       string
	debugMode     bool
	verboseMode   bool     // 显示每个段落的判定日志
	disabledRules []string // 按 id 关闭的规则，追加到配置文件中的列表
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docimport",
		Short: "docimport 把 Word 段落特征识别为结构化的文档元素",
		Long: `docimport 读取已提取的段落特征快照，按优先级依次评估识别规则，
把每个段落分类为标题、列表项、公式、代码块、摘要、定理、引用、参考文献等元素，
并记录每个段落命中的规则，方便排查识别结果。

子命令:
  detect    识别一个快照文件并输出追踪表和汇总
  rules     按评估顺序列出规则
  classify  判断标题文字属于哪个章节`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// 添加全局标志
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径（默认 $HOME/.docimport.yaml 或 ./.docimport.yaml）")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试模式")
	rootCmd.PersistentFlags().BoolVarP(&verboseMode, "verbose", "v", false, "显示详细日志（包括每个段落的判定）")
	rootCmd.PersistentFlags().StringSliceVar(&disabledRules, "disable", nil, "关闭指定 id 的规则，可重复")

	// 添加子命令
	rootCmd.AddCommand(NewDetectCommand())
	rootCmd.AddCommand(NewRulesCommand())
	rootCmd.AddCommand(NewClassifyCommand())

	return rootCmd
}

// setup 加载配置、创建日志，并校验要关闭的规则 id
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLoggerWithVerbose(debugMode || cfg.Debug, verboseMode || cfg.Verbose)

	cfg.DisabledRules = append(cfg.DisabledRules, disabledRules...)
	if err := ValidateRuleIDs(cfg.DisabledRules, knownRuleIDs(cfg)); err != nil {
		return nil, nil, err
	}

	log.Debug("configuration loaded",
		zap.String("config", cfgFile),
		zap.Strings("disabled_rules", cfg.DisabledRules),
		zap.String("keywords_file", cfg.KeywordsFile))
	return cfg, log, nil
}

func knownRuleIDs(cfg *config.Config) []string {
	rules := detection.DefaultRules(cfg.DetectionOptions(), nil)
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID)
	}
	return ids
}
