package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/docimport/internal/detection"
)

// NewClassifyCommand 创建 classify 命令
func NewClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <heading>...",
		Short: "Show which section a heading text belongs to",
		Long: `Classify heading texts with the section keyword registry, including any
keywords_file overrides. Numbering prefixes such as "2.1", "IV." or "第1章" are
stripped before matching.

Examples:
  docimport classify "1. Introduction" "Related Work" "参考文献"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassifyCommand,
	}
}

func runClassifyCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	keywords, err := cfg.KeywordRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, text := range args {
		section, ok := keywords.Classify(text)
		if !ok {
			section = detection.SectionUnknown
		}
		fmt.Fprintf(out, "%s\t%s\n", section, text)
	}
	return nil
}
