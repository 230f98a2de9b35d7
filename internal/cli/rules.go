package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/docimport/internal/detection"
	"github.com/nerdneilsfield/docimport/internal/report"
)

// ErrUnknownRule 表示规则 id 不存在
var ErrUnknownRule = errors.New("unknown rule id")

// maxSuggestionDistance 是 "did you mean" 建议允许的最大编辑距离
const maxSuggestionDistance = 4

var showAllRules bool

// NewRulesCommand 创建 rules 命令
func NewRulesCommand() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List detection rules in evaluation order",
		Long: `List the detection rules in the order they are evaluated, with their
priority, target element and condition.

Examples:
  # Show the enabled rules
  docimport rules

  # Include rules switched off by configuration or --disable
  docimport rules --all`,
		Args: cobra.NoArgs,
		RunE: runRulesCommand,
	}

	rulesCmd.Flags().BoolVar(&showAllRules, "all", false, "Include disabled rules")

	return rulesCmd
}

func runRulesCommand(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	var rules []detection.Rule
	if showAllRules {
		rules = allRules(opts)
	} else {
		rules = detection.NewPipeline(opts, log).Rules()
	}

	report.RenderRules(cmd.OutOrStdout(), rules)
	return nil
}

// allRules 返回全部默认规则，被关闭的规则也包含在内
func allRules(opts detection.PipelineOptions) []detection.Rule {
	off := make(map[string]bool, len(opts.DisabledRuleIDs))
	for _, id := range opts.DisabledRuleIDs {
		off[id] = true
	}
	rules := detection.DefaultRules(opts.Detection, opts.Keywords)
	for i := range rules {
		if off[rules[i].ID] {
			rules[i].Disabled = true
		}
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})
	return rules
}

// ValidateRuleIDs 检查每个 id 是否存在，不存在时附带相近的 id
func ValidateRuleIDs(ids, known []string) error {
	set := make(map[string]struct{}, len(known))
	for _, id := range known {
		set[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := set[id]; ok {
			continue
		}
		if s := suggestRuleIDs(id, known); len(s) > 0 {
			return fmt.Errorf("%w %q, did you mean: %s", ErrUnknownRule, id, strings.Join(s, ", "))
		}
		return fmt.Errorf("%w %q (run 'docimport rules --all' to list them)", ErrUnknownRule, id)
	}
	return nil
}

// suggestRuleIDs 返回最多三个相近的 id：子序列匹配或编辑距离足够小
func suggestRuleIDs(id string, known []string) []string {
	type candidate struct {
		id       string
		distance int
	}
	var candidates []candidate
	for _, k := range known {
		d := fuzzy.LevenshteinDistance(strings.ToLower(id), k)
		if fuzzy.MatchFold(id, k) || d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{id: k, distance: d})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	var out []string
	for _, c := range candidates {
		if len(out) == 3 {
			break
		}
		out = append(out, c.id)
	}
	return out
}
