package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/docimport/internal/detection"
	"github.com/nerdneilsfield/docimport/internal/importer"
	"github.com/nerdneilsfield/docimport/internal/logger"
)

const ReportVersion = "1.0.0"

// ElementRecord 在 JSON 中保留元素类型
type ElementRecord struct {
	Kind    detection.ElementKind `json:"kind"`
	Element detection.Element     `json:"element"`
}

// Count 是一个带名称的计数
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary 汇总一次导入
type Summary struct {
	BodyElements int           `json:"body_elements"`
	Elements     int           `json:"elements"`
	ByKind       []Count       `json:"by_kind"`
	ByRule       []Count       `json:"by_rule"`
	Dropped      int           `json:"dropped"`
	Consumed     int           `json:"consumed_without_output"`
	Failures     []string      `json:"failures,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// Report 是写入磁盘的诊断报告
type Report struct {
	Version     string                 `json:"version"`
	RunID       string                 `json:"run_id"`
	Document    string                 `json:"document"`
	GeneratedAt time.Time              `json:"generated_at"`
	Summary     Summary                `json:"summary"`
	Elements    []ElementRecord        `json:"elements"`
	Trace       []detection.TraceEntry `json:"trace"`
	FinalState  detection.TrackerState `json:"final_state"`
}

// New 根据导入结果生成报告
func New(res *importer.Result) *Report {
	records := make([]ElementRecord, 0, len(res.Elements))
	for _, el := range res.Elements {
		records = append(records, ElementRecord{Kind: el.Kind(), Element: el})
	}
	return &Report{
		Version:     ReportVersion,
		RunID:       res.RunID,
		Document:    res.Document,
		GeneratedAt: time.Now(),
		Summary:     Summarize(res),
		Elements:    records,
		Trace:       res.Trace,
		FinalState:  res.State,
	}
}

// Summarize 统计元素类型、命中规则、丢弃和失败
func Summarize(res *importer.Result) Summary {
	byKind := make(map[string]int)
	for _, el := range res.Elements {
		byKind[el.Kind().String()]++
	}

	byRule := make(map[string]int)
	s := Summary{
		BodyElements: len(res.Trace),
		Elements:     len(res.Elements),
		Duration:     res.Duration,
	}
	for _, e := range res.Trace {
		switch e.Outcome {
		case detection.OutcomeDropped:
			s.Dropped++
		case detection.OutcomeMatched:
			byRule[e.MatchedRuleID]++
			if e.ElementsProduced == 0 {
				s.Consumed++
			}
		}
		for _, note := range e.Notes {
			if detection.IsRuleFailureNote(note) {
				s.Failures = append(s.Failures, fmt.Sprintf("body[%d]: %s", e.BodyIndex, note))
			}
		}
	}
	s.ByKind = sortedCounts(byKind)
	s.ByRule = sortedCounts(byRule)
	return s
}

// sortedCounts 按数量降序，数量相同时按名称排序
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Save 以原子方式写入 JSON 报告
func (r *Report) Save(path string, log *zap.Logger) error {
	log = logger.OrNop(log)

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// 原子写入
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp report file: %w", err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename report file: %w", err)
	}

	log.Info("report saved",
		zap.String("path", path),
		zap.String("run_id", r.RunID),
		zap.Int("elements", len(r.Elements)))
	return nil
}
