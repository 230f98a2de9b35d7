package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"

	"github.com/nerdneilsfield/docimport/internal/detection"
)

// PreviewWidth 是追踪表中文本预览的显示宽度
const PreviewWidth = 48

// Preview 把文本压成一行，并按显示宽度截断（中日韩字符占两列）
func Preview(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "...")
}

// RenderTrace 以表格输出每个正文元素的分类结果
func RenderTrace(w io.Writer, trace []detection.TraceEntry) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"#", "Rule", "Kind", "Outcome", "Section", "Out", "Text"})

	for _, e := range trace {
		outcome := string(e.Outcome)
		switch e.Outcome {
		case detection.OutcomeDropped:
			outcome = text.FgRed.Sprint(outcome)
		case detection.OutcomeNonParagraph:
			outcome = text.FgHiBlack.Sprint(outcome)
		}
		rule := e.MatchedRuleID
		if rule == "" {
			rule = "-"
		}
		tw.AppendRow(table.Row{
			e.BodyIndex,
			rule,
			e.DetectedKind.String(),
			outcome,
			e.Features.Section.String(),
			e.ElementsProduced,
			Preview(e.RawText, PreviewWidth),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// RenderRules 列出规则；关闭的规则标记为 no
func RenderRules(w io.Writer, rules []detection.Rule) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Priority", "ID", "Target", "On", "Name", "Condition"})
	for _, r := range rules {
		on := "yes"
		if !r.Enabled() {
			on = text.FgHiBlack.Sprint("no")
		}
		tw.AppendRow(table.Row{r.Priority, r.ID, r.Target.String(), on, r.Name, detection.Describe(r.When)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 6, WidthMax: 60},
	})
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

// RenderSummary 打印彩色汇总
func RenderSummary(w io.Writer, s Summary) {
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(w, "Import Summary")
	title.Fprintln(w, strings.Repeat("=", 40))

	printSection(w, "Overall", [][]string{
		{"Body Elements", strconv.Itoa(s.BodyElements)},
		{"Elements", strconv.Itoa(s.Elements)},
		{"Consumed", strconv.Itoa(s.Consumed)},
		{"Dropped", strconv.Itoa(s.Dropped)},
		{"Duration", s.Duration.String()},
	})

	if len(s.ByRule) > 0 {
		rows := make([][]string, 0, len(s.ByRule))
		for _, c := range s.ByRule {
			rows = append(rows, []string{c.Name, strconv.Itoa(c.Count)})
		}
		printSection(w, "Rules", rows)
	}

	if len(s.Failures) > 0 {
		errorColor := color.New(color.FgRed)
		errorColor.Fprintf(w, "Failures (%d)\n", len(s.Failures))
		for _, f := range s.Failures {
			errorColor.Fprintf(w, "  %s\n", f)
		}
	}
}

// printSection 打印一个汇总部分
func printSection(w io.Writer, title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintln(w, title)

	maxLabelLen := 0
	for _, row := range data {
		if n := runewidth.StringWidth(row[0]); n > maxLabelLen {
			maxLabelLen = n
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)
	for _, row := range data {
		labelColor.Fprintf(w, "  %s: ", runewidth.FillRight(row[0], maxLabelLen))
		valueColor.Fprintln(w, row[1])
	}
}

// RenderKindChart 用横向柱状图显示元素类型分布
func RenderKindChart(w io.Writer, s Summary) error {
	if len(s.ByKind) == 0 {
		return nil
	}
	bars := make(pterm.Bars, 0, len(s.ByKind))
	for _, c := range s.ByKind {
		bars = append(bars, pterm.Bar{Label: c.Name, Value: c.Count})
	}
	chart, err := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal().
		WithShowValue().
		Srender()
	if err != nil {
		return fmt.Errorf("failed to render kind chart: %w", err)
	}
	_, err = fmt.Fprintln(w, chart)
	return err
}
