package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// TextReporter renders a console report. Colors follow the writer's terminal
// capabilities unless Renderer is set.
type TextReporter struct {
	Renderer *lipgloss.Renderer
}

type textStyles struct {
	title  lipgloss.Style
	header lipgloss.Style
	warn   lipgloss.Style
}

func (r *TextReporter) styles(w io.Writer) textStyles {
	re := r.Renderer
	if re == nil {
		re = lipgloss.NewRenderer(w)
	}
	return textStyles{
		title:  re.NewStyle().Bold(true).Foreground(lipgloss.Color("#00CC66")),
		header: re.NewStyle().Foreground(lipgloss.Color("#666666")),
		warn:   re.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
	}
}

// Report writes the summary, processing log, usage tables, flow table and starved jobs.
func (r *TextReporter) Report(w io.Writer, run *Run) error {
	st := r.styles(w)
	sum := run.Summary
	var b strings.Builder

	section(&b, st.title, "Production Summary")
	fmt.Fprintf(&b, "%-21s : %s\n", "Policy", sum.Policy)
	fmt.Fprintf(&b, "%-21s : %d/%d\n", "Completed Jobs", sum.CompletedJobs, sum.Jobs)
	fmt.Fprintf(&b, "%-21s : %d s\n", "Total Production Time", sum.TotalProductionTime)

	if len(run.Intervals) > 0 {
		b.WriteString("\n")
		section(&b, st.title, "Processing Log")
		rows := make([][]string, 0, len(run.Intervals))
		for _, iv := range run.Intervals {
			rows = append(rows, []string{
				fmt.Sprint(iv.Start), fmt.Sprint(iv.Finish), iv.ResourceID, iv.Operation, iv.JobID,
			})
		}
		table(&b, st.header, []string{"START", "FINISH", "RESOURCE", "OPERATION", "JOB"}, rows)
	}

	b.WriteString("\n")
	section(&b, st.title, "Operation Usage")
	rows := make([][]string, 0, len(sum.Operations))
	for _, op := range sum.Operations {
		rows = append(rows, []string{
			op.Name, fmt.Sprint(op.BusyTime), fmt.Sprint(op.Executions),
			fmt.Sprintf("%.2f", op.AverageTime), percent(op.UsagePercent),
		})
	}
	table(&b, st.header, []string{"OPERATION", "BUSY", "RUNS", "AVG", "USAGE"}, rows)

	b.WriteString("\n")
	section(&b, st.title, "Workstation Usage")
	rows = make([][]string, 0, len(sum.Resources))
	for _, res := range sum.Resources {
		rows = append(rows, []string{res.Name, fmt.Sprint(res.BusyTime), percent(res.UsagePercent)})
	}
	table(&b, st.header, []string{"WORKSTATION", "BUSY", "USAGE"}, rows)

	b.WriteString("\n")
	section(&b, st.title, "Flow Dependencies")
	writeFlow(&b, sum.Flow)

	if len(sum.Starved) > 0 {
		b.WriteString("\n")
		section(&b, st.warn, "Starved Jobs")
		for _, op := range sortedOps(sum.Starved) {
			fmt.Fprintf(&b, "%s : %s\n", op, strings.Join(sum.Starved[op], " "))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Table writes a titled table in the same layout and styles as Report's
// sections. Commands other than run use it so their output matches.
func (r *TextReporter) Table(w io.Writer, title string, headers []string, rows [][]string) error {
	st := r.styles(w)
	var b strings.Builder
	section(&b, st.title, title)
	table(&b, st.header, headers, rows)
	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, style lipgloss.Style, name string) {
	b.WriteString(style.Render("=== " + name + " ==="))
	b.WriteString("\n")
}

// table writes left-aligned columns separated by two spaces. The last column
// is not padded.
func table(b *strings.Builder, header lipgloss.Style, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}
	b.WriteString(header.Render(formatRow(headers, widths)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(formatRow(row, widths))
		b.WriteString("\n")
	}
}

func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			sb.WriteString(cell)
			break
		}
		fmt.Fprintf(&sb, "%-*s%s", widths[i], cell, columnGap)
	}
	return sb.String()
}

// writeFlow prints one line per resource: "resource : (job,count) (job,count)".
func writeFlow(b *strings.Builder, flow map[string]map[string]int) {
	resources := make([]string, 0, len(flow))
	for id := range flow {
		resources = append(resources, id)
	}
	sort.Strings(resources)
	for _, id := range resources {
		jobs := make([]string, 0, len(flow[id]))
		for j := range flow[id] {
			jobs = append(jobs, j)
		}
		sort.Strings(jobs)
		b.WriteString(id + " :")
		for _, j := range jobs {
			fmt.Fprintf(b, " (%s,%d)", j, flow[id][j])
		}
		b.WriteString("\n")
	}
}

func percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p)
}

func sortedOps(m map[string][]string) []string {
	ops := make([]string, 0, len(m))
	for op := range m {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

var _ Reporter = (*TextReporter)(nil)
