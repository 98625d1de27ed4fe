package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"task-viewer/internal/domain"
	"task-viewer/internal/errors"
	"task-viewer/internal/services"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var statusColors = map[domain.TaskStatus]*color.Color{
	domain.StatusPending:    color.New(color.FgYellow),
	domain.StatusInProgress: color.New(color.FgCyan),
	domain.StatusCompleted:  color.New(color.FgGreen),
}

// Printer renders command results as a table, JSON or YAML.
type Printer struct {
	out    io.Writer
	format string
}

// NewPrinter validates format and returns a printer writing to out
func NewPrinter(out io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatTable
	}
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, errors.NewInvalidInputError("format", format, "format must be one of table, json, yaml")
	}
	return &Printer{out: out, format: format}, nil
}

// Format returns the selected output format
func (p *Printer) Format() string {
	return p.format
}

// Tasks prints a task list
func (p *Printer) Tasks(tasks []*domain.Task) error {
	if p.format != FormatTable {
		return p.encode(tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(p.out, "No tasks found")
		return nil
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDISCIPLINE\tDUE\tSTATUS")
	for _, task := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", task.ID, task.Title, task.Discipline, dash(task.DueDate), StatusText(task.Status))
	}
	return w.Flush()
}

// Task prints a single task
func (p *Printer) Task(task *domain.Task) error {
	if p.format != FormatTable {
		return p.encode(task)
	}
	fmt.Fprintf(p.out, "%s  %s (%s, %s) %s\n", task.ID, task.Title, task.Discipline, dash(task.DueDate), StatusText(task.Status))
	return nil
}

// Disciplines prints discipline names
func (p *Printer) Disciplines(names []string) error {
	if p.format != FormatTable {
		return p.encode(names)
	}
	if len(names) == 0 {
		fmt.Fprintln(p.out, "No disciplines found")
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(p.out, name)
	}
	return nil
}

// Statistics prints a task summary
func (p *Printer) Statistics(stats *domain.Statistics) error {
	if p.format != FormatTable {
		return p.encode(stats)
	}

	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", stats.Total)
	fmt.Fprintf(w, "%s\t%d\n", StatusText(domain.StatusPending), stats.Pending)
	fmt.Fprintf(w, "%s\t%d (%d%%)\n", StatusText(domain.StatusInProgress), stats.InProgress, stats.InProgressPercent)
	fmt.Fprintf(w, "%s\t%d (%d%%)\n", StatusText(domain.StatusCompleted), stats.Completed, stats.CompletedPercent)
	fmt.Fprintf(w, "Disciplines\t%d\n", stats.Disciplines)

	names := make([]string, 0, len(stats.ByDiscipline))
	for name := range stats.ByDiscipline {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%d\n", name, stats.ByDiscipline[name])
	}

	fmt.Fprintln(w, "Due by weekday")
	for _, day := range services.WeekdayNames() {
		fmt.Fprintf(w, "  %s\t%d\n", day, stats.DueByWeekday[day])
	}
	return w.Flush()
}

// ImportResult prints how many tasks an import stored and why the rest
// were skipped
func (p *Printer) ImportResult(result *domain.ImportResult) error {
	if p.format != FormatTable {
		return p.encode(result)
	}
	fmt.Fprintf(p.out, "Imported %d tasks\n", result.Imported)
	for _, skip := range result.Skipped {
		fmt.Fprintf(p.out, "Skipped %s: %s\n", dash(skip.ID), skip.Reason)
	}
	return nil
}

// Message prints a confirmation line. Structured formats stay silent so
// their output remains parseable.
func (p *Printer) Message(format string, args ...interface{}) {
	if p.format == FormatTable {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

func (p *Printer) encode(v interface{}) error {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}

// StatusText returns the coloured status label
func StatusText(status domain.TaskStatus) string {
	if c, ok := statusColors[status]; ok {
		return c.Sprint(status.String())
	}
	return status.String()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
