package commands

import (
	"classutil-backend/internal/scrapers/classutil"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderSummary(out io.Writer, schedule *classutil.Schedule) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Key", "Sessions", "Components", "Course"})
	for _, entry := range schedule.Entries() {
		components := []string{}
		seen := map[classutil.ComponentType]bool{}
		for _, s := range entry.Sessions {
			if seen[s.ComponentType] {
				continue
			}
			seen[s.ComponentType] = true
			components = append(components, string(s.ComponentType))
		}
		t.AppendRow(table.Row{
			entry.Key,
			len(entry.Sessions),
			strings.Join(components, ", "),
			entry.Sessions[0].CourseName,
		})
	}
	t.AppendFooter(table.Row{"Total", schedule.SessionCount(), "", ""})
	t.Render()
}

func renderSessions(out io.Writer, key string, records []classutil.SessionRecord) {
	t := newTable(out)
	t.SetTitle(key)
	t.AppendHeader(table.Row{"Course", "Component", "Class", "Location"})
	for _, r := range records {
		t.AppendRow(table.Row{r.CourseName, r.ComponentType, r.ClassCode, r.Location})
	}
	t.Render()
}
