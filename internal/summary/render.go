package summary

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// ErrUnknownFormat is returned by NewRenderer for an unsupported format.
var ErrUnknownFormat = errors.New("unknown summary format")

// Renderer writes a summary in one output format.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, s Summary) error
	// Extension is the file extension without the dot.
	Extension() string
}

// NewRenderer returns the renderer for "text", "html" or "pdf".
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "text", "txt":
		return TextRenderer{}, nil
	case "html":
		return HTMLRenderer{}, nil
	case "pdf":
		return &PDFRenderer{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Filename returns meeting_summary_<first day>_<last day>.<ext>.
func Filename(s Summary, ext string) string {
	return fmt.Sprintf("meeting_summary_%s_%s.%s",
		s.Start.Format("20060102"), s.LastDay().Format("20060102"), strings.TrimPrefix(ext, "."))
}

// TextRenderer writes an aligned plain text report.
type TextRenderer struct{}

func (TextRenderer) Extension() string { return "txt" }

func (TextRenderer) Render(_ context.Context, w io.Writer, s Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Meeting Summary Report")
	fmt.Fprintf(tw, "Period: %s\n\n", s.PeriodLabel())
	fmt.Fprintf(tw, "Total Meetings:\t%d\n", s.TotalMeetings)
	fmt.Fprintf(tw, "Total Hours:\t%.1f hours\n", s.TotalHours)
	fmt.Fprintf(tw, "Average per Day:\t%.1f meetings\n", s.AveragePerDay)
	fmt.Fprintf(tw, "Free Hours:\t%.1f hours\n", s.FreeHours)

	if len(s.Days) == 0 {
		fmt.Fprintln(tw, "\nNo meetings found in this period.")
		return tw.Flush()
	}
	fmt.Fprintln(tw, "\nMeeting Details")
	for _, day := range s.Days {
		fmt.Fprintf(tw, "\n%s\n", day.Heading())
		fmt.Fprintln(tw, "  Time\tSubject\tLocation\tAttendees")
		for _, m := range day.Meetings {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", m.Time(), m.Subject, m.Location, m.Attendees)
		}
	}
	return tw.Flush()
}

// HTMLRenderer writes a self-contained HTML page.
type HTMLRenderer struct{}

func (HTMLRenderer) Extension() string { return "html" }

func (HTMLRenderer) Render(_ context.Context, w io.Writer, s Summary) error {
	if err := reportTemplate.Execute(w, s); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	return nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": func(h float64) string { return fmt.Sprintf("%.1f", h) },
	"date":  func(t time.Time) string { return t.Format("January 02, 2006") },
}).Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Meeting Summary Report</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #222; }
h1 { color: #1f4e79; text-align: center; }
h2 { color: #2e75b6; margin-top: 1.5em; }
table { border-collapse: collapse; margin: 0.5em 0 1em; }
th, td { border: 1px solid #bbb; padding: 4px 10px; text-align: left; font-size: 10pt; }
th { background: #2e75b6; color: #fff; }
table.stats td:first-child { font-weight: bold; background: #e7eef7; }
p.period { text-align: center; }
</style>
</head>
<body>
<h1>Meeting Summary Report</h1>
<p class="period"><b>Period:</b> {{date .Start}} - {{date .LastDay}}</p>
<table class="stats">
<tr><td>Total Meetings:</td><td>{{.TotalMeetings}}</td></tr>
<tr><td>Total Hours:</td><td>{{hours .TotalHours}} hours</td></tr>
<tr><td>Average per Day:</td><td>{{hours .AveragePerDay}} meetings</td></tr>
<tr><td>Free Hours:</td><td>{{hours .FreeHours}} hours</td></tr>
</table>
{{if .Days}}<h2>Meeting Details</h2>
{{range .Days}}<h3>{{.Heading}}</h3>
<table>
<tr><th>Time</th><th>Subject</th><th>Location</th><th>Attendees</th></tr>
{{range .Meetings}}<tr><td>{{.Time}}</td><td>{{.Subject}}</td><td>{{.Location}}</td><td>{{.Attendees}}</td></tr>
{{end}}</table>
{{end}}{{else}}<p>No meetings found in this period.</p>
{{end}}</body>
</html>
`
