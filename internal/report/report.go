// Package report renders run results for humans: a colored terminal table
// and an xlsx workbook.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/kubev2v/jobrunner/internal/models"
)

const maxValueWidth = 60

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// WriteTable prints one row per result followed by a summary line.
func WriteTable(w io.Writer, run models.Run, results []models.JobResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Job", "Type", "Status", "Duration", "Value / Error"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for _, r := range results {
		status := green(string(r.Status))
		// Values are truncated, errors never are.
		detail := truncate(FormatValue(r.Value), maxValueWidth)
		if !r.Fulfilled() {
			status = red(string(r.Status))
			detail = r.Error()
		}
		table.Append([]string{
			r.JobID,
			r.JobType,
			status,
			r.Duration().Round(time.Millisecond).String(),
			detail,
		})
	}

	table.Render()

	fmt.Fprintf(w, "%s %s  %s %s  %s %s  %s %s\n",
		bold("run"), run.ID,
		bold("fulfilled"), green(strconv.Itoa(run.Fulfilled)),
		bold("rejected"), red(strconv.Itoa(run.Rejected)),
		bold("not started"), yellow(strconv.Itoa(NotStarted(run))),
	)
}

// NotStarted is the number of jobs left in the queue when the run stopped.
func NotStarted(run models.Run) int {
	if n := run.Total - run.Fulfilled - run.Rejected; n > 0 {
		return n
	}
	return 0
}

// FormatValue renders a fulfilled value as compact JSON.
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
