package report

import (
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/kubev2v/jobrunner/internal/models"
)

// WriteRuns prints one row per run.
func WriteRuns(w io.Writer, runs []models.Run) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run", "State", "Concurrency", "Total", "Fulfilled", "Rejected", "Created"})
	table.SetAutoFormatHeaders(false)

	for _, r := range runs {
		state := string(r.State)
		if !r.Finished() {
			state = yellow(state)
		}
		table.Append([]string{
			r.ID,
			state,
			strconv.Itoa(r.Concurrency),
			strconv.Itoa(r.Total),
			green(strconv.Itoa(r.Fulfilled)),
			red(strconv.Itoa(r.Rejected)),
			r.CreatedAt.Local().Format(time.DateTime),
		})
	}

	table.Render()
}
