package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/commentify/commentify/internal/api"
)

// exportHeader fixes the CSV column order
var exportHeader = []string{
	"Job ID",
	"Keywords",
	"Status",
	"Created",
	"Completed",
	"Comments Posted",
	"Posts Scraped",
}

const placeholder = "-"

// ExportCSV writes the currently visible (filtered and searched) jobs to
// w in CSV form. Only the loaded page is exported, not the full history.
func (r *Retriever) ExportCSV(w io.Writer) error {
	return WriteCSV(w, r.Visible())
}

// WriteCSV serializes jobs with the fixed export column order. Missing
// completion timestamps and results render as "-".
func WriteCSV(w io.Writer, jobs []api.Job) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, job := range jobs {
		row := []string{
			job.ID,
			joinKeywords(job.Keywords),
			string(job.Status),
			job.CreatedAt.Format(time.RFC3339),
			placeholder,
			placeholder,
			placeholder,
		}
		if job.CompletedAt != nil {
			row[4] = job.CompletedAt.Format(time.RFC3339)
		}
		if job.Result != nil {
			row[5] = fmt.Sprintf("%d", job.Result.CommentedCount)
			row[6] = fmt.Sprintf("%d", job.Result.PostsScanned)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// joinKeywords renders the keyword list as a single comma-joined field
func joinKeywords(keywords []string) string {
	out := ""
	for i, kw := range keywords {
		if i > 0 {
			out += ", "
		}
		out += kw
	}
	return out
}

// ExportFilename names the export artifact with the current date
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("comment-job-history-%s.csv", now.Format("2006-01-02"))
}
