package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/history"
	"github.com/commentify/commentify/internal/notify"
)

// newHistoryCmd creates the 'history' command group
func (a *App) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and export past comment jobs",
	}

	cmd.AddCommand(
		a.newHistoryListCmd(),
		a.newHistoryShowCmd(),
		a.newHistoryExportCmd(),
	)

	return cmd
}

// historyFlags are shared by list and export
type historyFlags struct {
	page   int
	limit  int
	status string
	date   string
	search string
}

func (f *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "Page number (>= 1)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Page size (default from config)")
	cmd.Flags().StringVar(&f.status, "status", "all", "Status filter (all, waiting, active, completed, failed)")
	cmd.Flags().StringVar(&f.date, "date", "all", "Date filter (all, today, week, month)")
	cmd.Flags().StringVar(&f.search, "search", "", "Narrow the fetched page by job ID or keyword substring")
}

// load builds a retriever, applies the flags, and fetches one page
func (f *historyFlags) load(cmd *cobra.Command, d *deps, userID string) (*history.Retriever, error) {
	if !history.ValidStatusFilter(f.status) {
		return nil, fmt.Errorf("invalid status filter %q", f.status)
	}
	if !history.ValidDateFilter(f.date) {
		return nil, fmt.Errorf("invalid date filter %q", f.date)
	}

	limit := f.limit
	if limit <= 0 {
		limit = d.cfg.History.PageSize
	}

	r := history.NewRetriever(d.client, userID, limit)
	r.SetSearch(f.search)
	if err := r.SetFilters(cmd.Context(), f.status, f.date); err != nil {
		return nil, err
	}
	if f.page > 1 {
		if err := r.SetPage(cmd.Context(), f.page); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// newHistoryListCmd creates 'history list'
func (a *App) newHistoryListCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past jobs under the current filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			sess, err := d.currentSession()
			if err != nil {
				return err
			}

			r, err := flags.load(cmd, d, sess.UserID)
			if err != nil {
				notify.Errorf(d.sink, "Error", "Failed to fetch job history: %v", err)
				return err
			}

			visible := r.Visible()
			pg := r.Pagination()
			fmt.Printf("Showing %d of %d jobs (page %d of %d)\n\n", len(visible), pg.Total, pg.Page, pg.Pages)

			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "JOB ID\tKEYWORDS\tSTATUS\tCREATED\tDURATION\tRESULTS")
			for _, job := range visible {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					job.ID,
					joinWithComma(job.Keywords),
					job.Status,
					job.CreatedAt.Local().Format("2006-01-02 15:04"),
					renderDuration(job),
					renderResult(job),
				)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}

// newHistoryShowCmd creates 'history show' for job drill-down
func (a *App) newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show details for one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			details, err := d.client.JobDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			job := details.Job
			fmt.Printf("Job:        %s\n", job.ID)
			fmt.Printf("Status:     %s\n", job.Status)
			fmt.Printf("Keywords:   %s\n", joinWithComma(job.Keywords))
			fmt.Printf("Max:        %d comments\n", job.MaxComments)
			fmt.Printf("Tone:       %s\n", job.Options.MessageTone)
			fmt.Printf("Created:    %s\n", job.CreatedAt.Local().Format(time.RFC1123))
			if job.StartedAt != nil {
				fmt.Printf("Started:    %s\n", job.StartedAt.Local().Format(time.RFC1123))
			}
			if job.CompletedAt != nil {
				fmt.Printf("Completed:  %s\n", job.CompletedAt.Local().Format(time.RFC1123))
			}
			if job.Result != nil {
				fmt.Printf("Result:     %d comments posted, %d posts scanned\n",
					job.Result.CommentedCount, job.Result.PostsScanned)
			}
			if job.Error != "" {
				fmt.Printf("Error:      %s\n", job.Error)
			}
			return nil
		},
	}
}

// newHistoryExportCmd creates 'history export'
func (a *App) newHistoryExportCmd() *cobra.Command {
	var flags historyFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the visible jobs to CSV",
		Long: `Export the currently filtered and searched page of job history as
CSV. The default file name carries the current date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			sess, err := d.currentSession()
			if err != nil {
				return err
			}

			r, err := flags.load(cmd, d, sess.UserID)
			if err != nil {
				notify.Errorf(d.sink, "Error", "Failed to fetch job history: %v", err)
				return err
			}

			name := output
			if name == "" {
				name = history.ExportFilename(time.Now())
			}

			f, err := os.Create(name)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()

			if err := r.ExportCSV(f); err != nil {
				notify.Errorf(d.sink, "Error", "Failed to export history: %v", err)
				return err
			}

			notify.Infof(d.sink, "History Exported", "Wrote %s", name)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default comment-job-history-<date>.csv)")
	return cmd
}

// joinWithComma renders a keyword list for display
func joinWithComma(keywords []string) string {
	out := ""
	for i, kw := range keywords {
		if i > 0 {
			out += ", "
		}
		out += kw
	}
	return out
}

// renderDuration shows elapsed time for completed or active jobs
func renderDuration(job api.Job) string {
	switch {
	case job.CompletedAt != nil:
		return history.Duration(job.CreatedAt, *job.CompletedAt)
	case job.Status == api.StatusActive:
		return history.Duration(job.CreatedAt, time.Time{})
	default:
		return "-"
	}
}

// renderResult shows the outcome column for one job
func renderResult(job api.Job) string {
	switch {
	case job.Result != nil:
		return fmt.Sprintf("%d comments, %d posts", job.Result.CommentedCount, job.Result.PostsScanned)
	case job.Error != "":
		return job.Error
	default:
		return "-"
	}
}
