// Package history fetches paginated job history under server-side
// filters and supports purely local narrowing of the loaded page.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/commentify/commentify/internal/api"
)

// DefaultPageSize matches the server default
const DefaultPageSize = 20

// StatusFilters lists the accepted status filter values
var StatusFilters = []string{"all", "waiting", "active", "completed", "failed"}

// DateFilters lists the accepted date filter values
var DateFilters = []string{"all", "today", "week", "month"}

// ValidStatusFilter reports whether s is an accepted status filter
func ValidStatusFilter(s string) bool {
	for _, f := range StatusFilters {
		if f == s {
			return true
		}
	}
	return false
}

// ValidDateFilter reports whether s is an accepted date filter
func ValidDateFilter(s string) bool {
	for _, f := range DateFilters {
		if f == s {
			return true
		}
	}
	return false
}

// HistoryAPI is the slice of the transport the retriever needs
type HistoryAPI interface {
	JobHistory(ctx context.Context, userID string, page, limit int, status, dateFilter string) (*api.HistoryPage, error)
	JobDetails(ctx context.Context, jobID string) (*api.JobDetails, error)
}

// Retriever holds the current filters and the currently loaded page.
// Server-side filtering (status, date) is authoritative; the pagination
// descriptor returned by the server overwrites the local one after each
// fetch. Only the displayed page is cached.
type Retriever struct {
	api HistoryAPI

	mu         sync.Mutex
	userID     string
	status     string
	date       string
	search     string
	page       int
	limit      int
	jobs       []api.Job
	pagination api.Pagination
}

// NewRetriever creates a retriever for the given user. A limit of 0
// uses DefaultPageSize.
func NewRetriever(a HistoryAPI, userID string, limit int) *Retriever {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return &Retriever{
		api:    a,
		userID: userID,
		status: "all",
		date:   "all",
		page:   1,
		limit:  limit,
	}
}

// SetFilters applies a new status and date filter, resets to page 1, and
// re-fetches. Invalid filter values are rejected before any request.
func (r *Retriever) SetFilters(ctx context.Context, status, date string) error {
	if !ValidStatusFilter(status) {
		return fmt.Errorf("invalid status filter %q", status)
	}
	if !ValidDateFilter(date) {
		return fmt.Errorf("invalid date filter %q", date)
	}

	r.mu.Lock()
	r.status = status
	r.date = date
	r.page = 1
	r.mu.Unlock()
	return r.Fetch(ctx)
}

// SetUser switches the user identity, resets to page 1, and re-fetches
func (r *Retriever) SetUser(ctx context.Context, userID string) error {
	r.mu.Lock()
	r.userID = userID
	r.page = 1
	r.mu.Unlock()
	return r.Fetch(ctx)
}

// SetPage moves to the given page (>= 1) under the existing filters and
// re-fetches.
func (r *Retriever) SetPage(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("page must be >= 1, got %d", page)
	}
	r.mu.Lock()
	r.page = page
	r.mu.Unlock()
	return r.Fetch(ctx)
}

// SetSearch updates the local search term. No request is made: search
// narrows only what is already fetched.
func (r *Retriever) SetSearch(term string) {
	r.mu.Lock()
	r.search = term
	r.mu.Unlock()
}

// Fetch loads the current page from the server under the current
// filters, replacing the loaded page and pagination descriptor.
func (r *Retriever) Fetch(ctx context.Context) error {
	r.mu.Lock()
	userID, page, limit, status, date := r.userID, r.page, r.limit, r.status, r.date
	r.mu.Unlock()

	resp, err := r.api.JobHistory(ctx, userID, page, limit, status, date)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.jobs = resp.Jobs
	r.pagination = resp.Pagination
	r.mu.Unlock()
	return nil
}

// Visible returns the jobs on the loaded page that match the current
// search term: a job is retained if its ID or any keyword contains the
// term as a case-insensitive substring. An empty term retains all.
// The reported pagination total is unaffected by search.
func (r *Retriever) Visible() []api.Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.search == "" {
		out := make([]api.Job, len(r.jobs))
		copy(out, r.jobs)
		return out
	}

	term := strings.ToLower(r.search)
	var out []api.Job
	for _, job := range r.jobs {
		if matchesSearch(job, term) {
			out = append(out, job)
		}
	}
	return out
}

// matchesSearch checks job ID and keywords against a lowercased term
func matchesSearch(job api.Job, term string) bool {
	if strings.Contains(strings.ToLower(job.ID), term) {
		return true
	}
	for _, kw := range job.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}

// Pagination returns the server-reported paging descriptor for the
// loaded page.
func (r *Retriever) Pagination() api.Pagination {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pagination
}

// Details fetches the drill-down view for one job
func (r *Retriever) Details(ctx context.Context, jobID string) (*api.JobDetails, error) {
	return r.api.JobDetails(ctx, jobID)
}

// Duration renders the elapsed time between start and end in the
// dashboard's compact form ("45m", "1h 5m"). A zero end means now.
func Duration(start time.Time, end time.Time) string {
	if end.IsZero() {
		end = time.Now()
	}
	mins := int(end.Sub(start).Minutes())
	if mins < 0 {
		mins = 0
	}
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
