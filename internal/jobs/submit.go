package jobs

import (
	"context"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/notify"
)

// SubmitAPI is the slice of the transport the submitter needs
type SubmitAPI interface {
	SubmitJob(ctx context.Context, keywords []string, maxComments int, opts api.JobOptions) (string, error)
	UserJobStatus(ctx context.Context, userID string) (api.UserJobStatus, error)
}

// Submitter validates and submits comment jobs. It retains no state
// between submissions besides its collaborators.
type Submitter struct {
	api  SubmitAPI
	sink notify.Sink
}

// NewSubmitter creates a submitter
func NewSubmitter(a SubmitAPI, sink notify.Sink) *Submitter {
	return &Submitter{api: a, sink: sink}
}

// Submit validates req and forwards it to the queue service. Exactly one
// notification is produced: success with the assigned job ID, or a
// destructive notification with the rejection or transport error.
// Validation failures never reach the network.
func (s *Submitter) Submit(ctx context.Context, req Request) (string, error) {
	if err := Validate(req); err != nil {
		notify.Errorf(s.sink, "Validation Error", "%v", err)
		return "", err
	}

	if req.Options.MessageTone == "" {
		req.Options.MessageTone = DefaultTone
	}

	jobID, err := s.api.SubmitJob(ctx, req.Keywords, req.MaxComments, req.Options)
	if err != nil {
		notify.Errorf(s.sink, "Error", "Failed to start comment job: %v", err)
		return "", err
	}

	notify.Infof(s.sink, "Job Started", "Comment job started successfully with ID: %s", jobID)
	return jobID, nil
}

// CanSubmit checks the server-side gate: the user must have a valid
// browser credential (supplied by the paired extension) before jobs can
// run on their behalf.
func (s *Submitter) CanSubmit(ctx context.Context, userID string) (api.UserJobStatus, error) {
	return s.api.UserJobStatus(ctx, userID)
}
