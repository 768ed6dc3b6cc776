package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commentify/commentify/internal/api"
	"github.com/commentify/commentify/internal/jobs"
	"github.com/commentify/commentify/internal/notify"
)

// newSubmitCmd creates the 'submit' command for starting a comment job
// Flags mirror the job form: keywords, comment bound, and options.
func (a *App) newSubmitCmd() *cobra.Command {
	var (
		keywords        []string
		maxComments     int
		minReactions    int
		excludeJobPosts bool
		tone            string
		wantEmoji       bool
		wantHashtags    bool
		skipGate        bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Start a new auto-comment job",
		Long: `Submit a comment job to the queue. The job targets posts matching
the given keywords and posts at most --max-comments comments.

Submission requires the browser extension to be paired; use
'commentify pair connect' first.`,
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

			// Deduplicate on add; the validator relies on this.
			set := jobs.NewKeywordSet()
			for _, kw := range keywords {
				set.Add(kw)
			}

			submitter := jobs.NewSubmitter(d.client, d.sink)

			if !skipGate {
				status, err := submitter.CanSubmit(cmd.Context(), sess.UserID)
				if err != nil {
					notify.Errorf(d.sink, "Error", "Failed to check user status: %v", err)
					return err
				}
				if !status.CanStartJob {
					notify.Errorf(d.sink, "Extension Required",
						"Connect the browser extension before starting jobs: commentify pair connect")
					return fmt.Errorf("extension not paired")
				}
			}

			req := jobs.Request{
				Keywords:    set.Keywords(),
				MaxComments: maxComments,
				Options: api.JobOptions{
					MinReactions:    minReactions,
					ExcludeJobPosts: excludeJobPosts,
					MessageTone:     tone,
					WantEmoji:       wantEmoji,
					WantHashtags:    wantHashtags,
				},
			}

			_, err = submitter.Submit(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "Target keyword (repeatable)")
	cmd.Flags().IntVarP(&maxComments, "max-comments", "m", 5, "Maximum comments to post (1-20)")
	cmd.Flags().IntVar(&minReactions, "min-reactions", 10, "Only comment on posts with this many reactions")
	cmd.Flags().BoolVar(&excludeJobPosts, "exclude-job-posts", true, "Skip posts that are job advertisements")
	cmd.Flags().StringVar(&tone, "tone", jobs.DefaultTone, "Message tone (professional, casual, enthusiastic, thoughtful, friendly)")
	cmd.Flags().BoolVar(&wantEmoji, "emoji", false, "Add relevant emojis to comments")
	cmd.Flags().BoolVar(&wantHashtags, "hashtags", false, "Add relevant hashtags to comments")
	cmd.Flags().BoolVar(&skipGate, "skip-status-check", false, "Skip the extension pairing check")

	return cmd
}
