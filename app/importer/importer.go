// Package importer drives one migration run: validate the job, download and
// parse the source feed, then submit every entry oldest-first.
//
// Runs are not idempotent. Entries submitted before a failure or interruption
// stay on the destination, and running the same job again submits them again.
package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lysyi3m/blog-migrate/app/cfg"
	"github.com/lysyi3m/blog-migrate/app/failure"
	"github.com/lysyi3m/blog-migrate/app/feed"
	"github.com/lysyi3m/blog-migrate/app/metrics"
	"github.com/lysyi3m/blog-migrate/app/tumblr"
)

type State string

const (
	StateValidating State = "validating"
	StateFetching   State = "fetching"
	StateParsing    State = "parsing"
	StatePosting    State = "posting"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

type FeedFetcher interface {
	Run(ctx context.Context, rawURL string, autocorrect bool) ([]byte, string, error)
}

type FeedParser interface {
	Run(data []byte, url string) (*feed.Blog, error)
}

type Poster interface {
	Run(ctx context.Context, payload tumblr.Payload) (string, error)
}

// PosterFactory builds the poster for one run; debugOut receives payload dumps.
type PosterFactory func(opts tumblr.Options, debugOut func(dump string)) Poster

var (
	_ FeedFetcher = (*feed.Fetcher)(nil)
	_ FeedParser  = (*feed.Parser)(nil)
	_ Poster      = (*tumblr.Poster)(nil)
)

type Options struct {
	Endpoint   string
	Generator  string
	SupportURL string // empty disables the help line after failures
}

type Result struct {
	RunID    string
	State    State
	Imported int
	// Entries holds the submitted entries in submission order.
	Entries []feed.Entry
	Summary string
	Err     error
}

type Importer struct {
	fetcher   FeedFetcher
	parser    FeedParser
	newPoster PosterFactory
	recorder  metrics.Recorder
	opts      Options
}

func NewImporter(fetcher FeedFetcher, parser FeedParser, newPoster PosterFactory, recorder metrics.Recorder, opts Options) *Importer {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Importer{
		fetcher:   fetcher,
		parser:    parser,
		newPoster: newPoster,
		recorder:  recorder,
		opts:      opts,
	}
}

// Run executes job, reporting progress to reporter. Every failure, including a
// missing input, is returned as well as reported; Result is never nil.
func (im *Importer) Run(ctx context.Context, job cfg.Job, reporter Reporter) (*Result, error) {
	if reporter == nil {
		reporter = discard{}
	}

	r := &run{
		importer: im,
		job:      job,
		reporter: reporter,
		result:   &Result{RunID: uuid.NewString()},
	}
	r.logger = slog.With("run_id", r.result.RunID)

	return r.execute(ctx)
}

type run struct {
	importer *Importer
	job      cfg.Job
	reporter Reporter
	logger   *slog.Logger
	result   *Result
}

func (r *run) execute(ctx context.Context) (*Result, error) {
	r.transition(StateValidating)
	if err := r.validate(); err != nil {
		return r.reject(err)
	}

	r.say(msgStarting)
	r.say(msgStandBy)

	r.transition(StateFetching)
	r.say(msgDownloading)
	data, url, err := r.importer.fetcher.Run(ctx, r.job.FeedURL, r.job.Autocorrect)
	if err != nil {
		return r.abort(err)
	}

	r.transition(StateParsing)
	blog, err := r.importer.parser.Run(data, url)
	if err != nil {
		return r.abort(err)
	}
	r.say("Found: " + truncate(blog.Title))
	r.logger.Info("Feed parsed", "url", url, "title", blog.Title, "entries", len(blog.Entries))

	composer := tumblr.NewComposer(
		tumblr.Credentials{Email: r.job.Email, Password: r.job.Password},
		r.job.Group,
		r.job.ExtraLabels,
		r.importer.opts.Generator,
	)
	poster := r.importer.newPoster(tumblr.Options{
		Endpoint: r.importer.opts.Endpoint,
		Preview:  r.job.Preview,
		Debug:    r.job.Debug,
	}, func(dump string) {
		r.reporter.Report(Line{Text: dump})
	})

	r.transition(StatePosting)
	// The feed lists newest first; posting oldest first keeps the dashboard chronological.
	for i := len(blog.Entries) - 1; i >= 0; i-- {
		entry := blog.Entries[i]
		r.say("Importing: " + truncate(entry.Title))

		if _, err := poster.Run(ctx, composer.Run(entry)); err != nil {
			r.logger.Error("Entry failed, aborting run",
				"title", entry.Title,
				"imported", r.result.Imported,
				"remaining", i+1,
				"error", err)
			return r.abort(err)
		}

		r.result.Imported++
		r.result.Entries = append(r.result.Entries, entry)
		if !r.job.Preview {
			r.importer.recorder.PostImported()
		}
		r.logger.Debug("Entry imported", "title", entry.Title, "published_at", entry.Timestamp())
	}

	r.transition(StateDone)
	r.result.Summary = importedSummary(r.result.Imported)
	r.say("Done.  " + r.result.Summary)
	r.importer.recorder.ImportFinished(string(StateDone))
	r.logger.Info("Import completed", "imported", r.result.Imported, "preview", r.job.Preview)

	return r.result, nil
}

func (r *run) validate() *failure.Error {
	if r.job.Email == "" || r.job.Password == "" {
		return failure.InputMissing(msgCredentialsRequired)
	}
	if r.job.FeedURL == "" {
		return failure.InputMissing(msgFeedRequired)
	}
	return nil
}

// reject reports a missing input without the failure banner.
func (r *run) reject(err *failure.Error) (*Result, error) {
	r.say(err.Message)
	r.result.Err = err
	r.transition(StateAborted)
	r.importer.recorder.ImportFinished(failure.KindInputMissing.String())
	return r.result, err
}

func (r *run) abort(err error) (*Result, error) {
	r.reporter.Report(Line{Text: msgFailedPrefix + err.Error(), Safe: failure.IsSafe(err)})
	if r.importer.opts.SupportURL != "" {
		r.reporter.Report(supportLine(r.importer.opts.SupportURL))
	}

	r.result.Err = err
	r.transition(StateAborted)
	r.importer.recorder.ImportFinished(failure.KindOf(err).String())
	r.logger.Error("Import failed", "kind", failure.KindOf(err).String(), "imported", r.result.Imported, "error", err)

	return r.result, err
}

func (r *run) transition(state State) {
	r.result.State = state
	r.logger.Debug("Import state changed", "state", string(state))
}

func (r *run) say(text string) {
	r.reporter.Report(Line{Text: text})
}
