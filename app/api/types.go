package api

import (
	"context"
	"net/http"
	"time"

	"github.com/lysyi3m/blog-migrate/app/cfg"
	"github.com/lysyi3m/blog-migrate/app/importer"
)

type ImportRunner interface {
	Run(ctx context.Context, job cfg.Job, reporter importer.Reporter) (*importer.Result, error)
}

var _ ImportRunner = (*importer.Importer)(nil)

type Handler struct {
	importer   ImportRunner
	metrics    http.Handler
	maxRunTime time.Duration
	version    string
	startedAt  time.Time
}
