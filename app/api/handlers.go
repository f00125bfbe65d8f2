package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/blog-migrate/app/cfg"
	"github.com/lysyi3m/blog-migrate/app/failure"
	"github.com/lysyi3m/blog-migrate/app/importer"
)

// NewHandler wires the import endpoint. metrics may be nil to disable /metrics.
func NewHandler(runner ImportRunner, metrics http.Handler, maxRunTime time.Duration, version string) *Handler {
	return &Handler{
		importer:   runner,
		metrics:    metrics,
		maxRunTime: maxRunTime,
		version:    version,
		startedAt:  time.Now(),
	}
}

// PostImport runs one import and streams its status lines as HTML fragments.
func (h *Handler) PostImport(c *gin.Context) {
	job := jobFromRequest(c)

	ctx := c.Request.Context()
	if h.maxRunTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.maxRunTime)
		defer cancel()
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Status(http.StatusOK)

	result, err := h.importer.Run(ctx, job, importer.NewHTMLReporter(c.Writer))
	if err != nil {
		if failure.KindOf(err) == failure.KindInputMissing {
			slog.Warn("Import rejected", "run_id", result.RunID, "error", err)
			return
		}
		slog.Error("Import failed", "run_id", result.RunID, "imported", result.Imported, "error", err)
		return
	}

	slog.Info("Import finished", "run_id", result.RunID, "imported", result.Imported, "preview", job.Preview)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// jobFromRequest reads the import form. Query parameters override the
// preview, debug and autocorrect switches so they can be toggled on a
// bookmarked form action.
func jobFromRequest(c *gin.Context) cfg.Job {
	job := cfg.Job{
		Email:       c.PostForm("email"),
		Password:    c.PostForm("password"),
		Group:       c.PostForm("group"),
		FeedURL:     c.PostForm("feed"),
		ExtraLabels: cfg.SplitLabels(c.PostForm("extra_tags")),
		Preview:     c.PostForm("preview") == "1",
		Debug:       c.PostForm("debug") == "1",
		Autocorrect: c.PostForm("autocorrect") != "0",
	}

	if value, ok := c.GetQuery("preview"); ok {
		job.Preview = value == "1"
	}
	if value, ok := c.GetQuery("debug"); ok {
		job.Debug = value == "1"
	}
	if value, ok := c.GetQuery("autocorrect"); ok {
		job.Autocorrect = value != "0"
	}

	return job
}
