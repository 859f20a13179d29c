package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/catalog/shared"
	"github.com/edusupply/console-api/internal/salesreport"
)

// warmupListLimit bounds one page of the nightly category scan.
const warmupListLimit = 200

// ReportWarmupJob pre-populates the sales report cache so console users hit
// warm entries after invoice ingest and after the nightly invalidation.
type ReportWarmupJob struct {
	Reports    *salesreport.Service
	Categories categories.Repository
	Logger     *slog.Logger
}

// NewReportWarmupJob wires dependencies for the warmup handlers.
func NewReportWarmupJob(reports *salesreport.Service, repo categories.Repository, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{Reports: reports, Categories: repo, Logger: logger}
}

// Handle processes single-category warmup tasks.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.CategoryID <= 0 {
		return asynq.SkipRetry
	}
	return j.warm(ctx, payload.CategoryID)
}

// HandleAll processes the scheduled full warmup: every category, unfiltered
// window. Per-category failures abort so asynq retries the whole sweep.
func (j *ReportWarmupJob) HandleAll(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil || j.Categories == nil {
		return errors.New("report warmup: handler not configured")
	}
	logger := j.logger()
	page := shared.DefaultPage
	warmed := 0
	for {
		batch, total, err := j.Categories.List(ctx, shared.ListFilters{Page: page, Limit: warmupListLimit})
		if err != nil {
			logger.Error("list categories for warmup", slog.Any("error", err))
			return err
		}
		for _, category := range batch {
			if err := j.warm(ctx, category.ID); err != nil {
				return err
			}
			warmed++
		}
		if warmed >= total || len(batch) == 0 {
			break
		}
		page++
	}
	logger.Info("sales report warmup finished", slog.Int("categories", warmed))
	return nil
}

func (j *ReportWarmupJob) warm(ctx context.Context, categoryID int64) error {
	_, err := j.Reports.CategoryReport(ctx, salesreport.ReportFilter{CategoryID: categoryID})
	if err != nil {
		j.logger().Error("warm category report", slog.Int64("category_id", categoryID), slog.Any("error", err))
	}
	return err
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
