package main

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	appctx "jargas/internal/core/context"
	"jargas/internal/domain/catalogs/project"
	"jargas/internal/domain/discrepancy"
	"jargas/pkg/logger"
)

// ProjectLister lists the projects a pass covers.
type ProjectLister interface {
	ListActive(ctx context.Context) ([]*project.Project, error)
}

// Checker runs one reconciliation pass for a project.
type Checker interface {
	Check(ctx context.Context, projectID int64) ([]discrepancy.Report, error)
}

// DiscrepancyJob reconciles notifications of every active project.
// A failing project is logged and does not stop the others.
type DiscrepancyJob struct {
	projects ProjectLister
	checker  Checker
	timeout  time.Duration
	log      *logger.Logger
}

// NewDiscrepancyJob creates the job. timeout bounds each project pass; zero means no bound.
func NewDiscrepancyJob(projects ProjectLister, checker Checker, timeout time.Duration, log *logger.Logger) *DiscrepancyJob {
	if log == nil {
		log = logger.Default()
	}
	return &DiscrepancyJob{
		projects: projects,
		checker:  checker,
		timeout:  timeout,
		log:      log.WithComponent("discrepancy-job"),
	}
}

// JobResult summarizes one run.
type JobResult struct {
	Projects int
	Failed   int
	Warnings int
}

// Run performs one pass over all active projects.
func (j *DiscrepancyJob) Run(ctx context.Context) JobResult {
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())
	log := j.log.WithContext(ctx)
	started := time.Now()

	var res JobResult
	projects, err := j.projects.ListActive(ctx)
	if err != nil {
		log.Errorw("failed to list projects", "error", err)
		return res
	}

	for _, p := range projects {
		if ctx.Err() != nil {
			log.Warnw("discrepancy run interrupted", "remaining", len(projects)-res.Projects)
			break
		}
		res.Projects++

		warnings, err := j.checkProject(ctx, p.ID)
		if err != nil {
			res.Failed++
			log.Errorw("discrepancy check failed", "project_id", p.ID, "project", p.Code, "error", err)
			continue
		}
		res.Warnings += warnings
		log.Debugw("discrepancy check done", "project_id", p.ID, "warnings", warnings)
	}

	log.Infow("discrepancy run finished",
		"projects", res.Projects,
		"failed", res.Failed,
		"warnings", res.Warnings,
		"duration", time.Since(started),
	)
	return res
}

func (j *DiscrepancyJob) checkProject(ctx context.Context, projectID int64) (int, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	reports, err := j.checker.Check(ctx, projectID)
	if err != nil {
		return 0, err
	}
	return len(reports), nil
}

// Schedule registers the job on c. Overlapping runs are skipped.
func (j *DiscrepancyJob) Schedule(ctx context.Context, c *cron.Cron, spec string) (cron.EntryID, error) {
	job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{j.log})).
		Then(cron.FuncJob(func() { j.Run(ctx) }))
	return c.AddJob(spec, job)
}

// NewScheduler creates a cron scheduler accepting specs with an optional seconds field.
func NewScheduler(log *logger.Logger) *cron.Cron {
	parser := cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour |
		cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	return cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cronLogger{log}),
		cron.WithChain(cron.Recover(cronLogger{log})),
	)
}

// cronLogger adapts logger.Logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
