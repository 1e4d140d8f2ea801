package main

import (
	"context"
	"log/slog"

	"github.com/create-newspulse/newsdesk/pkg/models"
	"github.com/create-newspulse/newsdesk/pkg/services"
	"github.com/robfig/cron/v3"
)

// systemActor is the identity the poller publishes as. Admin carries the
// publish permission without being tied to a person.
var systemActor = models.Actor{ID: "system-scheduler", Role: models.RoleAdmin}

// Poller publishes scheduled stories whose publish time has elapsed. It runs
// on a cron tick; a tick that is still running suppresses the next one.
type Poller struct {
	workflowService *services.Workflow
	logger          *slog.Logger
	cron            *cron.Cron
}

func NewPoller(workflowService *services.Workflow, logger *slog.Logger) *Poller {
	return &Poller{
		workflowService: workflowService,
		logger:          logger,
	}
}

// Start registers the tick and starts the cron scheduler.
func (p *Poller) Start(ctx context.Context, cronExpr string) error {
	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return err
	}

	p.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := p.cron.AddFunc(cronExpr, func() {
		p.Tick(ctx)
	})
	if err != nil {
		return err
	}

	p.cron.Start()
	p.logger.InfoContext(ctx, "Scheduler started", "cron", cronExpr)

	return nil
}

// Tick runs one publishing pass.
func (p *Poller) Tick(ctx context.Context) {
	published, err := p.workflowService.PublishDue(ctx, systemActor)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish due stories", "error", err)

		return
	}

	if len(published) > 0 {
		p.logger.InfoContext(ctx, "Published due stories", "count", len(published), "story_ids", published)
	}
}

// Stop stops the cron scheduler and waits for a running tick to finish.
func (p *Poller) Stop() {
	if p.cron == nil {
		return
	}

	<-p.cron.Stop().Done()
}
