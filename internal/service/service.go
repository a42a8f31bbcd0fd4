// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/rentalhub/internal/config"
	"github.com/wneessen/rentalhub/internal/dashboard"
	"github.com/wneessen/rentalhub/internal/logger"
	"github.com/wneessen/rentalhub/internal/template"
)

const dashboardJobName = "dashboard_output_job"

// Service prints the dashboard of the logged in user, once or periodically.
type Service struct {
	config    *config.Config
	dashboard *dashboard.Dashboard
	logger    *logger.Logger
	templates *template.Templates
	viewer    dashboard.Viewer

	outputLock sync.Mutex
	output     io.Writer
}

func New(conf *config.Config, log *logger.Logger, source dashboard.Source, viewer dashboard.Viewer,
	output io.Writer,
) (*Service, error) {
	tpls, err := template.New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	service := &Service{
		config:    conf,
		dashboard: dashboard.New(source, viewer),
		logger:    log,
		templates: tpls,
		viewer:    viewer,
		output:    output,
	}
	return service, nil
}

// Print renders the dashboard matching the type of the logged in user.
func (s *Service) Print(ctx context.Context) error {
	if !s.viewer.IsAuthenticated() {
		return dashboard.ErrNotAuthenticated
	}

	var (
		data any
		tpl  = s.templates.TenantDashboard
		err  error
	)
	if s.viewer.IsOwner() {
		tpl = s.templates.OwnerDashboard
		data, err = s.dashboard.Owner(ctx)
	} else {
		data, err = s.dashboard.Tenant(ctx)
	}
	if err != nil {
		return err
	}

	s.outputLock.Lock()
	defer s.outputLock.Unlock()
	return template.Render(s.output, tpl, data)
}

// Run prints the dashboard right away and then every refresh interval until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.Print(ctx); err != nil {
		return err
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(s.config.Dashboard.Refresh),
		gocron.NewTask(s.printDashboard),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(dashboardJobName),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to create %s: %w", dashboardJobName, err)
	}
	scheduler.Start()

	<-ctx.Done()
	return scheduler.Shutdown()
}

// printDashboard is the scheduled variant of Print. Failures are logged and retried on the
// next run.
func (s *Service) printDashboard(ctx context.Context) {
	if err := s.Print(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("failed to print dashboard", logger.Err(err))
	}
}
