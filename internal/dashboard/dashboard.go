// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package dashboard computes the owner and tenant overview figures.
package dashboard

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/rentalhub/internal/api"
)

// recentLimit is the number of applications listed on a dashboard.
const recentLimit = 5

var (
	ErrNotAuthenticated = errors.New("please log in to view the dashboard")
	// ErrWrongRole is returned when the dashboard does not match the type of the logged in user.
	ErrWrongRole = errors.New("this dashboard is not available for your user type")
)

// Source provides the records the dashboards are computed from.
type Source interface {
	OwnerProperties(ctx context.Context) ([]api.Property, error)
	OwnerApplications(ctx context.Context) ([]api.Application, error)
	OwnerPayments(ctx context.Context) ([]api.Payment, error)
	OwnerAgreements(ctx context.Context) ([]api.Agreement, error)
	TenantApplications(ctx context.Context) ([]api.Application, error)
}

// Viewer describes the logged in user.
type Viewer interface {
	IsAuthenticated() bool
	IsOwner() bool
	IsTenant() bool
}

type OwnerStats struct {
	TotalProperties     int
	AvailableProperties int
	PendingApplications int
	ActiveAgreements    int
	MonthlyRevenue      float64
	RecentApplications  []api.Application
	GeneratedAt         time.Time
}

type TenantStats struct {
	Applications       int
	ActiveRentals      int
	RecentApplications []api.Application
	Approved           []api.Application
	GeneratedAt        time.Time
}

type Dashboard struct {
	source Source
	viewer Viewer
	now    func() time.Time
}

func New(source Source, viewer Viewer) *Dashboard {
	return &Dashboard{source: source, viewer: viewer, now: time.Now}
}

// Owner fetches the records of the logged in owner concurrently. The first failing request
// cancels the others.
func (d *Dashboard) Owner(ctx context.Context) (OwnerStats, error) {
	if err := d.guard(d.viewer.IsOwner); err != nil {
		return OwnerStats{}, err
	}

	var (
		properties   []api.Property
		applications []api.Application
		payments     []api.Payment
		agreements   []api.Agreement
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		properties, err = d.source.OwnerProperties(gctx)
		return wrap("properties", err)
	})
	group.Go(func() (err error) {
		applications, err = d.source.OwnerApplications(gctx)
		return wrap("applications", err)
	})
	group.Go(func() (err error) {
		payments, err = d.source.OwnerPayments(gctx)
		return wrap("payments", err)
	})
	group.Go(func() (err error) {
		agreements, err = d.source.OwnerAgreements(gctx)
		return wrap("agreements", err)
	})
	if err := group.Wait(); err != nil {
		return OwnerStats{}, err
	}

	now := d.now()
	stats := OwnerStats{
		TotalProperties:    len(properties),
		RecentApplications: recent(applications),
		GeneratedAt:        now,
	}
	for _, property := range properties {
		if property.Availability {
			stats.AvailableProperties++
		}
	}
	for _, application := range applications {
		if application.Status == api.ApplicationPending {
			stats.PendingApplications++
		}
	}
	for _, agreement := range agreements {
		if agreement.Status == api.AgreementBothSigned {
			stats.ActiveAgreements++
		}
	}
	for _, payment := range payments {
		if sameMonth(payment.CreatedAt.In(now.Location()), now) {
			stats.MonthlyRevenue += payment.Amount
		}
	}
	return stats, nil
}

// Tenant fetches the applications of the logged in tenant.
func (d *Dashboard) Tenant(ctx context.Context) (TenantStats, error) {
	if err := d.guard(d.viewer.IsTenant); err != nil {
		return TenantStats{}, err
	}
	applications, err := d.source.TenantApplications(ctx)
	if err != nil {
		return TenantStats{}, wrap("applications", err)
	}

	stats := TenantStats{
		Applications:       len(applications),
		RecentApplications: recent(applications),
		GeneratedAt:        d.now(),
	}
	for _, application := range applications {
		if application.Status == api.ApplicationApproved {
			stats.Approved = append(stats.Approved, application)
		}
	}
	stats.ActiveRentals = len(stats.Approved)
	return stats, nil
}

func (d *Dashboard) guard(hasRole func() bool) error {
	if !d.viewer.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !hasRole() {
		return ErrWrongRole
	}
	return nil
}

// recent returns the newest applications first.
func recent(applications []api.Application) []api.Application {
	sorted := slices.Clone(applications)
	slices.SortStableFunc(sorted, func(a, b api.Application) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}
	return sorted
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}

type clientSource struct {
	client *api.Client
}

// FromClient returns a Source backed by the REST API.
func FromClient(client *api.Client) Source {
	return clientSource{client: client}
}

func (c clientSource) OwnerProperties(ctx context.Context) ([]api.Property, error) {
	return c.client.Properties.Owner(ctx)
}

func (c clientSource) OwnerApplications(ctx context.Context) ([]api.Application, error) {
	return c.client.Applications.Owner(ctx)
}

func (c clientSource) OwnerPayments(ctx context.Context) ([]api.Payment, error) {
	return c.client.Payments.Owner(ctx)
}

func (c clientSource) OwnerAgreements(ctx context.Context) ([]api.Agreement, error) {
	return c.client.Agreements.Owner(ctx)
}

func (c clientSource) TenantApplications(ctx context.Context) ([]api.Application, error) {
	return c.client.Applications.Tenant(ctx)
}
