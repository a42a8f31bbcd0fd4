// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"fmt"
	"net/http"
)

type ApplicationService service

func (s *ApplicationService) Submit(ctx context.Context, input ApplicationInput) (Application, error) {
	var application Application
	err := s.client.do(ctx, http.MethodPost, "/applications", nil, input, &application)
	return application, err
}

// Tenant returns the applications of the logged in tenant.
func (s *ApplicationService) Tenant(ctx context.Context) ([]Application, error) {
	var applications []Application
	err := s.client.do(ctx, http.MethodGet, "/applications/tenant", nil, nil, &applications)
	return applications, err
}

// Owner returns the applications for properties of the logged in owner.
func (s *ApplicationService) Owner(ctx context.Context) ([]Application, error) {
	var applications []Application
	err := s.client.do(ctx, http.MethodGet, "/applications/owner", nil, nil, &applications)
	return applications, err
}

func (s *ApplicationService) Get(ctx context.Context, id string) (Application, error) {
	var application Application
	err := s.client.do(ctx, http.MethodGet, "/applications/"+escape(id), nil, nil, &application)
	return application, err
}

// UpdateStatus moves an application to status. The rejection reason is only sent when given.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, status ApplicationStatus,
	rejectionReason string,
) (Application, error) {
	if !status.Valid() {
		return Application{}, fmt.Errorf("invalid application status: %q", status)
	}
	payload := struct {
		Status          ApplicationStatus `json:"status"`
		RejectionReason string            `json:"rejectionReason,omitempty"`
	}{Status: status, RejectionReason: rejectionReason}
	var application Application
	err := s.client.do(ctx, http.MethodPut, "/applications/"+escape(id)+"/status", nil, payload, &application)
	return application, err
}

func (s *ApplicationService) StartBackgroundCheck(ctx context.Context, id string) (Application, error) {
	var application Application
	err := s.client.do(ctx, http.MethodPost, "/applications/"+escape(id)+"/background-check", nil, nil,
		&application)
	return application, err
}

func (s *ApplicationService) UpdateBackgroundCheck(ctx context.Context, id string, passed bool,
	notes string,
) (Application, error) {
	payload := struct {
		Passed bool   `json:"passed"`
		Notes  string `json:"notes"`
	}{Passed: passed, Notes: notes}
	var application Application
	err := s.client.do(ctx, http.MethodPut, "/applications/"+escape(id)+"/background-check", nil, payload,
		&application)
	return application, err
}
