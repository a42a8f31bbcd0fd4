// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
)

type AgreementService service

func (s *AgreementService) Create(ctx context.Context, input AgreementInput) (Agreement, error) {
	var agreement Agreement
	err := s.client.do(ctx, http.MethodPost, "/agreements", nil, input, &agreement)
	return agreement, err
}

func (s *AgreementService) Get(ctx context.Context, id string) (Agreement, error) {
	var agreement Agreement
	err := s.client.do(ctx, http.MethodGet, "/agreements/"+escape(id), nil, nil, &agreement)
	return agreement, err
}

// Sign signs the agreement as the logged in user.
func (s *AgreementService) Sign(ctx context.Context, id string) (Agreement, error) {
	var agreement Agreement
	err := s.client.do(ctx, http.MethodPut, "/agreements/"+escape(id)+"/sign", nil, nil, &agreement)
	return agreement, err
}

func (s *AgreementService) Tenant(ctx context.Context) ([]Agreement, error) {
	var agreements []Agreement
	err := s.client.do(ctx, http.MethodGet, "/agreements/tenant", nil, nil, &agreements)
	return agreements, err
}

func (s *AgreementService) Owner(ctx context.Context) ([]Agreement, error) {
	var agreements []Agreement
	err := s.client.do(ctx, http.MethodGet, "/agreements/owner", nil, nil, &agreements)
	return agreements, err
}

func (s *AgreementService) Terminate(ctx context.Context, id, reason string) (Agreement, error) {
	payload := struct {
		TerminationReason string `json:"terminationReason" validate:"required"`
	}{TerminationReason: reason}
	var agreement Agreement
	err := s.client.do(ctx, http.MethodPut, "/agreements/"+escape(id)+"/terminate", nil, payload, &agreement)
	return agreement, err
}
