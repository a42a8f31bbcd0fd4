// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
)

type PaymentService service

// CreateIntent starts a card payment for an approved application.
func (s *PaymentService) CreateIntent(ctx context.Context, applicationID string) (PaymentIntent, error) {
	payload := struct {
		ApplicationID string `json:"applicationId" validate:"required"`
	}{ApplicationID: applicationID}
	var intent PaymentIntent
	err := s.client.do(ctx, http.MethodPost, "/payments/create-intent", nil, payload, &intent)
	return intent, err
}

func (s *PaymentService) Confirm(ctx context.Context, paymentIntentID string) (Payment, error) {
	payload := struct {
		PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	}{PaymentIntentID: paymentIntentID}
	var payment Payment
	err := s.client.do(ctx, http.MethodPost, "/payments/confirm", nil, payload, &payment)
	return payment, err
}

func (s *PaymentService) Tenant(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	err := s.client.do(ctx, http.MethodGet, "/payments/tenant", nil, nil, &payments)
	return payments, err
}

func (s *PaymentService) Owner(ctx context.Context) ([]Payment, error) {
	var payments []Payment
	err := s.client.do(ctx, http.MethodGet, "/payments/owner", nil, nil, &payments)
	return payments, err
}

func (s *PaymentService) Get(ctx context.Context, id string) (Payment, error) {
	var payment Payment
	err := s.client.do(ctx, http.MethodGet, "/payments/"+escape(id), nil, nil, &payment)
	return payment, err
}

// Receipt returns the receipt of a payment as sent by the API.
func (s *PaymentService) Receipt(ctx context.Context, id string) (string, error) {
	data, err := s.client.raw(ctx, "/payments/"+escape(id)+"/receipt")
	return string(data), err
}
