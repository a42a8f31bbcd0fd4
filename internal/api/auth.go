// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
)

// AuthService handles registration, login and the profile of the current user.
type AuthService service

func (s *AuthService) Register(ctx context.Context, registration Registration) (AuthResponse, error) {
	var resp AuthResponse
	err := s.client.do(ctx, http.MethodPost, "/auth/register", nil, registration, &resp)
	return resp, err
}

func (s *AuthService) Login(ctx context.Context, credentials Credentials) (AuthResponse, error) {
	var resp AuthResponse
	err := s.client.do(ctx, http.MethodPost, "/auth/login", nil, credentials, &resp)
	return resp, err
}

// CurrentUser returns the user the token belongs to.
func (s *AuthService) CurrentUser(ctx context.Context) (User, error) {
	var user User
	err := s.client.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user)
	return user, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, update ProfileUpdate) (User, error) {
	var user User
	err := s.client.do(ctx, http.MethodPut, "/auth/me", nil, update, &user)
	return user, err
}

// ForgotPassword asks the API to send a password reset mail.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (Message, error) {
	payload := struct {
		Email string `json:"email" validate:"required,email"`
	}{Email: email}
	var msg Message
	err := s.client.do(ctx, http.MethodPost, "/auth/forgot-password", nil, payload, &msg)
	return msg, err
}

// ResetPassword sets a new password using the token from the reset mail.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (Message, error) {
	payload := struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,password"`
	}{Token: token, NewPassword: newPassword}
	var msg Message
	err := s.client.do(ctx, http.MethodPost, "/auth/reset-password", nil, payload, &msg)
	return msg, err
}
