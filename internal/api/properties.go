// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"
)

type PropertyService service

// List returns one page of the public property listing.
func (s *PropertyService) List(ctx context.Context, filter PropertyFilter) (PropertyPage, error) {
	var page PropertyPage
	err := s.client.do(ctx, http.MethodGet, "/properties", filter.values(), nil, &page)
	return page, err
}

func (s *PropertyService) Get(ctx context.Context, id string) (Property, error) {
	var property Property
	err := s.client.do(ctx, http.MethodGet, "/properties/"+escape(id), nil, nil, &property)
	return property, err
}

func (s *PropertyService) Create(ctx context.Context, input PropertyInput) (Property, error) {
	var property Property
	err := s.client.do(ctx, http.MethodPost, "/properties", nil, input, &property)
	return property, err
}

func (s *PropertyService) Update(ctx context.Context, id string, input PropertyInput) (Property, error) {
	var property Property
	err := s.client.do(ctx, http.MethodPut, "/properties/"+escape(id), nil, input, &property)
	return property, err
}

func (s *PropertyService) Delete(ctx context.Context, id string) (Message, error) {
	var msg Message
	err := s.client.do(ctx, http.MethodDelete, "/properties/"+escape(id), nil, nil, &msg)
	return msg, err
}

// Owner returns the properties of the logged in owner.
func (s *PropertyService) Owner(ctx context.Context) ([]Property, error) {
	var properties []Property
	err := s.client.do(ctx, http.MethodGet, "/properties/owner", nil, nil, &properties)
	return properties, err
}

// UploadImages attaches images to a property and returns the URLs of all its images.
func (s *PropertyService) UploadImages(ctx context.Context, id string, images []File) ([]string, error) {
	if len(images) == 0 {
		return nil, errors.New("no images to upload")
	}
	var resp struct {
		Images []string `json:"images"`
	}
	err := s.client.upload(ctx, "/properties/"+escape(id)+"/images", "images", images, &resp)
	return resp.Images, err
}
