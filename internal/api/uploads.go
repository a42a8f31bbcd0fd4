// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package api

import (
	"context"
)

type UploadService service

// UploadIDCard stores an identity document and returns its URL.
func (s *UploadService) UploadIDCard(ctx context.Context, card File) (string, error) {
	var resp struct {
		FileURL string `json:"fileUrl"`
	}
	err := s.client.upload(ctx, "/upload/id-card", "idCard", []File{card}, &resp)
	return resp.FileURL, err
}

// File returns the content of an uploaded file.
func (s *UploadService) File(ctx context.Context, id string) ([]byte, error) {
	return s.client.raw(ctx, "/upload/"+escape(id))
}
