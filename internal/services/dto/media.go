package dto

import (
	"time"

	"findtern_backend/internal/models"
)

type MediaResponse struct {
	Key          models.MediaKey `json:"key"`
	Name         string          `json:"name"`
	ContentType  string          `json:"contentType"`
	Size         int64           `json:"size"`
	LastModified time.Time       `json:"lastModified"`
	URL          string          `json:"url"`
	Staged       bool            `json:"staged"`
	CommittedAt  *time.Time      `json:"committedAt,omitempty"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewMediaResponse(d *models.InternDocument, url string) *MediaResponse {
	return &MediaResponse{
		Key:          d.Key,
		Name:         d.Name,
		ContentType:  d.ContentType,
		Size:         d.Size,
		LastModified: d.LastModified,
		URL:          url,
		Staged:       d.Staged,
		CommittedAt:  d.CommittedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MediaListResponse struct {
	Files []*MediaResponse `json:"files"`
}

type CommitMediaResponse struct {
	Committed int64 `json:"committed"`
}
