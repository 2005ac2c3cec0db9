package client

import (
	"bytes"
	"encoding/json"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

// ToPage normalizes a server response that is either the paginated
// envelope or a bare array. An envelope passes through untouched; an array
// of length N becomes {totalPages:1, number:0, size:N, totalElements:N}.
func ToPage(raw json.RawMessage) (*models.Page, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Reclamation
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		if items == nil {
			items = []models.Reclamation{}
		}
		return &models.Page{
			Content:       items,
			TotalElements: int64(len(items)),
			TotalPages:    1,
			Number:        0,
			Size:          len(items),
		}, nil
	}

	var p models.Page
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	if p.Content == nil {
		p.Content = []models.Reclamation{}
	}
	return &p, nil
}
