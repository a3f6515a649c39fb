package dto

import "github.com/bull/iris-search/internal/catalog"

type CollectionSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CoverImage    string `json:"coverImage,omitempty"`
	DocumentCount int    `json:"documentCount"`
}

type CollectionListResponse struct {
	Collections []CollectionSummary `json:"collections"`
}

func ToCollectionListResponse(cols []catalog.Collection) *CollectionListResponse {
	out := make([]CollectionSummary, 0, len(cols))
	for _, c := range cols {
		out = append(out, CollectionSummary{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			CoverImage:    c.CoverImage,
			DocumentCount: len(c.Documents),
		})
	}
	return &CollectionListResponse{Collections: out}
}
