package api

import (
	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/lint"
	"github.com/starford/ansuz/internal/models"
)

// CreateDocumentRequest is the request body for creating a document.
type CreateDocumentRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// UpdateDocumentRequest is the request body for updating a document.
type UpdateDocumentRequest struct {
	Content string `json:"content"`
}

// ValidateRequest is the request body for POST /validate. Either Target
// (a corpus path, or empty for the whole corpus) or Content + Path must
// be provided.
type ValidateRequest struct {
	Target  string `json:"target,omitempty"`
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
}

// DocumentDetail is the full document response type (aliased from the domain layer).
type DocumentDetail = docservice.DocumentDetail

// DocumentListItem is a lightweight item in a list response (aliased from the domain layer).
type DocumentListItem = docservice.DocumentListItem

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []DocumentListItem `json:"documents"`
	Total     int                `json:"total"`
}

// SkillListResponse wraps the discovered skill packages.
type SkillListResponse struct {
	Skills []models.Skill `json:"skills"`
}

// SkillDetailResponse wraps a skill together with its SKILL.md document.
type SkillDetailResponse struct {
	Skill    models.Skill   `json:"skill"`
	Document DocumentDetail `json:"document"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// RefGraphResponse wraps the document reference graph.
type RefGraphResponse struct {
	Nodes []index.RefNode    `json:"nodes"`
	Refs  []models.Reference `json:"refs"`
}

// ValidateResponse wraps a lint report.
type ValidateResponse struct {
	Findings []lint.Finding `json:"findings"`
	Checked  int            `json:"checked"`
	Ok       bool           `json:"ok"`
}
