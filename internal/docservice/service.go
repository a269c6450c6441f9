// Package docservice coordinates storage, index, and lint operations for
// the API, CLI, and MCP layers.
package docservice

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/lint"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// DocumentDetail is the full representation of a corpus document.
type DocumentDetail struct {
	Path        string           `json:"path"`
	Kind        string           `json:"kind"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	Checksum    string           `json:"checksum"`
	Meta        *models.Metadata `json:"meta,omitempty"`
	Fields      map[string]any   `json:"fields,omitempty"`
	Refs        []string         `json:"refs"`
	Referencing []string         `json:"referencing"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	Path        string    `json:"path"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Checksum    string    `json:"checksum"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Service coordinates storage and index operations.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new document service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// GetDocument reads a document from storage, parses it, and enriches it
// with the documents that reference it.
func (s *Service) GetDocument(_ context.Context, docPath string) (*DocumentDetail, error) {
	data, err := s.store.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.buildDetail(docPath, data)
}

// CreateDocument writes a new document and indexes it.
func (s *Service) CreateDocument(_ context.Context, docPath string, content []byte) (*DocumentDetail, error) {
	if s.store.Exists(docPath) {
		return nil, apperr.ErrAlreadyExists
	}
	if err := s.store.Write(docPath, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(docPath, content); err != nil {
		return nil, err
	}
	return s.buildDetail(docPath, content)
}

// UpdateDocument writes updated content with optimistic concurrency.
func (s *Service) UpdateDocument(_ context.Context, docPath string, content []byte, ifMatch string) (*DocumentDetail, error) {
	existing, err := s.store.Read(docPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if ifMatch != "" && ifMatch != checksum.Sum(existing) {
		return nil, apperr.ErrConflict
	}
	if err := s.store.Write(docPath, content); err != nil {
		return nil, err
	}
	if err := s.IndexFile(docPath, content); err != nil {
		return nil, err
	}
	return s.buildDetail(docPath, content)
}

// DeleteDocument removes a document from storage and index.
func (s *Service) DeleteDocument(_ context.Context, docPath string) error {
	if err := s.store.Delete(docPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.ErrNotFound
		}
		return err
	}
	return s.db.DeleteDocument(docPath)
}

// ListDocuments returns paginated documents with optional kind filter.
func (s *Service) ListDocuments(_ context.Context, limit, offset int, kind, sort string) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(limit, offset, kind, sort)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			Path:        r.Path,
			Kind:        r.Kind,
			Name:        r.Name,
			Title:       r.Title,
			Description: r.Description,
			Checksum:    r.Checksum,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// ListSkills returns every indexed skill package.
func (s *Service) ListSkills(_ context.Context) ([]models.Skill, error) {
	rows, err := s.db.ListSkills()
	if err != nil {
		return nil, err
	}
	skills := make([]models.Skill, len(rows))
	for i, r := range rows {
		skills[i] = models.Skill{
			Name:        r.Name,
			Description: r.Description,
			Dir:         path.Dir(r.Path),
			Path:        r.Path,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return skills, nil
}

// GetSkill returns a skill by name together with its SKILL.md content.
func (s *Service) GetSkill(ctx context.Context, name string) (*models.Skill, *DocumentDetail, error) {
	rows, err := s.db.ListSkills()
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		if r.Name != name {
			continue
		}
		detail, err := s.GetDocument(ctx, r.Path)
		if err != nil {
			return nil, nil, err
		}
		skill := &models.Skill{
			Name:        r.Name,
			Description: r.Description,
			Dir:         path.Dir(r.Path),
			Path:        r.Path,
			UpdatedAt:   r.UpdatedAt,
		}
		if detail.Meta != nil {
			skill.License = detail.Meta.License
		}
		return skill, detail, nil
	}
	return nil, nil, apperr.ErrNotFound
}

// Referencing returns all document paths that reference the given target.
func (s *Service) Referencing(_ context.Context, target string) ([]string, error) {
	return s.db.Referencing(target)
}

// RefGraph returns all nodes and reference edges.
func (s *Service) RefGraph(_ context.Context) ([]index.RefNode, []models.Reference, error) {
	return s.db.RefGraph()
}

// Validate lints target, which may be empty (whole corpus), a document
// path, or a skill directory.
func (s *Service) Validate(_ context.Context, target string) (*lint.Report, error) {
	target = strings.Trim(target, "/")
	switch {
	case target == "":
		return lint.CheckCorpus(s.store)
	case s.store.Exists(target):
		data, err := s.store.Read(target)
		if err != nil {
			return nil, err
		}
		return &lint.Report{Findings: lint.CheckDocument(target, data), Checked: 1}, nil
	default:
		// Treat anything that is not a file as a skill directory; a
		// missing directory surfaces as a missing-SKILL.md finding.
		return lint.CheckSkillDir(s.store, target)
	}
}

// ValidateContent lints raw content as if it lived at docPath.
func (s *Service) ValidateContent(_ context.Context, docPath string, content []byte) *lint.Report {
	return &lint.Report{Findings: lint.CheckDocument(docPath, content), Checked: 1}
}

// IndexFile parses data and upserts it into the index.
// Exported so that sync and watcher paths can reuse it.
func (s *Service) IndexFile(docPath string, data []byte) error {
	res, err := frontmatter.Parse(docPath, data)
	if err != nil {
		return err
	}
	row := index.DocumentRow{
		Path:      docPath,
		Kind:      kindOf(docPath),
		Title:     res.Title,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	}
	if res.Meta != nil {
		row.Name = res.Meta.Name
		row.Description = res.Meta.Description
		row.ApplyTo = res.Meta.ApplyTo
	}
	return s.db.UpsertDocument(row, res.Body, res.Refs)
}

// buildDetail constructs a DocumentDetail from raw data without re-reading
// the file.
func (s *Service) buildDetail(docPath string, data []byte) (*DocumentDetail, error) {
	res, err := frontmatter.Parse(docPath, data)
	if err != nil {
		return nil, err
	}
	referencing, err := s.db.Referencing(docPath)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		Path:        docPath,
		Kind:        kindOf(docPath),
		Title:       res.Title,
		Content:     string(data),
		Checksum:    checksum.Sum(data),
		Meta:        res.Meta,
		Fields:      res.Fields,
		Refs:        nonNilSlice(res.Refs),
		Referencing: nonNilSlice(referencing),
		UpdatedAt:   time.Now(),
	}, nil
}

func kindOf(docPath string) string {
	if path.Base(docPath) == models.SkillFileName {
		return models.KindSkill
	}
	return models.KindDocument
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
