package index

import (
	"log/slog"
	"path"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Sync walks the corpus and brings the index up to date:
//   - new/changed files are parsed and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteDocument(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile parses data and upserts it into the DB.
func indexFile(db *DB, docPath string, data []byte) error {
	res, err := frontmatter.Parse(docPath, data)
	if err != nil {
		return err
	}

	row := DocumentRow{
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
	return db.UpsertDocument(row, res.Body, res.Refs)
}

// kindOf classifies a corpus path: a SKILL.md file is a skill, anything
// else is a plain instruction document.
func kindOf(docPath string) string {
	if path.Base(docPath) == models.SkillFileName {
		return models.KindSkill
	}
	return models.KindDocument
}
