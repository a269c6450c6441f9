// Package archive builds distributable zip bundles of skill packages.
package archive

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/lint"
	"github.com/starford/ansuz/internal/storage"
)

// ManifestName is the checksum manifest entry written into every bundle.
const ManifestName = ".manifest.json"

// Fixed modification time so repeated packs of identical content produce
// byte-identical archives.
var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Manifest records what went into a bundle.
type Manifest struct {
	Skill   string            `json:"skill"`
	Files   map[string]string `json:"files"` // entry path -> sha256
	Created string            `json:"created"`
}

// ErrLintFailed is returned when the skill has validation errors; the
// report is attached so callers can surface the findings.
type ErrLintFailed struct {
	Report *lint.Report
}

func (e *ErrLintFailed) Error() string {
	return fmt.Sprintf("archive: skill has %d validation finding(s)", len(e.Report.Findings))
}

// PackSkill validates skillDir and writes a deterministic zip of its
// contents to out. Entry names are relative to the skill directory, so the
// bundle unpacks into a self-contained folder. Entries are sorted and carry
// a fixed timestamp.
func PackSkill(store storage.Provider, skillDir string, out io.Writer) (*Manifest, error) {
	skillDir = strings.Trim(skillDir, "/")
	if skillDir == "" {
		return nil, fmt.Errorf("archive: skill directory is required")
	}

	report, err := lint.CheckSkillDir(store, skillDir)
	if err != nil {
		return nil, err
	}
	if report.HasErrors() {
		return nil, &ErrLintFailed{Report: report}
	}

	files, err := store.ListDir(skillDir)
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	manifest := &Manifest{
		Skill:   path.Base(skillDir),
		Files:   make(map[string]string, len(files)),
		Created: epoch.Format(time.RFC3339),
	}

	zw := zip.NewWriter(out)
	for _, file := range files {
		data, err := store.Read(file)
		if err != nil {
			return nil, err
		}
		entry := strings.TrimPrefix(file, skillDir+"/")
		manifest.Files[entry] = checksum.Sum(data)

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry,
			Method:   zip.Deflate,
			Modified: epoch,
		})
		if err != nil {
			return nil, fmt.Errorf("archive: create entry %s: %w", entry, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("archive: write entry %s: %w", entry, err)
		}
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("archive: encode manifest: %w", err)
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     ManifestName,
		Method:   zip.Deflate,
		Modified: epoch,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: create manifest: %w", err)
	}
	if _, err := w.Write(manifestData); err != nil {
		return nil, fmt.Errorf("archive: write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: finalize: %w", err)
	}
	return manifest, nil
}
