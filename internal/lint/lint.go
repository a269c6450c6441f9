// Package lint validates corpus content: metadata blocks, skill package
// layout, and cross-document references.
package lint

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// Severity of a finding. Errors fail validation; warnings do not.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Field budgets for skill metadata.
const (
	MaxNameLength        = 64
	MaxDescriptionLength = 1024
)

// nameRe enforces lowercase kebab-case skill names.
var nameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Finding is a single validation result.
type Finding struct {
	Path     string   `json:"path"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report aggregates findings from one validation run.
type Report struct {
	Findings []Finding `json:"findings"`
	Checked  int       `json:"checked"`
}

// HasErrors reports whether any finding has error severity.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) add(path, rule string, sev Severity, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Path:     path,
		Rule:     rule,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

// CheckDocument validates a single document's content. Skill rules apply
// when the path's base name is SKILL.md.
func CheckDocument(docPath string, data []byte) []Finding {
	r := &Report{}
	checkDocument(r, docPath, data)
	return r.Findings
}

func checkDocument(r *Report, docPath string, data []byte) *frontmatter.Result {
	r.Checked++
	res, err := frontmatter.Parse(docPath, data)
	if err != nil {
		r.add(docPath, "parse", SeverityError, "cannot parse: %v", err)
		return nil
	}

	isSkill := path.Base(docPath) == models.SkillFileName

	if res.Meta == nil {
		if strings.HasPrefix(strings.TrimLeft(string(data), "\n\r"), "---") {
			r.add(docPath, "metadata-parse", SeverityError, "metadata block is not well-formed YAML")
		} else if isSkill {
			r.add(docPath, "metadata-required", SeverityError, "skill file must begin with a metadata block")
		}
		return res
	}

	checkMetadata(r, docPath, res.Meta, isSkill)
	return res
}

// checkMetadata applies field rules to a parsed metadata block.
func checkMetadata(r *Report, docPath string, m *models.Metadata, isSkill bool) {
	nameRules := []validation.Rule{
		validation.Match(nameRe).Error("must be lowercase kebab-case"),
		validation.RuneLength(0, MaxNameLength).Error(fmt.Sprintf("must be at most %d characters", MaxNameLength)),
	}
	descRules := []validation.Rule{
		validation.RuneLength(0, MaxDescriptionLength).Error(fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)),
	}
	if isSkill {
		nameRules = append([]validation.Rule{validation.Required.Error("is required for skills")}, nameRules...)
		descRules = append([]validation.Rule{validation.Required.Error("is required for skills")}, descRules...)
	}

	if err := validation.Validate(m.Name, nameRules...); err != nil {
		r.add(docPath, "name", SeverityError, "name %v", err)
	}
	if err := validation.Validate(m.Description, descRules...); err != nil {
		r.add(docPath, "description", SeverityError, "description %v", err)
	}

	for _, pattern := range m.ApplyTo {
		if !doublestar.ValidatePattern(pattern) {
			r.add(docPath, "apply-to", SeverityError, "applyTo pattern %q does not compile", pattern)
		}
	}

	for _, tool := range m.AllowedTools {
		if strings.TrimSpace(tool) == "" {
			r.add(docPath, "allowed-tools", SeverityWarning, "allowed-tools contains an empty entry")
		}
	}
}

// CheckSkillDir validates a skill package directory: the required SKILL.md,
// its metadata, and the layout convention (references/ and scripts/ are the
// recognised subfolders).
func CheckSkillDir(store storage.Provider, dir string) (*Report, error) {
	r := &Report{}
	dir = strings.TrimSuffix(dir, "/")

	skillPath := path.Join(dir, models.SkillFileName)
	if !store.Exists(skillPath) {
		r.add(dir, "skill-file", SeverityError, "missing required %s", models.SkillFileName)
		return r, nil
	}

	data, err := store.Read(skillPath)
	if err != nil {
		return nil, err
	}
	res := checkDocument(r, skillPath, data)

	if res != nil && res.Meta != nil && res.Meta.Name != "" {
		if base := path.Base(dir); base != res.Meta.Name {
			r.add(skillPath, "name-mismatch", SeverityWarning,
				"skill name %q does not match directory name %q", res.Meta.Name, base)
		}
	}

	files, err := store.ListDir(dir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		rel := strings.TrimPrefix(f, dir+"/")
		parts := strings.SplitN(rel, "/", 2)
		if len(parts) == 1 {
			continue // top-level files are fine alongside SKILL.md
		}
		switch parts[0] {
		case "references", "scripts":
		default:
			r.add(f, "layout", SeverityWarning,
				"unexpected subfolder %q (expected references/ or scripts/)", parts[0])
		}
	}

	return r, nil
}

// CheckCorpus validates every document in the corpus, plus corpus-wide
// rules: relative references must resolve and skill names must be unique.
func CheckCorpus(store storage.Provider) (*Report, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}

	r := &Report{}
	exists := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		exists[m.Path] = struct{}{}
	}

	skillNames := make(map[string]string) // name -> first path
	for _, m := range metas {
		data, err := store.Read(m.Path)
		if err != nil {
			r.add(m.Path, "read", SeverityError, "cannot read: %v", err)
			continue
		}
		res := checkDocument(r, m.Path, data)
		if res == nil {
			continue
		}

		for _, target := range res.Refs {
			if _, ok := exists[target]; !ok {
				r.add(m.Path, "broken-ref", SeverityWarning, "reference target %q does not exist", target)
			}
		}

		if path.Base(m.Path) == models.SkillFileName && res.Meta != nil && res.Meta.Name != "" {
			if prev, dup := skillNames[res.Meta.Name]; dup {
				r.add(m.Path, "duplicate-skill", SeverityError,
					"skill name %q already used by %s", res.Meta.Name, prev)
			} else {
				skillNames[res.Meta.Name] = m.Path
			}
		}
	}

	return r, nil
}
