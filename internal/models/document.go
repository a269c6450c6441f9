// Package models defines the domain types for Ansuz.
package models

import "time"

// Document kinds.
const (
	KindDocument = "document"
	KindSkill    = "skill"
)

// SkillFileName is the required top-level file of a skill package.
const SkillFileName = "SKILL.md"

// Metadata is the typed view of a document's metadata block.
// Unknown keys are preserved separately in Document.Fields.
type Metadata struct {
	Name         string     `yaml:"name" json:"name,omitempty"`
	Description  string     `yaml:"description" json:"description,omitempty"`
	ApplyTo      StringList `yaml:"applyTo" json:"applyTo,omitempty"`
	License      string     `yaml:"license,omitempty" json:"license,omitempty"`
	AllowedTools []string   `yaml:"allowed-tools,omitempty" json:"allowedTools,omitempty"`
}

// StringList accepts either a YAML scalar or a YAML sequence of strings.
// An applyTo of "**/*.ts" and one of ["**/*.ts", "**/*.tsx"] both decode.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		if one == "" {
			*s = nil
			return nil
		}
		*s = StringList{one}
		return nil
	}
	var many []string
	if err := unmarshal(&many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// Document represents a parsed Markdown file in the corpus.
type Document struct {
	Path      string         `json:"path"`
	Kind      string         `json:"kind"`
	Content   []byte         `json:"-"`
	Body      string         `json:"body"`
	Meta      *Metadata      `json:"meta,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
	Title     string         `json:"title,omitempty"`
	Refs      []string       `json:"refs,omitempty"`
	Checksum  string         `json:"checksum"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// DocumentMetadata is a lightweight representation returned by list operations.
type DocumentMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Skill represents a skill package: the directory, its required SKILL.md,
// and the metadata the assistant uses to decide when to load it.
type Skill struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Dir         string    `json:"dir"`
	Path        string    `json:"path"` // path to SKILL.md, relative to corpus root
	License     string    `json:"license,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Reference represents a directed edge between two corpus documents,
// extracted from relative Markdown links.
type Reference struct {
	Source string `json:"source"`
	Target string `json:"target"`
}
