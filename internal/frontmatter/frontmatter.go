// Package frontmatter extracts the metadata block, title, and relative
// Markdown references from corpus documents.
package frontmatter

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/ansuz/internal/models"
)

// refRe matches inline Markdown links whose target is a relative .md path,
// e.g. [guide](../guides/setup.md) or [guide](setup.md#section).
var refRe = regexp.MustCompile(`\]\(([^()\s]+?\.md)(?:#[^()\s]*)?\)`)

// Result holds the output of parsing a corpus document.
type Result struct {
	Meta   *models.Metadata
	Fields map[string]any
	Body   string
	Title  string
	Refs   []string
}

// Parse extracts the metadata block, body, title, and references from raw
// Markdown bytes. source is the document's corpus-relative path; it is used
// to resolve relative reference targets.
func Parse(source string, data []byte) (*Result, error) {
	meta, fields, body := splitMetadata(data)

	return &Result{
		Meta:   meta,
		Fields: fields,
		Body:   body,
		Title:  deriveTitle(meta, body),
		Refs:   extractRefs(source, body),
	}, nil
}

// splitMetadata separates the YAML metadata block (between leading ---
// delimiters) from the Markdown body. A missing or malformed block degrades
// to "the entire content is body" rather than an error, so a stray file
// never breaks corpus reads.
func splitMetadata(data []byte) (*models.Metadata, map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter.
		return nil, nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fields map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fields); err != nil {
		return nil, nil, string(data)
	}

	var meta models.Metadata
	if err := yaml.Unmarshal(yamlBlock, &meta); err != nil {
		// Known keys carry unexpected types; keep the raw fields.
		return nil, fields, body
	}

	return &meta, fields, body
}

// extractRefs returns deduplicated corpus-relative reference targets.
// Absolute URLs and absolute paths are not corpus references.
func extractRefs(source, body string) []string {
	matches := refRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		raw := m[1]
		if strings.Contains(raw, "://") || strings.HasPrefix(raw, "/") {
			continue
		}
		target := path.Clean(path.Join(path.Dir(source), raw))
		if strings.HasPrefix(target, "..") {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// deriveTitle returns the metadata "name" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(meta *models.Metadata, body string) string {
	if meta != nil && meta.Name != "" {
		return meta.Name
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
