package mcpserver

// AuthoringContract describes the canonical format for corpus documents
// and skill packages. Assistants should read it before writing content.
const AuthoringContract = `# Ansuz Authoring Contract

Every document in the corpus is Markdown, optionally prefixed with a YAML
metadata block. Skill packages additionally follow a fixed directory layout.

## Instruction documents

` + "```" + `markdown
---
name: short-kebab-case-name        # lowercase letters, digits, hyphens; max 64 chars
description: One or two sentences. # required for skills; max 1024 chars
applyTo: "**/*.ts"                 # OPTIONAL - glob string or YAML list of globs
license: MIT                       # OPTIONAL
---

Body text in standard Markdown.
` + "```" + `

## Skill packages

A skill is a directory whose top-level ` + "`" + `SKILL.md` + "`" + ` is required:

` + "```" + `
skill-name/
  SKILL.md          # required; its metadata name should match the directory
  references/       # optional supporting documents
  scripts/          # optional executable helpers
` + "```" + `

## Rules

1. The metadata block, when present, must be the first thing in the file,
   delimited by ` + "`" + `---` + "`" + ` lines.
2. ` + "`" + `name` + "`" + ` is lowercase kebab-case: ` + "`" + `^[a-z0-9]+(-[a-z0-9]+)*$` + "`" + `, at most 64 characters.
3. ` + "`" + `description` + "`" + ` is required for skills, non-empty, at most 1024 characters.
4. ` + "`" + `applyTo` + "`" + ` accepts a single glob string or a list; every glob must compile
   (doublestar syntax, e.g. ` + "`" + `**/*.py` + "`" + `).
5. Reference other corpus documents with relative Markdown links ending in
   ` + "`" + `.md` + "`" + `: ` + "`" + `[setup](../guides/setup.md)` + "`" + `. Links are resolved against the
   document's own directory and must stay inside the corpus.
6. File paths use forward slashes and UTF-8 encoding with a trailing newline.
7. Skill subdirectories other than ` + "`" + `references/` + "`" + ` and ` + "`" + `scripts/` + "`" + ` are
   discouraged and flagged by validation.

## Example skill

` + "```" + `markdown
---
name: code-review
description: Review a diff for correctness, style, and missing tests.
applyTo:
  - "**/*.go"
  - "**/*.ts"
---

# Code Review

Work through [the checklist](references/checklist.md), then run
` + "`" + `scripts/lint.sh` + "`" + ` before approving.
` + "```" + `
`
