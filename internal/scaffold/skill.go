// Package scaffold creates new skill package directories.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var nameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

const skillTemplate = `---
name: %s
description: TODO describe what this skill does and when to use it.
---

# %s

## Overview

Explain the workflow this skill covers.

## Usage

Describe the steps an assistant should follow. Link supporting material
from [references/](references/) and helper scripts from [scripts/](scripts/).
`

const scriptStub = `#!/usr/bin/env bash
set -euo pipefail

# Helper script for the %s skill.
echo "not implemented" >&2
exit 1
`

// Skill creates a new skill package at dir: SKILL.md with a metadata stub,
// plus empty references/ and scripts/ directories and an executable script
// stub. It refuses to touch a directory that already contains a SKILL.md.
func Skill(dir string) error {
	name := filepath.Base(filepath.Clean(dir))
	if !nameRe.MatchString(name) {
		return fmt.Errorf("scaffold: directory name %q must be lowercase kebab-case", name)
	}

	skillFile := filepath.Join(dir, "SKILL.md")
	if _, err := os.Stat(skillFile); err == nil {
		return fmt.Errorf("scaffold: %s already exists", skillFile)
	}

	for _, sub := range []string{dir, filepath.Join(dir, "references"), filepath.Join(dir, "scripts")} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return fmt.Errorf("scaffold: mkdir %s: %w", sub, err)
		}
	}

	content := fmt.Sprintf(skillTemplate, name, titleCase(name))
	if err := os.WriteFile(skillFile, []byte(content), 0o644); err != nil {
		return fmt.Errorf("scaffold: write SKILL.md: %w", err)
	}

	stub := filepath.Join(dir, "scripts", "example.sh")
	if err := os.WriteFile(stub, []byte(fmt.Sprintf(scriptStub, name)), 0o755); err != nil {
		return fmt.Errorf("scaffold: write script stub: %w", err)
	}
	return nil
}

// titleCase turns "release-checklist" into "Release Checklist".
func titleCase(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
