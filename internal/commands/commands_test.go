package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

// testApp builds a root command wired like the real binary, with output
// captured and a config pointing at temp corpus and index paths.
func testApp(t *testing.T) (*cli.Command, *bytes.Buffer, string) {
	t.Helper()
	corpusDir := t.TempDir()
	dbPath := filepath.Join(t.TempDir(), "index.db")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configYAML := fmt.Sprintf("corpus:\n  path: %s\nsqlite:\n  path: %s\napp:\n  http:\n    port: 8080\n", corpusDir, dbPath)
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	root := &cli.Command{
		Name:   "ansuz",
		Writer: &buf,
		// Keep cli.Exit errors as plain errors instead of calling os.Exit.
		ExitErrHandler: func(ctx context.Context, cmd *cli.Command, err error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: configPath},
		},
		Commands: []*cli.Command{
			Init(),
			Validate(),
			Pack(),
			List(),
			Search(),
		},
	}
	return root, &buf, corpusDir
}

func TestInitThenValidate(t *testing.T) {
	root, buf, corpusDir := testApp(t)
	ctx := context.Background()

	skillDir := filepath.Join(corpusDir, "skills", "release-checklist")
	if err := root.Run(ctx, []string{"ansuz", "init", skillDir}); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(buf.String(), "created skill package") {
		t.Errorf("init output = %q", buf.String())
	}

	// The scaffolded SKILL.md carries a placeholder description, so
	// validation passes with no errors.
	buf.Reset()
	if err := root.Run(ctx, []string{"ansuz", "validate", "skills/release-checklist"}); err != nil {
		t.Fatalf("validate: %v\n%s", err, buf.String())
	}
}

func TestValidateFailsOnBrokenSkill(t *testing.T) {
	root, buf, corpusDir := testApp(t)
	ctx := context.Background()

	dir := filepath.Join(corpusDir, "skills", "broken")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte("---\nname: Broken Name\n---\n# Broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := root.Run(ctx, []string{"ansuz", "validate", "skills/broken"})
	if err == nil {
		t.Fatal("expected non-nil error for invalid skill")
	}
	if !strings.Contains(buf.String(), "error:") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPackCommand(t *testing.T) {
	root, buf, corpusDir := testApp(t)
	ctx := context.Background()

	dir := filepath.Join(corpusDir, "skills", "deploy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	skill := "---\nname: deploy\ndescription: Walks through a deployment.\n---\n# Deploy\n"
	if err := os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(skill), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "deploy.zip")
	if err := root.Run(ctx, []string{"ansuz", "pack", "-o", out, "skills/deploy"}); err != nil {
		t.Fatalf("pack: %v\n%s", err, buf.String())
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("zip not written: %v", err)
	}
	if !strings.Contains(buf.String(), "packed 1 file(s)") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestListAndSearchCommands(t *testing.T) {
	root, buf, corpusDir := testApp(t)
	ctx := context.Background()

	doc := "---\nname: setup\ndescription: Project setup guide.\n---\n# Setup\n\nInstall dependencies first.\n"
	if err := os.MkdirAll(filepath.Join(corpusDir, "guides"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(corpusDir, "guides", "setup.md"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := root.Run(ctx, []string{"ansuz", "list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "guides/setup.md") {
		t.Errorf("list output = %q", buf.String())
	}

	buf.Reset()
	if err := root.Run(ctx, []string{"ansuz", "search", "dependencies"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(buf.String(), "guides/setup.md") {
		t.Errorf("search output = %q", buf.String())
	}
}
