package docservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/testutil"
)

const skillContent = "---\nname: review\ndescription: Review code.\nlicense: MIT\n---\n# Review\nSee [style](../../guides/style.md)\n"

func newService(t *testing.T) *Service {
	t.Helper()
	_, store := testutil.TestCorpus(t)
	db := testutil.TestDB(t)
	return NewService(store, db)
}

func TestCreateGetDocument(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.CreateDocument(ctx, "skills/review/SKILL.md", []byte(skillContent))
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if created.Kind != models.KindSkill {
		t.Errorf("kind = %q, want skill", created.Kind)
	}
	if created.Meta == nil || created.Meta.License != "MIT" {
		t.Errorf("meta = %+v", created.Meta)
	}
	if len(created.Refs) != 1 || created.Refs[0] != "guides/style.md" {
		t.Errorf("refs = %v", created.Refs)
	}

	got, err := svc.GetDocument(ctx, "skills/review/SKILL.md")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Checksum != created.Checksum {
		t.Error("checksum mismatch between create and get")
	}
}

func TestCreateDocument_AlreadyExists(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "a.md", []byte("# A\n"))

	_, err := svc.CreateDocument(ctx, "a.md", []byte("# A again\n"))
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	svc := newService(t)
	_, err := svc.GetDocument(context.Background(), "missing.md")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateDocument_ChecksumConflict(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	created, _ := svc.CreateDocument(ctx, "a.md", []byte("# A\n"))

	if _, err := svc.UpdateDocument(ctx, "a.md", []byte("# B\n"), "wrong-checksum"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}

	updated, err := svc.UpdateDocument(ctx, "a.md", []byte("# B\n"), created.Checksum)
	if err != nil {
		t.Fatalf("UpdateDocument with matching checksum: %v", err)
	}
	if updated.Title != "B" {
		t.Errorf("title = %q, want B", updated.Title)
	}
}

func TestDeleteDocument(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "a.md", []byte("# A\n"))

	if err := svc.DeleteDocument(ctx, "a.md"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := svc.GetDocument(ctx, "a.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
	if err := svc.DeleteDocument(ctx, "a.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestListDocumentsAndSkills(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "skills/review/SKILL.md", []byte(skillContent))
	_, _ = svc.CreateDocument(ctx, "guides/style.md", []byte("# Style\n"))

	items, total, err := svc.ListDocuments(ctx, 10, 0, "", "path")
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total = %d, items = %d", total, len(items))
	}

	skills, err := svc.ListSkills(ctx)
	if err != nil {
		t.Fatalf("ListSkills: %v", err)
	}
	if len(skills) != 1 || skills[0].Name != "review" {
		t.Fatalf("skills = %v", skills)
	}
	if skills[0].Dir != "skills/review" {
		t.Errorf("dir = %q", skills[0].Dir)
	}
}

func TestGetSkill(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "skills/review/SKILL.md", []byte(skillContent))

	skill, detail, err := svc.GetSkill(ctx, "review")
	if err != nil {
		t.Fatalf("GetSkill: %v", err)
	}
	if skill.License != "MIT" {
		t.Errorf("license = %q", skill.License)
	}
	if detail.Content != skillContent {
		t.Error("detail content mismatch")
	}

	if _, _, err := svc.GetSkill(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReferencingAfterUpdate(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "guides/style.md", []byte("# Style\n"))
	_, _ = svc.CreateDocument(ctx, "a.md", []byte("See [style](guides/style.md)\n"))

	refs, err := svc.Referencing(ctx, "guides/style.md")
	if err != nil {
		t.Fatalf("Referencing: %v", err)
	}
	if len(refs) != 1 || refs[0] != "a.md" {
		t.Fatalf("refs = %v", refs)
	}

	// Dropping the link must drop the edge.
	detail, _ := svc.GetDocument(ctx, "a.md")
	if _, err := svc.UpdateDocument(ctx, "a.md", []byte("no links\n"), detail.Checksum); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	refs, _ = svc.Referencing(ctx, "guides/style.md")
	if len(refs) != 0 {
		t.Errorf("stale refs = %v", refs)
	}
}

func TestValidateTargets(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, _ = svc.CreateDocument(ctx, "skills/review/SKILL.md", []byte(skillContent))
	_, _ = svc.CreateDocument(ctx, "guides/style.md", []byte("# Style\n"))

	// Whole corpus.
	r, err := svc.Validate(ctx, "")
	if err != nil {
		t.Fatalf("Validate corpus: %v", err)
	}
	if r.Checked != 2 {
		t.Errorf("checked = %d, want 2", r.Checked)
	}

	// Single document.
	r, err = svc.Validate(ctx, "guides/style.md")
	if err != nil {
		t.Fatalf("Validate document: %v", err)
	}
	if r.HasErrors() {
		t.Errorf("unexpected errors: %v", r.Findings)
	}

	// Skill directory.
	r, err = svc.Validate(ctx, "skills/review")
	if err != nil {
		t.Fatalf("Validate skill dir: %v", err)
	}
	if r.HasErrors() {
		t.Errorf("unexpected errors: %v", r.Findings)
	}

	// Missing directory reports the missing SKILL.md.
	r, err = svc.Validate(ctx, "skills/absent")
	if err != nil {
		t.Fatalf("Validate missing dir: %v", err)
	}
	if !r.HasErrors() {
		t.Error("expected errors for missing skill dir")
	}
}

func TestValidateContent(t *testing.T) {
	svc := newService(t)
	r := svc.ValidateContent(context.Background(), "SKILL.md", []byte("# no metadata\n"))
	if !r.HasErrors() {
		t.Error("expected metadata-required error")
	}
}
