package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/docservice"
	"github.com/starford/ansuz/internal/testutil"
)

const skillDoc = `---
name: release-checklist
description: Walks through the steps for cutting a release.
---
# Release Checklist

See [setup](../../guides/setup.md).
`

func newTestServer(t *testing.T) (*httptest.Server, *docservice.Service) {
	t.Helper()
	db := testutil.TestDB(t)
	_, store := testutil.TestCorpus(t)
	svc := docservice.NewService(store, db)
	srv := httptest.NewServer(NewRouter(svc, false, "", nil))
	t.Cleanup(srv.Close)
	return srv, svc
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDocumentLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", CreateDocumentRequest{
		Path:    "skills/release-checklist/SKILL.md",
		Content: skillDoc,
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	created := decode[DocumentDetail](t, resp)
	if created.Kind != "skill" {
		t.Errorf("kind = %q, want skill", created.Kind)
	}
	if created.Checksum == "" {
		t.Error("expected checksum")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/documents/skills/release-checklist/SKILL.md", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d", resp.StatusCode)
	}
	got := decode[DocumentDetail](t, resp)
	if got.Meta == nil || got.Meta.Name != "release-checklist" {
		t.Errorf("meta name missing: %+v", got.Meta)
	}

	// Update with correct If-Match.
	resp = doJSON(t, http.MethodPut, srv.URL+"/documents/skills/release-checklist/SKILL.md",
		UpdateDocumentRequest{Content: skillDoc + "\nMore.\n"},
		map[string]string{"If-Match": created.Checksum})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}

	// Stale checksum is rejected.
	resp = doJSON(t, http.MethodPut, srv.URL+"/documents/skills/release-checklist/SKILL.md",
		UpdateDocumentRequest{Content: "replaced"},
		map[string]string{"If-Match": created.Checksum})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("stale update status = %d, want 409", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/documents/skills/release-checklist/SKILL.md", nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/documents/skills/release-checklist/SKILL.md", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", resp.StatusCode)
	}
}

func TestCreateDuplicateConflicts(t *testing.T) {
	srv, _ := newTestServer(t)

	req := CreateDocumentRequest{Path: "guides/setup.md", Content: "# Setup\n"}
	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", req, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodPost, srv.URL+"/documents", req, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate create status = %d, want 409", resp.StatusCode)
	}
}

func TestListAndSkills(t *testing.T) {
	srv, _ := newTestServer(t)

	docs := map[string]string{
		"guides/setup.md":                   "# Setup\n",
		"skills/release-checklist/SKILL.md": skillDoc,
		"skills/code-review/SKILL.md":       "---\nname: code-review\ndescription: Reviews diffs.\n---\n# Code Review\n",
	}
	for p, c := range docs {
		resp := doJSON(t, http.MethodPost, srv.URL+"/documents", CreateDocumentRequest{Path: p, Content: c}, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %s status = %d", p, resp.StatusCode)
		}
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/documents?kind=skill", nil, nil)
	list := decode[DocumentListResponse](t, resp)
	if list.Total != 2 {
		t.Errorf("skill total = %d, want 2", list.Total)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/skills", nil, nil)
	skills := decode[SkillListResponse](t, resp)
	if len(skills.Skills) != 2 {
		t.Fatalf("skills = %d, want 2", len(skills.Skills))
	}
	// ListSkills orders by name.
	if skills.Skills[0].Name != "code-review" {
		t.Errorf("first skill = %q", skills.Skills[0].Name)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/skills/release-checklist", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get skill status = %d", resp.StatusCode)
	}
	detail := decode[SkillDetailResponse](t, resp)
	if detail.Skill.Dir != "skills/release-checklist" {
		t.Errorf("skill dir = %q", detail.Skill.Dir)
	}
	if !strings.Contains(detail.Document.Content, "Release Checklist") {
		t.Error("skill document content missing")
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/skills/nope", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown skill status = %d", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/documents", CreateDocumentRequest{
		Path:    "guides/deploy.md",
		Content: "# Deploying\n\nBlue-green deployment notes.\n",
	}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/search?q=deployment", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
	results := decode[SearchResponse](t, resp)
	if len(results.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(results.Results))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/search", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing query status = %d, want 400", resp.StatusCode)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	// Inline content with a missing description.
	resp := doJSON(t, http.MethodPost, srv.URL+"/validate", ValidateRequest{
		Content: "---\nname: broken\n---\n# Broken\n",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("validate status = %d", resp.StatusCode)
	}
	rep := decode[ValidateResponse](t, resp)
	if rep.Ok {
		t.Error("expected validation failure")
	}
	if len(rep.Findings) == 0 {
		t.Error("expected findings")
	}

	// Whole-corpus validation of an empty corpus is clean.
	resp = doJSON(t, http.MethodPost, srv.URL+"/validate", ValidateRequest{}, nil)
	rep = decode[ValidateResponse](t, resp)
	if !rep.Ok {
		t.Errorf("empty corpus not ok: %+v", rep.Findings)
	}
}

func TestRefGraphEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/documents", CreateDocumentRequest{
		Path:    "guides/setup.md",
		Content: "# Setup\n",
	}, nil)
	doJSON(t, http.MethodPost, srv.URL+"/documents", CreateDocumentRequest{
		Path:    "guides/deploy.md",
		Content: "# Deploy\n\nFirst do [setup](setup.md).\n",
	}, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/refs", nil, nil)
	graph := decode[RefGraphResponse](t, resp)
	if len(graph.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(graph.Nodes))
	}
	if len(graph.Refs) != 1 {
		t.Fatalf("refs = %d, want 1", len(graph.Refs))
	}
	if graph.Refs[0].Target != "guides/setup.md" {
		t.Errorf("ref target = %q", graph.Refs[0].Target)
	}
}

func TestAuthMiddleware(t *testing.T) {
	db := testutil.TestDB(t)
	_, store := testutil.TestCorpus(t)
	svc := docservice.NewService(store, db)
	srv := httptest.NewServer(NewRouter(svc, true, "sekrit", nil))
	t.Cleanup(srv.Close)

	resp := doJSON(t, http.MethodGet, srv.URL+"/documents", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/documents", nil, map[string]string{
		"Authorization": "Bearer wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d, want 401", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/documents", nil, map[string]string{
		"Authorization": "Bearer sekrit",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", resp.StatusCode)
	}
}
