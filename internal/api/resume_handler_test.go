package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func resumeFields() map[string][]string {
	return map[string][]string{
		"name":       {"Ada Lovelace"},
		"title":      {"Engineer"},
		"phoneNo":    {"+1 555 123 4567"},
		"email":      {"ada@example.com"},
		"experience": {"10 years of systems work"},
	}
}

type resumeBody struct {
	ID       uint `json:"id"`
	Document *struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	} `json:"document"`
	Image *struct {
		URL      string `json:"url"`
		PublicID string `json:"publicId"`
	} `json:"image"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func createTestResume(t *testing.T, s *testServer) resumeBody {
	t.Helper()
	rec, env := s.doForm(t, http.MethodPost, "/api/resume", resumeFields(), map[string]string{
		"document": "resume.pdf",
		"image":    "photo.png",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create resume: status %d body %s", rec.Code, rec.Body.String())
	}

	var body resumeBody
	if err := json.Unmarshal(env.Data, &body); err != nil {
		t.Fatalf("decode resume: %v", err)
	}
	return body
}

func TestCreateResumeStoresBothAssets(t *testing.T) {
	s := newTestServer(t)

	resume := createTestResume(t, s)
	if resume.Document == nil || resume.Image == nil {
		t.Fatalf("expected both asset refs: %+v", resume)
	}
	if !strings.HasPrefix(resume.Document.PublicID, "resumes/documents/") {
		t.Fatalf("document stored under wrong folder: %q", resume.Document.PublicID)
	}
	if !strings.HasPrefix(resume.Image.PublicID, "resumes/images/") {
		t.Fatalf("photo stored under wrong folder: %q", resume.Image.PublicID)
	}
	if s.store.count() != 2 {
		t.Fatalf("expected 2 stored objects, got %d", s.store.count())
	}
}

func TestCreateResumeCompensatesOnFailedInsert(t *testing.T) {
	s := newTestServer(t)

	fields := resumeFields()
	fields["phoneNo"] = []string{"not a number"}
	rec, env := s.doForm(t, http.MethodPost, "/api/resume", fields, map[string]string{
		"document": "resume.pdf",
		"image":    "photo.png",
	})
	if rec.Code != http.StatusBadRequest || env.Success {
		t.Fatalf("expected 400 failure, got %d body %s", rec.Code, rec.Body.String())
	}
	if s.store.count() != 0 {
		t.Fatalf("uploads must be destroyed after a failed insert, %d left", s.store.count())
	}
}

func TestUpdateResumeReplacesDocumentOnly(t *testing.T) {
	s := newTestServer(t)
	created := createTestResume(t, s)

	rec, env := s.doForm(t, http.MethodPut, "/api/resume/1", nil, map[string]string{
		"document": "updated.pdf",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", rec.Code, rec.Body.String())
	}

	var updated resumeBody
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode resume: %v", err)
	}
	if updated.Document == nil || updated.Document.PublicID == created.Document.PublicID {
		t.Fatalf("expected a new document ref, got %+v", updated.Document)
	}
	if s.store.has(created.Document.PublicID) {
		t.Fatalf("old document %q must be destroyed", created.Document.PublicID)
	}
	if updated.Image == nil || updated.Image.PublicID != created.Image.PublicID {
		t.Fatalf("photo must be untouched: %+v", updated.Image)
	}
}

func TestUpdateResumePersistFailureKeepsOldAssets(t *testing.T) {
	s := newTestServer(t)
	created := createTestResume(t, s)

	rec, _ := s.doForm(t, http.MethodPut, "/api/resume/999", nil, map[string]string{
		"document": "updated.pdf",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", rec.Code, rec.Body.String())
	}
	if !s.store.has(created.Document.PublicID) || !s.store.has(created.Image.PublicID) {
		t.Fatal("existing assets must survive a failed update")
	}
	if s.store.count() != 2 {
		t.Fatalf("stray upload left behind, store has %d objects", s.store.count())
	}
}

func TestDeleteResumeDestroysBothAssets(t *testing.T) {
	s := newTestServer(t)
	createTestResume(t, s)

	rec, env := s.doJSON(t, http.MethodDelete, "/api/resume/1", nil, true)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("delete: status %d body %s", rec.Code, rec.Body.String())
	}
	if s.store.count() != 0 {
		t.Fatalf("expected empty store, got %d objects", s.store.count())
	}

	rec, _ = s.doJSON(t, http.MethodGet, "/api/resume/1", nil, false)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("record must be gone, got %d", rec.Code)
	}
}

func TestDeleteResumeAbortsWhenAssetMissing(t *testing.T) {
	s := newTestServer(t)
	created := createTestResume(t, s)

	s.store.remove(created.Document.PublicID)

	rec, env := s.doJSON(t, http.MethodDelete, "/api/resume/1", nil, true)
	if rec.Code != http.StatusInternalServerError || env.Success {
		t.Fatalf("expected 500 failure, got %d body %s", rec.Code, rec.Body.String())
	}

	rec, _ = s.doJSON(t, http.MethodGet, "/api/resume/1", nil, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("record must survive a failed destroy, got %d", rec.Code)
	}
	if !s.store.has(created.Image.PublicID) {
		t.Fatal("photo destroyed despite aborted delete chain")
	}
}

func TestDeleteResourcesOrphanCleanup(t *testing.T) {
	s := newTestServer(t)

	ref, err := s.store.Upload(context.Background(), "resumes/documents", ".pdf", strings.NewReader("orphan"), 6, "application/pdf")
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rec, env := s.doJSON(t, http.MethodDelete, "/api/assets/"+ref.PublicID, nil, true)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("cleanup: status %d body %s", rec.Code, rec.Body.String())
	}
	if s.store.has(ref.PublicID) {
		t.Fatalf("object %q must be destroyed", ref.PublicID)
	}

	rec, env = s.doJSON(t, http.MethodDelete, "/api/assets/"+ref.PublicID, nil, true)
	if rec.Code != http.StatusNotFound || env.Message != "Resource not found" {
		t.Fatalf("expected 404 'Resource not found', got %d body %s", rec.Code, rec.Body.String())
	}
}
