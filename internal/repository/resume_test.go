package repository

import (
	"context"
	"testing"

	"devfolio/internal/apperr"
)

func validResumeInput() ResumeInput {
	return ResumeInput{
		Name:       "Ada Lovelace",
		Title:      "Engineer",
		PhoneNo:    "+1 (555) 123-4567",
		Email:      "ada@example.com",
		Experience: "10 years",
	}
}

func TestResumeCreateRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewResumeRepository(newTestDB(t))

	created, err := repo.Create(ctx, validResumeInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected assigned identifier")
	}

	loaded, err := repo.GetByID(ctx, "1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != created.Name || loaded.PhoneNo != created.PhoneNo || loaded.Email != created.Email {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
	if loaded.Document.Present() || loaded.Image.Present() {
		t.Fatalf("expected no asset refs: %+v", loaded)
	}
}

func TestResumePhoneValidation(t *testing.T) {
	ctx := context.Background()
	repo := NewResumeRepository(newTestDB(t))

	cases := []string{"12345", "call me", "555-abc-1234"}
	for _, phone := range cases {
		input := validResumeInput()
		input.PhoneNo = phone
		if _, err := repo.Create(ctx, input); !apperr.IsValidation(err) {
			t.Errorf("phone %q: expected validation error, got %v", phone, err)
		}
	}
}

func TestResumePartialUpdateRevalidates(t *testing.T) {
	ctx := context.Background()
	repo := NewResumeRepository(newTestDB(t))

	if _, err := repo.Create(ctx, validResumeInput()); err != nil {
		t.Fatalf("create: %v", err)
	}

	bad := "nope"
	if _, err := repo.Update(ctx, "1", ResumePatch{Email: &bad}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	good := "new@example.com"
	updated, err := repo.Update(ctx, "1", ResumePatch{Email: &good})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Email != "new@example.com" {
		t.Fatalf("email not updated: %q", updated.Email)
	}
	if updated.Name != "Ada Lovelace" {
		t.Fatalf("untouched field changed: %q", updated.Name)
	}
}
