package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"compass/internal/domain"
)

func newChildServiceFixture() (*ChildService, *mockChildRepo) {
	families := newMockFamilyRepo(
		domain.Family{ID: "family-1", OwnerID: "user-1"},
		domain.Family{ID: "family-2", OwnerID: "user-2"},
	)
	children := newMockChildRepo()
	svc := NewChildService(zap.NewNop(), children, families)
	svc.now = func() time.Time { return fixedNow }
	return svc, children
}

func TestChildService_CreateValidation(t *testing.T) {
	birth := time.Date(2018, time.May, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		owner   string
		input   CreateChildInput
		wantErr error
	}{
		{name: "valid", owner: "user-1", input: CreateChildInput{Name: " Leo ", BirthDate: birth, PrimaryGoal: domain.GoalSTEMLearning}},
		{name: "missing name", owner: "user-1", input: CreateChildInput{Name: "  ", BirthDate: birth}, wantErr: ErrInvalidChild},
		{name: "missing birth date", owner: "user-1", input: CreateChildInput{Name: "Leo"}, wantErr: ErrInvalidChild},
		{name: "future birth date", owner: "user-1", input: CreateChildInput{Name: "Leo", BirthDate: fixedNow.AddDate(0, 1, 0)}, wantErr: ErrInvalidChild},
		{name: "too old", owner: "user-1", input: CreateChildInput{Name: "Leo", BirthDate: fixedNow.AddDate(-19, 0, 0)}, wantErr: ErrInvalidChild},
		{
			name:    "bad temperament value",
			owner:   "user-1",
			input:   CreateChildInput{Name: "Leo", BirthDate: birth, Temperament: &domain.Temperament{IntensityPreference: "extreme"}},
			wantErr: ErrInvalidChild,
		},
		{
			name:  "bad schedule window",
			owner: "user-1",
			input: CreateChildInput{Name: "Leo", BirthDate: birth, Constraints: &domain.Constraints{
				ScheduleWindows: []domain.ScheduleWindow{{Day: "funday", Start: "09:00", End: "10:00"}},
			}},
			wantErr: ErrInvalidChild,
		},
		{name: "no family", owner: "user-9", input: CreateChildInput{Name: "Leo", BirthDate: birth}, wantErr: ErrFamilyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newChildServiceFixture()
			child, err := svc.Create(context.Background(), tt.owner, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if child.ID == "" || child.FamilyID != "family-1" || child.Name != "Leo" {
				t.Fatalf("unexpected child %+v", child)
			}
		})
	}
}

func TestChildService_GetIsScopedToOwner(t *testing.T) {
	svc, _ := newChildServiceFixture()
	child, err := svc.Create(context.Background(), "user-1", CreateChildInput{Name: "Ava", BirthDate: time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), "user-1", child.ID)
	if err != nil || got.ID != child.ID {
		t.Fatalf("expected own child, got %+v err=%v", got, err)
	}
	if _, err := svc.Get(context.Background(), "user-2", child.ID); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound for other owner, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-1", "missing"); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestChildService_ListForOwner(t *testing.T) {
	svc, _ := newChildServiceFixture()
	for _, name := range []string{"Ava", "Ben"} {
		if _, err := svc.Create(context.Background(), "user-1", CreateChildInput{Name: name, BirthDate: time.Date(2016, time.July, 4, 0, 0, 0, 0, time.UTC)}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	list, err := svc.ListForOwner(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 children, got %d", len(list))
	}
	other, err := svc.ListForOwner(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no children for other family, got %d", len(other))
	}
}

func TestChildService_Update(t *testing.T) {
	svc, _ := newChildServiceFixture()
	child, err := svc.Create(context.Background(), "user-1", CreateChildInput{
		Name:        "Ava",
		BirthDate:   time.Date(2017, time.January, 1, 0, 0, 0, 0, time.UTC),
		PrimaryGoal: domain.GoalSTEMLearning,
		Notes:       "likes lego",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name, goal := " Ava Rose ", domain.GoalLeadership
	updated, err := svc.Update(context.Background(), "user-1", child.ID, UpdateChildInput{
		Name:        &name,
		PrimaryGoal: &goal,
		Temperament: &domain.Temperament{SocialPreference: "team"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ava Rose" || updated.PrimaryGoal != domain.GoalLeadership || updated.Notes != "likes lego" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected updated_at %v, got %v", fixedNow, updated.UpdatedAt)
	}
	stored, err := svc.Get(context.Background(), "user-1", child.ID)
	if err != nil || stored.Temperament == nil || stored.Temperament.SocialPreference != "team" {
		t.Fatalf("expected stored temperament, got %+v err=%v", stored.Temperament, err)
	}

	blank := "  "
	future := fixedNow.AddDate(0, 0, 1)
	badIntensity := &domain.Temperament{IntensityPreference: "extreme"}
	invalid := []UpdateChildInput{
		{Name: &blank},
		{BirthDate: &future},
		{Temperament: badIntensity},
	}
	for i, in := range invalid {
		if _, err := svc.Update(context.Background(), "user-1", child.ID, in); !errors.Is(err, ErrInvalidChild) {
			t.Fatalf("case %d: expected ErrInvalidChild, got %v", i, err)
		}
	}
	if _, err := svc.Update(context.Background(), "user-2", child.ID, UpdateChildInput{Name: &name}); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound for other owner, got %v", err)
	}
}

func TestChildService_DeleteIsSoftAndScoped(t *testing.T) {
	svc, repo := newChildServiceFixture()
	child, err := svc.Create(context.Background(), "user-1", CreateChildInput{Name: "Ben", BirthDate: time.Date(2016, time.July, 4, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), "user-2", child.ID); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound for other owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", child.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if at, ok := repo.deleted[child.ID]; !ok || !at.Equal(fixedNow) {
		t.Fatalf("expected soft delete at %v, got %v", fixedNow, at)
	}
	if _, ok := repo.byID[child.ID]; !ok {
		t.Fatalf("expected row to be kept")
	}
	if _, err := svc.Get(context.Background(), "user-1", child.ID); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected deleted child to be hidden, got %v", err)
	}
	list, err := svc.ListForOwner(context.Background(), "user-1")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d err=%v", len(list), err)
	}
	if err := svc.Delete(context.Background(), "user-1", child.ID); !errors.Is(err, ErrChildNotFound) {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}

func TestChildService_MalformedIDIsNotFound(t *testing.T) {
	svc, _ := newChildServiceFixture()
	for _, id := range []string{"abc", "1234", "{3b8f1f5e-2f0a-4c8e-9a57-6f2d1c0b7a10}"} {
		if _, err := svc.Get(context.Background(), "user-1", id); !errors.Is(err, ErrChildNotFound) {
			t.Fatalf("id %q: expected ErrChildNotFound, got %v", id, err)
		}
		if err := svc.Delete(context.Background(), "user-1", id); !errors.Is(err, ErrChildNotFound) {
			t.Fatalf("id %q: expected ErrChildNotFound on delete, got %v", id, err)
		}
	}
}
