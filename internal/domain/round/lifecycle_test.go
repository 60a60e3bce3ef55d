package round

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func sampleScores(strokes ...int) []HoleScore {
	out := make([]HoleScore, len(strokes))
	for i, s := range strokes {
		out[i] = HoleScore{HoleNumber: i + 1, Strokes: s}
	}
	return out
}

func TestNewDeclared(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 3, 18, 0, 0, 0, time.UTC)
	r := NewDeclared("user-alex", 1, now)

	if r.ID != "round-user-alex-1" {
		t.Fatalf("unexpected id: %s", r.ID)
	}
	if !r.Declared || r.Submitted || r.Locked {
		t.Fatalf("unexpected flags: %+v", r)
	}
	if !r.DeclaredAt.Equal(now) {
		t.Fatalf("unexpected declaredAt: %v", r.DeclaredAt)
	}
	if len(r.HoleScores) != HolesPerRound {
		t.Fatalf("expected %d placeholder holes, got %d", HolesPerRound, len(r.HoleScores))
	}
	for i, s := range r.HoleScores {
		if s.HoleNumber != i+1 || s.Strokes != 0 {
			t.Fatalf("unexpected placeholder at %d: %+v", i, s)
		}
	}
	if r.TotalScore != 0 {
		t.Fatalf("expected zero total, got %d", r.TotalScore)
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 3, 18, 0, 0, 0, time.UTC)
	declared := NewDeclared("user-alex", 1, now)
	submitAt := now.Add(2 * time.Hour)

	got, err := Submit(declared, sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5), "https://example.com/card.jpg", submitAt)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if got.TotalScore != 39 {
		t.Fatalf("unexpected total: %d", got.TotalScore)
	}
	if !got.Submitted || !got.Locked {
		t.Fatalf("submit must lock the round: %+v", got)
	}
	if !got.SubmittedAt.Equal(submitAt) {
		t.Fatalf("unexpected submittedAt: %v", got.SubmittedAt)
	}
	if !got.DeclaredAt.Equal(now) {
		t.Fatalf("declaredAt must be preserved: %v", got.DeclaredAt)
	}
	if got.PhotoURL != "https://example.com/card.jpg" {
		t.Fatalf("unexpected photo url: %s", got.PhotoURL)
	}
}

func TestSubmit_Guards(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	declared := NewDeclared("user-alex", 1, now)
	valid := sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5)

	t.Run("not declared", func(t *testing.T) {
		t.Parallel()
		_, err := Submit(WeeklyRound{}, valid, "", now)
		if !errors.Is(err, ErrNotDeclared) {
			t.Fatalf("expected ErrNotDeclared, got %v", err)
		}
	})

	t.Run("already submitted", func(t *testing.T) {
		t.Parallel()
		submitted, err := Submit(declared, valid, "", now)
		if err != nil {
			t.Fatalf("Submit error: %v", err)
		}
		_, err = Submit(submitted, valid, "", now)
		if !errors.Is(err, ErrAlreadySubmitted) {
			t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
		}
	})

	t.Run("zero stroke rejected", func(t *testing.T) {
		t.Parallel()
		_, err := Submit(declared, sampleScores(4, 0, 3, 4, 5, 4, 6, 3, 5), "", now)
		if !errors.Is(err, ErrInvalidScorecard) {
			t.Fatalf("expected ErrInvalidScorecard, got %v", err)
		}
	})

	t.Run("too few holes", func(t *testing.T) {
		t.Parallel()
		_, err := Submit(declared, sampleScores(4, 5, 3), "", now)
		if !errors.Is(err, ErrInvalidScorecard) {
			t.Fatalf("expected ErrInvalidScorecard, got %v", err)
		}
	})

	t.Run("hole out of sequence", func(t *testing.T) {
		t.Parallel()
		scores := sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5)
		scores[8].HoleNumber = 3
		_, err := Submit(declared, scores, "", now)
		if !errors.Is(err, ErrInvalidScorecard) {
			t.Fatalf("expected ErrInvalidScorecard, got %v", err)
		}
	})

	t.Run("strokes above cap", func(t *testing.T) {
		t.Parallel()
		_, err := Submit(declared, sampleScores(21, 5, 3, 4, 5, 4, 6, 3, 5), "", now)
		if !errors.Is(err, ErrInvalidScorecard) {
			t.Fatalf("expected ErrInvalidScorecard, got %v", err)
		}
	})

	t.Run("all max strokes accepted", func(t *testing.T) {
		t.Parallel()
		got, err := Submit(declared, sampleScores(20, 20, 20, 20, 20, 20, 20, 20, 20), "", now)
		if err != nil {
			t.Fatalf("Submit error: %v", err)
		}
		if got.TotalScore != 180 {
			t.Fatalf("unexpected total: %d", got.TotalScore)
		}
	})
}

func TestEdit(t *testing.T) {
	t.Parallel()

	declaredAt := time.Date(2026, 5, 3, 18, 0, 0, 0, time.UTC)
	submittedAt := declaredAt.Add(time.Hour)
	submitted, err := Submit(NewDeclared("user-alex", 1, declaredAt), sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5), "photo", submittedAt)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	edited, err := Edit(submitted, sampleScores(4, 4, 4, 4, 4, 4, 4, 4, 4))
	if err != nil {
		t.Fatalf("Edit error: %v", err)
	}

	if edited.TotalScore != 36 {
		t.Fatalf("unexpected total after edit: %d", edited.TotalScore)
	}
	if !edited.Submitted || !edited.Locked {
		t.Fatalf("edit must not reopen submission: %+v", edited)
	}
	if !edited.SubmittedAt.Equal(submittedAt) || !edited.DeclaredAt.Equal(declaredAt) {
		t.Fatalf("edit must not touch timestamps: %+v", edited)
	}
	if edited.PhotoURL != "photo" {
		t.Fatalf("edit must not touch photo url: %s", edited.PhotoURL)
	}
}

func TestEdit_ZeroStrokesPermitted(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	submitted, err := Submit(NewDeclared("user-alex", 1, now), sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5), "", now)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	edited, err := Edit(submitted, sampleScores(0, 5, 3, 4, 5, 4, 6, 3, 5))
	if err != nil {
		t.Fatalf("Edit error: %v", err)
	}
	if edited.TotalScore != 30 {
		t.Fatalf("unexpected total: %d", edited.TotalScore)
	}
}

func TestEdit_SameScoresKeepsTotal(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	scores := sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5)
	submitted, err := Submit(NewDeclared("user-alex", 1, now), scores, "", now)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	edited, err := Edit(submitted, scores)
	if err != nil {
		t.Fatalf("Edit error: %v", err)
	}
	if edited.TotalScore != submitted.TotalScore {
		t.Fatalf("total changed on identical edit: %d != %d", edited.TotalScore, submitted.TotalScore)
	}
}

func TestEdit_RequiresSubmission(t *testing.T) {
	t.Parallel()

	declared := NewDeclared("user-alex", 1, time.Now().UTC())
	_, err := Edit(declared, sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5))
	if !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
}

func TestLock(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	submitted, err := Submit(NewDeclared("user-alex", 1, now), sampleScores(4, 5, 3, 4, 5, 4, 6, 3, 5), "", now)
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	locked, err := Lock(submitted)
	if err != nil {
		t.Fatalf("Lock error: %v", err)
	}
	again, err := Lock(locked)
	if err != nil {
		t.Fatalf("Lock error on relock: %v", err)
	}
	if !reflect.DeepEqual(again, locked) {
		t.Fatalf("relock must be a no-op: %+v != %+v", again, locked)
	}

	if _, err := Lock(NewDeclared("user-alex", 2, now)); !errors.Is(err, ErrNotSubmitted) {
		t.Fatalf("expected ErrNotSubmitted, got %v", err)
	}
}
