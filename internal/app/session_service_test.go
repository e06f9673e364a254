package app_test

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/domain"
)

func TestCreateSessionSkipsForeignAndMissingQuestions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.putQuestion(t, domain.Question{ID: "q1", Type: domain.QuestionText, Title: "one", CreatedBy: "author"})
	f.putQuestion(t, domain.Question{ID: "q2", Type: domain.QuestionText, Title: "two", CreatedBy: "someone-else"})
	f.putQuestion(t, domain.Question{ID: "q3", Type: domain.QuestionText, Title: "three", CreatedBy: "author"})
	f.putQuestionnaire(t, domain.Questionnaire{ID: "qn", Title: "Mixed", QuestionIDs: []string{"q1", "q2", "gone", "q3"}, CreatedBy: "author"})

	id, err := f.sessionSvc.Create(ctx, "qn", "author")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	session, err := f.sessionSvc.Get(ctx, id, "author")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(session.Questions) != 2 || session.Questions[0].ID != "q1" || session.Questions[1].ID != "q3" {
		t.Fatalf("expected snapshot [q1 q3], got %+v", session.Questions)
	}
	if session.Status != domain.StatusWaiting || !session.IsOpen || len(session.Players) != 0 {
		t.Fatalf("unexpected initial session %+v", session)
	}
	if !session.StartedAt.Equal(fixedNow) {
		t.Fatalf("expected startedAt %v, got %v", fixedNow, session.StartedAt)
	}
	if got := f.events.types(); len(got) != 1 || got[0] != domain.EventSessionCreated {
		t.Fatalf("expected session.created event, got %v", got)
	}
}

func TestCreateSessionRequiresOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.putQuestionnaire(t, domain.Questionnaire{ID: "qn", Title: "Mine", CreatedBy: "author"})

	if _, err := f.sessionSvc.Create(ctx, "qn", "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.sessionSvc.Create(ctx, "missing", "author"); !errors.Is(err, domain.ErrQuestionnaireNotFound) {
		t.Fatalf("expected questionnaire not found, got %v", err)
	}
	if _, err := f.sessionSvc.Create(ctx, "qn", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSessionSnapshotIsDecoupledFromQuestionEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.runningSession(t)

	newTitle := "Edited"
	if err := f.questionSvc.Update(ctx, "q1", "author", questionTitlePatch(newTitle)); err != nil {
		t.Fatalf("update question: %v", err)
	}
	session, _ := f.sessionSvc.Get(ctx, id, "author")
	if session.Questions[0].Title != "Capital of France?" {
		t.Fatalf("snapshot changed after question edit: %q", session.Questions[0].Title)
	}
}

func TestStatusTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.runningSession(t)

	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusWaiting); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition back to WAITING, got %v", err)
	}
	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusRunning); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition RUNNING -> RUNNING, got %v", err)
	}
	if err := f.sessionSvc.UpdateStatus(ctx, id, "intruder", domain.StatusFinished); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.SessionStatus("PAUSED")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown status, got %v", err)
	}

	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusFinished); err != nil {
		t.Fatalf("finish: %v", err)
	}
	session, _ := f.sessionSvc.Get(ctx, id, "author")
	if session.IsOpen || session.EndedAt == nil || !session.EndedAt.Equal(fixedNow) {
		t.Fatalf("expected finished session closed with endedAt, got %+v", session)
	}
}

func TestReopenFinishedSessionRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.runningSession(t)
	_ = f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusFinished)

	if err := f.sessionSvc.SetOpen(ctx, id, "author", true); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	session, _ := f.sessionSvc.Get(ctx, id, "author")
	if session.IsOpen {
		t.Fatalf("finished session reopened")
	}
	if err := f.sessionSvc.SetOpen(ctx, id, "author", false); err != nil {
		t.Fatalf("closing a finished session should be a no-op, got %v", err)
	}
}

func TestRefreshAndDeleteOnlyWhileWaiting(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.putQuestion(t, domain.Question{ID: "q1", Type: domain.QuestionText, Title: "one", CreatedBy: "author"})
	f.putQuestionnaire(t, domain.Questionnaire{ID: "qn", Title: "Quiz", QuestionIDs: []string{"q1"}, CreatedBy: "author"})

	id, err := f.sessionSvc.Create(ctx, "qn", "author")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	f.putQuestion(t, domain.Question{ID: "q2", Type: domain.QuestionText, Title: "two", CreatedBy: "author"})
	ids := []string{"q1", "q2"}
	if err := f.questionnaireSvc.Update(ctx, "qn", "author", questionnaireIDsPatch(ids)); err != nil {
		t.Fatalf("update questionnaire: %v", err)
	}
	count, err := f.sessionSvc.RefreshQuestions(ctx, id, "author")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 questions after refresh, got %d", count)
	}

	if err := f.sessionSvc.UpdateStatus(ctx, id, "author", domain.StatusRunning); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.sessionSvc.RefreshQuestions(ctx, id, "author"); !errors.Is(err, domain.ErrSessionNotWaiting) {
		t.Fatalf("expected not waiting on refresh, got %v", err)
	}
	if err := f.sessionSvc.Delete(ctx, id, "author"); !errors.Is(err, domain.ErrSessionNotWaiting) {
		t.Fatalf("expected not waiting on delete, got %v", err)
	}
}

func TestDeleteWaitingSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.putQuestionnaire(t, domain.Questionnaire{ID: "qn", Title: "Quiz", CreatedBy: "author"})
	id, _ := f.sessionSvc.Create(ctx, "qn", "author")

	if err := f.sessionSvc.Delete(ctx, id, "intruder"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := f.sessionSvc.Delete(ctx, id, "author"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.sessionSvc.Get(ctx, id, "author"); !errors.Is(err, domain.ErrGameSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
