package domain

import (
	"errors"
	"testing"
)

func TestCheckAnswerText(t *testing.T) {
	q := SessionQuestion{
		Type:       QuestionText,
		Validation: Validation{ExpectedAnswer: ExpectedAnswer{Text: "paris"}},
	}

	cases := []struct {
		answer        any
		caseSensitive bool
		want          bool
	}{
		{"Paris", false, true},
		{"  paris  ", false, true},
		{"Paris", true, false},
		{"paris", true, true},
		{"London", false, false},
		{nil, false, false},
	}
	for _, tc := range cases {
		q.Validation.ExpectedAnswer.CaseSensitive = tc.caseSensitive
		got, err := CheckAnswer(q, tc.answer)
		if err != nil {
			t.Fatalf("check %v: %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("answer %q caseSensitive=%v: got %v, want %v", tc.answer, tc.caseSensitive, got, tc.want)
		}
	}
}

func TestCheckAnswerNumberToleranceIsInclusive(t *testing.T) {
	value := 10.0
	q := SessionQuestion{
		Type: QuestionNumber,
		Validation: Validation{ExpectedAnswer: ExpectedAnswer{
			Value:     &value,
			Tolerance: 0.5,
		}},
	}

	cases := []struct {
		answer any
		want   bool
	}{
		{10.0, true},
		{10.5, true},
		{9.5, true},
		{10.51, false},
		{9.49, false},
		{"10.25", true},
		{" 9.5 ", true},
		{"ten", false},
		{"", false},
		{true, false},
	}
	for _, tc := range cases {
		got, err := CheckAnswer(q, tc.answer)
		if err != nil {
			t.Fatalf("check %v: %v", tc.answer, err)
		}
		if got != tc.want {
			t.Fatalf("answer %v: got %v, want %v", tc.answer, got, tc.want)
		}
	}
}

func TestCheckAnswerNumberDefaultToleranceIsExact(t *testing.T) {
	value := 42.0
	q := SessionQuestion{
		Type:       QuestionNumber,
		Validation: Validation{ExpectedAnswer: ExpectedAnswer{Value: &value}},
	}
	if ok, _ := CheckAnswer(q, 42.0); !ok {
		t.Fatalf("expected exact match to be correct")
	}
	if ok, _ := CheckAnswer(q, 42.0001); ok {
		t.Fatalf("expected near miss to be incorrect with zero tolerance")
	}
}

func TestCheckAnswerChoice(t *testing.T) {
	q := SessionQuestion{
		Type: QuestionChoice,
		Validation: Validation{
			ExpectedAnswer: ExpectedAnswer{OptionID: "2"},
			Options:        []Option{{ID: "1", Label: "Red"}, {ID: "2", Label: "Blue"}},
		},
	}
	if ok, _ := CheckAnswer(q, "2"); !ok {
		t.Fatalf("expected option 2 to be correct")
	}
	if ok, _ := CheckAnswer(q, 2.0); !ok {
		t.Fatalf("expected numeric option id to match its string form")
	}
	if ok, _ := CheckAnswer(q, "1"); ok {
		t.Fatalf("expected option 1 to be incorrect")
	}
}

func TestCheckAnswerUnsupportedTypesFailClosed(t *testing.T) {
	for _, typ := range []QuestionType{QuestionImageUpload, QuestionAudioUpload, QuestionOrdering, "BOGUS"} {
		ok, err := CheckAnswer(SessionQuestion{Type: typ}, "anything")
		if ok {
			t.Fatalf("%s: expected incorrect", typ)
		}
		if !errors.Is(err, ErrUnsupportedQuestionType) {
			t.Fatalf("%s: expected unsupported type error, got %v", typ, err)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	allowed := map[[2]SessionStatus]bool{
		{StatusWaiting, StatusRunning}:  true,
		{StatusWaiting, StatusFinished}: true,
		{StatusRunning, StatusFinished}: true,
	}
	all := []SessionStatus{StatusWaiting, StatusRunning, StatusFinished, "PAUSED"}
	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]SessionStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Fatalf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestNewSessionQuestionDropsOwnership(t *testing.T) {
	q := Question{
		ID:             "q1",
		Type:           QuestionChoice,
		Title:          "Color?",
		Points:         3,
		PenaltySeconds: 5,
		ExpectedAnswer: &ExpectedAnswer{OptionID: "b"},
		Options:        []Option{{ID: "a", Label: "A"}, {ID: "b", Label: "B"}},
		CreatedBy:      "owner",
	}
	sq := NewSessionQuestion(q)
	if sq.ID != "q1" || sq.Points != 3 || sq.PenaltySeconds != 5 {
		t.Fatalf("unexpected snapshot %+v", sq)
	}
	if sq.Validation.ExpectedAnswer.OptionID != "b" || len(sq.Validation.Options) != 2 {
		t.Fatalf("expected validation data copied, got %+v", sq.Validation)
	}

	q.Options[0].Label = "changed"
	if sq.Validation.Options[0].Label != "A" {
		t.Fatalf("snapshot must not share option storage with the source question")
	}
}
