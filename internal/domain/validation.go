package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// answerValidator checks a submitted answer against a session question's validation data.
type answerValidator func(v Validation, answer any) bool

var validators = map[QuestionType]answerValidator{
	QuestionText:   validateText,
	QuestionNumber: validateNumber,
	QuestionChoice: validateChoice,
}

// CheckAnswer validates answer for q. Question types without a validator fail closed
// with ErrUnsupportedQuestionType.
func CheckAnswer(q SessionQuestion, answer any) (bool, error) {
	validate, ok := validators[q.Type]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnsupportedQuestionType, q.Type)
	}
	return validate(q.Validation, answer), nil
}

func validateText(v Validation, answer any) bool {
	got := strings.TrimSpace(answerText(answer))
	want := v.ExpectedAnswer.Text
	if v.ExpectedAnswer.CaseSensitive {
		return got == want
	}
	return strings.EqualFold(got, want)
}

func validateNumber(v Validation, answer any) bool {
	if v.ExpectedAnswer.Value == nil {
		return false
	}
	got, ok := answerNumber(answer)
	if !ok {
		return false
	}
	return math.Abs(got-*v.ExpectedAnswer.Value) <= v.ExpectedAnswer.Tolerance
}

func validateChoice(v Validation, answer any) bool {
	return answerText(answer) == v.ExpectedAnswer.OptionID
}

// answerText renders a decoded JSON value the way a client would type it.
func answerText(answer any) string {
	switch a := answer.(type) {
	case nil:
		return ""
	case string:
		return a
	case float64:
		return strconv.FormatFloat(a, 'f', -1, 64)
	case int:
		return strconv.Itoa(a)
	case bool:
		return strconv.FormatBool(a)
	default:
		return fmt.Sprint(a)
	}
}

func answerNumber(answer any) (float64, bool) {
	var n float64
	switch a := answer.(type) {
	case float64:
		n = a
	case int:
		n = float64(a)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
