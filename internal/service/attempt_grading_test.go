package service

import (
	"testing"

	"github.com/learnifypk/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func choiceQuestion(qtype, correct string) *model.Question {
	return &model.Question{
		Type:          qtype,
		OptionA:       "Mercury",
		OptionB:       "Venus",
		OptionC:       "Earth",
		OptionD:       "Mars",
		CorrectAnswer: correct,
	}
}

func TestGradeAnswer(t *testing.T) {
	tests := []struct {
		name        string
		question    *model.Question
		raw         string
		wantCorrect bool
		wantGraded  bool
	}{
		{
			"correct single choice",
			choiceQuestion(model.QuestionTypeSingleChoice, "B"),
			`{"selected":"B"}`, true, true,
		},
		{
			"wrong single choice",
			choiceQuestion(model.QuestionTypeSingleChoice, "B"),
			`{"selected":"C"}`, false, true,
		},
		{
			"back-filled empty single choice",
			choiceQuestion(model.QuestionTypeSingleChoice, "B"),
			`{"selected":""}`, false, true,
		},
		{
			"multi choice order independent",
			choiceQuestion(model.QuestionTypeMultiChoice, "A,B"),
			`{"selected":["B","a"]}`, true, true,
		},
		{
			"back-filled empty multi choice",
			choiceQuestion(model.QuestionTypeMultiChoice, "A,B"),
			`{"selected":[]}`, false, true,
		},
		{
			"fill in blank with comma normalization",
			&model.Question{
				Type:      model.QuestionTypeFillInBlank,
				AnswerKey: datatypes.JSONMap{"blank1": "1,234"},
			},
			`{"blank1":"1234"}`, true, true,
		},
		{
			"back-filled empty fill in blank",
			&model.Question{
				Type:      model.QuestionTypeFillInBlank,
				AnswerKey: datatypes.JSONMap{"blank1": "7"},
			},
			`{}`, false, true,
		},
		{
			"unknown type is skipped, not wrong",
			&model.Question{Type: "essay"},
			`{"selected":"B"}`, false, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, graded := gradeAnswer(tt.question, datatypes.JSON(tt.raw))
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantGraded, graded)
		})
	}
}

func TestSplitLabels(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitLabels("A,B"))
	assert.Equal(t, []string{"A", "C"}, splitLabels(" A , C "))
	assert.Equal(t, []string{"B"}, splitLabels("B"))
	assert.Empty(t, splitLabels(""))
	assert.Empty(t, splitLabels(" , "))
}

func TestEmptyAnswerFor(t *testing.T) {
	assert.JSONEq(t, `{"selected":""}`, string(emptyAnswerFor(model.QuestionTypeSingleChoice)))
	assert.JSONEq(t, `{"selected":[]}`, string(emptyAnswerFor(model.QuestionTypeMultiChoice)))
	assert.JSONEq(t, `{}`, string(emptyAnswerFor(model.QuestionTypeFillInBlank)))
}

func TestContainsID(t *testing.T) {
	ids := []string{"9f0c9c1e-0000-0000-0000-000000000001", "9F0C9C1E-0000-0000-0000-000000000002"}
	assert.True(t, containsID(ids, "9f0c9c1e-0000-0000-0000-000000000001"))
	assert.True(t, containsID(ids, "9f0c9c1e-0000-0000-0000-000000000002"))
	assert.False(t, containsID(ids, "9f0c9c1e-0000-0000-0000-00000000000f"))
}
