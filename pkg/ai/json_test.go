package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type question struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
}

func TestParseJSONArray(t *testing.T) {
	raw := "```json\n[{\"question_text\":\"q1\",\"question_type\":\"mcq\"}]\n```"
	result, err := ParseJSONArray[question](raw)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "q1", result[0].QuestionText)
}

func TestParseJSONArrayWithLeadingProse(t *testing.T) {
	raw := "Here are your questions:\n[{\"question_text\":\"q1\",\"question_type\":\"true_false\"}]\nGood luck!"
	result, err := ParseJSONArray[question](raw)
	assert.NoError(t, err)
	assert.Len(t, result, 1)
}

func TestParseJSONArrayMalformed(t *testing.T) {
	_, err := ParseJSONArray[question]("the model refused to answer")
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestTrimJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, TrimJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1,2]`, TrimJSONFence("prefix [1,2] suffix"))
}
