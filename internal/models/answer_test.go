package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawAnswer_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		shape   AnswerShape
	}{
		{name: "bare ordinal", payload: `2`, shape: ShapeOrdinal},
		{name: "string ordinal", payload: `" 3 "`, shape: ShapeOrdinal},
		{name: "embedded options", payload: `{"options":[{"profile":1}],"selected":0}`, shape: ShapeEmbeddedOptions},
		{name: "embedded options selected_index", payload: `{"options":[],"selected_index":"1"}`, shape: ShapeEmbeddedOptions},
		{name: "selected option camel case", payload: `{"selectedOption":{"profile":"P2"}}`, shape: ShapeSelectedOption},
		{name: "selected option snake case", payload: `{"selected_option":{"label":"Often"}}`, shape: ShapeSelectedOption},
		{name: "value with profile", payload: `{"value":{"profile":"PROFILE_3","points":30}}`, shape: ShapeValue},
		{name: "value with index", payload: `{"value":{"index":1}}`, shape: ShapeValue},
		{name: "value without usable fields", payload: `{"value":{"points":30}}`, shape: ShapeNone},
		{name: "options without selection", payload: `{"options":[1,2]}`, shape: ShapeNone},
		{name: "null selected option", payload: `{"selectedOption":null}`, shape: ShapeNone},
		{name: "array", payload: `[1,2]`, shape: ShapeNone},
		{name: "non numeric string", payload: `"often"`, shape: ShapeNone},
		{name: "null", payload: `null`, shape: ShapeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answer RawAnswer
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &answer))
			assert.Equal(t, tt.shape, answer.Shape)
		})
	}
}

func TestRawAnswer_DecodedFields(t *testing.T) {
	var answer RawAnswer
	require.NoError(t, json.Unmarshal([]byte(`{"value":{"profile":3,"points":"30"}}`), &answer))
	require.Equal(t, ShapeValue, answer.Shape)
	assert.Equal(t, CodeRef("3"), answer.Value.Profile)
	require.NotNil(t, answer.Value.Points)
	assert.Equal(t, 30.0, *answer.Value.Points)

	require.NoError(t, json.Unmarshal([]byte(`{"options":[{"profile_code":"P1","freq":"A","points":40}],"selected":0}`), &answer))
	require.Equal(t, ShapeEmbeddedOptions, answer.Shape)
	assert.Equal(t, 0, *answer.Selected)
	assert.Equal(t, CodeRef("P1"), answer.Options[0].Profile)
	assert.Equal(t, CodeRef("A"), answer.Options[0].Frequency)
	assert.True(t, answer.Options[0].Identified())
}

func TestAnswerRecord_Unmarshal(t *testing.T) {
	var records []AnswerRecord
	payload := `[
		{"question_id": 1, "answer": 4},
		{"question_id": 2, "answer": {"selectedOption": {"index": 1}}},
		{"question_id": 3}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &records))
	require.Len(t, records, 3)

	assert.Equal(t, ShapeOrdinal, records[0].Answer.Shape)
	assert.Equal(t, 4, *records[0].Answer.Ordinal)
	assert.Equal(t, ShapeSelectedOption, records[1].Answer.Shape)
	assert.Equal(t, ShapeNone, records[2].Answer.Shape)
}

func TestRawAnswer_MarshalRoundTripKeepsShape(t *testing.T) {
	answers := []RawAnswer{
		OrdinalAnswer(2),
		ValueAnswer(AnswerValue{Profile: "P4"}),
		SelectedOptionAnswer(AnswerOption{Text: "Often"}),
		EmbeddedOptionsAnswer([]AnswerOption{{Text: "a"}, {Text: "b"}}, 1),
	}
	for _, original := range answers {
		data, err := json.Marshal(original)
		require.NoError(t, err)

		var decoded RawAnswer
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, original.Shape, decoded.Shape, string(data))
	}
}
