package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightTable_Unmarshal(t *testing.T) {
	plain := `[{"points":10,"profile_code":"P1"},{"points":"20","profile":2,"freq":"B"},{"profile_code":"P3"}]`

	var table WeightTable
	require.NoError(t, json.Unmarshal([]byte(plain), &table))
	require.Len(t, table, 3)
	assert.Equal(t, 10.0, *table[0].Points)
	assert.Equal(t, CodeRef("P1"), table[0].ProfileCode)
	assert.Equal(t, 20.0, *table[1].Points)
	assert.Equal(t, CodeRef("2"), table[1].ProfileCode)
	assert.Equal(t, CodeRef("B"), table[1].FrequencyCode)
	assert.Nil(t, table[2].Points)

	wrapped, err := json.Marshal(plain)
	require.NoError(t, err)
	var unwrapped WeightTable
	require.NoError(t, json.Unmarshal(wrapped, &unwrapped))
	assert.Len(t, unwrapped, 3)

	var broken WeightTable
	require.NoError(t, json.Unmarshal([]byte(`"not json"`), &broken))
	assert.Empty(t, broken)

	_, ok := table.At(3)
	assert.False(t, ok)
	_, ok = table.At(-1)
	assert.False(t, ok)
}

func TestWeightTable_MalformedEntryKeepsOthers(t *testing.T) {
	payload := `{"id":9,"order":1,"weights":[{"points":10,"profile_code":"P1"},"junk",{"points":30,"profile_code":"P3"}]}`

	var q Question
	require.NoError(t, json.Unmarshal([]byte(payload), &q))
	table := q.Table()
	require.Len(t, table, 3)

	require.NotNil(t, table[0].Points)
	assert.Equal(t, 10.0, *table[0].Points)
	assert.Equal(t, CodeRef("P1"), table[0].ProfileCode)
	assert.Nil(t, table[1].Points)
	assert.Equal(t, CodeRef(""), table[1].ProfileCode)
	require.NotNil(t, table[2].Points)
	assert.Equal(t, 30.0, *table[2].Points)
	assert.Equal(t, CodeRef("P3"), table[2].ProfileCode)

	wrapped, err := json.Marshal(`[{"points":5,"freq":"A"},42,null]`)
	require.NoError(t, err)
	var unwrapped WeightTable
	require.NoError(t, json.Unmarshal(wrapped, &unwrapped))
	require.Len(t, unwrapped, 3)
	require.NotNil(t, unwrapped[0].Points)
	assert.Equal(t, 5.0, *unwrapped[0].Points)
	assert.Equal(t, CodeRef("A"), unwrapped[0].FrequencyCode)
	assert.Nil(t, unwrapped[1].Points)
	assert.Nil(t, unwrapped[2].Points)
}

func TestCategoryConfig_UnmarshalDoubleEncoded(t *testing.T) {
	raw := `{"frequencies":[{"code":"A","name":"Dynamo"}],"profiles":[{"code":"P1","name":"Creator","primary_frequency":"A"}]}`
	wrapped, err := json.Marshal(raw)
	require.NoError(t, err)

	for _, payload := range [][]byte{[]byte(raw), wrapped} {
		var cfg CategoryConfig
		require.NoError(t, json.Unmarshal(payload, &cfg))
		require.Len(t, cfg.Profiles, 1)
		assert.Equal(t, FrequencyA, cfg.Profiles[0].PrimaryFrequency)
	}

}

func TestCategoryConfig_MalformedFallsBackToEmpty(t *testing.T) {
	var fw Framework
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"Legacy","config":"{not json"}`), &fw))
	assert.Equal(t, uint(3), fw.ID)
	assert.Empty(t, fw.Config.Frequencies)
	assert.Empty(t, fw.Config.Profiles)

	var cfg CategoryConfig
	require.NoError(t, json.Unmarshal([]byte(`["not", "an", "object"]`), &cfg))
	assert.Empty(t, cfg.Profiles)
}

func TestCodeRef_Unmarshal(t *testing.T) {
	var refs []CodeRef
	require.NoError(t, json.Unmarshal([]byte(`["P1", 2, null, true, 3.0]`), &refs))
	assert.Equal(t, []CodeRef{"P1", "2", "", "", "3.0"}, refs)
	assert.True(t, refs[2].IsEmpty())
}

func TestQuestion_Table(t *testing.T) {
	points := 10.0
	q := Question{Weights: WeightTable{{Points: &points, FrequencyCode: "A"}}}
	assert.Len(t, q.Table(), 1)
	assert.True(t, q.IsScored())

	q.ProfileMap = WeightTable{{Points: &points, ProfileCode: "P1"}, {Points: &points, ProfileCode: "P2"}}
	assert.Len(t, q.Table(), 2)

	q.Category = QuestionQualitative
	assert.False(t, q.IsScored())
}

func TestFramework_Layers(t *testing.T) {
	fw := Framework{Config: CategoryConfig{Layers: []LayerDefinition{{Key: "personality"}}}}
	assert.False(t, fw.Layered())

	fw.Config.Layers = append(fw.Config.Layers, LayerDefinition{Key: "mindset"})
	assert.True(t, fw.Layered())

	layer, ok := fw.Layer("mindset")
	require.True(t, ok)
	assert.Equal(t, "mindset", layer.Key)

	_, ok = fw.Layer("other")
	assert.False(t, ok)
}

func TestClassification_LookupKey(t *testing.T) {
	profile := "P2"
	combined := "DRIVER_OPEN"

	c := Classification{}
	_, ok := c.LookupKey()
	assert.False(t, ok)

	c.PrimaryProfile = &profile
	key, _ := c.LookupKey()
	assert.Equal(t, "P2", key)

	c.CombinedCode = &combined
	key, _ = c.LookupKey()
	assert.Equal(t, "DRIVER_OPEN", key)
}

func TestParseFrequency(t *testing.T) {
	for _, f := range AllFrequencies {
		got, ok := ParseFrequency(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseFrequency("a")
	assert.False(t, ok)
	_, ok = ParseFrequency("E")
	assert.False(t, ok)
}
