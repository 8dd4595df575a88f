package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBytes_FitResult(t *testing.T) {
	valid := `{
		"resume_id": "r1", "job_id": "j1",
		"fit_score": 0.675, "fit_band": "Strong",
		"matched_skills": ["Python", "SQL"],
		"missing_skills": [{"name": "Statistics", "tier": "nice_to_have", "importance": 1.0}],
		"partial_skills": [{"name": "Terraform", "confidence": 0.7}]
	}`
	assert.NoError(t, ValidateBytes(FitResult, []byte(valid)))

	tests := []struct {
		name string
		json string
	}{
		{"score above one", `{"resume_id":"r","job_id":"j","fit_score":1.2,"fit_band":"Strong","matched_skills":[],"missing_skills":[],"partial_skills":[]}`},
		{"unknown band", `{"resume_id":"r","job_id":"j","fit_score":0.5,"fit_band":"Great","matched_skills":[],"missing_skills":[],"partial_skills":[]}`},
		{"partial at full confidence", `{"resume_id":"r","job_id":"j","fit_score":0.5,"fit_band":"Moderate","matched_skills":[],"missing_skills":[],"partial_skills":[{"name":"Go","confidence":1}]}`},
		{"missing field", `{"resume_id":"r","job_id":"j","fit_score":0.5,"fit_band":"Moderate"}`},
		{"duplicate matched", `{"resume_id":"r","job_id":"j","fit_score":0.5,"fit_band":"Moderate","matched_skills":["Go","Go"],"missing_skills":[],"partial_skills":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytes(FitResult, []byte(tt.json))
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "got %v", err)
			assert.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, FitResult, validationErr.Schema)
		})
	}
}

func TestValidate_LLMContextRejectsExtraFields(t *testing.T) {
	payload := map[string]any{
		"resume_skills":           []string{"Python"},
		"job_skills":              []string{"Python", "SQL"},
		"matched_skills":          []string{"Python"},
		"missing_skills":          []map[string]any{{"name": "SQL", "importance": 2.0}},
		"partial_skills":          []string{},
		"fit_score":               0.5,
		"fit_band":                "Moderate",
		"experience_years":        3.5,
		"experience_required_min": nil,
	}
	require.NoError(t, Validate(LLMContext, payload))

	payload["resume_text"] = "raw text must never reach the prompt layer"
	err := Validate(LLMContext, payload)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, err.Error(), "llm_context validation failed")
}

func TestValidateBytes_Dictionary(t *testing.T) {
	assert.NoError(t, ValidateBytes(Dictionary, []byte(`{"Go": {"category": "technical", "synonyms": ["golang"]}}`)))

	for _, doc := range []string{
		`{}`,
		`{"Go": {"category": "language"}}`,
		`{"Go": {"synonyms": ["golang"]}}`,
		`{"Go": {"category": "technical", "synonyms": [""]}}`,
	} {
		err := ValidateBytes(Dictionary, []byte(doc))
		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr), doc)
	}
}

func TestValidateBytes_UnknownSchemaAndBadDocument(t *testing.T) {
	err := ValidateBytes("nope", []byte(`{}`))
	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))

	err = ValidateBytes(FitResult, []byte(`{ invalid json }`))
	require.True(t, errors.As(err, &loadErr))
}

func TestRaw(t *testing.T) {
	content, err := Raw(LLMContext)
	require.NoError(t, err)
	assert.Contains(t, content, "experience_required_min")

	_, err = Raw("nope")
	assert.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{"name": 5}`)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "name", validationErr.Errors[0].Field)

	err = ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
