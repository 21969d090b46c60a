package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusUpdateSchema(t *testing.T) {
	tests := []struct {
		name      string
		body      map[string]interface{}
		wantValid bool
		wantField string
	}{
		{name: "approved", body: map[string]interface{}{"status": "approved"}, wantValid: true},
		{name: "pending", body: map[string]interface{}{"status": "pending"}, wantValid: true},
		{name: "rejected", body: map[string]interface{}{"status": "rejected"}, wantValid: true},
		{name: "draft is not settable", body: map[string]interface{}{"status": "draft"}, wantField: "status"},
		{name: "missing status", body: map[string]interface{}{}, wantField: "status"},
		{name: "wrong type", body: map[string]interface{}{"status": 3}, wantField: "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := StatusUpdateSchema.Validate(tt.body)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				require.NotEmpty(t, result.Errors)
				assert.Equal(t, tt.wantField, result.Errors[0].Field)
				assert.NotEmpty(t, result.Summary())
			}
		})
	}
}

func TestRatingUpdateSchema(t *testing.T) {
	comment := "solid work"

	valid := []map[string]interface{}{
		{"rating": 1},
		{"rating": 5, "rating_comment": comment},
		{"rating": 3, "rating_comment": nil},
	}
	for _, body := range valid {
		result, err := RatingUpdateSchema.Validate(body)
		require.NoError(t, err)
		assert.True(t, result.Valid, "expected valid: %v (%s)", body, result.Summary())
	}

	invalid := []map[string]interface{}{
		{"rating": 0},
		{"rating": 6},
		{"rating": 2.5},
		{"rating_comment": comment},
		{"rating": 4, "extra": true},
	}
	for _, body := range invalid {
		result, err := RatingUpdateSchema.Validate(body)
		require.NoError(t, err)
		assert.False(t, result.Valid, "expected invalid: %v", body)
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", map[string]interface{}{"type": 12})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
