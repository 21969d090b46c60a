package validation

// StatusUpdateSchema validates the body of PUT /dashboard/applications/{id}/status.
// draft can be read but never set.
var StatusUpdateSchema = MustCompile("status-update", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"status"},
	"properties": map[string]interface{}{
		"status": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"pending", "approved", "rejected"},
		},
	},
	"additionalProperties": false,
})

// RatingUpdateSchema validates the body of PUT /dashboard/applications/{id}/rating.
var RatingUpdateSchema = MustCompile("rating-update", map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"rating"},
	"properties": map[string]interface{}{
		"rating": map[string]interface{}{
			"type":    "integer",
			"minimum": 1,
			"maximum": 5,
		},
		"rating_comment": map[string]interface{}{
			"type":      []interface{}{"string", "null"},
			"maxLength": 2000,
		},
	},
	"additionalProperties": false,
})
