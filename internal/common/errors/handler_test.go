package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	messages []string
	fields   []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.messages = append(r.messages, msg)
	r.fields = append(r.fields, fields)
}

func TestErrorHandler_HandleActionError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantNotice   string
		wantCode     string
		wantCategory string
	}{
		{
			name:         "server error",
			err:          NewNetworkOrServerError("updateStatus", 502, New("bad gateway")),
			wantNotice:   "Request failed. Please try again.",
			wantCode:     string(ErrCodeNetworkOrServer),
			wantCategory: "REMOTE",
		},
		{
			name:         "validation",
			err:          NewInvalidRatingError("rating: must be <= 5"),
			wantNotice:   "Invalid rating",
			wantCode:     string(ErrCodeInvalidRating),
			wantCategory: "VALIDATION",
		},
		{
			name:         "plain error",
			err:          New("socket closed"),
			wantNotice:   "Request failed. Please try again.",
			wantCode:     string(ErrCodeNetworkOrServer),
			wantCategory: "REMOTE",
		},
		{
			name:         "batch",
			err:          NewBulkPartialFailureError("delete", 2, 5),
			wantNotice:   "Bulk delete failed for 2 of 5 applications",
			wantCode:     string(ErrCodeBulkPartialFailure),
			wantCategory: "BATCH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			notice := NewErrorHandler(log).HandleActionError("status change", "42", tt.err)

			assert.Equal(t, tt.wantNotice, notice)
			require.Len(t, log.fields, 1)
			assert.Equal(t, "Action failed", log.messages[0])
			assert.Equal(t, tt.wantCode, log.fields[0]["errorCode"])
			assert.Equal(t, tt.wantCategory, log.fields[0]["errorCategory"])
			assert.Equal(t, "42", log.fields[0]["applicationId"])
			assert.Equal(t, "status change", log.fields[0]["action"])
		})
	}
}

func TestErrorHandler_BatchHasNoApplicationID(t *testing.T) {
	log := &recordingLogger{}
	NewErrorHandler(log).HandleActionError("delete", "", NewBulkPartialFailureError("delete", 1, 2))

	require.Len(t, log.fields, 1)
	_, ok := log.fields[0]["applicationId"]
	assert.False(t, ok)
	assert.Equal(t, 2, log.fields[0]["total"])
}
