package errors

// ErrorHandler reports failed user actions: it logs the normalized error and
// returns the text for the blocking notice.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleActionError logs err for action on applicationID (empty for batch actions)
// and returns the notice text. It never retries.
func (h *ErrorHandler) HandleActionError(action, applicationID string, err error) string {
	stdErr := h.normalizeError(action, err)
	h.logError(action, applicationID, stdErr)
	return UserMessage(stdErr)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(action string, err error) *StandardError {
	if err == nil {
		return NewNetworkOrServerError(action, 0, nil)
	}
	return AsStandardError(action, err)
}

func (h *ErrorHandler) logError(action, applicationID string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"action":        action,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if applicationID != "" {
		fields["applicationId"] = applicationID
	}
	for k, v := range stdErr.Metadata {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	h.logger.Error("Action failed", fields)
}
