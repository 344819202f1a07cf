package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldModel     = "model"
	FieldAttempt   = "attempt"
	FieldBackoff   = "backoff_ms"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldStatus    = "status"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Fields("operation", "completion", "attempt", 2)
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
