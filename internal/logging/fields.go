package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPath is the standardized key for the followed file path.
	FieldPath = "path"
	// FieldSubscriptionID identifies a watcher subscription.
	FieldSubscriptionID = "subscription_id"
	// FieldRemoteAddr identifies a network client.
	FieldRemoteAddr = "remote_addr"
	// FieldEventType is a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
