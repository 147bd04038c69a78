package logging

const (
	// FieldComponent names the package or command emitting a line.
	FieldComponent = "component"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the reader.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldSource is the subtitle file a line refers to.
	FieldSource = "source"
)
