package logger

// Standard field names for consistent structured logging across ANNX.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldPackID  = "pack_id"
	FieldEntryID = "entry_id"
	FieldKind    = "kind"

	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Spans
	FieldBegin = "begin"
	FieldEnd   = "end"

	// Pipeline
	FieldState      = "state"
	FieldBatchIndex = "batch_index"
	FieldBatchSize  = "batch_size"
	FieldContexts   = "contexts"
	FieldChildren   = "children"

	// Write-back accounting
	FieldCreated = "created"
	FieldDeduped = "deduped"
	FieldFailed  = "failed"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldSize  = "size"

	// Files and paths
	FieldFile = "file"
	FieldPath = "path"
)
