package errors

// ValidationError is a specialized error type for input validation failures.
// It embeds baseError to inherit all the standard error functionality, then adds
// validation-specific fields that help identify exactly what validation rules
// were violated and provide guidance on how to correct the input.
type ValidationError struct {
	// Embed the base error to inherit all standard error functionality
	// including error chaining, structured details, and error codes.
	*baseError

	// Identifies which specific field or parameter failed validation.
	field string

	// Specifies which validation rule was violated (e.g. "required", "format", "range").
	rule string

	// Captures what value was actually provided that failed validation.
	provided any

	// Describes what would have been valid.
	expected any
}

// NewValidationError creates a new validation-specific error with the provided context.
func NewValidationError(err error, code Code, msg string) *ValidationError {
	return &ValidationError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *ValidationError instead of *baseError.

func (ve *ValidationError) WithMessage(msg string) *ValidationError {
	ve.baseError.WithMessage(msg)
	return ve
}

func (ve *ValidationError) WithCode(code Code) *ValidationError {
	ve.baseError.WithCode(code)
	return ve
}

func (ve *ValidationError) WithDetail(key string, value any) *ValidationError {
	ve.baseError.WithDetail(key, value)
	return ve
}

// WithField sets which field failed validation.
func (ve *ValidationError) WithField(field string) *ValidationError {
	ve.field = field
	return ve
}

// WithRule specifies which validation rule was violated.
func (ve *ValidationError) WithRule(rule string) *ValidationError {
	ve.rule = rule
	return ve
}

// WithProvided captures what value was provided that failed validation.
func (ve *ValidationError) WithProvided(value any) *ValidationError {
	ve.provided = value
	return ve
}

// WithExpected describes what would have been a valid value.
func (ve *ValidationError) WithExpected(value any) *ValidationError {
	ve.expected = value
	return ve
}

// Field returns the field name that failed validation.
func (ve *ValidationError) Field() string {
	return ve.field
}

// Rule returns the validation rule that was violated.
func (ve *ValidationError) Rule() string {
	return ve.rule
}

// Provided returns the value that was provided and failed validation.
func (ve *ValidationError) Provided() any {
	return ve.provided
}

// Expected returns what would have been a valid value.
func (ve *ValidationError) Expected() any {
	return ve.expected
}

// Helper functions for creating the common validation errors spec.md §4.5/§4.6
// raises before any filesystem mutation.

// NewPathError reports an invalid or non-existent store directory.
func NewPathError(directory string, cause error) *ValidationError {
	return NewValidationError(cause, CodePathError, "directory is invalid or does not exist").
		WithField("directory").
		WithRule("path_exists").
		WithProvided(directory)
}

// NewNameError reports a store name outside [A-Za-z0-9_]{1,32}.
func NewNameError(name string) *ValidationError {
	return NewValidationError(nil, CodeNameError, "store name must match [A-Za-z0-9_]{1,32}").
		WithField("name").
		WithRule("format").
		WithProvided(name).
		WithExpected("[A-Za-z0-9_]{1,32}")
}

// NewEntrySeqnumError reports an out-of-order seqnum supplied to Append.
func NewEntrySeqnumError(provided, expected uint64) *ValidationError {
	return NewValidationError(nil, CodeInvalidArgument, "seqnum does not continue the store's sequence").
		WithField("seqnum").
		WithRule("entry_seqnum").
		WithProvided(provided).
		WithExpected(expected).
		WithDetail("expected", expected)
}

// NewEntryTimestampError reports a timestamp that regresses relative to the
// store's last_timestamp.
func NewEntryTimestampError(provided, floor uint64) *ValidationError {
	return NewValidationError(nil, CodeInvalidArgument, "timestamp is lower than the store's last timestamp").
		WithField("timestamp").
		WithRule("entry_timestamp").
		WithProvided(provided).
		WithExpected(floor)
}

// NewEntryMetadataError reports metadata_len > 0 with no metadata bytes supplied.
func NewEntryMetadataError() *ValidationError {
	return NewValidationError(nil, CodeMissingMetadata, "metadata length is positive but metadata bytes are absent").
		WithField("metadata").
		WithRule("required_if_len_positive")
}

// NewEntryDataError reports data_len > 0 with no data bytes supplied.
func NewEntryDataError() *ValidationError {
	return NewValidationError(nil, CodeMissingData, "data length is positive but data bytes are absent").
		WithField("data").
		WithRule("required_if_len_positive")
}

// NewRequiredFieldError creates a specialized error for missing required fields.
func NewRequiredFieldError(fieldName string) *ValidationError {
	return NewValidationError(
		nil,
		CodeInvalidArgument,
		"required field is missing or empty",
	).WithField(fieldName).WithRule("required")
}

// NewFieldRangeError creates an error for fields that are outside acceptable ranges.
func NewFieldRangeError(fieldName string, provided any, min, max any) *ValidationError {
	return NewValidationError(
		nil,
		CodeInvalidArgument,
		"field value is outside acceptable range",
	).WithField(fieldName).
		WithRule("range").
		WithProvided(provided).
		WithDetail("minValue", min).
		WithDetail("maxValue", max)
}
