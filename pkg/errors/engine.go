package errors

// EngineError is a specialized error type for failures in the data/index
// file pair: open, recovery, append, read, search, rollback, and purge all
// report through this type. It embeds baseError to inherit chaining and
// structured details, then adds the file-level context (path, offset,
// seqnum) needed to pinpoint exactly where in the on-disk log a problem
// occurred.
type EngineError struct {
	*baseError
	seqnum    uint64 // Which record seqnum was being accessed, if applicable.
	offset    int64  // Byte offset within the file where the problem happened.
	fileName  string // Name of the file that caused the issue (e.g. "foo.dat").
	path      string // Full path of the file that caused the issue.
	operation string // Which operation was in progress: "append", "read", "recover", ...
}

// NewEngineError creates a new engine-specific error.
func NewEngineError(err error, code Code, msg string) *EngineError {
	return &EngineError{baseError: NewBaseError(err, code, msg)}
}

// Override base error methods to return *EngineError instead of *baseError
// so method chaining keeps the richer type all the way through construction.

func (ee *EngineError) WithMessage(msg string) *EngineError {
	ee.baseError.WithMessage(msg)
	return ee
}

func (ee *EngineError) WithCode(code Code) *EngineError {
	ee.baseError.WithCode(code)
	return ee
}

func (ee *EngineError) WithDetail(key string, value any) *EngineError {
	ee.baseError.WithDetail(key, value)
	return ee
}

// WithSeqnum records which record seqnum was involved in the error.
func (ee *EngineError) WithSeqnum(seqnum uint64) *EngineError {
	ee.seqnum = seqnum
	return ee
}

// WithOffset records the byte position where the error occurred.
func (ee *EngineError) WithOffset(offset int64) *EngineError {
	ee.offset = offset
	return ee
}

// WithFileName captures which file was being processed when the error occurred.
func (ee *EngineError) WithFileName(fileName string) *EngineError {
	ee.fileName = fileName
	return ee
}

// WithPath captures which path was being processed when the error occurred.
func (ee *EngineError) WithPath(path string) *EngineError {
	ee.path = path
	return ee
}

// WithOperation records which high-level operation was in progress.
func (ee *EngineError) WithOperation(operation string) *EngineError {
	ee.operation = operation
	return ee
}

// Seqnum returns the record seqnum involved in the error, if any.
func (ee *EngineError) Seqnum() uint64 {
	return ee.seqnum
}

// Offset returns the byte offset within the file where the error happened.
func (ee *EngineError) Offset() int64 {
	return ee.offset
}

// FileName returns the name of the file that was being processed.
func (ee *EngineError) FileName() string {
	return ee.fileName
}

// Path returns the path of the file that was being processed.
func (ee *EngineError) Path() string {
	return ee.path
}

// Operation returns the operation that was in progress when the error occurred.
func (ee *EngineError) Operation() string {
	return ee.operation
}

// Helper constructors for the common engine-error scenarios named in
// spec.md §4.5–§4.11. These encapsulate the right Code and context fields so
// call sites don't have to remember the taxonomy by hand.

// NewChecksumError reports a record whose stored CRC-32 does not match the
// recomputed checksum.
func NewChecksumError(path string, seqnum uint64, offset int64) *EngineError {
	return NewEngineError(nil, CodeChecksum, "stored checksum does not match recomputed checksum").
		WithPath(path).
		WithSeqnum(seqnum).
		WithOffset(offset).
		WithOperation("verify")
}

// NewBrokenSequenceError reports a seqnum that does not continue the
// gap-free ascending sequence required by invariant §3.2.
func NewBrokenSequenceError(expected, got uint64) *EngineError {
	return NewEngineError(nil, CodeBrokenSequence, "seqnum does not continue the sequence").
		WithSeqnum(got).
		WithDetail("expected", expected)
}

// NewInvalidTimestampError reports a timestamp that regresses relative to
// the previous record, violating invariant §3.3.
func NewInvalidTimestampError(previous, got uint64) *EngineError {
	return NewEngineError(nil, CodeInvalidTimestamp, "timestamp is lower than the previous record").
		WithDetail("previousTimestamp", previous).
		WithDetail("timestamp", got)
}

// NewNotFoundError reports the ordinary, non-fatal "no such record" result.
func NewNotFoundError(operation string) *EngineError {
	return NewEngineError(nil, CodeNotFound, "no matching record").WithOperation(operation)
}
