// Package errors provides the structured error taxonomy for the store: a
// flat Code enumeration (spec.md §6) wrapped by two specialized error types,
// ValidationError for argument problems caught before any filesystem
// mutation and EngineError for everything that happens once the data/index
// files are involved. Both embed baseError so Unwrap/errors.Is/errors.As
// work uniformly, while exposing their own WithX chain so callers keep the
// richer type through construction.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError reports whether err is, or wraps, a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsEngineError reports whether err is, or wraps, an EngineError.
func IsEngineError(err error) bool {
	var ee *EngineError
	return stdErrors.As(err, &ee)
}

// AsValidationError safely extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsEngineError safely extracts an EngineError from an error chain.
func AsEngineError(err error) (*EngineError, bool) {
	var ee *EngineError
	if stdErrors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}

// GetCode extracts the flat Code from any error that carries one, returning
// CodeErr for errors that don't. This gives callers (including cmd/seqlogctl)
// a single place to turn an error into the process exit code / CLI message.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if ee, ok := AsEngineError(err); ok {
		return ee.Code()
	}
	return CodeErr
}

// GetDetails extracts structured details from any error that supports them,
// returning an empty map for errors without details.
func GetDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if d := ve.Details(); d != nil {
			return d
		}
	}
	if ee, ok := AsEngineError(err); ok {
		if d := ee.Details(); d != nil {
			return d
		}
	}
	return make(map[string]any)
}

// ClassifyDirectoryError analyzes a directory-creation/stat failure and
// returns an EngineError carrying the most specific applicable Code.
func ClassifyDirectoryError(err error, path string) error {
	if os.IsPermission(err) {
		return NewEngineError(err, CodePathError, "insufficient permissions for store directory").
			WithPath(path).
			WithOperation("open").
			WithDetail("suggestion", "check directory permissions")
	}
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewEngineError(err, CodePathError, "insufficient disk space for store directory").
					WithPath(path).WithOperation("open")
			case syscall.EROFS:
				return NewEngineError(err, CodePathError, "store directory is on a read-only filesystem").
					WithPath(path).WithOperation("open")
			}
		}
	}
	return NewEngineError(err, CodePathError, "failed to access store directory").
		WithPath(path).WithOperation("open")
}

// ClassifyFileOpenError analyzes a file-open failure against the data or
// index file and returns an EngineError with the file-specific Code.
func ClassifyFileOpenError(err error, filePath, fileName string, isIndex bool) error {
	code := CodeOpenDat
	if isIndex {
		code = CodeOpenIdx
	}
	if os.IsPermission(err) {
		return NewEngineError(err, code, "insufficient permissions to open file").
			WithPath(filePath).WithFileName(fileName).WithOperation("open")
	}
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewEngineError(err, code, "insufficient disk space to create file").
					WithPath(filePath).WithFileName(fileName).WithOperation("open")
			case syscall.EROFS:
				return NewEngineError(err, code, "cannot create file on read-only filesystem").
					WithPath(filePath).WithFileName(fileName).WithOperation("open")
			}
		}
	}
	return NewEngineError(err, code, "failed to open file").
		WithPath(filePath).WithFileName(fileName).WithOperation("open")
}

// ClassifyIOError wraps a read/write/sync failure against the data or index
// file with the appropriate Code and positional context.
func ClassifyIOError(err error, fileName, filePath string, offset int64, isIndex, isWrite bool) error {
	var code Code
	switch {
	case isIndex && isWrite:
		code = CodeWriteIdx
	case isIndex && !isWrite:
		code = CodeReadIdx
	case !isIndex && isWrite:
		code = CodeWriteDat
	default:
		code = CodeReadDat
	}
	return NewEngineError(err, code, "I/O failure against store file").
		WithFileName(fileName).
		WithPath(filePath).
		WithOffset(offset)
}
