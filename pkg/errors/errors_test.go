package errors

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorChainAndUnwrap(t *testing.T) {
	cause := stdErrors.New("disk full")
	ve := NewValidationError(cause, CodeNameError, "bad name").
		WithField("name").
		WithRule("format").
		WithProvided("bad!").
		WithExpected("[A-Za-z0-9_]{1,32}")

	assert.True(t, IsValidationError(ve))
	assert.False(t, IsEngineError(ve))
	assert.Equal(t, CodeNameError, ve.Code())
	assert.Equal(t, "name", ve.Field())
	assert.Equal(t, "format", ve.Rule())
	assert.Equal(t, "bad!", ve.Provided())
	assert.ErrorIs(t, ve, cause)
}

func TestEngineErrorChainAndExtraction(t *testing.T) {
	ee := NewChecksumError("/tmp/x.dat", 7, 128)

	assert.True(t, IsEngineError(ee))
	extracted, ok := AsEngineError(ee)
	require.True(t, ok)
	assert.Equal(t, uint64(7), extracted.Seqnum())
	assert.Equal(t, int64(128), extracted.Offset())
	assert.Equal(t, CodeChecksum, GetCode(ee))
}

func TestGetCodeHandlesNilAndPlainErrors(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeErr, GetCode(stdErrors.New("boom")))
}

func TestGetDetailsEmptyForPlainError(t *testing.T) {
	details := GetDetails(stdErrors.New("boom"))
	assert.Empty(t, details)
}

func TestGetDetailsReturnsValidationDetails(t *testing.T) {
	ve := NewEntrySeqnumError(9, 5)
	details := GetDetails(ve)
	assert.Equal(t, uint64(5), details["expected"])
}

func TestWithDetailChainingPreservesType(t *testing.T) {
	ve := NewNameError("x y").WithDetail("hint", "no spaces")
	assert.Equal(t, "no spaces", ve.Details()["hint"])
	assert.Equal(t, CodeNameError, ve.Code())
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "checksum mismatch", CodeString(CodeChecksum))
	assert.Equal(t, "unknown error code", CodeString(Code("NOT_A_REAL_CODE")))
}

func TestClassifyIOErrorCodeSelection(t *testing.T) {
	cause := stdErrors.New("io failure")

	readDat := ClassifyIOError(cause, "s.dat", "/tmp/s.dat", 10, false, false)
	assert.Equal(t, CodeReadDat, GetCode(readDat))

	writeDat := ClassifyIOError(cause, "s.dat", "/tmp/s.dat", 10, false, true)
	assert.Equal(t, CodeWriteDat, GetCode(writeDat))

	readIdx := ClassifyIOError(cause, "s.idx", "/tmp/s.idx", 10, true, false)
	assert.Equal(t, CodeReadIdx, GetCode(readIdx))

	writeIdx := ClassifyIOError(cause, "s.idx", "/tmp/s.idx", 10, true, true)
	assert.Equal(t, CodeWriteIdx, GetCode(writeIdx))
}

func TestNewNotFoundErrorCarriesOperation(t *testing.T) {
	err := NewNotFoundError("read")
	ee, ok := AsEngineError(err)
	require.True(t, ok)
	assert.Equal(t, "read", ee.Operation())
	assert.Equal(t, CodeNotFound, ee.Code())
}
