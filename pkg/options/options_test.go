package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewDefaultOptions(t *testing.T) {
	o := NewDefaultOptions()
	assert.Equal(t, DefaultCheckOnOpen, o.CheckOnOpen)
	assert.Equal(t, DefaultFsyncOnAppend, o.FsyncOnAppend)
	assert.Equal(t, DefaultReadBufferCapacity, o.ReadBufferCapacity)
	assert.NotNil(t, o.Clock)
}

func TestWithDirectoryTrimsAndIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithDirectory("  /tmp/store  ")(&o)
	assert.Equal(t, "/tmp/store", o.Directory)

	WithDirectory("   ")(&o)
	assert.Equal(t, "/tmp/store", o.Directory)
}

func TestWithNameTrimsAndIgnoresBlank(t *testing.T) {
	o := NewDefaultOptions()
	WithName(" mystore ")(&o)
	assert.Equal(t, "mystore", o.Name)

	WithName("")(&o)
	assert.Equal(t, "mystore", o.Name)
}

func TestWithReadBufferCapacityIgnoresNonPositive(t *testing.T) {
	o := NewDefaultOptions()
	WithReadBufferCapacity(128)(&o)
	assert.Equal(t, 128, o.ReadBufferCapacity)

	WithReadBufferCapacity(0)(&o)
	assert.Equal(t, 128, o.ReadBufferCapacity)

	WithReadBufferCapacity(-5)(&o)
	assert.Equal(t, 128, o.ReadBufferCapacity)
}

func TestWithClockIgnoresNil(t *testing.T) {
	o := NewDefaultOptions()
	original := o.Clock
	WithClock(nil)(&o)
	assert.NotNil(t, o.Clock)

	fixed := func() uint64 { return 42 }
	WithClock(fixed)(&o)
	assert.Equal(t, uint64(42), o.Clock())
	_ = original
}

func TestWithCheckOnOpenAndFsyncOnAppend(t *testing.T) {
	o := NewDefaultOptions()
	WithCheckOnOpen(true)(&o)
	WithFsyncOnAppend(true)(&o)
	assert.True(t, o.CheckOnOpen)
	assert.True(t, o.FsyncOnAppend)
}

func TestLoggerOrDiscard(t *testing.T) {
	o := NewDefaultOptions()
	assert.NotNil(t, o.LoggerOrDiscard())

	log := zap.NewNop().Sugar()
	WithLogger(log)(&o)
	assert.Same(t, log, o.LoggerOrDiscard())

	WithLogger(nil)(&o)
	assert.Same(t, log, o.LoggerOrDiscard())
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("a"))
	assert.True(t, ValidName("store_01"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("has space"))
	assert.False(t, ValidName("bad!char"))

	long := make([]byte, 33)
	for i := range long {
		long[i] = 'a'
	}
	assert.False(t, ValidName(string(long)))
}
