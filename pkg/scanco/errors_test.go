package scanco

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageFormatting(t *testing.T) {
	e := newErr(KindBadHeader, "dimension %d is invalid", 0)
	assert.Equal(t, "BadHeader: dimension 0 is invalid", e.Error())

	cause := errors.New("disk on fire")
	wrapped := wrapErr(KindIO, cause, "reading block %d", 3)
	assert.Equal(t, "Io: reading block 3: disk on fire", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)

	trunc := truncatedErr(7, "short compressed payload")
	assert.Equal(t, "Truncated: short compressed payload (missing 7 bytes)", trunc.Error())
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "Io", KindIO.String())
	assert.Equal(t, "UnrecognizedVersion", KindUnrecognizedVersion.String())
	assert.Equal(t, "Sequence", KindSequence.String())
	assert.Equal(t, "Unknown", ErrorKind(999).String())
}
