package scanco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderStateMachineRejectsDoubleReadHeader(t *testing.T) {
	h := sampleHeader(CTHeaderV1)
	pixels := samplePixels(h)
	f := &memFile{}
	wr := NewWriter(f)
	require.NoError(t, wr.WriteHeader(h, int64(len(pixels))))
	require.NoError(t, wr.WritePixels(h, pixels))

	f.pos = 0
	rd := NewReader(f)
	_, err := rd.ReadHeader()
	require.NoError(t, err)

	_, err = rd.ReadHeader()
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindSequence, scancoErr.Kind)
}

func TestWriterStateMachineRejectsDoubleWriteHeader(t *testing.T) {
	h := sampleHeader(CTHeaderV1)
	f := &memFile{}
	wr := NewWriter(f)
	require.NoError(t, wr.WriteHeader(h, 0))

	err := wr.WriteHeader(h, 0)
	require.Error(t, err)
	var scancoErr *Error
	require.ErrorAs(t, err, &scancoErr)
	assert.Equal(t, KindSequence, scancoErr.Kind)
}
