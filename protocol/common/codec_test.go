package common

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderFields(t *testing.T) {
	id := uuid.New()

	w := NewWriter(RangeMessageType)
	w.PutUUID(id)
	w.PutUint32(7)
	w.MarkHeaderEnd()
	w.PutInt64(-42)
	w.PutBool(true)
	w.PutString("books.csv")
	data, err := w.Finish()
	require.NoError(t, err)

	r, header, err := NewReader(data, RangeMessageType)
	require.NoError(t, err)
	assert.Equal(t, RangeMessageType, header.MsgTypeID)
	assert.Equal(t, int32(len(data)), header.TotalLength)
	assert.Equal(t, uint16(CommonHeaderSize+JobIDSize+4), header.HeaderLength)

	assert.Equal(t, id, r.UUID())
	assert.Equal(t, uint32(7), r.Uint32())
	assert.Equal(t, int64(-42), r.Int64())
	assert.True(t, r.Bool())
	assert.Equal(t, "books.csv", r.Text())
	assert.NoError(t, r.Err())
}

func TestReaderRejectsBadInput(t *testing.T) {
	w := NewWriter(ErrorMessageType)
	w.PutString("boom")
	data, err := w.Finish()
	require.NoError(t, err)

	t.Run("wrong type", func(t *testing.T) {
		_, _, err := NewReader(data, ResultMessageType)
		assert.Error(t, err)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := ReadHeader(data[:3])
		assert.Error(t, err)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := ReadHeader(append(append([]byte{}, data...), 0))
		assert.Error(t, err)
	})

	t.Run("truncated field", func(t *testing.T) {
		r, _, err := NewReader(data, ErrorMessageType)
		require.NoError(t, err)
		r.Text()
		r.Int64()
		assert.Error(t, r.Err())
	})

	t.Run("trailing bytes", func(t *testing.T) {
		r, _, err := NewReader(data, ErrorMessageType)
		require.NoError(t, err)
		assert.Error(t, r.Err())
	})
}

func TestGetMessageType(t *testing.T) {
	w := NewWriter(ResultMessageType)
	data, err := w.Finish()
	require.NoError(t, err)

	msgType, err := GetMessageType(data)
	require.NoError(t, err)
	assert.Equal(t, ResultMessageType, msgType)

	_, err = GetMessageType([]byte{0, 1})
	assert.Error(t, err)
}
