package common

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Writer builds a message: common header, fixed fields, then variable fields.
type Writer struct {
	buf          []byte
	msgType      int
	headerLength int
}

// NewWriter reserves the common header for a message of the given type.
func NewWriter(msgType int) *Writer {
	return &Writer{
		buf:     make([]byte, CommonHeaderSize, 64),
		msgType: msgType,
	}
}

// MarkHeaderEnd records where the fixed-size part of the message ends.
func (w *Writer) MarkHeaderEnd() {
	w.headerLength = len(w.buf)
}

func (w *Writer) PutUint8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) PutBool(v bool) {
	if v {
		w.PutUint8(1)
		return
	}
	w.PutUint8(0)
}

func (w *Writer) PutUint32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

func (w *Writer) PutInt64(v int64) {
	w.buf = binary.BigEndian.AppendUint64(w.buf, uint64(v))
}

func (w *Writer) PutUUID(id uuid.UUID) {
	w.buf = append(w.buf, id[:]...)
}

// PutString writes a u32 length prefix followed by the bytes.
func (w *Writer) PutString(s string) {
	w.PutUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// PutBytes writes a u32 length prefix followed by the bytes.
func (w *Writer) PutBytes(b []byte) {
	w.PutUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// Finish fills in the common header and returns the encoded message.
func (w *Writer) Finish() ([]byte, error) {
	if w.headerLength == 0 {
		w.headerLength = len(w.buf)
	}
	if w.headerLength > math.MaxUint16 {
		return nil, fmt.Errorf("header too long: %d bytes", w.headerLength)
	}
	if len(w.buf) > math.MaxInt32 {
		return nil, fmt.Errorf("message too long: %d bytes", len(w.buf))
	}

	binary.BigEndian.PutUint16(w.buf[0:], uint16(w.headerLength))
	binary.BigEndian.PutUint32(w.buf[HeaderLengthSize:], uint32(len(w.buf)))
	w.buf[HeaderLengthSize+TotalLengthSize] = byte(w.msgType)
	return w.buf, nil
}

// Reader decodes a message field by field. The first decoding error sticks
// and every later read returns a zero value.
type Reader struct {
	data   []byte
	offset int
	err    error
}

// ReadHeader validates the common header of data and returns it.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < CommonHeaderSize {
		return Header{}, fmt.Errorf("data too short to contain a valid message header")
	}

	header := Header{
		HeaderLength: binary.BigEndian.Uint16(data[0:]),
		TotalLength:  int32(binary.BigEndian.Uint32(data[HeaderLengthSize:])),
		MsgTypeID:    int(data[HeaderLengthSize+TotalLengthSize]),
	}

	if int(header.TotalLength) != len(data) {
		return Header{}, fmt.Errorf("total length mismatch: header says %d, got %d bytes", header.TotalLength, len(data))
	}
	if int(header.HeaderLength) < CommonHeaderSize || int(header.HeaderLength) > len(data) {
		return Header{}, fmt.Errorf("invalid header length %d", header.HeaderLength)
	}
	return header, nil
}

// NewReader validates the header against the expected message type and
// positions the reader after the common header.
func NewReader(data []byte, expectedType int) (*Reader, Header, error) {
	header, err := ReadHeader(data)
	if err != nil {
		return nil, Header{}, err
	}
	if header.MsgTypeID != expectedType {
		return nil, Header{}, fmt.Errorf("expected message type %d, got %d", expectedType, header.MsgTypeID)
	}
	return &Reader{data: data, offset: CommonHeaderSize}, header, nil
}

// GetMessageType returns the message type without full deserialization
func GetMessageType(data []byte) (int, error) {
	if len(data) < CommonHeaderSize {
		return 0, fmt.Errorf("data too short to contain message type")
	}
	return int(data[HeaderLengthSize+TotalLengthSize]), nil
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.offset+n > len(r.data) {
		r.err = fmt.Errorf("message truncated at offset %d: need %d bytes, have %d", r.offset, n, len(r.data)-r.offset)
		return nil
	}
	b := r.data[r.offset : r.offset+n]
	r.offset += n
	return b
}

func (r *Reader) Uint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool {
	return r.Uint8() == 1
}

func (r *Reader) Uint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (r *Reader) Int64() int64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

func (r *Reader) UUID() uuid.UUID {
	var id uuid.UUID
	b := r.take(JobIDSize)
	if b != nil {
		copy(id[:], b)
	}
	return id
}

func (r *Reader) Text() string {
	n := r.Uint32()
	return string(r.take(int(n)))
}

func (r *Reader) Bytes() []byte {
	n := r.Uint32()
	b := r.take(int(n))
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Failed reports whether a read has already run past the data.
func (r *Reader) Failed() bool {
	return r.err != nil
}

// Err returns the first decoding error, or an error when bytes are left over.
func (r *Reader) Err() error {
	if r.err != nil {
		return r.err
	}
	if r.offset != len(r.data) {
		return fmt.Errorf("%d trailing bytes after message", len(r.data)-r.offset)
	}
	return nil
}
