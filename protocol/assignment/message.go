package assignment

import (
	"fmt"

	"github.com/reviewstats/partagg/protocol/common"
)

// Fixed field sizes after the common header
const (
	TotalRowsSize = 8
	LoSize        = 8
	HiSize        = 8
)

// RangeMessage carries an Assignment from the coordinator to a worker.
type RangeMessage struct {
	Header     common.Header
	Assignment Assignment
}

// NewRangeMessage creates a new RangeMessage from an Assignment
func NewRangeMessage(a Assignment) *RangeMessage {
	return &RangeMessage{
		Header: common.Header{
			HeaderLength: 0,
			TotalLength:  0,
			MsgTypeID:    common.RangeMessageType,
		},
		Assignment: a,
	}
}

// SerializeRangeMessage serializes a RangeMessage to bytes
func SerializeRangeMessage(msg *RangeMessage) ([]byte, error) {
	if err := msg.Assignment.Validate(); err != nil {
		return nil, fmt.Errorf("cannot serialize range message: %w", err)
	}

	a := msg.Assignment
	w := common.NewWriter(common.RangeMessageType)
	w.PutUUID(a.JobID)
	w.PutUint32(uint32(a.WorkerID))
	w.PutInt64(int64(a.TotalRows))
	w.PutInt64(int64(a.Lo))
	w.PutInt64(int64(a.Hi))
	w.MarkHeaderEnd()

	w.PutString(a.Query)
	w.PutString(a.DatasetLocation)

	return w.Finish()
}

// DeserializeRangeMessage deserializes bytes produced by SerializeRangeMessage
func DeserializeRangeMessage(data []byte) (*RangeMessage, error) {
	r, header, err := common.NewReader(data, common.RangeMessageType)
	if err != nil {
		return nil, fmt.Errorf("invalid range message: %w", err)
	}

	a := Assignment{
		JobID:     r.UUID(),
		WorkerID:  int(r.Uint32()),
		TotalRows: int(r.Int64()),
		Lo:        int(r.Int64()),
		Hi:        int(r.Int64()),
	}
	a.Query = r.Text()
	a.DatasetLocation = r.Text()

	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("invalid range message: %w", err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid range message: %w", err)
	}

	return &RangeMessage{Header: header, Assignment: a}, nil
}
