package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/reviewstats/partagg/protocol/common"
	"github.com/reviewstats/partagg/shared/aggregation"
)

// ResultMessage carries a worker's partial map back to the coordinator.
type ResultMessage struct {
	Header      common.Header
	JobID       uuid.UUID
	WorkerID    int
	Distinct    int
	RowsRead    int
	RowsSkipped int
	Partial     aggregation.PartialMap
}

// ErrorMessage reports that a worker could not aggregate its range.
type ErrorMessage struct {
	Header      common.Header
	JobID       uuid.UUID
	WorkerID    int
	Description string
}

// NewResultMessage creates a new ResultMessage
func NewResultMessage(jobID uuid.UUID, workerID int, partial aggregation.PartialMap, stats aggregation.Stats) *ResultMessage {
	return &ResultMessage{
		Header:      common.Header{MsgTypeID: common.ResultMessageType},
		JobID:       jobID,
		WorkerID:    workerID,
		Distinct:    stats.Distinct,
		RowsRead:    stats.RowsRead,
		RowsSkipped: stats.RowsSkipped,
		Partial:     partial,
	}
}

// NewErrorMessage creates a new ErrorMessage
func NewErrorMessage(jobID uuid.UUID, workerID int, description string) *ErrorMessage {
	return &ErrorMessage{
		Header:      common.Header{MsgTypeID: common.ErrorMessageType},
		JobID:       jobID,
		WorkerID:    workerID,
		Description: description,
	}
}

// SerializeResultMessage serializes a ResultMessage to bytes
func SerializeResultMessage(msg *ResultMessage) ([]byte, error) {
	w := common.NewWriter(common.ResultMessageType)
	w.PutUUID(msg.JobID)
	w.PutUint32(uint32(msg.WorkerID))
	w.PutInt64(int64(msg.Distinct))
	w.PutInt64(int64(msg.RowsRead))
	w.PutInt64(int64(msg.RowsSkipped))
	w.MarkHeaderEnd()

	body, err := EncodePartial(msg.Partial)
	if err != nil {
		return nil, err
	}
	w.PutBytes(body)
	return w.Finish()
}

// DeserializeResultMessage deserializes bytes produced by SerializeResultMessage
func DeserializeResultMessage(data []byte) (*ResultMessage, error) {
	r, header, err := common.NewReader(data, common.ResultMessageType)
	if err != nil {
		return nil, fmt.Errorf("invalid result message: %w", err)
	}

	msg := &ResultMessage{
		Header:      header,
		JobID:       r.UUID(),
		WorkerID:    int(r.Uint32()),
		Distinct:    int(r.Int64()),
		RowsRead:    int(r.Int64()),
		RowsSkipped: int(r.Int64()),
	}
	body := r.Bytes()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("invalid result message: %w", err)
	}

	msg.Partial, err = DecodePartial(body)
	if err != nil {
		return nil, fmt.Errorf("invalid result message from worker %d: %w", msg.WorkerID, err)
	}
	return msg, nil
}

// SerializeErrorMessage serializes an ErrorMessage to bytes
func SerializeErrorMessage(msg *ErrorMessage) ([]byte, error) {
	w := common.NewWriter(common.ErrorMessageType)
	w.PutUUID(msg.JobID)
	w.PutUint32(uint32(msg.WorkerID))
	w.MarkHeaderEnd()

	w.PutString(msg.Description)
	return w.Finish()
}

// DeserializeErrorMessage deserializes bytes produced by SerializeErrorMessage
func DeserializeErrorMessage(data []byte) (*ErrorMessage, error) {
	r, header, err := common.NewReader(data, common.ErrorMessageType)
	if err != nil {
		return nil, fmt.Errorf("invalid error message: %w", err)
	}

	msg := &ErrorMessage{
		Header:   header,
		JobID:    r.UUID(),
		WorkerID: int(r.Uint32()),
	}
	msg.Description = r.Text()
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("invalid error message: %w", err)
	}
	return msg, nil
}
