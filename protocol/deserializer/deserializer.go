package deserializer

import (
	"fmt"

	"github.com/reviewstats/partagg/protocol/assignment"
	"github.com/reviewstats/partagg/protocol/common"
	"github.com/reviewstats/partagg/protocol/report"
)

// MessageHeader represents the common header structure for all message types
type MessageHeader = common.Header

// Deserialize identifies the message type and deserializes the appropriate message
func Deserialize(data []byte) (interface{}, error) {
	msgType, err := common.GetMessageType(data)
	if err != nil {
		return nil, fmt.Errorf("failed to get message type: %w", err)
	}

	switch msgType {
	case common.RangeMessageType:
		return assignment.DeserializeRangeMessage(data)
	case common.ResultMessageType:
		return report.DeserializeResultMessage(data)
	case common.ErrorMessageType:
		return report.DeserializeErrorMessage(data)
	default:
		return nil, fmt.Errorf("unknown message type: %d", msgType)
	}
}

// IsValidMessage checks if the data contains a valid message
func IsValidMessage(data []byte) bool {
	_, err := Deserialize(data)
	return err == nil
}
