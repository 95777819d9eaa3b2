package common

// Header represents the common header structure for all message types
type Header struct {
	HeaderLength uint16
	TotalLength  int32
	MsgTypeID    int
}

// MessageType constants
const (
	RangeMessageType  = 1
	ResultMessageType = 2
	ErrorMessageType  = 3
)

// Common header sizes
const (
	HeaderLengthSize = 2
	TotalLengthSize  = 4
	MsgTypeIDSize    = 1
	CommonHeaderSize = HeaderLengthSize + TotalLengthSize + MsgTypeIDSize
)

// Fixed field sizes shared by every job message
const (
	JobIDSize    = 16
	WorkerIDSize = 4
)
