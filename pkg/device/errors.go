package device

import (
	"errors"
	"fmt"
)

var (
	// ErrConnection wraps any transport failure talking to the collector.
	ErrConnection = errors.New("no connection to the vote collector")
	// ErrConfiguration means the collector endpoint itself is malformed.
	ErrConfiguration = errors.New("vote collector endpoint misconfigured")
)

// Legacy negative return codes of the collector protocol.
const (
	CodeUnknownMode         = -1
	CodeInvalidKeypadRange  = -2
	CodeInvalidKeypadList   = -3
	CodeNoAuthorizedKeypads = -4
	CodeLicenseInsufficient = -5
	CodeNoDeviceConnected   = -6
	CodeDeviceSetupFailed   = -7
	CodeDeviceNotReady      = -8
)

var protocolErrorMessages = map[int]string{
	CodeUnknownMode:         "Unknown voting mode.",
	CodeInvalidKeypadRange:  "Invalid keypad range.",
	CodeInvalidKeypadList:   "Invalid keypad list.",
	CodeNoAuthorizedKeypads: "No keypads authorized for voting.",
	CodeLicenseInsufficient: "License not sufficient.",
	CodeNoDeviceConnected:   "No voting device connected.",
	CodeDeviceSetupFailed:   "Failed to set up voting device.",
	CodeDeviceNotReady:      "Voting device not ready.",
}

// ProtocolError is a device-reported failure, one of the fixed negative
// codes the legacy wire format uses in place of a count.
type ProtocolError struct {
	Code int
}

func (e *ProtocolError) Error() string {
	if msg, ok := protocolErrorMessages[e.Code]; ok {
		return msg
	}
	return fmt.Sprintf("vote collector error %d", e.Code)
}

// AsProtocolError maps a legacy count to a typed error, or nil if the
// count is a genuine (non-negative) value.
func AsProtocolError(count int) error {
	if count >= 0 {
		return nil
	}
	return &ProtocolError{Code: count}
}
