package keypad

import (
	"fmt"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

const (
	// KindConfig marks invalid configuration, fatal at startup
	KindConfig ftag.Kind = "CONFIG_ERROR"
	// KindTransportUnavailable marks a failed send/receive at the hardware layer
	KindTransportUnavailable ftag.Kind = "TRANSPORT_UNAVAILABLE"
)

// ConfigError builds an error tagged with KindConfig
func ConfigError(format string, args ...any) error {
	return fault.New(fmt.Sprintf(format, args...), ftag.With(KindConfig))
}

// TransportError tags err as TransportUnavailable. Returns nil for a nil err.
func TransportError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fault.Wrap(err, fmsg.With(msg), ftag.With(KindTransportUnavailable))
}

// IsConfigError reports whether err carries the config kind
func IsConfigError(err error) bool {
	return err != nil && ftag.Get(err) == KindConfig
}

// IsTransportUnavailable reports whether err carries the transport kind
func IsTransportUnavailable(err error) bool {
	return err != nil && ftag.Get(err) == KindTransportUnavailable
}
