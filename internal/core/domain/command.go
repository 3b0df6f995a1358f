package domain

import "fmt"

// DeviceControlRequest

type DeviceControlRequest interface {
	ActorRequest
	DeviceControlCommand() string
}

type DeviceControlRequestMixIn struct {
	ActorRequestMixIn
}

func (r DeviceControlRequestMixIn) DeviceControlCommand() string {
	return fmt.Sprintf("%T", r)
}

// DeviceControlResponse

type DeviceControlResponse interface {
	ActorResponse
	DeviceControlResponse() string
}

type DeviceControlResponseMixIn struct {
	ActorResponseMixIn
}

func (r DeviceControlResponseMixIn) DeviceControlResponse() string {
	return fmt.Sprintf("%T", r)
}

// Device control commands. Each one maps to a single settable attribute of
// the appliance; the effect is observed later through state refreshes.

type LightSetRequest struct {
	DeviceControlRequestMixIn
	On bool
}

type LightSetResponse struct {
	DeviceControlResponseMixIn
}

type FanSpeedSetRequest struct {
	DeviceControlRequestMixIn
	Speed uint8
}

type FanSpeedSetResponse struct {
	DeviceControlResponseMixIn
}

type DirectionSetRequest struct {
	DeviceControlRequestMixIn
	// Value is forwarded as-is; out-of-range values degrade to a protocol
	// no-op instead of failing.
	Value float64
}

type DirectionSetResponse struct {
	DeviceControlResponseMixIn
}

type VentilationSetRequest struct {
	DeviceControlRequestMixIn
	On bool
}

type VentilationSetResponse struct {
	DeviceControlResponseMixIn
}

type SmellySensorSetRequest struct {
	DeviceControlRequestMixIn
	On bool
}

type SmellySensorSetResponse struct {
	DeviceControlResponseMixIn
}

// DeviceControlErrorResponse stands in when a command fails before the
// device actor can produce its typed response.
type DeviceControlErrorResponse struct {
	DeviceControlResponseMixIn
}

func NewDeviceControlErrorResponse(err error) DeviceControlErrorResponse {
	return DeviceControlErrorResponse{
		DeviceControlResponseMixIn: DeviceControlResponseMixIn{
			ActorResponseMixIn: ActorResponseMixIn{
				ResponseError: err,
			},
		},
	}
}

// ensure interface compliance
var _ DeviceControlRequest = (*LightSetRequest)(nil)
