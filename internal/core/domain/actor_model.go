package domain

import "github.com/berfenger/bathfresh2mqtt/pkg/midealan"

const (
	ACTOR_ID_MASTER       = "master"
	ACTOR_ID_DEVICE       = "device"
	ACTOR_ID_MONITOR      = "monitor"
	ACTOR_ID_MQTT         = "mqtt"
	ACTOR_ID_HA_DISCOVERY = "hadiscovery"
)

type GetDeviceInfoRequest struct {
	ActorRequestMixIn
}

type GetDeviceInfoResponse struct {
	ActorResponseMixIn
	Device          *midealan.DeviceInfo
	PrecisionHalves bool
}

type RefreshStateRequest struct {
	ActorRequestMixIn
}

type RefreshStateResponse struct {
	ActorResponseMixIn
	// Changed holds only the attributes updated by this refresh cycle.
	Changed map[midealan.Attribute]any
	// Attributes is the full state snapshot after the refresh.
	Attributes map[midealan.Attribute]any
}

type SetCustomizeRequest struct {
	ActorRequestMixIn
	Customize string
}

type SetCustomizeResponse struct {
	ActorResponseMixIn
	PrecisionHalves bool
}

type PublishMessageRequest struct {
	ActorRequestMixIn
	Topic   string
	Payload string
	Retain  bool
}

type PublishMessageResponse struct {
	ActorResponseMixIn
}

type PublishSensorUpdateRequest struct {
	ActorRequestMixIn
	Retain bool
	Event  SensorUpdateEvent
}

type PublishSensorUpdateResponse struct {
	ActorResponseMixIn
}

type PublishDiscoveryRequest struct {
	ActorRequestMixIn
	Sensors      []GenericSensor
	Lights       []GenericLight
	Switches     []GenericSwitch
	InputNumbers []GenericInputNumber
}

type PublishDiscoveryResponse struct {
	ActorResponseMixIn
}

type ActorHealthRequest struct {
	ActorRequestMixIn
}

type ActorHealthResponse struct {
	ActorResponseMixIn
	Id      string
	Healthy bool
	State   string
}
