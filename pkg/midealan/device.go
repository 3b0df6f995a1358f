package midealan

import (
	"fmt"

	"go.uber.org/zap"
)

// DeviceConfig is the identity and network configuration of one appliance.
// Token/Key identify the device on the cloud-provisioned protocol variants;
// the plain LAN transport does not use them but they stay part of the
// identity record.
type DeviceConfig struct {
	ID              uint64
	Name            string
	Host            string
	Port            uint
	Token           string
	Key             string
	ProtocolVersion byte
	Model           string
	SubType         uint16
	Customize       string
}

// DeviceInfo is the identity snapshot handed to the bridge for discovery.
type DeviceInfo struct {
	ID              uint64
	Name            string
	Model           string
	SubType         uint16
	ProtocolVersion byte
}

// UpdateCallback receives attribute/configuration updates pushed by the
// device, keyed by attribute name.
type UpdateCallback func(map[string]any)

// Device holds what every appliance adapter shares: identity, protocol
// version, the transport and the registered update listeners.
type Device struct {
	id              uint64
	name            string
	model           string
	subType         uint16
	token           string
	key             string
	protocolVersion byte
	deviceType      byte
	transport       Transport
	callbacks       []UpdateCallback
	logger          *zap.Logger
}

func NewDevice(cfg DeviceConfig, deviceType byte, transport Transport, logger *zap.Logger) *Device {
	return &Device{
		id:              cfg.ID,
		name:            cfg.Name,
		model:           cfg.Model,
		subType:         cfg.SubType,
		token:           cfg.Token,
		key:             cfg.Key,
		protocolVersion: cfg.ProtocolVersion,
		deviceType:      deviceType,
		transport:       transport,
		logger:          logger.With(zap.Uint64("device", cfg.ID)),
	}
}

func (d *Device) ID() uint64 {
	return d.id
}

func (d *Device) Name() string {
	return d.name
}

func (d *Device) DeviceType() byte {
	return d.deviceType
}

func (d *Device) ProtocolVersion() byte {
	return d.protocolVersion
}

func (d *Device) Transport() Transport {
	return d.transport
}

func (d *Device) Info() DeviceInfo {
	return DeviceInfo{
		ID:              d.id,
		Name:            d.name,
		Model:           d.model,
		SubType:         d.subType,
		ProtocolVersion: d.protocolVersion,
	}
}

// RegisterUpdate adds a listener for pushed attribute updates.
func (d *Device) RegisterUpdate(cb UpdateCallback) {
	d.callbacks = append(d.callbacks, cb)
}

// UpdateAll notifies every registered listener.
func (d *Device) UpdateAll(status map[string]any) {
	for _, cb := range d.callbacks {
		cb(status)
	}
}

// BuildSend serializes a message and writes it to the transport,
// fire-and-forget. State convergence is observed through later state
// reports, not through this call.
func (d *Device) BuildSend(msg Message) error {
	frame := msg.Encode()
	d.logger.Debug("send", zap.String("frame", fmt.Sprintf("% 02X", frame)))
	return d.transport.Send(frame)
}
