package midealan

import (
	"errors"
	"fmt"
)

const (
	x40BodyType byte = 0x01

	// Blow speed at or below this raw value reads back as fan speed 1.
	maxBlowSpeedLowFanSpeed = 30

	x40MinBodyLength = 47
)

var ErrUnexpectedMessage = errors.New("midealan: unexpected message for appliance")

// Raw field names carried between a state response and the next set message.
// The bridge never interprets them; they ride along so a set does not reset
// unrelated appliance features.
const (
	FIELD_MAIN_LIGHT_BRIGHTNESS        = "MAIN_LIGHT_BRIGHTNESS"
	FIELD_NIGHT_LIGHT_ENABLE           = "NIGHT_LIGHT_ENABLE"
	FIELD_NIGHT_LIGHT_BRIGHTNESS       = "NIGHT_LIGHT_BRIGHTNESS"
	FIELD_RADAR_INDUCTION_ENABLE       = "RADAR_INDUCTION_ENABLE"
	FIELD_RADAR_INDUCTION_CLOSING_TIME = "RADAR_INDUCTION_CLOSING_TIME"
	FIELD_LIGHT_INTENSITY_THRESHOLD    = "LIGHT_INTENSITY_THRESHOLD"
	FIELD_RADAR_SENSITIVITY            = "RADAR_SENSITIVITY"
	FIELD_HEATING_ENABLE               = "HEATING_ENABLE"
	FIELD_HEATING_TEMPERATURE          = "HEATING_TEMPERATURE"
	FIELD_HEATING_SPEED                = "HEATING_SPEED"
	FIELD_HEATING_DIRECTION            = "HEATING_DIRECTION"
	FIELD_BATH_ENABLE                  = "BATH_ENABLE"
	FIELD_BATH_HEATING_TIME            = "BATH_HEATING_TIME"
	FIELD_BATH_TEMPERATURE             = "BATH_TEMPERATURE"
	FIELD_BATH_SPEED                   = "BATH_SPEED"
	FIELD_BATH_DIRECTION               = "BATH_DIRECTION"
	FIELD_VENTILATION_SPEED            = "VENTILATION_SPEED"
	FIELD_VENTILATION_DIRECTION        = "VENTILATION_DIRECTION"
	FIELD_DRYING_ENABLE                = "DRYING_ENABLE"
	FIELD_DRYING_TIME                  = "DRYING_TIME"
	FIELD_DRYING_TEMPERATURE           = "DRYING_TEMPERATURE"
	FIELD_DRYING_SPEED                 = "DRYING_SPEED"
	FIELD_DRYING_DIRECTION             = "DRYING_DIRECTION"
	FIELD_DELAY_ENABLE                 = "DELAY_ENABLE"
	FIELD_DELAY_TIME                   = "DELAY_TIME"
	FIELD_SOFT_WIND_ENABLE             = "SOFT_WIND_ENABLE"
	FIELD_SOFT_WIND_TIME               = "SOFT_WIND_TIME"
	FIELD_SOFT_WIND_TEMPERATURE        = "SOFT_WIND_TEMPERATURE"
	FIELD_SOFT_WIND_SPEED              = "SOFT_WIND_SPEED"
	FIELD_SOFT_WIND_DIRECTION          = "SOFT_WIND_DIRECTION"
	FIELD_WINDLESS_ENABLE              = "WINDLESS_ENABLE"
	FIELD_SMELLY_THRESHOLD             = "SMELLY_THRESHOLD"
)

// MessageQuery asks the appliance for a full state report.
type MessageQuery struct {
	ProtocolVersion byte
}

func NewMessageQuery(protocolVersion byte) *MessageQuery {
	return &MessageQuery{ProtocolVersion: protocolVersion}
}

func (m *MessageQuery) Encode() []byte {
	return EncodeFrame(Frame{
		DeviceType:      DeviceTypeX40,
		ProtocolVersion: m.ProtocolVersion,
		MessageType:     MessageTypeQuery,
		BodyType:        x40BodyType,
	})
}

// MessageSet carries a full desired state. Fields the bridge does not model
// are seeded from the raw field cache of the last state response, so only
// the intended change differs from what the appliance reported.
type MessageSet struct {
	ProtocolVersion byte
	Fields          map[string]byte

	Light        bool
	FanSpeed     int
	Direction    byte
	Ventilation  bool
	Anion        bool
	SmellySensor bool
}

func NewMessageSet(protocolVersion byte) *MessageSet {
	return &MessageSet{
		ProtocolVersion: protocolVersion,
		Fields:          map[string]byte{},
	}
}

func (m *MessageSet) field(name string) byte {
	return m.Fields[name]
}

func (m *MessageSet) Encode() []byte {
	var blow, light, ventilation, anion, smellySensor byte
	if m.Light {
		light = 1
	}
	if m.Ventilation {
		ventilation = 1
	}
	if m.Anion {
		anion = 1
	}
	if m.SmellySensor {
		smellySensor = 1
	}
	// fan speed 0 stops the blower, 1 is the low speed, anything else high
	blowSpeed := byte(0xFF)
	if m.FanSpeed > 0 {
		blow = 1
		if m.FanSpeed == 1 {
			blowSpeed = 30
		} else {
			blowSpeed = 100
		}
	}
	payload := []byte{
		light,
		m.field(FIELD_MAIN_LIGHT_BRIGHTNESS),
		m.field(FIELD_NIGHT_LIGHT_ENABLE),
		m.field(FIELD_NIGHT_LIGHT_BRIGHTNESS),
		m.field(FIELD_RADAR_INDUCTION_ENABLE),
		m.field(FIELD_RADAR_INDUCTION_CLOSING_TIME),
		m.field(FIELD_LIGHT_INTENSITY_THRESHOLD),
		m.field(FIELD_RADAR_SENSITIVITY),
		m.field(FIELD_HEATING_ENABLE),
		m.field(FIELD_HEATING_TEMPERATURE),
		m.field(FIELD_HEATING_SPEED),
		m.field(FIELD_HEATING_DIRECTION),
		m.field(FIELD_BATH_ENABLE),
		m.field(FIELD_BATH_HEATING_TIME),
		m.field(FIELD_BATH_TEMPERATURE),
		m.field(FIELD_BATH_SPEED),
		m.field(FIELD_BATH_DIRECTION),
		ventilation,
		m.field(FIELD_VENTILATION_SPEED),
		m.field(FIELD_VENTILATION_DIRECTION),
		m.field(FIELD_DRYING_ENABLE),
		m.field(FIELD_DRYING_TIME),
		m.field(FIELD_DRYING_TEMPERATURE),
		m.field(FIELD_DRYING_SPEED),
		m.field(FIELD_DRYING_DIRECTION),
		blow,
		blowSpeed,
		m.Direction,
		m.field(FIELD_DELAY_ENABLE),
		m.field(FIELD_DELAY_TIME),
		m.field(FIELD_SOFT_WIND_ENABLE),
		m.field(FIELD_SOFT_WIND_TIME),
		m.field(FIELD_SOFT_WIND_TEMPERATURE),
		m.field(FIELD_SOFT_WIND_SPEED),
		m.field(FIELD_SOFT_WIND_DIRECTION),
		m.field(FIELD_WINDLESS_ENABLE),
		anion,
		smellySensor,
		m.field(FIELD_SMELLY_THRESHOLD),
	}
	return EncodeFrame(Frame{
		DeviceType:      DeviceTypeX40,
		ProtocolVersion: m.ProtocolVersion,
		MessageType:     MessageTypeSet,
		BodyType:        x40BodyType,
		Payload:         payload,
	})
}

// X40Response is a decoded state report (query reply, set echo or
// unsolicited notify).
type X40Response struct {
	DeviceType      byte
	ProtocolVersion byte
	MessageType     byte

	Light              bool
	FanSpeed           int
	Direction          byte
	Ventilation        bool
	SmellySensor       bool
	Anion              bool
	CurrentTemperature byte

	Fields map[string]byte
}

func (r *X40Response) String() string {
	return fmt.Sprintf("X40Response{light=%t fan_speed=%d direction=0x%02X ventilation=%t smelly_sensor=%t temperature=%d}",
		r.Light, r.FanSpeed, r.Direction, r.Ventilation, r.SmellySensor, r.CurrentTemperature)
}

// ParseX40Response decodes a raw frame into a state report. Frames of other
// message or body types yield ErrUnexpectedMessage.
func ParseX40Response(raw []byte) (*X40Response, error) {
	f, err := DecodeFrame(raw)
	if err != nil {
		return nil, err
	}
	switch f.MessageType {
	case MessageTypeSet, MessageTypeQuery, MessageTypeNotify1:
	default:
		return nil, ErrUnexpectedMessage
	}
	if f.BodyType != x40BodyType {
		return nil, ErrUnexpectedMessage
	}
	body := f.Body()
	if len(body) < x40MinBodyLength {
		return nil, ErrFrameTooShort
	}
	resp := &X40Response{
		DeviceType:         f.DeviceType,
		ProtocolVersion:    f.ProtocolVersion,
		MessageType:        f.MessageType,
		Light:              body[1] > 0,
		Ventilation:        body[18] > 0,
		Direction:          body[28],
		CurrentTemperature: body[33],
		Anion:              body[44] > 0,
		SmellySensor:       body[45] > 0,
		Fields: map[string]byte{
			FIELD_MAIN_LIGHT_BRIGHTNESS:        body[2],
			FIELD_NIGHT_LIGHT_ENABLE:           body[3],
			FIELD_NIGHT_LIGHT_BRIGHTNESS:       body[4],
			FIELD_RADAR_INDUCTION_ENABLE:       body[5],
			FIELD_RADAR_INDUCTION_CLOSING_TIME: body[6],
			FIELD_LIGHT_INTENSITY_THRESHOLD:    body[7],
			FIELD_RADAR_SENSITIVITY:            body[8],
			FIELD_HEATING_ENABLE:               body[9],
			FIELD_HEATING_TEMPERATURE:          body[10],
			FIELD_HEATING_SPEED:                body[11],
			FIELD_HEATING_DIRECTION:            body[12],
			FIELD_BATH_ENABLE:                  body[13],
			FIELD_BATH_HEATING_TIME:            body[14],
			FIELD_BATH_TEMPERATURE:             body[15],
			FIELD_BATH_SPEED:                   body[16],
			FIELD_BATH_DIRECTION:               body[17],
			FIELD_VENTILATION_SPEED:            body[19],
			FIELD_VENTILATION_DIRECTION:        body[20],
			FIELD_DRYING_ENABLE:                body[21],
			FIELD_DRYING_TIME:                  body[22],
			FIELD_DRYING_TEMPERATURE:           body[23],
			FIELD_DRYING_SPEED:                 body[24],
			FIELD_DRYING_DIRECTION:             body[25],
			FIELD_DELAY_ENABLE:                 body[29],
			FIELD_DELAY_TIME:                   body[30],
			FIELD_SOFT_WIND_ENABLE:             body[38],
			FIELD_SOFT_WIND_TIME:               body[39],
			FIELD_SOFT_WIND_TEMPERATURE:        body[40],
			FIELD_SOFT_WIND_SPEED:              body[41],
			FIELD_SOFT_WIND_DIRECTION:          body[42],
			FIELD_WINDLESS_ENABLE:              body[43],
			FIELD_SMELLY_THRESHOLD:             body[46],
		},
	}
	if body[26] > 0 {
		if body[27] <= maxBlowSpeedLowFanSpeed {
			resp.FanSpeed = 1
		} else {
			resp.FanSpeed = 2
		}
	}
	return resp, nil
}
