package midealan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stateFrame builds a notify frame with a 46-byte state payload, offsets per
// the appliance body layout (payload index = body index - 1).
func stateFrame(mutate func(payload []byte)) []byte {
	payload := make([]byte, 46)
	if mutate != nil {
		mutate(payload)
	}
	return EncodeFrame(Frame{
		DeviceType:      DeviceTypeX40,
		ProtocolVersion: 2,
		MessageType:     MessageTypeNotify1,
		BodyType:        x40BodyType,
		Payload:         payload,
	})
}

// set message payload offsets used by tests
const (
	setPayloadLight       = 0
	setPayloadVentilation = 17
	setPayloadBlow        = 25
	setPayloadBlowSpeed   = 26
	setPayloadDirection   = 27
	setPayloadSmelly      = 37
)

func TestMessageSetLayout(t *testing.T) {

	assert := assert.New(t)

	msg := NewMessageSet(2)
	msg.Light = true
	msg.FanSpeed = 2
	msg.Direction = 90
	msg.Ventilation = true
	msg.SmellySensor = true
	msg.Fields[FIELD_SMELLY_THRESHOLD] = 5

	f, err := DecodeFrame(msg.Encode())
	assert.NoError(err)
	assert.Equal(MessageTypeSet, f.MessageType, "message type")
	assert.Len(f.Payload, 39, "payload length")
	assert.Equal(byte(1), f.Payload[setPayloadLight], "light on")
	assert.Equal(byte(1), f.Payload[setPayloadVentilation], "ventilation on")
	assert.Equal(byte(1), f.Payload[setPayloadBlow], "blow on")
	assert.Equal(byte(100), f.Payload[setPayloadBlowSpeed], "fan speed 2 encodes as 100")
	assert.Equal(byte(90), f.Payload[setPayloadDirection], "direction byte")
	assert.Equal(byte(1), f.Payload[setPayloadSmelly], "smelly sensor on")
	assert.Equal(byte(5), f.Payload[38], "smelly threshold passthrough")
}

func TestMessageSetFanSpeedEncoding(t *testing.T) {

	assert := assert.New(t)

	for speed, want := range map[int][2]byte{
		0: {0, 0xFF},
		1: {1, 30},
		2: {1, 100},
	} {
		msg := NewMessageSet(2)
		msg.FanSpeed = speed
		msg.Direction = DirectionNone
		f, err := DecodeFrame(msg.Encode())
		assert.NoError(err)
		assert.Equal(want[0], f.Payload[setPayloadBlow], "blow flag for speed %d", speed)
		assert.Equal(want[1], f.Payload[setPayloadBlowSpeed], "blow speed for speed %d", speed)
	}
}

func TestParseX40Response(t *testing.T) {

	assert := assert.New(t)

	raw := stateFrame(func(p []byte) {
		p[0] = 1   // light
		p[17] = 1  // ventilation
		p[25] = 1  // blow
		p[26] = 30 // blow speed -> fan speed 1
		p[27] = 75 // direction
		p[32] = 48 // temperature
		p[44] = 1  // smelly sensor
		p[45] = 3  // smelly threshold
	})

	resp, err := ParseX40Response(raw)
	assert.NoError(err)
	assert.True(resp.Light, "light")
	assert.True(resp.Ventilation, "ventilation")
	assert.Equal(1, resp.FanSpeed, "blow speed <= 30 is fan speed 1")
	assert.Equal(byte(75), resp.Direction, "direction")
	assert.Equal(byte(48), resp.CurrentTemperature, "temperature")
	assert.True(resp.SmellySensor, "smelly sensor")
	assert.Equal(byte(3), resp.Fields[FIELD_SMELLY_THRESHOLD], "raw field cache")
}

func TestParseX40ResponseFanSpeedHigh(t *testing.T) {

	assert := assert.New(t)

	resp, err := ParseX40Response(stateFrame(func(p []byte) {
		p[25] = 1
		p[26] = 100
	}))
	assert.NoError(err)
	assert.Equal(2, resp.FanSpeed, "blow speed > 30 is fan speed 2")
}

func TestParseX40ResponseBlowOff(t *testing.T) {

	assert := assert.New(t)

	resp, err := ParseX40Response(stateFrame(func(p []byte) {
		p[26] = 100 // leftover speed byte without blow flag
	}))
	assert.NoError(err)
	assert.Equal(0, resp.FanSpeed, "no blow means fan speed 0")
}

func TestParseX40ResponseRejectsOtherMessages(t *testing.T) {

	assert := assert.New(t)

	raw := EncodeFrame(Frame{
		DeviceType:  DeviceTypeX40,
		MessageType: MessageTypeNotify2,
		BodyType:    x40BodyType,
		Payload:     make([]byte, 46),
	})
	_, err := ParseX40Response(raw)
	assert.ErrorIs(err, ErrUnexpectedMessage)

	raw = EncodeFrame(Frame{
		DeviceType:  DeviceTypeX40,
		MessageType: MessageTypeQuery,
		BodyType:    0x02,
		Payload:     make([]byte, 46),
	})
	_, err = ParseX40Response(raw)
	assert.ErrorIs(err, ErrUnexpectedMessage)
}

func TestParseX40ResponseShortBody(t *testing.T) {

	assert := assert.New(t)

	raw := EncodeFrame(Frame{
		DeviceType:  DeviceTypeX40,
		MessageType: MessageTypeQuery,
		BodyType:    x40BodyType,
		Payload:     make([]byte, 20),
	})
	_, err := ParseX40Response(raw)
	assert.ErrorIs(err, ErrFrameTooShort)
}
