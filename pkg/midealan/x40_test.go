package midealan

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testX40Device(customize string, responses ...[]byte) (*X40Device, *TestTransport) {
	transport := NewTestTransport(responses...)
	dev := NewX40Device(DeviceConfig{
		ID:              71234567890,
		Name:            "bathroom",
		Host:            "-.-.-.-",
		Port:            6444,
		ProtocolVersion: 2,
		Model:           "X40",
		Customize:       customize,
	}, transport, zap.NewNop())
	return dev, transport
}

func lastSetPayload(t *testing.T, transport *TestTransport) []byte {
	f, err := DecodeFrame(transport.LastSent())
	if err != nil {
		t.Fatal(err)
	}
	return f.Payload
}

func TestProcessMessageDirectionRange(t *testing.T) {

	assert := assert.New(t)

	for b := DirectionMinValue; b <= DirectionMaxValue; b++ {
		dev, _ := testX40Device("")
		changed, err := dev.ProcessMessage(stateFrame(func(p []byte) {
			p[27] = byte(b)
		}))
		assert.NoError(err)
		assert.Equal(b, changed[AttrDirection], "direction stored for byte %d", b)
		direction, ok := dev.Direction()
		assert.True(ok)
		assert.Equal(b, direction)
		oscillation, ok := dev.Oscillation()
		assert.True(ok)
		assert.False(oscillation, "oscillation cleared for byte %d", b)
	}
}

func TestProcessMessageDirectionOscillate(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")

	// establish a fixed angle first
	_, err := dev.ProcessMessage(stateFrame(func(p []byte) { p[27] = 75 }))
	assert.NoError(err)

	changed, err := dev.ProcessMessage(stateFrame(func(p []byte) { p[27] = DirectionOscillate }))
	assert.NoError(err)
	assert.Contains(changed, AttrDirection)
	assert.Nil(changed[AttrDirection], "direction cleared")

	_, ok := dev.Direction()
	assert.False(ok, "direction unset while oscillating")
	oscillation, ok := dev.Oscillation()
	assert.True(ok)
	assert.True(oscillation)
}

func TestProcessMessageDirectionDiscardedValues(t *testing.T) {

	assert := assert.New(t)

	for _, b := range []byte{DirectionUnknown, DirectionStop, DirectionNone} {
		dev, _ := testX40Device("")
		_, err := dev.ProcessMessage(stateFrame(func(p []byte) { p[27] = 75 }))
		assert.NoError(err)

		changed, err := dev.ProcessMessage(stateFrame(func(p []byte) { p[27] = b }))
		assert.NoError(err)
		assert.NotContains(changed, AttrDirection, "byte 0x%02X discarded", b)

		direction, ok := dev.Direction()
		assert.True(ok, "stored direction survives byte 0x%02X", b)
		assert.Equal(75, direction)
		oscillation, ok := dev.Oscillation()
		assert.True(ok)
		assert.False(oscillation, "oscillation untouched by byte 0x%02X", b)
	}
}

func TestProcessMessageReturnsUpdatedAttributes(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")
	changed, err := dev.ProcessMessage(stateFrame(func(p []byte) {
		p[0] = 1
		p[25] = 1
		p[26] = 100
		p[32] = 26
	}))
	assert.NoError(err)

	assert.Equal(true, changed[AttrLight])
	assert.Equal(2, changed[AttrFanSpeed])
	assert.Equal(false, changed[AttrVentilation])
	assert.Equal(false, changed[AttrSmellySensor])
	assert.Equal(26.0, changed[AttrCurrentTemperature])
	// oscillation is never its own key; it rides along with direction
	assert.NotContains(changed, AttrOscillation)
}

func TestProcessMessageBadFrame(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")
	_, err := dev.ProcessMessage([]byte{0xAA, 0x02})
	assert.Error(err)

	snap := dev.Attributes()
	assert.Nil(snap[AttrCurrentTemperature], "nothing stored from a bad frame")
}

func TestDirectionByteEncoding(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")

	// oscillation unset
	assert.Equal(DirectionNone, dev.directionByte())

	// oscillating: 0xFD regardless of any remembered angle
	oscillation := true
	angle := 75
	dev.oscillation = &oscillation
	dev.direction = &angle
	assert.Equal(DirectionOscillate, dev.directionByte())

	// fixed angle
	oscillation = false
	assert.Equal(byte(75), dev.directionByte())

	// oscillation known off but angle unknown: stop
	dev.direction = nil
	assert.Equal(DirectionStop, dev.directionByte())
}

func TestConvertToDirectionTotal(t *testing.T) {

	assert := assert.New(t)

	// valid values round-trip
	assert.Equal(DirectionOscillate, ConvertToDirection(0xFD))
	assert.Equal(DirectionStop, ConvertToDirection(0xFE))
	for b := DirectionMinValue; b <= DirectionMaxValue; b++ {
		assert.Equal(byte(b), ConvertToDirection(b), "angle %d", b)
		assert.Equal(byte(b), ConvertToDirection(float64(b)), "angle %g", float64(b))
		assert.Equal(byte(b), ConvertToDirection(fmt.Sprintf("%d", b)), "angle %q", fmt.Sprintf("%d", b))
	}

	// everything else is a no-op byte, never an error
	assert.Equal(DirectionNone, ConvertToDirection(45))
	assert.Equal(DirectionNone, ConvertToDirection(200))
	assert.Equal(DirectionNone, ConvertToDirection(0))
	assert.Equal(DirectionNone, ConvertToDirection("abc"))
	assert.Equal(DirectionNone, ConvertToDirection(true))
	assert.Equal(DirectionNone, ConvertToDirection(nil))
}

func TestSetAttributeDirectionUsesUserValue(t *testing.T) {

	assert := assert.New(t)

	dev, transport := testX40Device("")
	assert.NoError(dev.SetAttribute(AttrDirection, 90))

	payload := lastSetPayload(t, transport)
	assert.Equal(byte(90), payload[setPayloadDirection], "user direction overrides state encoding")
}

func TestSetAttributeVentilationStealsFanSpeedTwo(t *testing.T) {

	assert := assert.New(t)

	dev, transport := testX40Device("")
	_, err := dev.ProcessMessage(stateFrame(func(p []byte) {
		p[25] = 1
		p[26] = 100 // fan speed 2
	}))
	assert.NoError(err)

	assert.NoError(dev.SetAttribute(AttrVentilation, true))

	payload := lastSetPayload(t, transport)
	assert.Equal(byte(1), payload[setPayloadVentilation], "ventilation on")
	assert.Equal(byte(1), payload[setPayloadBlow], "blow still on")
	assert.Equal(byte(30), payload[setPayloadBlowSpeed], "fan speed forced to 1")
}

func TestSetAttributeSeedsFromFieldCache(t *testing.T) {

	assert := assert.New(t)

	dev, transport := testX40Device("")
	_, err := dev.ProcessMessage(stateFrame(func(p []byte) {
		p[1] = 80 // main light brightness
		p[45] = 7 // smelly threshold
	}))
	assert.NoError(err)

	assert.NoError(dev.SetAttribute(AttrLight, true))

	payload := lastSetPayload(t, transport)
	assert.Equal(byte(1), payload[setPayloadLight], "light on")
	assert.Equal(byte(80), payload[1], "brightness passthrough preserved")
	assert.Equal(byte(7), payload[38], "smelly threshold preserved")
}

func TestSetAttributeReadOnlyIsNoOp(t *testing.T) {

	assert := assert.New(t)

	dev, transport := testX40Device("")
	assert.NoError(dev.SetAttribute(AttrOscillation, true))
	assert.NoError(dev.SetAttribute(AttrCurrentTemperature, 20))
	assert.Empty(transport.Sent, "read-only attributes never hit the wire")
}

func TestSetAttributeDoesNotMutateLocalState(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")
	assert.NoError(dev.SetAttribute(AttrLight, true))
	assert.False(dev.Light(), "state converges via later reports, not the set call")
}

func TestCustomizePrecisionHalves(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device(`{"precision_halves": true}`)
	assert.True(dev.PrecisionHalves())

	changed, err := dev.ProcessMessage(stateFrame(func(p []byte) { p[32] = 50 }))
	assert.NoError(err)
	assert.Equal(25.0, changed[AttrCurrentTemperature], "raw temperature halved")
	temperature, ok := dev.CurrentTemperature()
	assert.True(ok)
	assert.Equal(25.0, temperature)
}

func TestCustomizeEmptyResetsDefault(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device(`{"precision_halves": true}`)
	assert.True(dev.PrecisionHalves())

	dev.SetCustomize("")
	assert.False(dev.PrecisionHalves(), "empty customize reverts to default")
}

func TestCustomizeMalformedFallsBack(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")

	var notified map[string]any
	dev.RegisterUpdate(func(status map[string]any) {
		notified = status
	})

	assert.NotPanics(func() { dev.SetCustomize(`{bad json`) })
	assert.False(dev.PrecisionHalves(), "default after parse failure")
	assert.Equal(map[string]any{CustomizeKeyPrecisionHalves: false}, notified,
		"resolved flag still pushed through the update path")
}

func TestCustomizeTruthyValues(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")

	dev.SetCustomize(`{"precision_halves": 1}`)
	assert.True(dev.PrecisionHalves(), "non-zero number is truthy")

	dev.SetCustomize(`{"precision_halves": 0}`)
	assert.False(dev.PrecisionHalves(), "zero is falsy")

	dev.SetCustomize(`{"precision_halves": "yes"}`)
	assert.True(dev.PrecisionHalves(), "non-empty string is truthy")
}

func TestBuildQuery(t *testing.T) {

	assert := assert.New(t)

	dev, _ := testX40Device("")
	queries := dev.BuildQuery()
	assert.Len(queries, 1, "single full-state query")

	f, err := DecodeFrame(queries[0].Encode())
	assert.NoError(err)
	assert.Equal(MessageTypeQuery, f.MessageType)
	assert.Equal(DeviceTypeX40, f.DeviceType)
}
