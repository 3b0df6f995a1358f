package actor

import (
	"testing"
	"time"

	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/util/actorutil"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func stateFrame(mutate func(payload []byte)) []byte {
	payload := make([]byte, 46)
	if mutate != nil {
		mutate(payload)
	}
	return midealan.EncodeFrame(midealan.Frame{
		DeviceType:      midealan.DeviceTypeX40,
		ProtocolVersion: 2,
		MessageType:     midealan.MessageTypeNotify1,
		BodyType:        0x01,
		Payload:         payload,
	})
}

func testDevice(logger *zap.Logger, responses ...[]byte) (*midealan.X40Device, *midealan.TestTransport) {
	transport := midealan.NewTestTransport(responses...)
	device := midealan.NewX40Device(midealan.DeviceConfig{
		ID:              71234567890,
		Name:            "bathroom",
		Host:            "-.-.-.-",
		Port:            6444,
		ProtocolVersion: 2,
		Model:           "X40",
	}, transport, logger)
	return device, transport
}

func TestRefreshStateDeviceActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	device, _ := testDevice(logger, stateFrame(func(p []byte) {
		p[0] = 1   // light on
		p[26] = 80 // blowSpeed => fan speed 2 (blow off, so 0)
		p[27] = 90 // direction angle
		p[32] = 50 // temperature
	}))

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDeviceActor(device, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.RefreshStateRequest{}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.RefreshStateResponse)

	assert.False(resp.HasResponseError())
	assert.Equal(true, resp.Changed[midealan.AttrLight], "light on")
	assert.Equal(90, resp.Changed[midealan.AttrDirection], "direction angle")
	assert.Equal(0, resp.Changed[midealan.AttrFanSpeed], "blow off means fan speed 0")
	assert.Equal(50.0, resp.Changed[midealan.AttrCurrentTemperature], "temperature")
	assert.Equal(false, resp.Attributes[midealan.AttrOscillation], "oscillation off at fixed angle")

	context.Stop(pid)

	as.Shutdown()
}

func TestDeviceControlDeviceActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	device, transport := testDevice(logger)

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDeviceActor(device, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.LightSetRequest{On: true}, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.LightSetResponse)
	assert.False(resp.HasResponseError())

	frame, err := midealan.DecodeFrame(transport.LastSent())
	assert.NoError(err)
	assert.Equal(midealan.MessageTypeSet, frame.MessageType, "set message type")
	assert.Equal(byte(1), frame.Payload[0], "light bit set")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetDeviceInfoDeviceActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	device, _ := testDevice(logger)

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDeviceActor(device, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.GetDeviceInfoRequest{}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetDeviceInfoResponse)

	assert.False(resp.HasResponseError())
	assert.Equal(uint64(71234567890), resp.Device.ID, "device id")
	assert.Equal("bathroom", resp.Device.Name, "device name")
	assert.False(resp.PrecisionHalves, "default precision mode")

	context.Stop(pid)

	as.Shutdown()
}

func TestSetCustomizeDeviceActor(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	device, _ := testDevice(logger)

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewDeviceActor(device, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	result, err := context.RequestFuture(pid, domain.SetCustomizeRequest{Customize: `{"precision_halves": true}`}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SetCustomizeResponse)

	assert.False(resp.HasResponseError())
	assert.True(resp.PrecisionHalves, "precision halves enabled")

	context.Stop(pid)

	as.Shutdown()
}
