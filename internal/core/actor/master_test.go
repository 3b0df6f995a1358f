package actor

import (
	"fmt"
	"testing"
	"time"

	adactor "github.com/berfenger/bathfresh2mqtt/internal/adapter/actor"
	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/util"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testStateFrame() []byte {
	payload := make([]byte, 46)
	payload[0] = 1   // light on
	payload[27] = 90 // direction angle
	payload[32] = 48 // temperature
	return midealan.EncodeFrame(midealan.Frame{
		DeviceType:      midealan.DeviceTypeX40,
		ProtocolVersion: 2,
		MessageType:     midealan.MessageTypeNotify1,
		BodyType:        0x01,
		Payload:         payload,
	})
}

func TestMasterActor(t *testing.T) {

	as := actor.NewActorSystem()
	context := as.Root

	cfg := util.LoadTestConfig()
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(logCfg.Build())

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewMasterOfPuppetsActor(cfg, func() *adactor.DeviceActor {
			transport := midealan.NewTestTransport(testStateFrame())
			device := midealan.NewX40Device(midealan.DeviceConfig{
				ID:              cfg.Device.ID,
				Name:            cfg.Device.Name,
				ProtocolVersion: byte(cfg.Device.ProtocolVersion),
			}, transport, logger)
			return adactor.NewDeviceActor(device, logger)
		}, func(es *eventstream.EventStream) *adactor.MQTTActor {
			return adactor.NewTestMQTTActor(&cfg, es, logger)
		}, logger)
	})
	pid, err := context.SpawnNamed(props, "master")
	if err != nil {
		t.Error(err)
		return
	}

	time.Sleep(2 * time.Second)

	res, err := context.RequestFuture(pid, domain.ActorHealthRequest{}, 10*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(t, ok)
	fmt.Printf("Health response: %+v\n", healthResp)
	assert.NotNil(t, healthResp)

	assert.True(t, healthResp.Healthy, "healthy is true")

	context.Stop(pid)

	as.Shutdown()
}
