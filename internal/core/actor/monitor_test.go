package actor

import (
	"errors"
	"sync"
	"testing"
	"time"

	adactor "github.com/berfenger/bathfresh2mqtt/internal/adapter/actor"
	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/util"
	"github.com/berfenger/bathfresh2mqtt/internal/util/actorutil"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type eventCollector struct {
	mu     sync.Mutex
	events []any
}

func (c *eventCollector) add(ev any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *eventCollector) snapshot() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any{}, c.events...)
}

func TestMonitorPollPublishesUpdates(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	cfg := util.LoadTestConfig()
	cfg.MonitorConfig.PollIntervalMillis = 500

	transport := midealan.NewTestTransport(testStateFrame())
	device := midealan.NewX40Device(midealan.DeviceConfig{
		ID:              cfg.Device.ID,
		Name:            cfg.Device.Name,
		ProtocolVersion: byte(cfg.Device.ProtocolVersion),
	}, transport, logger)

	deviceProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDeviceActor(device, logger)
	})
	deviceActorPID := context.Spawn(deviceProps)

	es := &eventstream.EventStream{}
	collector := &eventCollector{}
	sub := es.Subscribe(collector.add)
	defer es.Unsubscribe(sub)

	monitorProps := actor.PropsFromProducer(func() actor.Actor {
		return NewMonitorActor(&cfg, deviceActorPID, es, logger)
	})
	monitorActorPID := context.Spawn(monitorProps)

	time.Sleep(2 * time.Second)

	hcr, err := healthCheck(context, monitorActorPID)
	if err != nil {
		t.Error(err)
		return
	}
	assert.True(hcr.Healthy, "monitor should be healthy")

	var lightOn, directionSeen, oscillationSeen bool
	for _, ev := range collector.snapshot() {
		switch e := ev.(type) {
		case domain.LightUpdateEvent:
			lightOn = e.Value
		case domain.InputNumberSensorUpdateEvent:
			if e.Id == domain.INPUT_NUMBER_ID_DIRECTION {
				directionSeen = true
				assert.Equal(90.0, e.Value, "direction angle")
			}
		case domain.BinarySensorUpdateEvent:
			if e.Id == domain.SENSOR_ID_OSCILLATION {
				oscillationSeen = true
				assert.False(e.Value, "oscillation off at fixed angle")
			}
		}
	}
	assert.True(lightOn, "light update published")
	assert.True(directionSeen, "direction update published")
	assert.True(oscillationSeen, "oscillation rides along with direction")

	context.Stop(monitorActorPID)
	context.Stop(deviceActorPID)

	as.Shutdown()
}

func TestMonitorForwardsControlCommands(t *testing.T) {

	assert := assert.New(t)

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	cfg := util.LoadTestConfig()
	// no periodic poll for this test, only the read-after-change refresh
	cfg.MonitorConfig.PollIntervalMillis = 0
	cfg.Device.ReadDelayAfterChangeMillis = 100

	transport := midealan.NewTestTransport(testStateFrame())
	device := midealan.NewX40Device(midealan.DeviceConfig{
		ID:              cfg.Device.ID,
		Name:            cfg.Device.Name,
		ProtocolVersion: byte(cfg.Device.ProtocolVersion),
	}, transport, logger)

	deviceProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewDeviceActor(device, logger)
	})
	deviceActorPID := context.Spawn(deviceProps)

	es := &eventstream.EventStream{}
	collector := &eventCollector{}
	sub := es.Subscribe(collector.add)
	defer es.Unsubscribe(sub)

	monitorProps := actor.PropsFromProducer(func() actor.Actor {
		return NewMonitorActor(&cfg, deviceActorPID, es, logger)
	})
	monitorActorPID := context.Spawn(monitorProps)

	time.Sleep(500 * time.Millisecond)

	context.Send(monitorActorPID, domain.VentilationSetRequest{On: true})

	time.Sleep(2 * time.Second)

	// the command write plus the read-after-change refresh both hit the wire
	var lightSeen bool
	for _, ev := range collector.snapshot() {
		if e, ok := ev.(domain.LightUpdateEvent); ok && e.Value {
			lightSeen = true
		}
	}
	assert.True(lightSeen, "read-after-change refresh published state")

	context.Stop(monitorActorPID)
	context.Stop(deviceActorPID)

	as.Shutdown()
}

func healthCheck(ctx *actor.RootContext, pid *actor.PID) (*domain.ActorHealthResponse, error) {
	resp, err := ctx.RequestFuture(pid, domain.ActorHealthRequest{}, 2*time.Second).Result()
	if err != nil {
		return nil, err
	}
	hcr, ok := resp.(domain.ActorHealthResponse)
	if !ok {
		return nil, errors.New("unexpected response type")
	}
	return &hcr, nil
}
