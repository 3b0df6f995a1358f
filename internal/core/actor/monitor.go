package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/bathfresh2mqtt/internal/config"
	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/core/events"
	. "github.com/berfenger/bathfresh2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const refreshRequestTimeout = 15 * time.Second

// MonitorActor drives the state poll cycle and routes control commands to
// the device actor. After a successful command it schedules one extra
// refresh so the externally visible state converges fast.
type MonitorActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler *scheduler.TimerScheduler

	deviceActor *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream

	logger *zap.Logger
}

type monitorTick struct {
}

type readAfterChangeTick struct {
}

func NewMonitorActor(config *config.Config, deviceActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *MonitorActor {
	act := &MonitorActor{
		config:      config,
		deviceActor: deviceActor,
		behavior:    actor.NewBehavior(),
		stash:       &Stash{},
		logger:      ActorLogger(domain.ACTOR_ID_MONITOR, logger),
		eventStream: eventStream,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *MonitorActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *MonitorActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("monitor@starting started")

		state.scheduler = scheduler.NewTimerScheduler(ctx)
		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorTick{})
		}

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.logger.Debug("monitor@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("monitor@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_MONITOR,
			Healthy: true,
			State:   "idle",
		})
	case monitorTick:
		state.logger.Debug("monitor@default tick")
		state.requestRefresh(ctx)

		// schedule next tick
		if state.config.MonitorConfig.PollIntervalMillis > 0 {
			state.scheduler.RequestOnce(time.Duration(state.config.MonitorConfig.PollIntervalMillis)*time.Millisecond, ctx.Self(), monitorTick{})
		}
		state.behavior.BecomeStacked(state.WaitingRefreshReceive)
	case readAfterChangeTick:
		state.logger.Debug("monitor@default readAfterChangeTick")
		state.requestRefresh(ctx)
		state.behavior.BecomeStacked(state.WaitingRefreshReceive)
	case domain.DeviceControlRequest:
		state.logger.Debug("monitor@default DeviceControlRequest", zap.String("command", msg.DeviceControlCommand()))
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, msg, refreshRequestTimeout), func(err error) any {
			return domain.NewDeviceControlErrorResponse(err)
		})
	case domain.DeviceControlResponse:
		if msg.HasResponseError() {
			state.logger.Error("monitor@default DeviceControlResponse error", zap.Error(msg.GetResponseError()))
			return
		}
		state.logger.Debug("monitor@default DeviceControlResponse", zap.String("type", fmt.Sprintf("%T", msg)))
		// the appliance answers set commands asynchronously; read back the
		// state after a short delay instead of trusting the echo
		delay := time.Duration(state.config.Device.ReadDelayAfterChangeMillis) * time.Millisecond
		if delay > 0 {
			state.scheduler.RequestOnce(delay, ctx.Self(), readAfterChangeTick{})
		} else {
			ctx.Send(ctx.Self(), readAfterChangeTick{})
		}
	default:
		state.logger.Debug("monitor@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) WaitingRefreshReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.RefreshStateResponse:
		if msg.HasResponseError() {
			state.logger.Error("monitor@waiting RefreshStateResponse error", zap.Error(msg.GetResponseError()))
			state.behavior.UnbecomeStacked()
			state.stash.UnstashAll(ctx)
			return
		}
		state.logger.Debug("monitor@waiting RefreshStateResponse", zap.Int("changed", len(msg.Changed)))
		evs := events.AttributeUpdateEvents(msg.Changed, msg.Attributes)
		for _, ev := range evs {
			state.eventStream.Publish(ev)
		}
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("monitor@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *MonitorActor) requestRefresh(ctx actor.Context) {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.deviceActor, domain.RefreshStateRequest{}, refreshRequestTimeout), func(err error) any {
		return domain.RefreshStateResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	})
}
