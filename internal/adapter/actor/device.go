package actor

import (
	"fmt"
	"time"

	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/util/actorutil"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const deviceTaskTimeout = 10 * time.Second

// DeviceActor owns the appliance adapter and its transport. All protocol IO
// runs through background tasks; while one is in flight the actor stashes
// incoming messages so device access stays serialized.
type DeviceActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	device   *midealan.X40Device
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

func NewDeviceActor(device *midealan.X40Device, logger *zap.Logger) *DeviceActor {
	act := &DeviceActor{
		device:   device,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger(domain.ACTOR_ID_DEVICE, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *DeviceActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *DeviceActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("device@starting started")
		if err := state.device.Transport().Open(); err != nil {
			panic(err)
		}
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	case *actor.Restarting:
		_ = state.device.Transport().Close()
	default:
		state.logger.Debug("device@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *DeviceActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("device@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_DEVICE,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetDeviceInfoRequest:
		state.logger.Debug("device@default: GetDeviceInfoRequest")
		info := state.device.Info()
		actorutil.ForRequest(msg).Respond(ctx, domain.GetDeviceInfoResponse{
			Device:          &info,
			PrecisionHalves: state.device.PrecisionHalves(),
		})
	case domain.SetCustomizeRequest:
		state.logger.Debug("device@default: SetCustomizeRequest")
		state.device.SetCustomize(msg.Customize)
		actorutil.ForRequest(msg).Respond(ctx, domain.SetCustomizeResponse{
			PrecisionHalves: state.device.PrecisionHalves(),
		})
	case domain.RefreshStateRequest:
		state.logger.Debug("device@default: RefreshStateRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.refreshState),
			mapTaskResult[domain.RefreshStateResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.RefreshStateResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(deviceTaskTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingDevice)
	case domain.DeviceControlRequest:
		state.logger.Debug("device@default: DeviceControlRequest",
			zap.String("command", msg.DeviceControlCommand()))
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)

		actorutil.NewBackgroundTask(ctx, func() (*backgroundTaskResult, error) {
			resp, err := state.applyControl(msg)
			if err != nil {
				return nil, err
			}
			return &backgroundTaskResult{
				message: resp,
				replyTo: sender,
			}, nil
		}).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: controlErrorResponse(msg, err),
				replyTo: sender,
			}
		}).WithTimeout(deviceTaskTimeout).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingDevice)
	case *actor.Stopping:
		_ = state.device.Transport().Close()
	default:
		state.logger.Debug("device@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *DeviceActor) WaitingDevice(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("device@WaitingDevice backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		_ = state.device.Transport().Close()
	default:
		state.logger.Debug("device@WaitingDevice stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

// refreshState runs the full query cycle. A response buffer may carry several
// frames; undecodable frames are logged and skipped so one corrupt notify does
// not abort the refresh.
func (a *DeviceActor) refreshState() (*domain.RefreshStateResponse, error) {
	changed := map[midealan.Attribute]any{}
	for _, query := range a.device.BuildQuery() {
		frames, err := a.device.Transport().Roundtrip(query.Encode())
		if err != nil {
			logger.Error(err)
			return nil, err
		}
		for _, frame := range frames {
			frameChanged, err := a.device.ProcessMessage(frame)
			if err != nil {
				logger.Error(err)
				continue
			}
			for attr, value := range frameChanged {
				changed[attr] = value
			}
		}
	}
	return &domain.RefreshStateResponse{
		Changed:    changed,
		Attributes: a.device.Attributes(),
	}, nil
}

// applyControl maps a control command to the attribute write it stands for.
// The write is fire-and-forget on the wire; the new state shows up in the
// next refresh.
func (a *DeviceActor) applyControl(req domain.DeviceControlRequest) (any, error) {
	switch cmd := req.(type) {
	case domain.LightSetRequest:
		if err := a.device.SetAttribute(midealan.AttrLight, cmd.On); err != nil {
			return nil, err
		}
		return domain.LightSetResponse{}, nil
	case domain.FanSpeedSetRequest:
		if err := a.device.SetAttribute(midealan.AttrFanSpeed, int(cmd.Speed)); err != nil {
			return nil, err
		}
		return domain.FanSpeedSetResponse{}, nil
	case domain.DirectionSetRequest:
		if err := a.device.SetAttribute(midealan.AttrDirection, cmd.Value); err != nil {
			return nil, err
		}
		return domain.DirectionSetResponse{}, nil
	case domain.VentilationSetRequest:
		if err := a.device.SetAttribute(midealan.AttrVentilation, cmd.On); err != nil {
			return nil, err
		}
		return domain.VentilationSetResponse{}, nil
	case domain.SmellySensorSetRequest:
		if err := a.device.SetAttribute(midealan.AttrSmellySensor, cmd.On); err != nil {
			return nil, err
		}
		return domain.SmellySensorSetResponse{}, nil
	default:
		return nil, fmt.Errorf("unknown device control command %T", req)
	}
}

func controlErrorResponse(req domain.DeviceControlRequest, err error) any {
	mixin := domain.DeviceControlResponseMixIn{
		ActorResponseMixIn: domain.ActorResponseMixIn{
			ResponseError: err,
		},
	}
	switch req.(type) {
	case domain.LightSetRequest:
		return domain.LightSetResponse{DeviceControlResponseMixIn: mixin}
	case domain.FanSpeedSetRequest:
		return domain.FanSpeedSetResponse{DeviceControlResponseMixIn: mixin}
	case domain.DirectionSetRequest:
		return domain.DirectionSetResponse{DeviceControlResponseMixIn: mixin}
	case domain.VentilationSetRequest:
		return domain.VentilationSetResponse{DeviceControlResponseMixIn: mixin}
	case domain.SmellySensorSetRequest:
		return domain.SmellySensorSetResponse{DeviceControlResponseMixIn: mixin}
	default:
		return domain.NewDeviceControlErrorResponse(err)
	}
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
