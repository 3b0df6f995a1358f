package actorutil

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/internal/mqtt"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an inbound MQTT command to the device
// control request it stands for. Unknown entities map to (nil, nil).
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	switch cmd.Command {
	case mqtt.COMMAND_LIGHT:
		if cmd.DeviceId == domain.LIGHT_ID_LIGHT {
			return domain.LightSetRequest{
				On: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		}
	case mqtt.COMMAND_SWITCH:
		switch cmd.DeviceId {
		case domain.SWITCH_ID_VENTILATION:
			return domain.VentilationSetRequest{
				On: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		case domain.SWITCH_ID_SMELLY_SENSOR:
			return domain.SmellySensorSetRequest{
				On: cmd.Payload == mqtt.MQTT_PAYLOAD_ON,
			}, nil
		}
	case mqtt.COMMAND_NUMBER:
		switch cmd.DeviceId {
		case domain.INPUT_NUMBER_ID_FAN_SPEED:
			value, err := strconv.ParseUint(cmd.Payload, 10, 8)
			if err != nil || value > midealan.VentilationFanSpeed {
				return nil, err
			}
			return domain.FanSpeedSetRequest{
				Speed: uint8(value),
			}, nil
		case domain.INPUT_NUMBER_ID_DIRECTION:
			value, err := strconv.ParseFloat(cmd.Payload, 64)
			if err != nil {
				return nil, err
			}
			return domain.DirectionSetRequest{
				Value: value,
			}, nil
		}
	}
	return nil, nil
}
