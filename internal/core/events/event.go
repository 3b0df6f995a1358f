package events

import (
	. "github.com/berfenger/bathfresh2mqtt/internal/core/domain"
	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"
)

// AttributeUpdateEvents maps one refresh cycle's changed attributes to MQTT
// update events. Oscillation has no key of its own in the changed map; it is
// emitted from the snapshot whenever the direction key is present.
func AttributeUpdateEvents(changed map[midealan.Attribute]any, snapshot map[midealan.Attribute]any) []any {
	var events []any

	if value, ok := changed[midealan.AttrLight]; ok {
		events = append(events, LightUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: LIGHT_ID_LIGHT,
			},
			Value: value == true,
		})
	}
	if value, ok := changed[midealan.AttrFanSpeed]; ok {
		if speed, ok := value.(int); ok {
			events = append(events, InputNumberSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: INPUT_NUMBER_ID_FAN_SPEED,
				},
				Value: float64(speed),
			})
		}
	}
	if value, ok := changed[midealan.AttrDirection]; ok {
		if angle, ok := value.(int); ok {
			events = append(events, InputNumberSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: INPUT_NUMBER_ID_DIRECTION,
				},
				Value: float64(angle),
			})
		}
		// direction and oscillation share a wire byte, so a direction update
		// implies a fresh oscillation state
		if oscillation, ok := snapshot[midealan.AttrOscillation].(bool); ok {
			events = append(events, BinarySensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: SENSOR_ID_OSCILLATION,
				},
				Value: oscillation,
			})
		}
	}
	if value, ok := changed[midealan.AttrVentilation]; ok {
		events = append(events, SwitchSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SWITCH_ID_VENTILATION,
			},
			Value: value == true,
		})
	}
	if value, ok := changed[midealan.AttrSmellySensor]; ok {
		events = append(events, SwitchSensorUpdateEvent{
			SensorUpdateEventMixIn: SensorUpdateEventMixIn{
				Id: SWITCH_ID_SMELLY_SENSOR,
			},
			Value: value == true,
		})
	}
	if value, ok := changed[midealan.AttrCurrentTemperature]; ok {
		if temperature, ok := value.(float64); ok {
			events = append(events, FloatSensorUpdateEvent{
				SensorUpdateEventMixIn: SensorUpdateEventMixIn{
					Id: SENSOR_ID_CURRENT_TEMPERATURE,
				},
				Value:    temperature,
				Decimals: 1,
			})
		}
	}

	return events
}
