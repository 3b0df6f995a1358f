package midealan

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Attribute names the generic state the adapter tracks for the bath fresh
// master appliance family.
type Attribute string

const (
	AttrLight              Attribute = "light"
	AttrFanSpeed           Attribute = "fan_speed"
	AttrDirection          Attribute = "direction"
	AttrOscillation        Attribute = "oscillation"
	AttrVentilation        Attribute = "ventilation"
	AttrSmellySensor       Attribute = "smelly_sensor"
	AttrCurrentTemperature Attribute = "current_temperature"
)

// The direction byte multiplexes the louver angle and special modes.
const (
	DirectionMinValue = 60
	DirectionMaxValue = 120

	DirectionOscillate byte = 0xFD
	DirectionStop      byte = 0xFE
	DirectionUnknown   byte = 0x00
	DirectionNone      byte = 0xFF

	// Fan speed 2 is reserved by the appliance while ventilation mode is on.
	VentilationFanSpeed = 2
)

// CustomizeKeyPrecisionHalves is the only key the customize JSON blob knows.
const CustomizeKeyPrecisionHalves = "precision_halves"

// X40Device adapts the generic attribute model to the bath fresh master wire
// format. It is not safe for concurrent use; the hosting actor serializes
// all calls.
type X40Device struct {
	*Device

	light              bool
	fanSpeed           int
	direction          *int
	oscillation        *bool
	ventilation        bool
	smellySensor       bool
	currentTemperature *float64

	// raw field cache from the last state report, seed for set messages
	fields map[string]byte

	precisionHalves        bool
	defaultPrecisionHalves bool

	logger *zap.Logger
}

func NewX40Device(cfg DeviceConfig, transport Transport, logger *zap.Logger) *X40Device {
	dev := &X40Device{
		Device: NewDevice(cfg, DeviceTypeX40, transport, logger),
		fields: map[string]byte{},
		logger: logger.With(zap.Uint64("device", cfg.ID)),
	}
	dev.SetCustomize(cfg.Customize)
	return dev
}

func (d *X40Device) PrecisionHalves() bool {
	return d.precisionHalves
}

func (d *X40Device) Light() bool {
	return d.light
}

func (d *X40Device) FanSpeed() int {
	return d.fanSpeed
}

// Direction returns the louver angle; ok is false while the angle is unknown
// or the appliance oscillates.
func (d *X40Device) Direction() (int, bool) {
	if d.direction == nil {
		return 0, false
	}
	return *d.direction, true
}

// Oscillation reports the oscillation state; ok is false before the first
// state report carrying a usable direction byte.
func (d *X40Device) Oscillation() (bool, bool) {
	if d.oscillation == nil {
		return false, false
	}
	return *d.oscillation, true
}

func (d *X40Device) Ventilation() bool {
	return d.ventilation
}

func (d *X40Device) SmellySensor() bool {
	return d.smellySensor
}

func (d *X40Device) CurrentTemperature() (float64, bool) {
	if d.currentTemperature == nil {
		return 0, false
	}
	return *d.currentTemperature, true
}

// Attributes returns a snapshot of all tracked attributes. Unset direction,
// oscillation and temperature are nil.
func (d *X40Device) Attributes() map[Attribute]any {
	snap := map[Attribute]any{
		AttrLight:              d.light,
		AttrFanSpeed:           d.fanSpeed,
		AttrDirection:          nil,
		AttrOscillation:        nil,
		AttrVentilation:        d.ventilation,
		AttrSmellySensor:       d.smellySensor,
		AttrCurrentTemperature: nil,
	}
	if d.direction != nil {
		snap[AttrDirection] = *d.direction
	}
	if d.oscillation != nil {
		snap[AttrOscillation] = *d.oscillation
	}
	if d.currentTemperature != nil {
		snap[AttrCurrentTemperature] = *d.currentTemperature
	}
	return snap
}

// BuildQuery returns the single full-state query for this family.
func (d *X40Device) BuildQuery() []Message {
	return []Message{NewMessageQuery(d.ProtocolVersion())}
}

// ProcessMessage decodes one inbound frame and merges it into the stored
// attribute state. The returned map holds every attribute updated by this
// frame; oscillation changes ride along with the direction key. The raw
// field cache is replaced wholesale.
func (d *X40Device) ProcessMessage(raw []byte) (map[Attribute]any, error) {
	resp, err := ParseX40Response(raw)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("received", zap.Stringer("message", resp))

	d.fields = resp.Fields

	changed := map[Attribute]any{}

	d.light = resp.Light
	changed[AttrLight] = d.light

	d.fanSpeed = resp.FanSpeed
	changed[AttrFanSpeed] = d.fanSpeed

	switch resp.Direction {
	case DirectionStop, DirectionUnknown, DirectionNone:
		// never stored: 0x00 and 0xFF are no-ops, and 0xFE is filtered here
		// before the branch that would clear oscillation (observed upstream
		// behavior, kept as is)
	case DirectionOscillate:
		d.direction = nil
		oscillation := true
		d.oscillation = &oscillation
		changed[AttrDirection] = nil
	default:
		oscillation := false
		d.oscillation = &oscillation
		angle := int(resp.Direction)
		d.direction = &angle
		changed[AttrDirection] = angle
	}

	d.ventilation = resp.Ventilation
	changed[AttrVentilation] = d.ventilation

	d.smellySensor = resp.SmellySensor
	changed[AttrSmellySensor] = d.smellySensor

	temperature := float64(resp.CurrentTemperature)
	if d.precisionHalves {
		temperature /= 2
	}
	d.currentTemperature = &temperature
	changed[AttrCurrentTemperature] = temperature

	return changed, nil
}

// SetAttribute requests a state change for one of the settable attributes.
// Oscillation and current temperature are sensor-reported and silently
// ignored. The set message is seeded from the raw field cache and the
// current stored state so unrelated appliance features survive the write.
func (d *X40Device) SetAttribute(attr Attribute, value any) error {
	switch attr {
	case AttrLight, AttrFanSpeed, AttrDirection, AttrVentilation, AttrSmellySensor:
	default:
		return nil
	}
	msg := NewMessageSet(d.ProtocolVersion())
	msg.Fields = d.fields
	msg.Light = d.light
	msg.Ventilation = d.ventilation
	msg.SmellySensor = d.smellySensor
	msg.FanSpeed = d.fanSpeed
	msg.Direction = d.directionByte()

	switch {
	case attr == AttrDirection:
		msg.Direction = ConvertToDirection(value)
	case attr == AttrVentilation && msg.FanSpeed == VentilationFanSpeed:
		// ventilation mode and fan speed 2 cannot co-occur on the wire;
		// the appliance reserves speed 2 for ventilation
		msg.FanSpeed = 1
		msg.Ventilation = coerceBool(value)
	case attr == AttrLight:
		msg.Light = coerceBool(value)
	case attr == AttrFanSpeed:
		speed, _ := coerceInt(value)
		msg.FanSpeed = speed
	case attr == AttrVentilation:
		msg.Ventilation = coerceBool(value)
	case attr == AttrSmellySensor:
		msg.SmellySensor = coerceBool(value)
	}

	return d.BuildSend(msg)
}

// SetCustomize reconfigures the precision mode from a JSON blob. Empty input
// resets to the default. Parse errors are logged and fall back to the
// default; the resolved flag is pushed through the update notification path
// either way.
func (d *X40Device) SetCustomize(customize string) {
	d.precisionHalves = d.defaultPrecisionHalves
	if customize == "" {
		return
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(customize), &params); err != nil {
		d.logger.Error("set customize error", zap.Error(err))
	} else if v, ok := params[CustomizeKeyPrecisionHalves]; ok {
		// any JSON value is accepted, truthiness semantics
		d.precisionHalves = coerceBool(v)
	}
	d.UpdateAll(map[string]any{CustomizeKeyPrecisionHalves: d.precisionHalves})
}

// directionByte derives the wire byte from the stored oscillation/direction
// pair. Used when the write does not target direction itself.
func (d *X40Device) directionByte() byte {
	switch {
	case d.oscillation == nil:
		return DirectionNone
	case *d.oscillation:
		return DirectionOscillate
	case d.direction == nil:
		return DirectionStop
	default:
		return byte(*d.direction)
	}
}

// ConvertToDirection coerces a user-supplied direction value to a wire byte.
// Total: oscillate, stop and the [60,120] angle range pass through, anything
// else (out-of-range numbers, garbage strings) becomes the no-op byte.
func ConvertToDirection(value any) byte {
	v, ok := coerceInt(value)
	if !ok {
		return DirectionNone
	}
	if v == int(DirectionOscillate) || v == int(DirectionStop) ||
		(v >= DirectionMinValue && v <= DirectionMaxValue) {
		return byte(v)
	}
	return DirectionNone
}

func coerceInt(value any) (int, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// coerceBool applies truthiness: non-zero numbers and non-empty strings
// count as true.
func coerceBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return len(v) > 0
	case nil:
		return false
	default:
		n, ok := coerceInt(value)
		return ok && n != 0
	}
}
