package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/berfenger/bathfresh2mqtt/pkg/midealan"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE        = "bridge"
	SENSOR_ID_CURRENT_TEMPERATURE = "current_temperature"
	SENSOR_ID_OSCILLATION         = "oscillation"
	LIGHT_ID_LIGHT                = "light"
	SWITCH_ID_VENTILATION         = "ventilation"
	SWITCH_ID_SMELLY_SENSOR       = "smelly_sensor"
	INPUT_NUMBER_ID_FAN_SPEED     = "fan_speed"
	INPUT_NUMBER_ID_DIRECTION     = "direction"

	STATE_CLASS_MEASUREMENT   = "measurement"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_RUNNING      = "running"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"
	ENTITY_CLASS_DIAGNOSTIC   = "diagnostic"
	ENTITY_CLASS_CONFIG       = "config"
	SENSOR_TYPE_SENSOR        = "sensor"
	SENSOR_TYPE_BINARY        = "binary_sensor"
	INPUT_NUMBER_MODE_BOX     = "box"
	INPUT_NUMBER_MODE_SLIDER  = "slider"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("bathfresh_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Bathfresh",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Bathfresh %s", md5HashShort(baseTopic)),
	}
}

func ApplianceDevice(info *midealan.DeviceInfo) Device {
	serial := fmt.Sprintf("%d", info.ID)
	model := info.Model
	if model == "" {
		model = "Bath Fresh Master"
	}
	name := info.Name
	if name == "" {
		name = fmt.Sprintf("Midea %s %s", model, md5HashShort(serial))
	}
	return Device{
		Id:           fmt.Sprintf("bf_appliance_%s", md5HashShort(serial)),
		Version:      fmt.Sprintf("v%d", info.ProtocolVersion),
		Manufacturer: "Midea",
		Model:        model,
		Name:         name,
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func ApplianceSensors(applianceDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Current temperature
	sensors = append(sensors, GenericSensor{
		Device:            applianceDevice,
		Id:                SENSOR_ID_CURRENT_TEMPERATURE,
		SensorType:        SENSOR_TYPE_SENSOR,
		Name:              "Current temperature",
		StateClass:        STATE_CLASS_MEASUREMENT,
		DeviceClass:       DEVICE_CLASS_TEMPERATURE,
		UnitOfMeasurement: "°C",
		UniqueId:          uniqueId(applianceDevice.Id, SENSOR_ID_CURRENT_TEMPERATURE),
	})

	// Oscillation (sensor-reported, read-only)
	sensors = append(sensors, GenericSensor{
		Device:      applianceDevice,
		Id:          SENSOR_ID_OSCILLATION,
		SensorType:  SENSOR_TYPE_BINARY,
		Name:        "Oscillation",
		DeviceClass: DEVICE_CLASS_RUNNING,
		Icon:        "mdi:arrow-oscillating",
		UniqueId:    uniqueId(applianceDevice.Id, SENSOR_ID_OSCILLATION),
	})

	return sensors
}

func ApplianceLights(applianceDevice Device) []GenericLight {

	var lights []GenericLight

	// Main light
	lights = append(lights, GenericLight{
		Device:   applianceDevice,
		Id:       LIGHT_ID_LIGHT,
		Name:     "Light",
		UniqueId: uniqueId(applianceDevice.Id, LIGHT_ID_LIGHT),
	})

	return lights
}

func ApplianceSwitches(applianceDevice Device) []GenericSwitch {

	var switches []GenericSwitch

	// Ventilation mode
	switches = append(switches, GenericSwitch{
		Device:   applianceDevice,
		Id:       SWITCH_ID_VENTILATION,
		Name:     "Ventilation",
		UniqueId: uniqueId(applianceDevice.Id, SWITCH_ID_VENTILATION),
		Icon:     "mdi:fan",
	})
	// Smelly sensor
	switches = append(switches, GenericSwitch{
		Device:   applianceDevice,
		Id:       SWITCH_ID_SMELLY_SENSOR,
		Name:     "Smelly sensor",
		UniqueId: uniqueId(applianceDevice.Id, SWITCH_ID_SMELLY_SENSOR),
		Icon:     "mdi:scent",
	})

	return switches
}

func ApplianceInputNumbers(applianceDevice Device) []GenericInputNumber {

	var inputNumbers []GenericInputNumber

	// Fan speed
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:   applianceDevice,
		Id:       INPUT_NUMBER_ID_FAN_SPEED,
		Name:     "Fan speed",
		UniqueId: uniqueId(applianceDevice.Id, INPUT_NUMBER_ID_FAN_SPEED),
		Icon:     "mdi:fan",
		Max:      2,
		Min:      0,
		Step:     1,
		Mode:     INPUT_NUMBER_MODE_SLIDER,
	})
	// Louver direction
	inputNumbers = append(inputNumbers, GenericInputNumber{
		Device:       applianceDevice,
		Id:           INPUT_NUMBER_ID_DIRECTION,
		Name:         "Direction",
		UniqueId:     uniqueId(applianceDevice.Id, INPUT_NUMBER_ID_DIRECTION),
		Icon:         "mdi:angle-acute",
		Max:          midealan.DirectionMaxValue,
		Min:          midealan.DirectionMinValue,
		Step:         1,
		Mode:         INPUT_NUMBER_MODE_BOX,
		InitialValue: 90,
	})

	return inputNumbers
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
