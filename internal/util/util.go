package util

import (
	"github.com/berfenger/bathfresh2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Device: config.DeviceConfig{
			Host:                       "-.-.-.-",
			Port:                       6444,
			ID:                         151732605286617,
			Name:                       "Bath Fresh Master",
			ProtocolVersion:            2,
			TimeoutMillis:              2000,
			ReadDelayAfterChangeMillis: 1000,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "bathfresh",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
