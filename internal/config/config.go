package config

import (
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel zapcore.Level
	Device   DeviceConfig `mapstructure:"device"`
	MQTT     MQTTConfig   `mapstructure:"mqtt"`

	MonitorConfig MonitorConfig `mapstructure:"monitor"`
	Port          uint          `mapstructure:"port"`
	HttpLog       bool          `mapstructure:"http_log"`
}

type DeviceConfig struct {
	Host                       string
	Port                       uint
	ID                         uint64 `mapstructure:"id"`
	Name                       string
	Model                      string
	SubType                    uint16 `mapstructure:"sub_type"`
	Token                      string
	Key                        string
	ProtocolVersion            uint8  `mapstructure:"protocol_version"`
	Customize                  string `mapstructure:"customize"`
	TimeoutMillis              uint32 `mapstructure:"timeout_millis"`
	ReadDelayAfterChangeMillis uint32 `mapstructure:"read_delay_after_change_millis"`
}

type MonitorConfig struct {
	PollIntervalMillis uint32 `mapstructure:"poll_interval_millis"`
}

type MQTTConfig struct {
	Host              string
	Port              int
	Username          string
	Password          string
	BaseTopic         string `mapstructure:"base_topic"`
	HADiscoveryEnable bool   `mapstructure:"ha_discovery_enable"`
	HADiscoveryTopic  string `mapstructure:"ha_discovery_topic"`
}

func CheckMQTTTopic(baseTopic string) (string, error) {
	// check and fix base topic
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	matches := baseTopicRegexp.FindAllStringSubmatch(lowerBaseTopic, 1)
	if len(matches) <= 0 {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
