// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Sample generation modes.
const (
	ModeDrift   = "drift"
	ModePointer = "pointer"
	ModeReplay  = "replay"
	ModeNMEA    = "nmea"
)

// What the driver does when a datagram cannot be sent.
const (
	SendErrorContinue = "continue"
	SendErrorStop     = "stop"
)

// Config holds all application configuration values.
type Config struct {
	// Generation
	Mode            string
	SampleInterval  int // milliseconds, 0 = no pause
	SendErrorPolicy string

	// Drift
	PositionStep  float64
	PositionMin   float64
	PositionMax   float64
	AngleDeltaMin float64
	AngleDeltaMax float64
	AngleMin      float64
	AngleMax      float64
	DriftClamp    bool

	// Pointer
	CursorAxis string // "y" or "z": field that receives the cursor's vertical coordinate

	// Replay
	ReplayPath string // empty falls back to pointer mode
	ReplayLoop bool

	// NMEA
	NMEAPort     string // serial device or capture file
	NMEABaudRate int

	// UDP
	UDPAddr    string
	ListenAddr string

	// Mirrors (disabled when empty)
	MQTTBroker   string
	MQTTClientID string
	TopicSample  string
	OSCAddr      string

	// Viewers
	WebServerPort        int
	NormalizeMin         float64
	NormalizeMax         float64
	NormalizeSensibility float64
	NormalizeSwapYZ      bool

	// Logging
	LogLevel string
	LogFile  string
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the stock configuration: drift mode,
// 127.0.0.1:5000, no pause between datagrams.
func Default() *Config {
	return &Config{
		Mode:            ModeDrift,
		SampleInterval:  0,
		SendErrorPolicy: SendErrorContinue,

		PositionStep:  10,
		PositionMin:   -100,
		PositionMax:   100,
		AngleDeltaMin: -2,
		AngleDeltaMax: 2,
		AngleMin:      -180,
		AngleMax:      180,

		CursorAxis: "y",

		NMEABaudRate: 9600,

		UDPAddr:    "127.0.0.1:5000",
		ListenAddr: ":5000",

		TopicSample: "motion/sample",

		WebServerPort:        8080,
		NormalizeMin:         -1,
		NormalizeMax:         1,
		NormalizeSensibility: 1,
		NormalizeSwapYZ:      true,

		LogLevel: "info",
	}
}

// Load reads a configuration file on top of Default. Files ending in .yaml
// or .yml are parsed as YAML, anything else as KEY=VALUE lines. An empty
// path returns the defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	var err error
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		err = cfg.loadYAML(configPath)
	default:
		err = cfg.loadKeyValue(configPath)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadKeyValue(configPath string) error {
	file, err := os.Open(configPath)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := c.setValue(key, value); err != nil {
			return fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// loadYAML accepts a flat mapping; keys are matched case-insensitively
// against the KEY=VALUE names, so "udp_addr" and "UDP_ADDR" are the same.
func (c *Config) loadYAML(configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	for key, v := range raw {
		value := ""
		if v != nil {
			value = fmt.Sprint(v)
		}
		if err := c.setValue(strings.ToUpper(key), value); err != nil {
			return fmt.Errorf("config key %s: %w", key, err)
		}
	}
	return nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error

	switch key {
	// Generation
	case "MODE":
		c.Mode = strings.ToLower(value)
	case "SAMPLE_INTERVAL":
		c.SampleInterval, err = parseInt(key, value)
	case "SEND_ERROR_POLICY":
		c.SendErrorPolicy = strings.ToLower(value)

	// Drift
	case "POSITION_STEP":
		c.PositionStep, err = parseFloat(key, value)
	case "POSITION_MIN":
		c.PositionMin, err = parseFloat(key, value)
	case "POSITION_MAX":
		c.PositionMax, err = parseFloat(key, value)
	case "ANGLE_DELTA_MIN":
		c.AngleDeltaMin, err = parseFloat(key, value)
	case "ANGLE_DELTA_MAX":
		c.AngleDeltaMax, err = parseFloat(key, value)
	case "ANGLE_MIN":
		c.AngleMin, err = parseFloat(key, value)
	case "ANGLE_MAX":
		c.AngleMax, err = parseFloat(key, value)
	case "DRIFT_CLAMP":
		c.DriftClamp, err = parseBool(key, value)

	// Pointer
	case "CURSOR_AXIS":
		c.CursorAxis = strings.ToLower(value)

	// Replay
	case "REPLAY_PATH":
		c.ReplayPath = value
	case "REPLAY_LOOP":
		c.ReplayLoop, err = parseBool(key, value)

	// NMEA
	case "NMEA_PORT":
		c.NMEAPort = value
	case "NMEA_BAUD_RATE":
		c.NMEABaudRate, err = parseInt(key, value)

	// UDP
	case "UDP_ADDR":
		c.UDPAddr = value
	case "LISTEN_ADDR":
		c.ListenAddr = value

	// Mirrors
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID":
		c.MQTTClientID = value
	case "TOPIC_SAMPLE":
		c.TopicSample = value
	case "OSC_ADDR":
		c.OSCAddr = value

	// Viewers
	case "WEB_SERVER_PORT":
		c.WebServerPort, err = parseInt(key, value)
	case "NORMALIZE_MIN":
		c.NormalizeMin, err = parseFloat(key, value)
	case "NORMALIZE_MAX":
		c.NormalizeMax, err = parseFloat(key, value)
	case "NORMALIZE_SENSIBILITY":
		c.NormalizeSensibility, err = parseFloat(key, value)
	case "NORMALIZE_SWAP_YZ":
		c.NormalizeSwapYZ, err = parseBool(key, value)

	// Logging
	case "LOG_LEVEL":
		c.LogLevel = strings.ToLower(value)
	case "LOG_FILE":
		c.LogFile = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

func parseInt(key, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func parseFloat(key, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

func parseBool(key, value string) (bool, error) {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return v, nil
}

// validate checks enums and ranges.
func (c *Config) validate() error {
	switch c.Mode {
	case ModeDrift, ModePointer, ModeReplay, ModeNMEA:
	default:
		return fmt.Errorf("MODE must be one of drift, pointer, replay, nmea, got %q", c.Mode)
	}
	switch c.SendErrorPolicy {
	case SendErrorContinue, SendErrorStop:
	default:
		return fmt.Errorf("SEND_ERROR_POLICY must be continue or stop, got %q", c.SendErrorPolicy)
	}
	if c.CursorAxis != "y" && c.CursorAxis != "z" {
		return fmt.Errorf("CURSOR_AXIS must be y or z, got %q", c.CursorAxis)
	}
	if c.SampleInterval < 0 {
		return fmt.Errorf("SAMPLE_INTERVAL must be >= 0, got %d", c.SampleInterval)
	}
	if c.UDPAddr == "" {
		return fmt.Errorf("UDP_ADDR is required")
	}
	if c.PositionMin > c.PositionMax {
		return fmt.Errorf("POSITION_MIN (%g) is above POSITION_MAX (%g)", c.PositionMin, c.PositionMax)
	}
	if c.AngleMin > c.AngleMax {
		return fmt.Errorf("ANGLE_MIN (%g) is above ANGLE_MAX (%g)", c.AngleMin, c.AngleMax)
	}
	if c.AngleDeltaMin > c.AngleDeltaMax {
		return fmt.Errorf("ANGLE_DELTA_MIN (%g) is above ANGLE_DELTA_MAX (%g)", c.AngleDeltaMin, c.AngleDeltaMax)
	}
	if c.Mode == ModeNMEA && c.NMEAPort == "" {
		return fmt.Errorf("NMEA_PORT is required in nmea mode")
	}
	if c.MQTTBroker != "" && c.TopicSample == "" {
		return fmt.Errorf("TOPIC_SAMPLE is required when MQTT_BROKER is set")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Only the first call loads; later calls return the first result.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
