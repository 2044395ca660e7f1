package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort           string
	MetricsPort        string
	Environment        string
	PodName            string
	PodNamespace       string
	PodIP              string
	LogLevel           string
	LogFormat          string
	PingerInterval     time.Duration
	ReportSchedule     string
	ReportTZ           string
	CORSAllowedOrigins []string
	TerminationFile    string
	KubeConfig         string
	KubeMaster         string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:           getEnvOrDefault(envKeyPort, defaultPort),
		MetricsPort:        getEnvOrDefault(envKeyMetricsPort, defaultMetricsPort),
		Environment:        getEnvOrDefault(envKeyEnvironment, defaultEnvironment),
		PodName:            getEnvOrDefault(envKeyPodName, Unknown),
		PodNamespace:       getEnvOrDefault(envKeyPodNamespace, Unknown),
		PodIP:              getEnvOrDefault(envKeyPodIP, Unknown),
		LogLevel:           getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:          getEnvOrDefault(envKeyLogFormat, "json"),
		ReportTZ:           os.Getenv(envKeyReportTZ),
		CORSAllowedOrigins: splitList(getEnvOrDefault(envKeyCORSAllowedOrigins, defaultCORSOrigins)),
		TerminationFile:    getEnvOrDefault(envKeyTerminationFile, defaultTerminationFile),
		KubeConfig:         os.Getenv(envKeyKubeConfig),
		KubeMaster:         os.Getenv(envKeyKubeMaster),
	}

	// An explicitly empty schedule disables the runtime reporter.
	cfg.ReportSchedule = defaultReportSchedule
	if v, ok := os.LookupEnv(envKeyReportSchedule); ok {
		cfg.ReportSchedule = strings.TrimSpace(v)
	}

	if err := validatePort(envKeyPort, cfg.HTTPPort); err != nil {
		return nil, err
	}

	if err := validatePort(envKeyMetricsPort, cfg.MetricsPort); err != nil {
		return nil, err
	}

	pingerInterval, err := parseDuration(envKeyPingerInterval, defaultPingerInterval, envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.PingerInterval = pingerInterval

	if cfg.ReportTZ != "" {
		if _, err := time.LoadLocation(cfg.ReportTZ); err != nil {
			return nil, fmt.Errorf("parse %s: %w", envKeyReportTZ, err)
		}
	}

	return cfg, nil
}

// PodLookupEnabled reports whether the downward API identified this pod well enough
// to query the Kubernetes API for it.
func (c *Config) PodLookupEnabled() bool {
	return c.PodName != Unknown && c.PodNamespace != Unknown
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}

	err := godotenv.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("load env file %s: %w", path, err)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func parseDuration(key, defaultValue string, minValue time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, defaultValue)

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if d < minValue {
		return 0, fmt.Errorf("parse %s: %w: %s < %s", key, ErrDurationTooSmall, d, minValue)
	}

	return d, nil
}

func validatePort(key, value string) error {
	port, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}

	if port < 0 || port > maxPort {
		return fmt.Errorf("parse %s: %w: %d", key, ErrPortOutOfRange, port)
	}

	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
