package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// OTelConfig holds OpenTelemetry exporter settings.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// SimConfig holds the scenario parameters read at startup.
type SimConfig struct {
	CenterLat   float64
	CenterLng   float64
	Population  int
	SeedZombies int
	Seed        int64
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("server.listen", ":8080")

	// Madrid, Puerta del Sol
	viper.SetDefault("sim.center.lat", 40.4168)
	viper.SetDefault("sim.center.lng", -3.7038)
	viper.SetDefault("sim.population", 120)
	viper.SetDefault("sim.seedZombies", 3)
	viper.SetDefault("sim.seed", 0)

	viper.SetDefault("places.enabled", true)
	viper.SetDefault("places.baseUrl", "https://nominatim.openstreetmap.org")
	viper.SetDefault("places.userAgent", "outbreakd")

	viper.SetDefault("narrator.enabled", true)
	viper.SetDefault("narrator.baseUrl", "")
	viper.SetDefault("narrator.apiKey", "")
	viper.SetDefault("narrator.model", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "outbreak")
	viper.SetDefault("db.sqlitePath", "./outbreak.db")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "outbreak-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "outbreakd")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("outbreak.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the scenario parameters.
func GetSimConfig() SimConfig {
	return SimConfig{
		CenterLat:   viper.GetFloat64("sim.center.lat"),
		CenterLng:   viper.GetFloat64("sim.center.lng"),
		Population:  viper.GetInt("sim.population"),
		SeedZombies: viper.GetInt("sim.seedZombies"),
		Seed:        viper.GetInt64("sim.seed"),
	}
}

// GetOTelConfig returns OTel settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
