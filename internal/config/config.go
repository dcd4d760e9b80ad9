// Package config defines the configuration of the catalog service.
package config

import (
	"strings"

	"github.com/abgdnv/shoecatalog/pkg/config"
	"github.com/abgdnv/shoecatalog/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	Store      config.StoreConfig      `koanf:"store"`
	Mongo      config.MongoConfig      `koanf:"mongo"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
	Resilience config.ResilienceConfig `koanf:"resilience"`
	API        config.APIConfig        `koanf:"api"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Store.String())
	switch c.Store.Driver {
	case config.StoreDriverMongo:
		b.WriteString(c.Mongo.String())
	case config.StoreDriverPostgres:
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.GRPC.String())
	b.WriteString(c.API.String())
	b.WriteString(c.Resilience.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	return b.String()
}

// Validate checks if the configuration values are valid.
// Backend sections are only checked for the selected store driver.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Store,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.GRPC,
		&c.NATS,
		&c.Telemetry,
		&c.Resilience,
		&c.API,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	switch c.Store.Driver {
	case config.StoreDriverMongo:
		return c.Mongo.Validate()
	case config.StoreDriverPostgres:
		return c.Database.Validate()
	}
	return nil
}
