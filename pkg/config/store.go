package config

import (
	"fmt"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects the catalog backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	return fmt.Sprintf("\n--- Store ---\n  store.driver: %s\n", c.Driver)
}

func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverMongo
	}
	switch c.Driver {
	case StoreDriverMemory, StoreDriverMongo, StoreDriverPostgres:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Driver)
	}
	return nil
}
