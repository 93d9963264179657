// Package config loads the clientdesk configuration.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"clientdesk/internal/logging"
	"clientdesk/internal/store"
)

// Config is the complete clientdesk configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Store   StoreConfig    `koanf:"store"`
	Clients ClientsConfig  `koanf:"clients"`
	Forms   FormsConfig    `koanf:"forms"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	Environment     string   `koanf:"environment"`
	ReadTimeout     Duration `koanf:"read_timeout"`
	WriteTimeout    Duration `koanf:"write_timeout"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Addr is the host:port to listen on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// StoreConfig selects the client repository.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
	// Seed inserts the sample clients into an empty store at startup.
	Seed bool `koanf:"seed"`
}

// ClientsConfig holds the client rules.
type ClientsConfig struct {
	UniqueEmail bool `koanf:"unique_email"`
}

// FormsConfig points at the directory of form schemas. An empty Dir
// disables the forms endpoints.
type FormsConfig struct {
	Dir   string `koanf:"dir"`
	Watch bool   `koanf:"watch"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Environment) == "" {
		return errors.New("server environment cannot be empty")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server read and write timeouts must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	switch c.Store.Driver {
	case store.DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("store path is required for the sqlite driver")
		}
	case store.DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q (must be %q or %q)", c.Store.Driver, store.DriverSQLite, store.DriverMemory)
	}

	if c.Forms.Watch && c.Forms.Dir == "" {
		return errors.New("forms watch requires forms dir")
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
