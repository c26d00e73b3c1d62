package server

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/klondike/internal/session"
)

// EnvPrefix prefixes every environment variable read by LoadConfig
const EnvPrefix = "KLONDIKE_"

// Config represents the complete server configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Games  *GameSettings   `hcl:"games,block"`
}

// ServerSettings contains listener and process-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional" env:"ADDRESS" validate:"required,listen_addr"`
	LogLevel string `hcl:"log_level,optional" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Metrics  bool   `hcl:"metrics,optional" env:"METRICS"`
}

// GameSettings controls the session registry
type GameSettings struct {
	WatchBuffer int    `hcl:"watch_buffer,optional" env:"WATCH_BUFFER" validate:"gte=1,lte=65536"`
	MaxGames    int    `hcl:"max_games,optional" env:"MAX_GAMES" validate:"gte=0"`
	Seed        *int64 `hcl:"seed,optional" env:"SEED"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost:8080",
			LogLevel: "info",
		},
		Games: &GameSettings{
			WatchBuffer: session.DefaultWatchBuffer,
		},
	}
}

// LoadConfig builds the configuration from defaults, then the HCL file at
// filename when it exists, then KLONDIKE_* environment variables.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		if err := config.decodeFile(filename); err != nil {
			return nil, err
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}

func (c *Config) decodeFile(filename string) error {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	// Attributes missing from the file keep their current values
	diags = gohcl.DecodeBody(file.Body, nil, c)
	if diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	return nil
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = configValidate.RegisterValidation("listen_addr", validateListenAddr)
}

// validateListenAddr accepts host:port pairs where the host may be empty
func validateListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Server == nil || c.Games == nil {
		return fmt.Errorf("invalid config: server and games settings are required")
	}
	if err := configValidate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RegistryOptions translates the game settings into session options
func (c *Config) RegistryOptions() []session.Option {
	return []session.Option{
		session.WithWatchBuffer(c.Games.WatchBuffer),
		session.WithMaxGames(c.Games.MaxGames),
	}
}
