package commands

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"claude-openai-bridge/internal/app"
)

// envPrefix namespaces environment overrides, e.g. BRIDGE_LISTEN_ADDR.
const envPrefix = "BRIDGE_"

// loadConfig builds the application configuration by layering, in order of
// increasing precedence: built-in defaults, an optional TOML file, prefixed
// environment variables, and CLI flags. The environ parameter is injected for
// testability.
func loadConfig(path string, cmd *cli.Command, environ func() []string) (*app.Config, error) {
	// A .env file in the working directory feeds the environment layer.
	// Missing files are fine; only load errors on present files matter.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(app.Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix:      envPrefix,
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			// BRIDGE_UPSTREAM_BASE_URL -> upstream.base_url: the first
			// underscore separates the section, the rest is the field name.
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			section, field, found := strings.Cut(key, "_")
			if !found {
				return key, value
			}
			return section + "." + field, value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	applyFlagOverrides(k, cmd)

	var cfg app.Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyFlagOverrides maps set CLI flags onto their config keys. Flags win over
// every other source.
func applyFlagOverrides(k *koanf.Koanf, cmd *cli.Command) {
	flagKeys := map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
	}

	for flag, key := range flagKeys {
		if cmd.IsSet(flag) {
			_ = k.Set(key, cmd.String(flag))
		}
	}
}
