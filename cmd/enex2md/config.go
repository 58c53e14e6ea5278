// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/enex2md/pkg/types"
)

// Config keys. Nested keys map to ENEX2MD_PANDOC_PATH and so on.
const (
	keyEngine       = "engine"
	keyWorkers      = "workers"
	keyOnCollision  = "on_collision"
	keyTimeout      = "timeout"
	keyAllowPartial = "allow_partial"
	keyLedger       = "ledger"
	keyVerbose      = "verbose"
	keyPandocPath   = "pandoc.path"
	keyPandocFormat = "pandoc.format"
	keyImage        = "container.image"
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"engine":        keyEngine,
	"workers":       keyWorkers,
	"on-collision":  keyOnCollision,
	"timeout":       keyTimeout,
	"allow-partial": keyAllowPartial,
	"ledger":        keyLedger,
	"verbose":       keyVerbose,
	"pandoc-path":   keyPandocPath,
	"pandoc-format": keyPandocFormat,
	"image":         keyImage,
}

// bindFlags binds every known flag of cmd, local or persistent, to v.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	bind := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				_ = v.BindPFlag(key, f)
			}
		})
	}
	bind(cmd.PersistentFlags())
	bind(cmd.Flags())
}

// setupEnv makes every key readable from ENEX2MD_* environment variables.
func setupEnv(v *viper.Viper) {
	v.SetEnvPrefix("ENEX2MD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// loadConfig reads and validates the conversion settings from v.
func loadConfig(v *viper.Viper) (types.ConversionConfig, error) {
	cfg := types.ConversionConfig{
		EngineConfig: types.EngineConfig{
			Engine:       types.Engine(strings.ToLower(v.GetString(keyEngine))),
			PandocPath:   v.GetString(keyPandocPath),
			PandocFormat: v.GetString(keyPandocFormat),
			Image:        v.GetString(keyImage),
		},
		Workers:      v.GetInt(keyWorkers),
		OnCollision:  types.CollisionMode(strings.ToLower(v.GetString(keyOnCollision))),
		Timeout:      v.GetDuration(keyTimeout),
		AllowPartial: v.GetBool(keyAllowPartial),
		Ledger:       v.GetString(keyLedger),
	}

	switch cfg.Engine {
	case "":
		cfg.Engine = types.EngineBuiltin
	case types.EngineBuiltin, types.EnginePandoc, types.EngineContainer:
	default:
		return cfg, fmt.Errorf("invalid engine %q: use builtin, pandoc, or container", cfg.Engine)
	}

	switch cfg.OnCollision {
	case "":
		cfg.OnCollision = types.CollisionOverwrite
	case types.CollisionOverwrite, types.CollisionSuffix:
	default:
		return cfg, fmt.Errorf("invalid on-collision mode %q: use overwrite or suffix", cfg.OnCollision)
	}

	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("invalid workers %d: must be zero or positive", cfg.Workers)
	}
	if cfg.Timeout < 0 {
		return cfg, fmt.Errorf("invalid timeout %s: must be zero or positive", cfg.Timeout)
	}
	return cfg, nil
}
