// Package config resolves the client settings.
//
// Values come, by increasing priority, from built in defaults, an optional
// config.yaml file, SBU_* environment variables and the global flags
// explicitly set on the command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/sbudesk"
	"github.com/etnz/sbudesk/api"
	"github.com/etnz/sbudesk/desk"
	"github.com/etnz/sbudesk/session"
	"github.com/spf13/viper"
)

// Setting keys. Each is also the name of a global flag and, upper cased with
// dashes turned into underscores, of an SBU_ environment variable.
const (
	KeyAPIBase      = "api-base"
	KeyTokenDir     = "token-dir"
	KeyCurrency     = "currency"
	KeyRefreshDelay = "refresh-delay"
	KeyTimeout      = "timeout"
	KeyVerbose      = "verbose"
	KeyConfig       = "config"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SBU"

// Config holds the resolved settings.
type Config struct {
	APIBase      string
	TokenDir     string
	Currency     string
	RefreshDelay time.Duration
	Timeout      time.Duration
	Verbose      bool
	File         string // config file used, empty if none
}

// flagKeys maps flag names to setting keys.
var flagKeys = map[string]string{
	KeyAPIBase:      KeyAPIBase,
	KeyTokenDir:     KeyTokenDir,
	KeyCurrency:     KeyCurrency,
	KeyRefreshDelay: KeyRefreshDelay,
	KeyTimeout:      KeyTimeout,
	KeyVerbose:      KeyVerbose,
	"v":             KeyVerbose,
	KeyConfig:       KeyConfig,
}

// RegisterFlags declares the global flags on fs.
func RegisterFlags(fs *flag.FlagSet) {
	fs.String(KeyAPIBase, api.DefaultBaseURL, "backend base URL")
	fs.String(KeyTokenDir, "", "directory of the session token (default: user config dir)")
	fs.String(KeyCurrency, sbudesk.DefaultCurrency, "currency code amounts are displayed in")
	fs.Duration(KeyRefreshDelay, desk.DefaultRefreshDelay, "delay between a submission and the refresh")
	fs.Duration(KeyTimeout, 30*time.Second, "timeout of each backend call")
	fs.Bool("v", false, "verbose logging")
	fs.String(KeyConfig, "", "config file (default: config.yaml in the user config dir or the current dir)")
}

// Load resolves the settings. fs holds the parsed global flags, only those
// explicitly set override the other sources. dirs are searched for
// config.yaml, they default to the sbudesk config dir and the current dir.
func Load(fs *flag.FlagSet, dirs ...string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyAPIBase, api.DefaultBaseURL)
	v.SetDefault(KeyTokenDir, "")
	v.SetDefault(KeyCurrency, sbudesk.DefaultCurrency)
	v.SetDefault(KeyRefreshDelay, desk.DefaultRefreshDelay)
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyVerbose, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		fs.Visit(func(f *flag.Flag) {
			if key, ok := flagKeys[f.Name]; ok {
				v.Set(key, f.Value.String())
			}
		})
	}

	if file := v.GetString(KeyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %q: %w", file, err)
		}
	} else {
		if len(dirs) == 0 {
			dirs = []string{session.DefaultDir(), "."}
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("cannot read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		APIBase:      strings.TrimRight(v.GetString(KeyAPIBase), "/"),
		TokenDir:     v.GetString(KeyTokenDir),
		Currency:     strings.ToUpper(v.GetString(KeyCurrency)),
		RefreshDelay: v.GetDuration(KeyRefreshDelay),
		Timeout:      v.GetDuration(KeyTimeout),
		Verbose:      v.GetBool(KeyVerbose),
		File:         v.ConfigFileUsed(),
	}
	if cfg.APIBase == "" {
		return nil, fmt.Errorf("%s cannot be empty", KeyAPIBase)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %s", KeyTimeout, cfg.Timeout)
	}
	if cfg.RefreshDelay < 0 {
		return nil, fmt.Errorf("%s cannot be negative, got %s", KeyRefreshDelay, cfg.RefreshDelay)
	}
	return cfg, nil
}
