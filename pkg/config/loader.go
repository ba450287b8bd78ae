package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/logging"
)

// Options control where configuration is read from. Zero values select the
// standard locations.
type Options struct {
	// ConfigFile replaces the project file lookup when set
	ConfigFile string

	// WorkDir is searched for ProjectConfigFile; defaults to "."
	WorkDir string

	// UserConfigFile overrides the XDG user config location
	UserConfigFile string

	// Overrides are applied last, keyed by dotted path (e.g. "output.format")
	Overrides map[string]interface{}
}

// UserConfigPath returns the per-user configuration file location
func UserConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, logging.AppName, "config.toml")
	}
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load merges defaults, user, project and environment configuration
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	userPath := opts.UserConfigFile
	if userPath == "" {
		userPath = UserConfigPath()
	}
	loaded, err := loadFileIfExists(k, userPath)
	if err != nil {
		return nil, err
	}
	if loaded {
		sources = append(sources, userPath)
	}

	// 3. Project config, or the explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", opts.ConfigFile)
		}
		if _, err := loadFileIfExists(k, opts.ConfigFile); err != nil {
			return nil, err
		}
		sources = append(sources, opts.ConfigFile)
	} else {
		workDir := opts.WorkDir
		if workDir == "" {
			workDir = "."
		}
		projectPath := filepath.Join(workDir, ProjectConfigFile)
		loaded, err := loadFileIfExists(k, projectPath)
		if err != nil {
			return nil, err
		}
		if loaded {
			sources = append(sources, projectPath)
		}
	}

	// 4. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().
		Strs("sources", sources).
		Strs("library_paths", cfg.Library.Paths).
		Msg("Configuration loaded")

	return &cfg, nil
}

// loadFileIfExists merges path into k. Library paths in the file are resolved
// against the file's directory before merging.
func loadFileIfExists(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path)
	}

	tmp := koanf.New(".")
	if err := tmp.Load(file.Provider(path), toml.Parser()); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}

	if paths := tmp.Strings("library.paths"); len(paths) > 0 {
		base := filepath.Dir(path)
		for i, p := range paths {
			if !filepath.IsAbs(p) {
				paths[i] = filepath.Join(base, p)
			}
		}
		if err := tmp.Set("library.paths", paths); err != nil {
			return false, errors.Wrap(err, errors.ErrConfigLoad, "failed to resolve library paths")
		}
	}

	if err := k.Merge(tmp); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "failed to merge %s", path)
	}
	return true, nil
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func validate(cfg *Config) error {
	if _, err := cfg.ReportFormat(); err != nil {
		return errors.Wrapf(err, errors.ErrConfigValid, "invalid output.format %q", cfg.Output.Format)
	}
	for _, name := range cfg.Policy.UpdateFields {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrConfigValid, "policy.update_fields contains an empty name")
		}
	}
	return nil
}
