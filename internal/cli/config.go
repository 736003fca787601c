package cli

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jedrzejginter/toolkit/pkg/buildinfo"
	"github.com/jedrzejginter/toolkit/pkg/deps"
	"github.com/jedrzejginter/toolkit/pkg/errors"
	"github.com/jedrzejginter/toolkit/pkg/integrations/npm"
)

// Registry backends.
const (
	registryHTTP = "http"
	registryCLI  = "npm-cli"
)

// envPrefix namespaces environment overrides (TOOLKIT_REGISTRY_URL, ...).
const envPrefix = "TOOLKIT"

// Settings are the layered CLI settings: defaults, then the config file,
// then TOOLKIT_* environment variables, then flags.
type Settings struct {
	Registry     string        `mapstructure:"registry"`
	RegistryURL  string        `mapstructure:"registry-url"`
	RedisURL     string        `mapstructure:"redis-url"`
	CacheTTL     time.Duration `mapstructure:"cache-ttl"`
	Concurrency  int           `mapstructure:"concurrency"`
	QueryTimeout time.Duration `mapstructure:"query-timeout"`
	OwnVersion   string        `mapstructure:"own-version"`
	Constraints  string        `mapstructure:"constraints"`
	Listen       string        `mapstructure:"listen"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("registry", registryHTTP)
	v.SetDefault("registry-url", npm.DefaultBaseURL)
	v.SetDefault("redis-url", "")
	v.SetDefault("cache-ttl", deps.DefaultCacheTTL)
	v.SetDefault("concurrency", deps.DefaultConcurrency)
	v.SetDefault("query-timeout", deps.DefaultQueryTimeout)
	v.SetDefault("own-version", buildinfo.PackageVersion())
	v.SetDefault("constraints", "")
	v.SetDefault("listen", ":8080")
}

// bindSettingsFlags registers the global setting flags and binds them to v.
func bindSettingsFlags(v *viper.Viper, fs *pflag.FlagSet) {
	fs.String("registry", registryHTTP, "registry backend: http or npm-cli")
	fs.String("registry-url", npm.DefaultBaseURL, "npm registry base URL (http backend)")
	fs.String("redis-url", "", "share the registry cache through redis (e.g. redis://localhost:6379/0)")
	fs.Int("concurrency", deps.DefaultConcurrency, "parallel registry queries")
	fs.Duration("query-timeout", deps.DefaultQueryTimeout, "deadline for each registry query")

	for _, name := range []string{"registry", "registry-url", "redis-url", "concurrency", "query-timeout"} {
		_ = v.BindPFlag(name, fs.Lookup(name))
	}
}

// loadSettings resolves the settings layers. An explicit config path must
// exist; the default one is optional.
func loadSettings(v *viper.Viper, path string) (Settings, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	} else if dir, err := configDir(); err == nil {
		v.SetConfigFile(filepath.Join(dir, "config.toml"))
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode settings")
	}
	if s.Concurrency <= 0 {
		return Settings{}, errors.New(errors.ErrCodeInvalidInput, "concurrency must be positive, got %d", s.Concurrency)
	}
	if s.QueryTimeout <= 0 {
		return Settings{}, errors.New(errors.ErrCodeInvalidInput, "query timeout must be positive, got %s", s.QueryTimeout)
	}
	return s, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound) || stderrors.Is(err, os.ErrNotExist)
}
