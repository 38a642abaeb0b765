package l10n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Config 描述一个语言目录树以及如何构建它。
//
// 可以直接在代码中构造，也可以通过 ConfigFromEnv 从环境变量读取，
// 或通过 LoadConfigFile 从 TOML / YAML 文件读取。
type Config struct {
	// Locales 是语言目录树的根路径，每个直接子目录名是一个语言标识，例如 "en-US"。
	Locales string `env:"LOCALES" toml:"locales" yaml:"locales"`
	// FallbackLanguage 是兜底语言，必须等于或能放宽匹配到某个已构建的语言。
	FallbackLanguage string `env:"FALLBACK_LANGUAGE" toml:"fallback_language" yaml:"fallback_language"`
	// CoreLocales 是可选的共享资源路径（文件或目录），会合并进每个语言。
	CoreLocales string `env:"CORE_LOCALES" toml:"core_locales" yaml:"core_locales"`
	// FollowSymlinks 默认关闭。
	FollowSymlinks bool      `env:"FOLLOW_SYMLINKS" toml:"follow_symlinks" yaml:"follow_symlinks"`
	Mode           BuildMode `env:"BUILD_MODE" toml:"build_mode" yaml:"build_mode"`
	// Workers 限制并发构建的语言数，0 表示 GOMAXPROCS。
	Workers int `env:"BUILD_WORKERS" toml:"build_workers" yaml:"build_workers"`
	// IgnoreFiles 为 nil 时使用 DefaultIgnoreFiles，显式的空列表表示不读取任何忽略文件。
	IgnoreFiles []string `env:"IGNORE_FILES" toml:"ignore_files" yaml:"ignore_files"`
}

// ConfigFromEnv reads a Config from environment variables named prefix + tag,
// e.g. APP_LOCALES for prefix "APP_".
func ConfigFromEnv(prefix string) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: prefix})
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// LoadConfigFile reads a Config from a .toml, .yaml or .yml file.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("l10n: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
		}
	default:
		return Config{}, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	return cfg, nil
}

// Validate catches contradictions before any file is read.
func (c Config) Validate() error {
	if c.Locales == "" {
		return fmt.Errorf("%w: locales path is required", ErrInvalidConfig)
	}
	if c.FallbackLanguage == "" {
		return fmt.Errorf("%w: fallback language is required", ErrInvalidConfig)
	}
	if _, err := language.Parse(c.FallbackLanguage); err != nil {
		return fmt.Errorf("%w: fallback language %q: %w", ErrInvalidConfig, c.FallbackLanguage, err)
	}
	if c.Mode < ModeDefault || c.Mode > ModeLenient {
		return fmt.Errorf("%w: unknown build mode %d", ErrInvalidConfig, c.Mode)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// fallback returns the parsed fallback language. Call after Validate.
func (c Config) fallback() language.Tag {
	tag, _ := language.Parse(c.FallbackLanguage)
	return tag
}

// UnmarshalYAML accepts the same spellings as UnmarshalText.
func (m *BuildMode) UnmarshalYAML(node *yaml.Node) error {
	return m.UnmarshalText([]byte(node.Value))
}
