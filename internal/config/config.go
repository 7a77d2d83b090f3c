// Package config loads the slicestok configuration from defaults, an optional config file,
// SLICESTOK_* environment variables and command line flags, in increasing order of precedence.
package config

import (
	"strings"

	"github.com/example/go-slices-tokenizer/tokenizers/api"
	"github.com/example/go-slices-tokenizer/tokenizers/slicesbpe"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix of the environment variables, e.g. SLICESTOK_TRAIN_VOCAB_SIZE.
const EnvPrefix = "SLICESTOK"

type Config struct {
	Model    ModelConfig `mapstructure:"model"`
	Train    TrainConfig `mapstructure:"train"`
	Hub      HubConfig   `mapstructure:"hub"`
	LogLevel string      `mapstructure:"log_level"`
}

type ModelConfig struct {
	Path string `mapstructure:"path"`
}

type TrainConfig struct {
	VocabSize     int      `mapstructure:"vocab_size"`
	SpecialTokens []string `mapstructure:"special_tokens"`
	Progress      bool     `mapstructure:"progress"`
}

type HubConfig struct {
	Repo     string `mapstructure:"repo"`
	Revision string `mapstructure:"revision"`
	CacheDir string `mapstructure:"cache_dir"`
	Endpoint string `mapstructure:"endpoint"`
	File     string `mapstructure:"file"`
	Token    string `mapstructure:"token"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

// flagKeys maps each command line flag to its configuration key.
var flagKeys = map[string]string{
	"model-path":           "model.path",
	"train-vocab-size":     "train.vocab_size",
	"train-special-tokens": "train.special_tokens",
	"train-progress":       "train.progress",
	"hub-repo":             "hub.repo",
	"hub-revision":         "hub.revision",
	"hub-cache-dir":        "hub.cache_dir",
	"hub-endpoint":         "hub.endpoint",
	"hub-file":             "hub.file",
	"hub-token":            "hub.token",
	"log-level":            "log_level",
}

func DefaultConfig() Config {
	return Config{
		Model: ModelConfig{
			Path: slicesbpe.ModelFileName,
		},
		Train: TrainConfig{
			VocabSize: 1000,
			Progress:  true,
		},
		Hub: HubConfig{
			Revision: "main",
			File:     slicesbpe.ModelFileName,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("model-path", defaults.Model.Path, "Path of the tokenizer model file (.json, .yaml or .yml)")
	fs.Int("train-vocab-size", defaults.Train.VocabSize, "Target vocabulary size, special tokens included")
	fs.StringSlice("train-special-tokens", defaults.Train.SpecialTokens, "Special tokens reserving the first ids, in order")
	fs.Bool("train-progress", defaults.Train.Progress, "Show a progress bar while reading the corpus")
	fs.String("hub-repo", defaults.Hub.Repo, "HuggingFace Hub repository, e.g. my-org/slices-bpe")
	fs.String("hub-revision", defaults.Hub.Revision, "Repository revision: branch, tag or commit hash")
	fs.String("hub-cache-dir", defaults.Hub.CacheDir, "HuggingFace cache directory (default ~/.cache/huggingface/hub)")
	fs.String("hub-endpoint", defaults.Hub.Endpoint, "HuggingFace Hub endpoint (default https://huggingface.co)")
	fs.String("hub-file", defaults.Hub.File, "Tokenizer model file in the repository")
	fs.String("hub-token", defaults.Hub.Token, "HuggingFace authentication token")
	fs.String("log-level", defaults.LogLevel, "Log level: debug, info, warn or error")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	if err := v.BindEnv("hub.token", EnvPrefix+"_HUB_TOKEN", "HF_TOKEN"); err != nil {
		return Config{}, errors.Wrap(err, "bind hub token env vars")
	}
	if err := v.BindEnv("hub.endpoint", EnvPrefix+"_HUB_ENDPOINT", "HF_ENDPOINT"); err != nil {
		return Config{}, errors.Wrap(err, "bind hub endpoint env vars")
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, api.WithKind(api.ErrInvalidConfig, errors.Wrapf(err, "read config file %q", opts.ConfigFile))
		}
	} else {
		v.SetConfigName("slicestok")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, api.WithKind(api.ErrInvalidConfig, errors.Wrap(err, "read config file"))
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, api.WithKind(api.ErrInvalidConfig, errors.Wrap(err, "decode config"))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that can be verified without touching the file system.
func (c Config) Validate() error {
	if c.Train.VocabSize <= 0 {
		return api.Errorf(api.ErrInvalidConfig, "train.vocab_size must be positive, got %d", c.Train.VocabSize)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return api.Errorf(api.ErrInvalidConfig, "unknown log_level %q", c.LogLevel)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("model.path", c.Model.Path)
	v.SetDefault("train.vocab_size", c.Train.VocabSize)
	v.SetDefault("train.special_tokens", c.Train.SpecialTokens)
	v.SetDefault("train.progress", c.Train.Progress)
	v.SetDefault("hub.repo", c.Hub.Repo)
	v.SetDefault("hub.revision", c.Hub.Revision)
	v.SetDefault("hub.cache_dir", c.Hub.CacheDir)
	v.SetDefault("hub.endpoint", c.Hub.Endpoint)
	v.SetDefault("hub.file", c.Hub.File)
	v.SetDefault("hub.token", c.Hub.Token)
	v.SetDefault("log_level", c.LogLevel)
}

// bindFlags binds each registered flag to its configuration key. A flag only overrides the
// config file and environment when it is set on the command line.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}
