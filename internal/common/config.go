package common

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// NOTICE_ANALYZER_PIPELINE_STRATEGY=entity.
const EnvPrefix = "NOTICE_ANALYZER"

// Config holds all application configuration
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	OCR         OCRConfig         `mapstructure:"ocr"`
	Language    LanguageConfig    `mapstructure:"language"`
	Translation TranslationConfig `mapstructure:"translation"`
	NLP         NLPConfig         `mapstructure:"nlp"`
	Pipeline    PipelineConfig    `mapstructure:"pipeline"`
	Store       StoreConfig       `mapstructure:"store"`
	Watch       WatchConfig       `mapstructure:"watch"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// OCRConfig holds the external OCR tool settings
type OCRConfig struct {
	Tesseract        string `mapstructure:"tesseract"`
	Pdftoppm         string `mapstructure:"pdftoppm"`
	Languages        string `mapstructure:"languages"`
	FallbackLanguage string `mapstructure:"fallback_language"`
	MinChars         int    `mapstructure:"min_chars"`
	DPI              int    `mapstructure:"dpi"`
	MaxPages         int    `mapstructure:"max_pages"`
	TessdataDir      string `mapstructure:"tessdata_dir"`
	PSM              int    `mapstructure:"psm"` // tesseract page segmentation mode
	SkipTextLayer    bool   `mapstructure:"skip_text_layer"`
}

type LanguageConfig struct {
	SampleSize    int           `mapstructure:"sample_size"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinConfidence float64       `mapstructure:"min_confidence"`
}

// TranslationConfig configures the external translator. An empty command
// leaves text untranslated.
type TranslationConfig struct {
	Command   []string      `mapstructure:"command"`
	ChunkSize int           `mapstructure:"chunk_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type NLPConfig struct {
	Command []string      `mapstructure:"command"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PipelineConfig struct {
	Strategy   string        `mapstructure:"strategy"` // pattern | entity
	Confidence float64       `mapstructure:"confidence"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StoreConfig selects where run results are kept.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // none | sqlite | postgres
	DSN    string `mapstructure:"dsn"`

	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	MaxConnLifetime  time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime  time.Duration `mapstructure:"max_conn_idle_time"`
	DialTimeout      time.Duration `mapstructure:"dial_timeout"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

type WatchConfig struct {
	Dirs       []string      `mapstructure:"dirs"`
	Debounce   time.Duration `mapstructure:"debounce"`
	Workers    int           `mapstructure:"workers"`
	QueueSize  int           `mapstructure:"queue_size"`
	HealthAddr string        `mapstructure:"health_addr"`
}

// SetDefaults registers every key with its default so env overrides work
// without a config file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.tesseract", "tesseract")
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.languages", "eng+hin+tel")
	v.SetDefault("ocr.fallback_language", "eng")
	v.SetDefault("ocr.min_chars", 20)
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.tessdata_dir", "")
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.skip_text_layer", false)

	v.SetDefault("language.sample_size", 500)
	v.SetDefault("language.timeout", 2*time.Second)
	v.SetDefault("language.min_confidence", 0.5)

	v.SetDefault("translation.command", []string{})
	v.SetDefault("translation.chunk_size", 5000)
	v.SetDefault("translation.timeout", 30*time.Second)

	v.SetDefault("nlp.command", []string{})
	v.SetDefault("nlp.timeout", 60*time.Second)

	v.SetDefault("pipeline.strategy", "pattern")
	v.SetDefault("pipeline.confidence", 0.9)
	v.SetDefault("pipeline.timeout", 5*time.Minute)

	v.SetDefault("store.driver", "none")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.max_conn_lifetime", 30*time.Minute)
	v.SetDefault("store.max_conn_idle_time", 5*time.Minute)
	v.SetDefault("store.dial_timeout", 3*time.Second)
	v.SetDefault("store.statement_timeout", time.Duration(0))

	v.SetDefault("watch.dirs", []string{})
	v.SetDefault("watch.debounce", 750*time.Millisecond)
	v.SetDefault("watch.workers", 2)
	v.SetDefault("watch.queue_size", 64)
	v.SetDefault("watch.health_addr", ":8081")
}

// ConfigureViper wires file lookup and environment overrides. cfgFile, when
// set, is the only file considered.
func ConfigureViper(v *viper.Viper, cfgFile string) {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("notice-analyzer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "notice-analyzer"))
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadConfig configures v, reads the config file (if any) and decodes it
// into a Config. A missing default config file is not an error; a missing
// explicit one is.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	ConfigureViper(v, cfgFile)
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "config file", errors.Join(ErrConfig, err))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, NewAppError("CONFIG_ERROR", "read config", errors.Join(ErrConfig, err))
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewAppError("CONFIG_ERROR", "decode config", errors.Join(ErrConfig, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("pipeline.strategy", c.Pipeline.Strategy, OneOf("pattern", "entity")).
		Field("pipeline.confidence", c.Pipeline.Confidence, UnitInterval).
		Field("language.sample_size", c.Language.SampleSize, Positive).
		Field("language.timeout", c.Language.Timeout, Positive).
		Field("translation.chunk_size", c.Translation.ChunkSize, Positive).
		Field("translation.timeout", c.Translation.Timeout, Positive).
		Field("ocr.languages", c.OCR.Languages, Required).
		Field("store.driver", c.Store.Driver, OneOf("none", "sqlite", "postgres")).
		Field("log.format", c.Log.Format, OneOf("text", "json"))

	if c.Store.Driver != "none" {
		v.Field("store.dsn", c.Store.DSN, Required)
	}
	if strings.EqualFold(c.Pipeline.Strategy, "entity") {
		v.Field("nlp.command", c.NLP.Command, Required)
	}
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrConfig)
	}
	return nil
}
