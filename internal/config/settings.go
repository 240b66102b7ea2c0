package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. GRPENSION_SERVER_ADDR.
const EnvPrefix = "GRPENSION"

// Settings are the runtime options of the CLI, server and TUI.
type Settings struct {
	Log     LogSettings     `mapstructure:"log"`
	Output  OutputSettings  `mapstructure:"output"`
	Server  ServerSettings  `mapstructure:"server"`
	OCR     OCRSettings     `mapstructure:"ocr"`
	Extract ExtractSettings `mapstructure:"extract"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type OutputSettings struct {
	Format string `mapstructure:"format"`
}

type ServerSettings struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxUploadBytes int           `mapstructure:"max_upload_bytes"`
}

type OCRSettings struct {
	Binary    string        `mapstructure:"binary"`
	Languages string        `mapstructure:"languages"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ExtractSettings struct {
	Concurrency int `mapstructure:"concurrency"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("output.format", "console")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.max_upload_bytes", 10<<20)
	v.SetDefault("ocr.binary", "tesseract")
	v.SetDefault("ocr.languages", "ell+eng")
	v.SetDefault("ocr.timeout", "60s")
	v.SetDefault("extract.concurrency", 4)
}

// LoadSettings reads settings from path, or from grpension.yaml in the
// working directory, ./configs or ~/.config/grpension when path is empty.
// A .env file in the working directory is loaded first; GRPENSION_*
// variables override the file.
func LoadSettings(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("grpension")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.config/grpension")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

// Validate checks ranges and enumerations.
func (s *Settings) Validate() error {
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", s.Log.Format)
	}
	if s.Extract.Concurrency < 1 {
		return fmt.Errorf("extract.concurrency must be at least 1, got %d", s.Extract.Concurrency)
	}
	if s.OCR.Timeout <= 0 {
		return fmt.Errorf("ocr.timeout must be positive, got %s", s.OCR.Timeout)
	}
	if s.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", s.Server.MaxUploadBytes)
	}
	return nil
}
