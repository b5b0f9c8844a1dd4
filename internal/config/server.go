package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Server is the HTTP server configuration.
type Server struct {
	Port        string
	Env         string
	StaticDir   string
	PresetDir   string
	StoreDir    string
	DatabaseURL string
	CORSOrigins []string
	LogFile     string
	LogLevel    string
}

func (s Server) Production() bool { return s.Env == "production" }

// LoadServer reads server settings from defaults, an optional YAML file and
// the environment, in increasing precedence. A .env file in the working
// directory is loaded first when present.
func LoadServer(path string) (*Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("api_port", "8080")
	v.SetDefault("api_env", "development")
	v.SetDefault("static_dir", "")
	v.SetDefault("preset_dir", "./examples/presets")
	v.SetDefault("store_dir", "./data/plans")
	v.SetDefault("database_url", "")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read server config: %w", err)
		}
	}

	s := &Server{
		Port:        v.GetString("api_port"),
		Env:         v.GetString("api_env"),
		StaticDir:   v.GetString("static_dir"),
		PresetDir:   v.GetString("preset_dir"),
		StoreDir:    v.GetString("store_dir"),
		DatabaseURL: v.GetString("database_url"),
		CORSOrigins: splitList(v.GetString("cors_origins")),
		LogFile:     v.GetString("log_file"),
		LogLevel:    v.GetString("log_level"),
	}
	if s.Port == "" {
		return nil, errors.New("api_port must not be empty")
	}
	return s, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
