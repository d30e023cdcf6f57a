package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Platform PlatformConfig `mapstructure:"platform"`
	AppHost  string         `mapstructure:"host"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// PlatformConfig holds the account-platform options that used to live in
// process-wide globals: the server identifier stamped into signup metadata,
// the session cookie name, the group every new user joins and the default
// storage quota in bytes.
type PlatformConfig struct {
	Env                    string `mapstructure:"env"`
	ServerID               string `mapstructure:"server_id"`
	CookieName             string `mapstructure:"cookie_name"`
	DefaultUserGroup       string `mapstructure:"default_user_group"`
	DefaultStorageCapacity int64  `mapstructure:"default_storage_capacity"`
	GUIOrigin              string `mapstructure:"gui_origin"`
}

func (p PlatformConfig) IsProduction() bool {
	return p.Env == "production"
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.SetDefault("platform.env", "development")
	viper.SetDefault("platform.server_id", "local")
	viper.SetDefault("platform.cookie_name", "account_session")
	viper.SetDefault("platform.default_user_group", "default")
	viper.SetDefault("platform.default_storage_capacity", int64(500*1024*1024))
	viper.SetDefault("platform.gui_origin", "http://localhost:8080")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
