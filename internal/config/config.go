package config

import "github.com/spf13/viper"

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Auth struct {
		// Gateway headers carrying the already-authenticated identity.
		UserHeader  string `mapstructure:"user_header"`
		RolesHeader string `mapstructure:"roles_header"`
	} `mapstructure:"auth"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Auth.UserHeader == "" {
		c.Auth.UserHeader = "X-Auth-User"
	}
	if c.Auth.RolesHeader == "" {
		c.Auth.RolesHeader = "X-Auth-Roles"
	}
	return c, nil
}
