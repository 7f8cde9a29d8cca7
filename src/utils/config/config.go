package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "BUYMYTWEET_"

// Config stores global configuration
type Config struct {
	// Is development mode on
	IsDevelopment bool

	// Maximum time the service will be closing before stop is forced.
	StopTimeout time.Duration

	// Logging level
	LogLevel string

	// Optional .env file loaded before the environment is read
	DotEnvFile string

	Contract Contract
	Hyle     Hyle
	Redis    Redis
	WebAuthn WebAuthn
	Session  Session
	Gateway  Gateway
	Database Database
	Profiler Profiler
}

func setDefaults() {
	viper.SetDefault("IsDevelopment", "false")
	viper.SetDefault("LogLevel", "DEBUG")
	viper.SetDefault("StopTimeout", "30s")
	viper.SetDefault("DotEnvFile", ".env")

	setContractDefaults()
	setHyleDefaults()
	setRedisDefaults()
	setWebAuthnDefaults()
	setSessionDefaults()
	setGatewayDefaults()
	setDatabaseDefaults()
	setProfilerDefaults()
}

func Default() (config *Config) {
	config, _ = Load("")
	return
}

// Visits every field and binds its path to an upper snake case env variable
func BindEnv(path []string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		key := strings.ToLower(strings.Join(path, "."))
		env := ENV_PREFIX + strcase.ToScreamingSnake(strings.Join(path, "_"))
		err := viper.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
		return
	}

	// Iterates over struct fields
	for i := 0; i < val.NumField(); i++ {
		newPath := make([]string, len(path))
		copy(newPath, path)
		newPath = append(newPath, val.Type().Field(i).Name)
		BindEnv(newPath, val.Field(i))
	}
}

func decoderConfig(c *mapstructure.DecoderConfig) {
	c.WeaklyTypedInput = true
	c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Loads variables from a .env file into the process environment.
// Variables that are already set take precedence. Missing file is not an error.
func loadDotEnv() (err error) {
	filename := os.Getenv(ENV_PREFIX + "DOT_ENV_FILE")
	if filename == "" {
		filename = ".env"
	}

	_, err = os.Stat(filename)
	if os.IsNotExist(err) {
		return nil
	}

	err = godotenv.Load(filename)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filename, err)
	}
	return
}

// Load configuration from file and env
func Load(filename string) (config *Config, err error) {
	viper.Reset()
	viper.SetConfigType("json")

	err = loadDotEnv()
	if err != nil {
		return nil, err
	}

	setDefaults()

	// Visits every field and registers upper snake case ENV name for it
	// Works with embedded structs
	BindEnv([]string{}, reflect.ValueOf(Config{}))

	// Empty filename means we use default values
	if filename != "" {
		var content []byte
		/* #nosec */
		content, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		err = viper.ReadConfig(bytes.NewBuffer(content))
		if err != nil {
			return nil, err
		}
	}

	config = new(Config)
	err = viper.Unmarshal(&config, decoderConfig)
	if err != nil {
		return nil, err
	}

	return
}
