package config

import (
	"upkeep/pkg/logger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion   string `mapstructure:"GENERAL_VERSION"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	SupabaseURL      string `mapstructure:"SUPABASE_URL"`
	SupabaseKey      string `mapstructure:"SUPABASE_ANON_KEY"`
	SupabaseBucket   string `mapstructure:"SUPABASE_BUCKET"`
	LocalCachePath   string `mapstructure:"LOCAL_CACHE_PATH"`
	SchedulerEnabled bool   `mapstructure:"SCHEDULER_ENABLED"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	// Enable automatic environment variable reading first
	viper.AutomaticEnv()

	// Bind environment variables to config keys
	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT",
		"SUPABASE_URL", "SUPABASE_ANON_KEY", "SUPABASE_BUCKET",
		"LOCAL_CACHE_PATH", "SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	// Check if key environment variables are already set
	envVarsSet := viper.IsSet("SUPABASE_URL") && viper.IsSet("SUPABASE_ANON_KEY")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		// Load base .env file
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		// Load .env.local overrides if it exists
		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(&config, log); err != nil {
		return Config{}, err
	}

	log.Info("Successfully initialized config", "environment", config.Environment)
	return config, nil
}

func validateConfig(config *Config, log logger.Logger) error {
	if config.SupabaseURL == "" {
		return log.ErrMsg("Fatal error: SUPABASE_URL is required")
	}
	if config.SupabaseKey == "" {
		return log.ErrMsg("Fatal error: SUPABASE_ANON_KEY is required")
	}

	if config.SupabaseBucket == "" {
		config.SupabaseBucket = "photos"
	}
	if config.LocalCachePath == "" {
		config.LocalCachePath = "upkeep.db"
	}

	return nil
}
