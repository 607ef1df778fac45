package am

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "reql.db")

	// Evaluation defaults
	v.SetDefault("eval.array_size_limit", 100000) // matches the default array construction limit
	v.SetDefault("eval.batch_size", 256)          // documents per terminal batch

	// Logging defaults
	v.SetDefault("log.json", false)
}
