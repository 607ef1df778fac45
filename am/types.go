// Package am holds the engine configuration: where the database lives,
// evaluation limits for the write terms, and logging preferences.
package am

// Config is the root configuration structure
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Eval     EvalConfig     `mapstructure:"eval"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig configures the SQLite-backed table store
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// EvalConfig bounds one write-term evaluation.
// ArraySizeLimit caps array construction, including how many generated
// primary keys are retained for reporting. BatchSize is the terminal
// batch size used when draining an input stream.
type EvalConfig struct {
	ArraySizeLimit int `mapstructure:"array_size_limit"`
	BatchSize      int `mapstructure:"batch_size"`
}

// LogConfig configures logger output
type LogConfig struct {
	JSON bool `mapstructure:"json"`
}
