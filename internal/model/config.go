package model

type Config struct {
	Run        RunConfig        `yaml:"run"`
	Backoff    BackoffConfig    `yaml:"backoff"`
	Stagnation StagnationConfig `yaml:"stagnation"`
	Worker     WorkerConfig     `yaml:"worker"`
	Gates      GatesConfig      `yaml:"gates"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type RunConfig struct {
	MaxIterations      int `yaml:"max_iterations"`
	MaxAttemptsPerTask int `yaml:"max_attempts_per_task"`
	TimeoutSec         int `yaml:"timeout_sec"`
	OutputLimitBytes   int `yaml:"output_limit_bytes"`
	SleepBetweenSec    int `yaml:"sleep_between_sec"`
}

type BackoffConfig struct {
	BaseDelaySec   int `yaml:"base_delay_sec"`
	MaxConsecutive int `yaml:"max_consecutive"`
}

type StagnationConfig struct {
	Window    int `yaml:"window"`
	Threshold int `yaml:"threshold"`
}

type WorkerConfig struct {
	Name      string   `yaml:"name"`
	Command   string   `yaml:"command,omitempty"`
	ExtraArgs []string `yaml:"extra_args,omitempty"`
	Model     string   `yaml:"model,omitempty"`
}

type GatesConfig struct {
	Enabled    bool          `yaml:"enabled"`
	TimeoutSec int           `yaml:"timeout_sec"`
	Gates      []GateCommand `yaml:"gates,omitempty"`
}

type GateCommand struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when .grind/config.yaml is
// absent. ApplyDefaults fills the same values into a partially specified
// config.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

func (c *Config) ApplyDefaults() {
	if c.Run.MaxIterations <= 0 {
		c.Run.MaxIterations = 50
	}
	if c.Run.MaxAttemptsPerTask <= 0 {
		c.Run.MaxAttemptsPerTask = 5
	}
	if c.Run.TimeoutSec <= 0 {
		c.Run.TimeoutSec = 1800
	}
	if c.Run.OutputLimitBytes <= 0 {
		c.Run.OutputLimitBytes = 10 * 1024 * 1024
	}
	if c.Run.SleepBetweenSec <= 0 {
		c.Run.SleepBetweenSec = 2
	}
	if c.Backoff.BaseDelaySec <= 0 {
		c.Backoff.BaseDelaySec = 30
	}
	if c.Backoff.MaxConsecutive <= 0 {
		c.Backoff.MaxConsecutive = 3
	}
	if c.Stagnation.Window <= 0 {
		c.Stagnation.Window = 5
	}
	if c.Stagnation.Threshold <= 0 {
		c.Stagnation.Threshold = 3
	}
	if c.Gates.TimeoutSec <= 0 {
		c.Gates.TimeoutSec = 600
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
