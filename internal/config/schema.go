package config

// ServerConfig is the top-level YAML structure.
type ServerConfig struct {
	Version string     `yaml:"version"`
	Server  ServerConf `yaml:"server"`
	Log     LogConf    `yaml:"log"`
}

// ServerConf holds HTTP server settings. Timeouts guard the store-I/O
// boundary; a timed-out request never leaves partial flag writes behind
// because the write-back is a single batch.
type ServerConf struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms"`
	IdleTimeoutMs  int    `yaml:"idle_timeout_ms"`
}

// LogConf holds logging settings. Level applies on hot reload without a
// restart.
type LogConf struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
