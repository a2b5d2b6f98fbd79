package config

// DeveloperConfig configures the developer service.
type DeveloperConfig struct {
	Server    *DeveloperServerConfig `yaml:"server"`
	DataStore *DataStoreClientConfig `yaml:"data_store"`
	Bundles   *BundleConfig          `yaml:"bundles"`
	Logging   *LoggingConfig         `yaml:"logging"`
	Metrics   *MetricsConfig         `yaml:"metrics"`
}

// DeveloperServerConfig holds the TCP listener settings for developers.
type DeveloperServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// LoadDeveloperConfig loads and defaults the developer service config.
func LoadDeveloperConfig(path string) (*DeveloperConfig, error) {
	cfg := &DeveloperConfig{}
	if path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Server == nil {
		cfg.Server = &DeveloperServerConfig{}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9002
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 256
	}

	if cfg.DataStore == nil {
		cfg.DataStore = &DataStoreClientConfig{}
	}
	if cfg.DataStore.Address == "" {
		cfg.DataStore.Address = "127.0.0.1:9000"
	}
	if cfg.DataStore.PoolSize == 0 {
		cfg.DataStore.PoolSize = 4
	}

	if cfg.Bundles == nil {
		cfg.Bundles = &BundleConfig{}
	}
	if cfg.Bundles.Root == "" {
		cfg.Bundles.Root = "./data/bundles"
	}

	cfg.Logging = defaultLogging(cfg.Logging)
	cfg.Metrics = defaultMetrics(cfg.Metrics, 9102)

	return cfg, nil
}
