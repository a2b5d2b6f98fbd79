package config

// DataStoreConfig configures the data store service.
type DataStoreConfig struct {
	Server  *DataStoreServerConfig `yaml:"server"`
	Storage *StorageConfig         `yaml:"storage"`
	Logging *LoggingConfig         `yaml:"logging"`
	Metrics *MetricsConfig         `yaml:"metrics"`
}

// DataStoreServerConfig holds the TCP listener settings.
type DataStoreServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// StorageConfig points at the on-disk snapshot file.
type StorageConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// LoadDataStoreConfig loads and defaults the data store service config.
func LoadDataStoreConfig(path string) (*DataStoreConfig, error) {
	cfg := &DataStoreConfig{}
	if path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Server == nil {
		cfg.Server = &DataStoreServerConfig{}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9000
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 256
	}

	if cfg.Storage == nil {
		cfg.Storage = &StorageConfig{}
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = "./data/catalog.json"
	}

	cfg.Logging = defaultLogging(cfg.Logging)
	cfg.Metrics = defaultMetrics(cfg.Metrics, 9100)

	return cfg, nil
}
