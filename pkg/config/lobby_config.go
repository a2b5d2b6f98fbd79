package config

// LobbyConfig configures the lobby/matchmaking service.
type LobbyConfig struct {
	Server    *LobbyServerConfig    `yaml:"server"`
	DataStore *DataStoreClientConfig `yaml:"data_store"`
	Bundles   *BundleConfig         `yaml:"bundles"`
	GameServer *GameServerConfig    `yaml:"game_server"`
	Logging   *LoggingConfig        `yaml:"logging"`
	Metrics   *MetricsConfig        `yaml:"metrics"`
}

// LobbyServerConfig holds the TCP listener settings for players.
type LobbyServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// DataStoreClientConfig configures the pooled client LS uses to reach DS.
type DataStoreClientConfig struct {
	Address     string `yaml:"address"`
	PoolSize    int    `yaml:"pool_size"`
}

// BundleConfig points at the shared bundle repository root.
type BundleConfig struct {
	Root string `yaml:"root"`
}

// GameServerConfig configures port allocation and subprocess spawning.
type GameServerConfig struct {
	PortRangeStart int    `yaml:"port_range_start"`
	PortRangeEnd   int    `yaml:"port_range_end"`
	SettleDelayMS  int    `yaml:"settle_delay_ms"`
	MatchTokenTTLSeconds int `yaml:"match_token_ttl_seconds"`
	MatchSigningKey string `yaml:"match_signing_key"`
	CallbackAddress string `yaml:"callback_address"`
}

// LoadLobbyConfig loads and defaults the lobby service config.
func LoadLobbyConfig(path string) (*LobbyConfig, error) {
	cfg := &LobbyConfig{}
	if path != "" {
		if err := readYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if cfg.Server == nil {
		cfg.Server = &LobbyServerConfig{}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9001
	}
	if cfg.Server.MaxConnections == 0 {
		cfg.Server.MaxConnections = 1024
	}

	if cfg.DataStore == nil {
		cfg.DataStore = &DataStoreClientConfig{}
	}
	if cfg.DataStore.Address == "" {
		cfg.DataStore.Address = "127.0.0.1:9000"
	}
	if cfg.DataStore.PoolSize == 0 {
		cfg.DataStore.PoolSize = 8
	}

	if cfg.Bundles == nil {
		cfg.Bundles = &BundleConfig{}
	}
	if cfg.Bundles.Root == "" {
		cfg.Bundles.Root = "./data/bundles"
	}

	if cfg.GameServer == nil {
		cfg.GameServer = &GameServerConfig{}
	}
	if cfg.GameServer.PortRangeStart == 0 {
		cfg.GameServer.PortRangeStart = 10100
	}
	if cfg.GameServer.PortRangeEnd == 0 {
		cfg.GameServer.PortRangeEnd = 11000
	}
	if cfg.GameServer.SettleDelayMS == 0 {
		cfg.GameServer.SettleDelayMS = 250
	}
	if cfg.GameServer.MatchTokenTTLSeconds == 0 {
		cfg.GameServer.MatchTokenTTLSeconds = 3600
	}
	if cfg.GameServer.MatchSigningKey == "" {
		cfg.GameServer.MatchSigningKey = "development-only-change-me"
	}
	if cfg.GameServer.CallbackAddress == "" {
		cfg.GameServer.CallbackAddress = "127.0.0.1:9001"
	}

	cfg.Logging = defaultLogging(cfg.Logging)
	cfg.Metrics = defaultMetrics(cfg.Metrics, 9101)

	return cfg, nil
}
