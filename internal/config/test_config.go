package config

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "localhost",
			Port:       5001,
			PublicURL:  "http://localhost:5001",
			Env:        "test",
			RateLimit:  0,
			AdminPanel: false,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "draperads_test",
			User:     "test_user",
			Password: "test_password",
			SSLMode:  "disable",
		},
		Session: SessionConfig{
			Secret:     "test-session-secret",
			TTLHours:   24 * 7,
			CookieName: "draper.sid",
			PruneCron:  "*/15 * * * *",
		},
		Auth: AuthConfig{
			ClientID: "test-client",
			Domains:  []string{"example.com"},
			Scopes:   []string{"openid", "email", "profile", "offline_access"},
		},
		Meta: MetaConfig{
			AppID:       "test-app",
			AppSecret:   "test-app-secret",
			RedirectURI: "http://localhost:5001/api/meta/callback",
			Scopes:      []string{"ads_management"},
		},
		Storage: StorageConfig{
			Provider:  "local",
			UploadDir: "uploads",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		},
	}
}
