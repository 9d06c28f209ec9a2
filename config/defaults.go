// =============================================================================
// 📦 batchhost 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Host:      DefaultHostConfig(),
		Server:    DefaultServerConfig(),
		Storage:   DefaultStorageConfig(),
		Redis:     DefaultRedisConfig(),
		Auth:      DefaultAuthConfig(),
		RateLimit: DefaultRateLimitConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultHostConfig 返回默认批处理运行时配置
func DefaultHostConfig() HostConfig {
	return HostConfig{
		MaxBatchSize: 16,
		StopTimeout:  30 * time.Second,
	}
}

// DefaultServerConfig 返回默认服务器配置
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		GRPCAddr:        ":9090",
		HTTPAddr:        ":8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 15 * time.Second,
	}
}

// DefaultStorageConfig 返回默认审计日志存储配置
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:          "none",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// DefaultRedisConfig 返回默认舰队统计信息 Redis 配置
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:      false,
		Addr:         "localhost:6379",
		DB:           0,
		Channel:      "batchhost:stats",
		PoolSize:     10,
		PublishEvery: 5 * time.Second,
	}
}

// DefaultAuthConfig 返回默认管理面鉴权配置
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled: false,
		Issuer:  "batchhost",
	}
}

// DefaultRateLimitConfig 返回默认准入限流配置
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: false,
		RPS:     500,
		Burst:   1000,
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "batchhost",
		SampleRate:   0.1,
	}
}
