package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN        string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL        string `env:"RABBITMQ_URL,required=true"`
	RedisURL           string `env:"REDIS_URL,required=true"`
	JWTSecret          string `env:"JWT_SECRET,required=true"`
	JWTRefreshSecret   string `env:"JWT_REFRESH_SECRET,required=true"`
	JWTAccessTTLMin    int    `env:"JWT_ACCESS_TTL_MIN,default=15"`
	JWTRefreshTTLDays  int    `env:"JWT_REFRESH_TTL_DAYS,default=7"`
	AuthRatePerSec     int    `env:"AUTH_RATE_LIMIT_PER_SEC,default=10"`
	HeartbeatSeconds   int    `env:"WS_HEARTBEAT_SECONDS,default=30"`
	TimerSweepSeconds  int    `env:"TIMER_SWEEP_SECONDS,default=1"`
	APIPort            int    `env:"API_PORT,default=4000"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
