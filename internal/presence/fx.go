package presence

import (
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/trackiy/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("presence",
	fx.Provide(NewStore),
	fx.Provide(NewService),
)

// NewStore picks redis when REDIS_ADDR is configured, the in-process
// store otherwise.
func NewStore(cfg config.Config, log *zap.Logger) Store {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})
	log.Info("presence store using redis", zap.String("addr", addr))
	return NewRedisStore(client)
}
