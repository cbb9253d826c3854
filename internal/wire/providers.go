package wire

import (
	"os"
	"strings"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"prolink/internal/badge"
	"prolink/internal/cdc"
	"prolink/internal/chat"
	"prolink/internal/config"
	"prolink/internal/dbmysql"
	"prolink/internal/notif"
)

type Application struct {
	Config    *config.Config
	Logger    zerolog.Logger
	DB        *gorm.DB
	Redis     *redis.Client
	Publisher *cdc.Publisher
	Listener  *cdc.Listener

	ConversationRepo dbmysql.ConversationRepository
	Aggregator       *chat.Aggregator
	Feed             *notif.Feed

	Router *mux.Router
}

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

func ProvideRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func ProvideListener(bus cdc.PubSub, cfg *config.Config, logger zerolog.Logger) *cdc.Listener {
	return cdc.NewListener(bus, logger, cfg.Sync.MaxReconnectWait)
}

func ProvideFeed(
	repo dbmysql.NotificationRepository,
	publisher *cdc.Publisher,
	cfg *config.Config,
	logger zerolog.Logger,
) *notif.Feed {
	return notif.NewFeed(repo, publisher, cfg.Sync.PageSize, logger)
}

func ProvideRouter(
	chatHandler *chat.Handler,
	notifHandler *notif.Handler,
	badgeHandler *badge.Handler,
) *mux.Router {
	r := mux.NewRouter()
	chatHandler.RegisterRoutes(r)
	notifHandler.RegisterRoutes(r)
	badgeHandler.RegisterRoutes(r)
	return r
}
