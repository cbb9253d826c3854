//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"prolink/internal/badge"
	"prolink/internal/cdc"
	"prolink/internal/chat"
	"prolink/internal/config"
	"prolink/internal/dbmysql"
	"prolink/internal/notif"
)

func InitializeApplication() (*Application, error) {
	wire.Build(
		config.Load,
		ProvideLogger,
		ProvideRedis,
		dbmysql.NewMySQL,
		dbmysql.NewConversationRepository,
		dbmysql.NewNotificationRepository,
		cdc.NewRedisPubSub,
		cdc.NewPublisher,
		ProvideListener,
		chat.NewAggregator,
		ProvideFeed,
		chat.NewHandler,
		notif.NewHandler,
		badge.NewHandler,
		ProvideRouter,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
