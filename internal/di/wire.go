//go:build wireinject

package di

import (
	"github.com/google/wire"

	"empathy-client/internal/adapter/logging"
	"empathy-client/internal/app"
	"empathy-client/internal/config"
	"empathy-client/internal/domain/ports"
	"empathy-client/internal/usecase"
)

// InitializeApp wires the application components together.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(
		config.Load,
		provideSlogLogger,
		logging.New,
		wire.Bind(new(ports.Logger), new(*logging.SLogger)),
		provideTokenStore,
		provideGateway,
		provideForum,
		provideNotifier,
		provideReportSink,
		usecase.NewInteractions,
		usecase.NewAnnouncement,
		app.New,
		provideSchedule,
	)
	return nil, nil, nil
}
