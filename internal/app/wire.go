//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"meeting-recap/internal/app/api"
	"meeting-recap/internal/app/config"
	"meeting-recap/internal/app/metrics"
	"meeting-recap/internal/app/pipeline"
	"meeting-recap/internal/app/repository"
	envconfig "meeting-recap/internal/config"
)

// InitializeRunner wires a Runner over the configured ledger, metrics and
// publisher. The cleanup closes the ledger.
func InitializeRunner(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pipeline.Runner, func(), error) {
	wire.Build(pipeline.NewRunnerFromConfig, provideUnitDAO, providePublisher, metrics.New)
	return &pipeline.Runner{}, nil, nil
}

// InitializeTranscriber builds the configured speech-to-text backend.
func InitializeTranscriber(cfg *config.Config, keys *envconfig.APIKeys, logger *zap.Logger) (api.Transcriber, error) {
	wire.Build(api.NewTranscriber)
	return nil, nil
}

// InitializeGenerator builds the configured text generation backend.
func InitializeGenerator(ctx context.Context, cfg *config.Config, keys *envconfig.APIKeys) (api.Generator, error) {
	wire.Build(api.NewGenerator)
	return nil, nil
}

// InitializeLedger opens the configured ledger for read-only commands.
func InitializeLedger(ctx context.Context, cfg *config.Config) (repository.UnitDAO, func(), error) {
	wire.Build(provideUnitDAO)
	return nil, nil, nil
}
