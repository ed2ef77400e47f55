//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/trebuchet-org/lspdeploy/internal/adapters"
	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/logging"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// UseCaseSet provides every use case
var UseCaseSet = wire.NewSet(
	usecase.NewResolveContract,
	wire.Bind(new(usecase.ContractResolver), new(*usecase.ResolveContract)),
	usecase.NewResolvePlan,
	usecase.NewComputeAddress,
	usecase.NewCheckSalt,
	usecase.NewMineSalts,
	usecase.NewPrepareDeployment,
	usecase.NewRegisterDeployment,
	usecase.NewListDeployments,
	usecase.NewListNetworks,
	usecase.NewEncodePacked,
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		UseCaseSet,

		// App
		NewApp,
	)
	return nil, nil
}
