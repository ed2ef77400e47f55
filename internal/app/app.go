package app

import (
	"log/slog"

	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Log  *slog.Logger
	Sink usecase.ProgressSink

	// Use cases
	ResolvePlan        *usecase.ResolvePlan
	ComputeAddress     *usecase.ComputeAddress
	CheckSalt          *usecase.CheckSalt
	MineSalts          *usecase.MineSalts
	PrepareDeployment  *usecase.PrepareDeployment
	RegisterDeployment *usecase.RegisterDeployment
	ListDeployments    *usecase.ListDeployments
	ListNetworks       *usecase.ListNetworks
	EncodePacked       *usecase.EncodePacked
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	sink usecase.ProgressSink,
	resolvePlan *usecase.ResolvePlan,
	computeAddress *usecase.ComputeAddress,
	checkSalt *usecase.CheckSalt,
	mineSalts *usecase.MineSalts,
	prepareDeployment *usecase.PrepareDeployment,
	registerDeployment *usecase.RegisterDeployment,
	listDeployments *usecase.ListDeployments,
	listNetworks *usecase.ListNetworks,
	encodePacked *usecase.EncodePacked,
) (*App, error) {
	return &App{
		Config:             cfg,
		Log:                log,
		Sink:               sink,
		ResolvePlan:        resolvePlan,
		ComputeAddress:     computeAddress,
		CheckSalt:          checkSalt,
		MineSalts:          mineSalts,
		PrepareDeployment:  prepareDeployment,
		RegisterDeployment: registerDeployment,
		ListDeployments:    listDeployments,
		ListNetworks:       listNetworks,
		EncodePacked:       encodePacked,
	}, nil
}
