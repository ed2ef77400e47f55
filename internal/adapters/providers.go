package adapters

import (
	"github.com/google/wire"

	"github.com/trebuchet-org/lspdeploy/internal/adapters/abi"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/blockchain"
	internalconfig "github.com/trebuchet-org/lspdeploy/internal/adapters/config"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/fs"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/miner"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/progress"
	"github.com/trebuchet-org/lspdeploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/lspdeploy/internal/config"
	"github.com/trebuchet-org/lspdeploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewSaltRegistryAdapter,
	wire.Bind(new(usecase.SaltRegistry), new(*fs.SaltRegistryAdapter)),

	fs.NewPlanLoaderAdapter,
	wire.Bind(new(usecase.PlanLoader), new(*fs.PlanLoaderAdapter)),
)

// RepositorySet provides artifact repositories
var RepositorySet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ContractRepository), new(*contracts.Repository)),
)

// ABISet provides ABI encoders for factory calls and user arguments
var ABISet = wire.NewSet(
	abi.NewFactoryEncoder,
	wire.Bind(new(usecase.FactoryEncoder), new(*abi.FactoryEncoder)),

	abi.NewArgumentEncoder,
	wire.Bind(new(usecase.ArgumentEncoder), new(*abi.ArgumentEncoder)),
)

// MinerSet provides the vanity salt miner
var MinerSet = wire.NewSet(
	miner.NewMinerAdapter,
	wire.Bind(new(usecase.SaltMiner), new(*miner.MinerAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.ContractSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.BlockchainChecker), new(*blockchain.CheckerAdapter)),
)

// ProgressSet provides the progress sink for the current output mode
var ProgressSet = wire.NewSet(
	progress.ProvideProgressSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	RepositorySet,
	ABISet,
	MinerSet,
	InteractiveSet,
	ConfigSet,
	BlockchainSet,
	ProgressSet,
)
