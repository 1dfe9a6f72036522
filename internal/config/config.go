package config

import (
	"log"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/openswap/crosschain-sdk/internal/chains"
)

// ChainConfig holds the per-network connection settings.
type ChainConfig struct {
	RPCURL    string `yaml:"rpc_url"`
	Multicall string `yaml:"multicall_address"`
}

// PairConfig maps one DEX pool contract to its token pair.
type PairConfig struct {
	Token0 string `yaml:"token0"`
	Token1 string `yaml:"token1"`
	Pair   string `yaml:"pair"`
}

// DexConfig describes a V2-style DEX deployment on one network.
type DexConfig struct {
	Router        string       `yaml:"router"`
	WrappedNative string       `yaml:"wrapped_native"`
	Pairs         []PairConfig `yaml:"pairs"`
}

// Config holds application configuration loaded from file.
type Config struct {
	Chains map[string]ChainConfig `yaml:"chains"`
	Dex    map[string]DexConfig   `yaml:"dex"`

	// Per-chain fee registry / proxy contracts per provider.
	StargateFeeRegistry map[string]string `yaml:"stargate_fee_registry"`
	XYFeeRegistry       map[string]string `yaml:"xy_fee_registry"`
	ViaContracts        map[string]string `yaml:"via_contracts"`

	XYEndpoint       string `yaml:"xy_endpoint"`
	ViaEndpoint      string `yaml:"via_endpoint"`
	ViaPriceEndpoint string `yaml:"via_price_endpoint"`
	ViaAPIKey        string `yaml:"via_api_key"`

	IntegratorAddress string `yaml:"integrator_address"`

	SlippageTolerance float64       `yaml:"slippage_tolerance"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// Load reads the config from a YAML file path.
// Fails fatally if config is invalid or file is missing.
func Load(path string) Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: os.Open: %v", err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Printf("failed to close config file: f.Close: %v", err)
		}
	}(f)

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		log.Fatalf("failed to parse config file: decoder.Decode: %v", err)
	}

	// Fallbacks
	if cfg.SlippageTolerance == 0 {
		cfg.SlippageTolerance = 0.02
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	if len(cfg.Chains) == 0 {
		log.Fatalf("at least one chain is required in config")
	}
	for name, chain := range cfg.Chains {
		if chain.RPCURL == "" {
			log.Fatalf("rpc_url is required for chain %q", name)
		}
		if _, ok := parseBlockchain(name); !ok {
			log.Fatalf("unknown chain %q in config", name)
		}
	}

	return cfg
}

// AddressMap converts a chain-name -> hex-address table into typed keys,
// skipping chains absent from the known set.
func AddressMap(raw map[string]string) map[chains.Blockchain]common.Address {
	out := make(map[chains.Blockchain]common.Address, len(raw))
	for name, address := range raw {
		blockchain, ok := parseBlockchain(name)
		if !ok {
			continue
		}
		out[blockchain] = common.HexToAddress(address)
	}
	return out
}

func parseBlockchain(name string) (chains.Blockchain, bool) {
	for _, known := range []chains.Blockchain{
		chains.Ethereum,
		chains.BSC,
		chains.Polygon,
		chains.Avalanche,
		chains.Fantom,
		chains.Arbitrum,
		chains.Optimism,
	} {
		if string(known) == name {
			return known, true
		}
	}
	return "", false
}

// ParseBlockchain resolves a chain name from config or CLI input.
func ParseBlockchain(name string) (chains.Blockchain, bool) {
	return parseBlockchain(name)
}
