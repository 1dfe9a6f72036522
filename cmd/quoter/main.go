package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/config"
	"github.com/openswap/crosschain-sdk/internal/dex/uniswapv2"
	"github.com/openswap/crosschain-sdk/internal/httpclient"
	"github.com/openswap/crosschain-sdk/internal/manager"
	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/providers/stargate"
	"github.com/openswap/crosschain-sdk/internal/providers/via"
	"github.com/openswap/crosschain-sdk/internal/providers/xy"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

func main() {
	var (
		fromChain    = flag.String("from-chain", string(chains.Ethereum), "source network name")
		toChain      = flag.String("to-chain", string(chains.Polygon), "destination network name")
		fromToken    = flag.String("from-token", "", "source token address, empty for the native coin")
		toToken      = flag.String("to-token", "", "destination token address, empty for the native coin")
		fromSymbol   = flag.String("from-symbol", "", "source token symbol")
		toSymbol     = flag.String("to-symbol", "", "destination token symbol")
		fromDecimals = flag.Int("from-decimals", 18, "source token decimals")
		toDecimals   = flag.Int("to-decimals", 18, "destination token decimals")
		amount       = flag.String("amount", "1", "input amount in display units")
	)
	flag.Parse()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "cfg/config.yaml"
	}
	cfg := config.Load(path)

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("zap.NewProduction: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	srcBlockchain, ok := config.ParseBlockchain(*fromChain)
	if !ok {
		log.Fatalf("unknown source chain %q", *fromChain)
	}
	dstBlockchain, ok := config.ParseBlockchain(*toChain)
	if !ok {
		log.Fatalf("unknown destination chain %q", *toChain)
	}

	srcChainCfg, ok := cfg.Chains[*fromChain]
	if !ok {
		log.Fatalf("chain %q is not configured", *fromChain)
	}
	ethClient, err := ethclient.Dial(srcChainCfg.RPCURL)
	if err != nil {
		log.Fatalf("ethclient.Dial: %v", err)
	}
	public := web3.NewPublicWithCaller(ethClient, common.HexToAddress(srcChainCfg.Multicall))
	gasPrice := web3.NewRPCGasPriceSource(map[chains.Blockchain]web3.GasPricer{
		srcBlockchain: ethClient,
	})

	clients := trade.Clients{
		Public:   public,
		GasPrice: gasPrice,
		Logger:   logger,
	}

	http := httpclient.New(cfg.RequestTimeout, logger)
	dexProvider := uniswapv2.NewProvider(clients, dexDeployments(cfg))
	list := []providers.Provider{
		stargate.NewProvider(clients, dexProvider, config.AddressMap(cfg.StargateFeeRegistry)),
		xy.NewProvider(clients, http, config.AddressMap(cfg.XYFeeRegistry), cfg.XYEndpoint),
		via.NewProvider(clients, http, config.AddressMap(cfg.ViaContracts), cfg.ViaEndpoint, cfg.ViaPriceEndpoint, cfg.ViaAPIKey),
	}
	mgr := manager.New(list, logger)

	fromAmount, err := decimal.NewFromString(*amount)
	if err != nil {
		log.Fatalf("bad amount %q: %v", *amount, err)
	}
	from := tokens.NewTokenAmountFromDecimal(tokens.Token{
		Blockchain: srcBlockchain,
		Address:    common.HexToAddress(*fromToken),
		Symbol:     *fromSymbol,
		Decimals:   *fromDecimals,
	}, fromAmount)
	to := tokens.Token{
		Blockchain: dstBlockchain,
		Address:    common.HexToAddress(*toToken),
		Symbol:     *toSymbol,
		Decimals:   *toDecimals,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	opts := providers.Options{
		SlippageTolerance: decimal.NewFromFloat(cfg.SlippageTolerance),
		ProviderAddress:   common.HexToAddress(cfg.IntegratorAddress),
	}
	results := mgr.CalculateTrades(ctx, from, to, opts)
	for _, result := range results {
		if result.Err != nil {
			logger.Info("no trade",
				zap.String("provider", string(result.TradeType)),
				zap.Error(result.Err))
			continue
		}
		logger.Info("quote",
			zap.String("provider", string(result.TradeType)),
			zap.String("to_amount", result.Trade.To.Amount().String()),
			zap.String("to_amount_min", result.Trade.ToTokenAmountMin.String()),
			zap.String("network_fee", result.Trade.NetworkFee().String()))
	}

	best, err := mgr.BestTrade(results)
	if err != nil {
		logger.Fatal("no viable route", zap.Error(err))
	}
	logger.Info("best trade",
		zap.String("provider", string(best.TradeType)),
		zap.String("to_amount", best.To.Amount().String()))
}

func dexDeployments(cfg config.Config) map[chains.Blockchain]uniswapv2.ChainDeployment {
	deployments := make(map[chains.Blockchain]uniswapv2.ChainDeployment, len(cfg.Dex))
	for name, dex := range cfg.Dex {
		blockchain, ok := config.ParseBlockchain(name)
		if !ok {
			continue
		}
		pairs := make(map[uniswapv2.PairKey]common.Address, len(dex.Pairs))
		for _, pair := range dex.Pairs {
			key := uniswapv2.NewPairKey(common.HexToAddress(pair.Token0), common.HexToAddress(pair.Token1))
			pairs[key] = common.HexToAddress(pair.Pair)
		}
		deployments[blockchain] = uniswapv2.ChainDeployment{
			Router:        common.HexToAddress(dex.Router),
			WrappedNative: common.HexToAddress(dex.WrappedNative),
			Pairs:         pairs,
		}
	}
	return deployments
}
