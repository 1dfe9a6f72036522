package stargate

import (
	"context"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

const erc20DecimalsABIJSON = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

// OnChainCalculator quotes a single-network swap. Used for the proxy
// pre-swap into a bridge-supported token.
type OnChainCalculator interface {
	Calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, slippageTolerance decimal.Decimal) (*trade.OnChainTrade, error)
}

// Provider quotes cross-chain swaps through the Stargate bridge.
type Provider struct {
	clients     trade.Clients
	onChain     OnChainCalculator
	feeRegistry map[chains.Blockchain]common.Address
	logger      *zap.Logger
}

// NewProvider builds a Stargate provider. feeRegistry holds the per-chain
// router contracts the platform fees are read from.
func NewProvider(clients trade.Clients, onChain OnChainCalculator, feeRegistry map[chains.Blockchain]common.Address) *Provider {
	return &Provider{
		clients:     clients,
		onChain:     onChain,
		feeRegistry: feeRegistry,
		logger:      clients.Logger.Named("stargate"),
	}
}

// Type tags trades produced by this provider.
func (p *Provider) Type() trade.Type {
	return trade.TypeStargate
}

// IsSupportedBlockchain is the static allow-list membership check.
func (p *Provider) IsSupportedBlockchain(b chains.Blockchain) bool {
	for _, supported := range supportedBlockchains {
		if supported == b {
			return true
		}
	}
	return false
}

// Calculate quotes from -> toToken through Stargate. Every failure is
// classified and returned inside the result; nothing escapes the boundary.
func (p *Provider) Calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts providers.Options) (result providers.CalculationResult) {
	result.TradeType = trade.TypeStargate
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("calculate panicked", zap.Any("panic", r))
			result.Trade = nil
			result.Err = sdkerrors.ErrUnknown
		}
	}()

	t, err := p.calculate(ctx, from, toToken, opts)
	if err != nil {
		p.logger.Debug("calculate failed", zap.Error(err))
		result.Err = sdkerrors.Parse(err)
		return result
	}
	result.Trade = t
	return result
}

func (p *Provider) calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts providers.Options) (*trade.CrossChainTrade, error) {
	if !p.IsSupportedBlockchain(from.Blockchain) || !p.IsSupportedBlockchain(toToken.Blockchain) {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	directRoute, err := hasDirectRoute(from.Token, toToken)
	if err != nil {
		return nil, err
	}
	if directRoute && from.IsNative() && toToken.IsNative() {
		// Native-to-native transfers are not routable through the pools.
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	feeInfo, err := providers.GetFeeInfo(
		ctx, p.clients.Public,
		p.feeRegistry[from.Blockchain], opts.ProviderAddress,
		from.Blockchain, from.Symbol,
	)
	if err != nil {
		return nil, err
	}

	platformPercent := decimal.Zero
	if feeInfo.PlatformFee != nil {
		platformPercent = feeInfo.PlatformFee.Percent
	}
	fromWithoutFee := fees.FromWithoutFee(from, platformPercent)

	transitTokenAmount := fromWithoutFee
	transitAmount := fromWithoutFee.Amount()
	var srcChainTrade *trade.OnChainTrade

	if !directRoute {
		if !opts.ProxyEnabled(trade.TypeStargate) {
			return nil, sdkerrors.ErrNotSupportedTokens
		}

		transitToken, err := p.transitToken(ctx, from.Token, toToken)
		if err != nil {
			return nil, err
		}

		// Half of the slippage budget goes to the pre-swap, the rest is
		// reserved for the bridge hop.
		halfSlippage := opts.SlippageTolerance.Div(decimal.NewFromInt(2))
		onChainTrade, err := p.onChain.Calculate(ctx, fromWithoutFee, transitToken, halfSlippage)
		if err != nil {
			return nil, sdkerrors.ErrNotSupportedTokens
		}
		srcChainTrade = onChainTrade
		transitTokenAmount = onChainTrade.To
		transitAmount = onChainTrade.ToTokenAmountMin().Amount()
	}

	poolFee, err := p.fetchPoolFees(ctx, transitTokenAmount.Token, toToken, transitAmount)
	if err != nil {
		return nil, err
	}

	amountOutMin := transitAmount.Sub(poolFee)
	to := tokens.NewTokenAmountFromDecimal(toToken, amountOutMin)

	layerZeroFeeWei, err := p.quoteLayerZeroFee(ctx, from.Blockchain, toToken.Blockchain, opts, nil)
	if err != nil {
		return nil, err
	}
	native, ok := chains.Native(from.Blockchain)
	if !ok {
		return nil, errors.Errorf("unknown native token for %s", from.Blockchain)
	}
	feeInfo.CryptoFee = &fees.CryptoFee{
		Amount:      tokens.FromWei(layerZeroFeeWei, native.Decimals),
		TokenSymbol: native.Symbol,
	}

	toTokenAmountMin := to.Amount().Mul(decimal.NewFromInt(1).Sub(opts.SlippageTolerance))

	builder := p.transactionBuilder(from, to, transitTokenAmount, layerZeroFeeWei, opts)
	return trade.NewCrossChainTrade(trade.CrossChainTrade{
		TradeType:         trade.TypeStargate,
		From:              from,
		To:                to,
		ToTokenAmountMin:  toTokenAmountMin,
		FeeInfo:           feeInfo,
		PriceImpact:       transitTokenAmount.CalculatePriceImpactPercent(to),
		SlippageTolerance: opts.SlippageTolerance,
		ProviderAddress:   opts.ProviderAddress,
		ContractAddress:   routerAddress[from.Blockchain],
		SrcChainTrade:     srcChainTrade,
		CryptoFeeToken:    tokens.NativeToken(from.Blockchain, decimal.Zero),
	}, builder, p.clients), nil
}

// hasDirectRoute checks the static pool tables for a path settling the
// source token directly into the destination token.
func hasDirectRoute(from tokens.Token, to tokens.Token) (bool, error) {
	srcPool, ok := poolID[BridgeToken(from.Symbol)]
	if !ok || !containsPool(supportedPools[from.Blockchain], srcPool) {
		return false, nil
	}

	dstPool, ok := poolID[BridgeToken(to.Symbol)]
	if !ok || !containsPool(supportedPools[to.Blockchain], dstPool) {
		return false, sdkerrors.ErrNotSupportedTokens
	}

	destinations := poolMapping[from.Blockchain][BridgeToken(from.Symbol)][to.Blockchain]
	for _, symbol := range destinations {
		if symbol == BridgeToken(to.Symbol) {
			return true, nil
		}
	}
	return false, nil
}

// transitToken resolves the source-chain token the pre-swap must settle
// into: the pool token backing the destination symbol's pool on the source
// chain, discovered through the router's factory.
func (p *Provider) transitToken(ctx context.Context, from tokens.Token, to tokens.Token) (tokens.Token, error) {
	toSymbol := BridgeToken(to.Symbol)
	dstDirections, ok := poolMapping[to.Blockchain][toSymbol]
	if !ok {
		return tokens.Token{}, sdkerrors.ErrNotSupportedTokens
	}
	if _, ok := dstDirections[from.Blockchain]; !ok {
		return tokens.Token{}, sdkerrors.ErrNotSupportedTokens
	}
	pool, ok := poolID[toSymbol]
	if !ok {
		return tokens.Token{}, sdkerrors.ErrNotSupportedTokens
	}
	return p.poolToken(ctx, pool, from.Blockchain, string(toSymbol))
}

// poolToken discovers a pool's underlying token via factory -> getPool ->
// token.
func (p *Provider) poolToken(ctx context.Context, pool int, blockchain chains.Blockchain, symbol string) (tokens.Token, error) {
	router := routerAddress[blockchain]

	out, err := p.clients.Public.CallContractMethod(ctx, router, routerABIJSON, "factory")
	if err != nil {
		return tokens.Token{}, errors.Wrap(err, "factory")
	}
	factory, ok := out[0].(common.Address)
	if !ok {
		return tokens.Token{}, errors.New("failed to cast factory to address")
	}

	out, err = p.clients.Public.CallContractMethod(ctx, factory, factoryABIJSON, "getPool", big.NewInt(int64(pool)))
	if err != nil {
		return tokens.Token{}, errors.Wrap(err, "getPool")
	}
	poolAddr, ok := out[0].(common.Address)
	if !ok {
		return tokens.Token{}, errors.New("failed to cast pool to address")
	}

	out, err = p.clients.Public.CallContractMethod(ctx, poolAddr, poolABIJSON, "token")
	if err != nil {
		return tokens.Token{}, errors.Wrap(err, "token")
	}
	tokenAddr, ok := out[0].(common.Address)
	if !ok {
		return tokens.Token{}, errors.New("failed to cast token to address")
	}

	decimals := 18
	if out, err := p.clients.Public.CallContractMethod(ctx, tokenAddr, erc20DecimalsABIJSON, "decimals"); err == nil {
		if d, ok := out[0].(uint8); ok {
			decimals = int(d)
		}
	}

	return tokens.Token{
		Blockchain: blockchain,
		Address:    tokenAddr,
		Symbol:     symbol,
		Decimals:   decimals,
	}, nil
}

// fetchPoolFees reads the fee library and returns the total pool fee in
// display units: eqFee + protocolFee - eqReward. Amounts sent to the fee
// library are scaled by the bridge token's shared pool decimals, which are
// authoritative and may differ from the ERC-20 decimals.
func (p *Provider) fetchPoolFees(ctx context.Context, fromToken, toToken tokens.Token, transitAmount decimal.Decimal) (decimal.Decimal, error) {
	srcPool, ok := poolID[BridgeToken(fromToken.Symbol)]
	if !ok {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}
	dstPool, ok := poolID[BridgeToken(toToken.Symbol)]
	if !ok {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}

	sdDecimals, ok := poolDecimals[BridgeToken(fromToken.Symbol)]
	if !ok {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}
	amountSD := tokens.ToWei(transitAmount, sdDecimals)

	// Metis USDT settles through the m.USDT pool on both sides. The
	// general rule behind this pair-specific override is unconfirmed, so
	// it is reproduced verbatim and not generalized.
	if dstPool == poolID[MUSD] && srcPool == poolID[USDT] {
		srcPool = poolID[MUSD]
	}
	if srcPool == poolID[MUSD] && dstPool == poolID[USDT] {
		dstPool = poolID[MUSD]
	}

	out, err := p.clients.Public.CallContractMethod(
		ctx,
		feeLibraryAddress[fromToken.Blockchain],
		feeLibraryABIJSON,
		"getFees",
		big.NewInt(int64(srcPool)),
		big.NewInt(int64(dstPool)),
		layerZeroChainID[toToken.Blockchain],
		chains.EmptyAddress,
		amountSD,
	)
	if err != nil {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}
	const requiredOutputs = 6
	if len(out) < requiredOutputs {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}

	eqFee, ok1 := out[1].(*big.Int)
	eqReward, ok2 := out[2].(*big.Int)
	protocolFee, ok3 := out[4].(*big.Int)
	if !ok1 || !ok2 || !ok3 {
		return decimal.Zero, sdkerrors.ErrNotSupportedTokens
	}

	total := fees.PoolFee(
		decimal.NewFromBigInt(eqFee, 0),
		decimal.NewFromBigInt(protocolFee, 0),
		decimal.NewFromBigInt(eqReward, 0),
	)
	return total.Shift(int32(-sdDecimals)), nil
}

// PoolFeeCandidate is one probed source pool with its total fee in shared
// decimals. An unreachable pool carries Infinite=true.
type PoolFeeCandidate struct {
	Pool     int
	Amount   decimal.Decimal
	Infinite bool
}

// FetchMultiplePoolFees probes every supported source pool's fee towards
// the destination token in one multicall. Failed probes are scored
// infinitely costly instead of aborting the batch. Candidates come back
// sorted by fee ascending, ties broken by pool id ascending, independent
// of response ordering.
func (p *Provider) FetchMultiplePoolFees(ctx context.Context, fromToken tokens.TokenAmount, toToken tokens.Token) ([]PoolFeeCandidate, error) {
	srcPools := supportedPools[fromToken.Blockchain]
	dstPool, ok := poolID[BridgeToken(toToken.Symbol)]
	if !ok {
		return nil, sdkerrors.ErrNotSupportedTokens
	}
	sdDecimals, ok := poolDecimals[BridgeToken(fromToken.Symbol)]
	if !ok {
		return nil, sdkerrors.ErrNotSupportedTokens
	}
	amountSD := tokens.ToWei(fromToken.Amount(), sdDecimals)

	argsList := make([][]interface{}, 0, len(srcPools))
	for _, srcPool := range srcPools {
		argsList = append(argsList, []interface{}{
			big.NewInt(int64(srcPool)),
			big.NewInt(int64(dstPool)),
			layerZeroChainID[toToken.Blockchain],
			p.walletOrZero(),
			amountSD,
		})
	}

	responses, err := p.clients.Public.MulticallContractMethod(
		ctx, feeLibraryAddress[fromToken.Blockchain], feeLibraryABIJSON, "getFees", argsList)
	if err != nil {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	candidates := make([]PoolFeeCandidate, 0, len(responses))
	for i, resp := range responses {
		candidate := PoolFeeCandidate{Pool: srcPools[i], Infinite: true}
		if resp.Success && len(resp.Output) >= 6 {
			eqFee, ok1 := resp.Output[1].(*big.Int)
			protocolFee, ok2 := resp.Output[4].(*big.Int)
			if ok1 && ok2 {
				candidate.Amount = decimal.NewFromBigInt(eqFee, 0).Add(decimal.NewFromBigInt(protocolFee, 0))
				candidate.Infinite = false
			}
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Infinite != b.Infinite {
			return !a.Infinite
		}
		if !a.Infinite && !a.Amount.Equal(b.Amount) {
			return a.Amount.LessThan(b.Amount)
		}
		return a.Pool < b.Pool
	})
	return candidates, nil
}

// CheckRebalancing verifies the route does not require pool rebalancing:
// a route whose equilibrium fee exceeds the protocol subsidy is rejected.
func (p *Provider) CheckRebalancing(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token) error {
	srcPool, okSrc := poolID[BridgeToken(from.Symbol)]
	dstPool, okDst := poolID[BridgeToken(toToken.Symbol)]
	sdDecimals, okDec := poolDecimals[BridgeToken(from.Symbol)]
	if !okSrc || !okDst || !okDec {
		return sdkerrors.ErrNotSupportedTokens
	}
	amountSD := tokens.ToWei(from.Amount(), sdDecimals)

	out, err := p.clients.Public.CallContractMethod(
		ctx,
		feeLibraryAddress[from.Blockchain],
		feeLibraryABIJSON,
		"getEquilibriumFee",
		big.NewInt(int64(srcPool)),
		big.NewInt(int64(dstPool)),
		layerZeroChainID[toToken.Blockchain],
		amountSD,
		false,
		false,
	)
	if err != nil {
		return sdkerrors.ErrNotSupportedTokens
	}
	if len(out) < 2 {
		return sdkerrors.ErrNotSupportedTokens
	}
	fee, ok1 := out[0].(*big.Int)
	protocolSubsidy, ok2 := out[1].(*big.Int)
	if !ok1 || !ok2 {
		return sdkerrors.ErrNotSupportedTokens
	}
	if protocolSubsidy.Cmp(fee) < 0 {
		return errors.New("rebalancing need detected")
	}
	return nil
}

// quoteLayerZeroFee reads the native-coin messaging fee from the router.
// The gas-limit/relayer triplet differs depending on whether a destination
// swap payload rides along.
func (p *Provider) quoteLayerZeroFee(
	ctx context.Context,
	fromBlockchain, toBlockchain chains.Blockchain,
	opts providers.Options,
	dstSwapData []byte,
) (*big.Int, error) {
	receiver := p.walletOrZero()
	if opts.ReceiverAddress != "" {
		receiver = common.HexToAddress(opts.ReceiverAddress)
	}

	lzParams := struct {
		DstGasForCall   *big.Int
		DstNativeAmount *big.Int
		DstNativeAddr   []byte
	}{
		DstGasForCall:   new(big.Int),
		DstNativeAmount: new(big.Int),
		DstNativeAddr:   receiver.Bytes(),
	}
	payload := []byte{}
	if len(dstSwapData) > 0 {
		lzParams.DstGasForCall = big.NewInt(dstGasForSwapCall)
		lzParams.DstNativeAddr = relayerAddress[toBlockchain].Bytes()
		payload = dstSwapData
	}

	out, err := p.clients.Public.CallContractMethod(
		ctx,
		routerAddress[fromBlockchain],
		routerABIJSON,
		"quoteLayerZeroFee",
		layerZeroChainID[toBlockchain],
		uint8(1),
		receiver.Bytes(),
		payload,
		lzParams,
	)
	if err != nil {
		return nil, errors.Wrap(err, "quoteLayerZeroFee")
	}
	fee, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("failed to cast layer zero fee to *big.Int")
	}
	return fee, nil
}

func (p *Provider) transactionBuilder(
	from, to, transit tokens.TokenAmount,
	layerZeroFeeWei *big.Int,
	opts providers.Options,
) trade.TransactionBuilder {
	return func(_ context.Context, encodeOpts trade.EncodeOptions) (web3.TransactionRequest, error) {
		receiver := p.walletOrZero()
		if encodeOpts.ReceiverAddress != "" {
			receiver = common.HexToAddress(encodeOpts.ReceiverAddress)
		}

		srcPool := poolID[BridgeToken(transit.Symbol)]
		dstPool := poolID[BridgeToken(to.Symbol)]
		minAmountLD := to.WeiAmountMinusSlippage(opts.SlippageTolerance)

		lzParams := struct {
			DstGasForCall   *big.Int
			DstNativeAmount *big.Int
			DstNativeAddr   []byte
		}{
			DstGasForCall:   new(big.Int),
			DstNativeAmount: new(big.Int),
			DstNativeAddr:   receiver.Bytes(),
		}

		data, err := packRouterSwap(
			layerZeroChainID[to.Blockchain],
			big.NewInt(int64(srcPool)),
			big.NewInt(int64(dstPool)),
			p.walletOrZero(),
			transit.Wei(),
			minAmountLD,
			lzParams,
			receiver.Bytes(),
			[]byte{},
		)
		if err != nil {
			return web3.TransactionRequest{}, err
		}

		value := new(big.Int).Set(layerZeroFeeWei)
		if from.IsNative() {
			value.Add(value, from.Wei())
		}
		return web3.TransactionRequest{
			To:    routerAddress[from.Blockchain],
			Data:  data,
			Value: value,
		}, nil
	}
}

func (p *Provider) walletOrZero() common.Address {
	if p.clients.Wallet == nil {
		return common.Address{}
	}
	return p.clients.Wallet.Address()
}

func containsPool(pools []int, pool int) bool {
	for _, p := range pools {
		if p == pool {
			return true
		}
	}
	return false
}
