package via

import (
	"context"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/httpclient"
	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

const (
	// DefaultEndpoint is the public router API root.
	DefaultEndpoint = "https://router-api.via.exchange"

	// DefaultPriceEndpoint is the explorer API the USD token prices come
	// from.
	DefaultPriceEndpoint = "https://explorer-api.via.exchange/v1/token_price"
)

// routerRegistryABIJSON exposes the whitelist of on-chain routers the proxy
// contract is willing to delegate to.
const routerRegistryABIJSON = `[
	{"inputs":[],"name":"getAvailableRouters","outputs":[{"name":"","type":"address[]"}],"stateMutability":"view","type":"function"}
]`

var supportedBlockchains = []chains.Blockchain{
	chains.Ethereum,
	chains.BSC,
	chains.Polygon,
	chains.Avalanche,
	chains.Fantom,
	chains.Arbitrum,
	chains.Optimism,
}

// Provider quotes cross-chain swaps through the Via routing API, an
// aggregator of bridges and DEX aggregators.
type Provider struct {
	clients       trade.Clients
	http          httpclient.Getter
	contracts     map[chains.Blockchain]common.Address
	endpoint      string
	priceEndpoint string
	apiKey        string
	logger        *zap.Logger
}

// NewProvider builds a Via provider. contracts holds the per-chain proxy
// contract used as the probe sender, whitelist source and fee registry.
// Empty endpoint strings select the public defaults.
func NewProvider(clients trade.Clients, http httpclient.Getter, contracts map[chains.Blockchain]common.Address, endpoint, priceEndpoint, apiKey string) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if priceEndpoint == "" {
		priceEndpoint = DefaultPriceEndpoint
	}
	return &Provider{
		clients:       clients,
		http:          http,
		contracts:     contracts,
		endpoint:      endpoint,
		priceEndpoint: priceEndpoint,
		apiKey:        apiKey,
		logger:        clients.Logger.Named("via"),
	}
}

// Type tags trades produced by this provider.
func (p *Provider) Type() trade.Type {
	return trade.TypeVia
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

// Calculate quotes from -> toToken through Via. Every failure is classified
// and returned inside the result; nothing escapes the boundary.
func (p *Provider) Calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts providers.Options) (result providers.CalculationResult) {
	result.TradeType = trade.TypeVia
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
	contract := p.contracts[from.Blockchain]

	pages, err := p.routesPages(ctx)
	if err != nil {
		return nil, err
	}

	req := getRoutesRequest{
		FromChainID:      int(from.Blockchain.ID()),
		FromTokenAddress: from.Address.Hex(),
		FromAmount:       from.StringWei(),
		ToChainID:        int(toToken.Blockchain.ID()),
		ToTokenAddress:   toToken.Address.Hex(),
		FromAddress:      contract.Hex(),
	}
	routes := p.discoverRoutes(ctx, req, pages)

	filtered, err := p.filterWhitelisted(ctx, contract, routes)
	if err != nil {
		return nil, err
	}
	if len(filtered) == 0 {
		// Nothing survived discovery and filtering: a no-route outcome,
		// not a transport failure.
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	srcPrices := p.tokenPrices(ctx, from.Blockchain,
		[]string{from.Address.Hex(), chains.EmptyAddress.Hex()},
		[]decimal.Decimal{from.Price, decimal.Zero})
	from.Price = srcPrices[0]
	nativeTokenPrice := srcPrices[1]
	toTokenPrice := p.tokenPrices(ctx, toToken.Blockchain,
		[]string{toToken.Address.Hex()},
		[]decimal.Decimal{toToken.Price})[0]
	toToken.Price = toTokenPrice

	bestRoute, ok := BestRoute(filtered, toTokenPrice, nativeTokenPrice)
	if !ok {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	toWei, ok := new(big.Int).SetString(bestRoute.ToTokenAmount.String(), 10)
	if !ok {
		return nil, errors.Errorf("bad toTokenAmount %q", bestRoute.ToTokenAmount)
	}
	to := tokens.NewTokenAmount(toToken, toWei)

	routeSlippage := decimal.NewFromFloat(bestRoute.Slippage).Div(decimal.NewFromInt(100))
	toTokenAmountMin := tokens.FromWei(to.WeiAmountMinusSlippage(routeSlippage), toToken.Decimals)

	feeInfo, err := providers.GetFeeInfo(
		ctx, p.clients.Public,
		contract, opts.ProviderAddress,
		from.Blockchain, from.Symbol,
	)
	if err != nil {
		return nil, err
	}
	native, _ := chains.Native(from.Blockchain)
	if fee := providerFee(bestRoute); fee != nil {
		feeWei, _ := new(big.Int).SetString(fee.Amount.String(), 10)
		if feeWei == nil {
			feeWei = new(big.Int)
		}
		feeInfo.CryptoFee = &fees.CryptoFee{
			Amount:      tokens.FromWei(feeWei, native.Decimals),
			TokenSymbol: fee.Token.Symbol,
		}
	}

	builder := p.transactionBuilder(bestRoute.RouteID)
	return trade.NewCrossChainTrade(trade.CrossChainTrade{
		TradeType:         trade.TypeVia,
		From:              from,
		To:                to,
		ToTokenAmountMin:  toTokenAmountMin,
		FeeInfo:           feeInfo,
		PriceImpact:       from.CalculatePriceImpactPercent(to),
		SlippageTolerance: routeSlippage,
		ProviderAddress:   opts.ProviderAddress,
		ContractAddress:   contract,
		CryptoFeeToken:    tokens.NativeToken(from.Blockchain, nativeTokenPrice),
	}, builder, p.clients), nil
}

func (p *Provider) routesPages(ctx context.Context) (int, error) {
	var resp routesPagesResponse
	if err := p.http.GetJSON(ctx, p.endpoint+"/api/v2/routes/pages", p.withAPIKey(nil), &resp); err != nil {
		return 0, errors.Wrap(err, "routes pages")
	}
	if resp.Pages <= 0 {
		return 0, errors.Errorf("bad pages count %d", resp.Pages)
	}
	return resp.Pages, nil
}

// discoverRoutes fans out one request per discovery page. A failed page is
// skipped, not fatal; surviving routes keep page order so downstream
// selection stays deterministic.
func (p *Provider) discoverRoutes(ctx context.Context, req getRoutesRequest, pages int) []Route {
	perPage := make([][]Route, pages)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < pages; i++ {
		i := i
		g.Go(func() error {
			pageReq := req
			pageReq.Offset = i + 1

			var resp getRoutesResponse
			if err := p.http.GetJSON(ctx, p.endpoint+"/api/v2/routes", p.withAPIKey(pageReq.params()), &resp); err != nil {
				p.logger.Debug("routes page failed", zap.Int("page", i+1), zap.Error(err))
				return nil
			}
			perPage[i] = resp.Routes
			return nil
		})
	}
	_ = g.Wait()

	var routes []Route
	for _, page := range perPage {
		routes = append(routes, page...)
	}
	return routes
}

// filterWhitelisted drops every route whose built transaction targets a
// contract outside the proxy's router whitelist. This is a security
// boundary: a non-whitelisted target never reaches trade construction,
// however cheap its quote.
func (p *Provider) filterWhitelisted(ctx context.Context, contract common.Address, routes []Route) ([]Route, error) {
	out, err := p.clients.Public.CallContractMethod(ctx, contract, routerRegistryABIJSON, "getAvailableRouters")
	if err != nil {
		return nil, errors.Wrap(err, "getAvailableRouters")
	}
	whitelist, ok := out[0].([]common.Address)
	if !ok {
		return nil, errors.New("failed to cast router whitelist to addresses")
	}

	kept := make([]*Route, len(routes))
	g, ctx := errgroup.WithContext(ctx)
	for i := range routes {
		i := i
		g.Go(func() error {
			tx, err := p.buildTx(ctx, routes[i].RouteID, contract.Hex(), contract.Hex())
			if err != nil {
				p.logger.Debug("route probe failed", zap.String("routeId", routes[i].RouteID), zap.Error(err))
				return nil
			}
			for _, allowed := range whitelist {
				if chains.CompareAddresses(allowed.Hex(), tx.To) {
					kept[i] = &routes[i]
					return nil
				}
			}
			p.logger.Debug("route target not whitelisted", zap.String("to", tx.To))
			return nil
		})
	}
	_ = g.Wait()

	filtered := make([]Route, 0, len(routes))
	for _, route := range kept {
		if route != nil {
			filtered = append(filtered, *route)
		}
	}
	return filtered, nil
}

func (p *Provider) buildTx(ctx context.Context, routeID, fromAddress, receiveAddress string) (buildTxResponse, error) {
	params := map[string]string{
		"routeId":        routeID,
		"fromAddress":    fromAddress,
		"receiveAddress": receiveAddress,
		"numAction":      "0",
	}
	var resp buildTxResponse
	if err := p.http.GetJSON(ctx, p.endpoint+"/api/v2/send/tx/build", p.withAPIKey(params), &resp); err != nil {
		return buildTxResponse{}, errors.Wrap(err, "build tx")
	}
	return resp, nil
}

// tokenPrices resolves USD prices through the explorer API, falling back to
// the caller-known prices when the lookup fails or a token is missing.
func (p *Provider) tokenPrices(ctx context.Context, blockchain chains.Blockchain, addresses []string, fallback []decimal.Decimal) []decimal.Decimal {
	chainID := strconv.FormatUint(blockchain.ID(), 10)
	params := map[string]string{
		"chain":            chainID,
		"tokens_addresses": strings.Join(addresses, ","),
	}

	prices := make([]decimal.Decimal, len(addresses))
	copy(prices, fallback)

	var resp tokenPriceResponse
	if err := p.http.GetJSON(ctx, p.priceEndpoint, p.withAPIKey(params), &resp); err != nil {
		p.logger.Debug("token price lookup failed", zap.Error(err))
		return prices
	}
	byAddress, ok := resp[chainID]
	if !ok {
		return prices
	}
	for i, address := range addresses {
		if entry, ok := byAddress[address]; ok {
			prices[i] = decimal.NewFromFloat(entry.USD)
		}
	}
	return prices
}

// transactionBuilder builds the execution transaction for the selected
// route at encode time, addressed to the caller's wallet.
func (p *Provider) transactionBuilder(routeID string) trade.TransactionBuilder {
	return func(ctx context.Context, encodeOpts trade.EncodeOptions) (web3.TransactionRequest, error) {
		fromAddress := encodeOpts.FromAddress
		if fromAddress == "" {
			fromAddress = p.walletOrZero().Hex()
		}
		receiveAddress := encodeOpts.ReceiverAddress
		if receiveAddress == "" {
			receiveAddress = fromAddress
		}

		tx, err := p.buildTx(ctx, routeID, fromAddress, receiveAddress)
		if err != nil {
			return web3.TransactionRequest{}, err
		}
		value, ok := new(big.Int).SetString(tx.Value.String(), 10)
		if !ok {
			value = new(big.Int)
		}
		return web3.TransactionRequest{
			To:    common.HexToAddress(tx.To),
			Data:  common.FromHex(tx.Data),
			Value: value,
		}, nil
	}
}

func (p *Provider) withAPIKey(params map[string]string) map[string]string {
	if p.apiKey == "" {
		return params
	}
	if params == nil {
		params = make(map[string]string, 1)
	}
	params["apiKey"] = p.apiKey
	return params
}

func providerFee(route Route) *ProviderFee {
	if len(route.Actions) == 0 {
		return nil
	}
	return route.Actions[0].AdditionalProviderFee
}

func (p *Provider) walletOrZero() common.Address {
	if p.clients.Wallet == nil {
		return common.Address{}
	}
	return p.clients.Wallet.Address()
}
