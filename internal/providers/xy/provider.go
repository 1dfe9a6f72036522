package xy

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/httpclient"
	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

// DefaultEndpoint is the public aggregator API root.
const DefaultEndpoint = "https://open-api.xy.finance/v1"

var supportedBlockchains = []chains.Blockchain{
	chains.Ethereum,
	chains.BSC,
	chains.Polygon,
	chains.Avalanche,
	chains.Fantom,
	chains.Arbitrum,
	chains.Optimism,
}

// Provider quotes cross-chain swaps through the XY aggregator REST API.
type Provider struct {
	clients     trade.Clients
	http        httpclient.Getter
	feeRegistry map[chains.Blockchain]common.Address
	endpoint    string
	logger      *zap.Logger
}

// NewProvider builds an XY provider. endpoint overrides the API root when
// non-empty.
func NewProvider(clients trade.Clients, http httpclient.Getter, feeRegistry map[chains.Blockchain]common.Address, endpoint string) *Provider {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Provider{
		clients:     clients,
		http:        http,
		feeRegistry: feeRegistry,
		endpoint:    endpoint,
		logger:      clients.Logger.Named("xy"),
	}
}

// Type tags trades produced by this provider.
func (p *Provider) Type() trade.Type {
	return trade.TypeXY
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

// Calculate quotes from -> toToken through XY. Every failure is classified
// and returned inside the result; nothing escapes the boundary.
func (p *Provider) Calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts providers.Options) (result providers.CalculationResult) {
	result.TradeType = trade.TypeXY
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

	receiver := opts.ReceiverAddress
	if receiver == "" {
		receiver = p.walletOrZero().Hex()
	}

	feeInfo, err := providers.GetFeeInfo(
		ctx, p.clients.Public,
		p.feeRegistry[from.Blockchain], opts.ProviderAddress,
		from.Blockchain, "USDC",
	)
	if err != nil {
		return nil, err
	}

	platformPercent := decimal.Zero
	if feeInfo.PlatformFee != nil {
		platformPercent = feeInfo.PlatformFee.Percent
	}
	fromWithoutFee := fees.FromWithoutFee(from, platformPercent)

	req := swapRequest{
		SrcChainID:       int(from.Blockchain.ID()),
		FromTokenAddress: tokenParam(from.Token),
		Amount:           fromWithoutFee.StringWei(),
		Slippage:         opts.SlippageTolerance.Mul(decimal.NewFromInt(100)).String(),
		DestChainID:      int(toToken.Blockchain.ID()),
		ToTokenAddress:   tokenParam(toToken),
		ReceiveAddress:   receiver,
	}

	var resp swapResponse
	if err := p.http.GetJSON(ctx, p.endpoint+"/swap", req.params(), &resp); err != nil {
		return nil, errors.Wrap(err, "swap quote")
	}
	if err := analyzeStatusCode(resp.StatusCode, resp.Msg); err != nil {
		return nil, err
	}

	toWei, ok := new(big.Int).SetString(resp.ToTokenAmount, 10)
	if !ok {
		return nil, errors.Errorf("bad toTokenAmount %q", resp.ToTokenAmount)
	}
	to := tokens.NewTokenAmount(toToken, toWei)

	if resp.XYFee != nil {
		feeInfo.CryptoFee = &fees.CryptoFee{
			Amount:      resp.XYFee.Amount,
			TokenSymbol: resp.XYFee.Symbol,
		}
	}

	contract := p.feeRegistry[from.Blockchain]
	if resp.Tx != nil && resp.Tx.To != "" {
		contract = common.HexToAddress(resp.Tx.To)
	}

	toTokenAmountMin := to.Amount().Mul(decimal.NewFromInt(1).Sub(opts.SlippageTolerance))

	builder := p.transactionBuilder(req)
	return trade.NewCrossChainTrade(trade.CrossChainTrade{
		TradeType:         trade.TypeXY,
		From:              from,
		To:                to,
		ToTokenAmountMin:  toTokenAmountMin,
		FeeInfo:           feeInfo,
		PriceImpact:       from.CalculatePriceImpactPercent(to),
		SlippageTolerance: opts.SlippageTolerance,
		ProviderAddress:   opts.ProviderAddress,
		ContractAddress:   contract,
		CryptoFeeToken:    tokens.NativeToken(from.Blockchain, decimal.Zero),
	}, builder, p.clients), nil
}

// transactionBuilder re-quotes /swap at execution time so the calldata the
// wallet signs is fresh.
func (p *Provider) transactionBuilder(req swapRequest) trade.TransactionBuilder {
	return func(ctx context.Context, encodeOpts trade.EncodeOptions) (web3.TransactionRequest, error) {
		if encodeOpts.ReceiverAddress != "" {
			req.ReceiveAddress = encodeOpts.ReceiverAddress
		}

		var resp swapResponse
		if err := p.http.GetJSON(ctx, p.endpoint+"/swap", req.params(), &resp); err != nil {
			return web3.TransactionRequest{}, errors.Wrap(err, "swap build")
		}
		if err := analyzeStatusCode(resp.StatusCode, resp.Msg); err != nil {
			return web3.TransactionRequest{}, err
		}
		if resp.Tx == nil {
			return web3.TransactionRequest{}, errors.New("swap response carries no transaction")
		}

		value, err := parseWei(resp.Tx.Value)
		if err != nil {
			return web3.TransactionRequest{}, err
		}
		return web3.TransactionRequest{
			To:    common.HexToAddress(resp.Tx.To),
			Data:  common.FromHex(resp.Tx.Data),
			Value: value,
		}, nil
	}
}

// analyzeStatusCode maps the closed status-code set onto the error taxonomy.
// Unlisted codes are unknown failures, never silent successes.
func analyzeStatusCode(code StatusCode, message string) error {
	switch code {
	case StatusSuccess:
		return nil
	case StatusNotEnoughLiquidity, StatusCannotFindPath:
		return sdkerrors.ErrInsufficientLiquidity
	case StatusAmountTooSmall:
		return parseMinAmount(message)
	default:
		return sdkerrors.ErrUnknown
	}
}

// parseMinAmount extracts the minimum and its symbol from messages shaped
// like "Amount needs to be raised (up to 10.5 USDT)".
func parseMinAmount(message string) error {
	_, rest, found := strings.Cut(message, "to ")
	if !found || len(rest) < 2 {
		return sdkerrors.ErrUnknown
	}
	rest = rest[:len(rest)-1]
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 {
		return sdkerrors.ErrUnknown
	}
	minAmount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return sdkerrors.ErrUnknown
	}
	return sdkerrors.NewMinAmountError(minAmount, fields[1])
}

func parseWei(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, errors.Errorf("bad wei value %q", s)
	}
	return v, nil
}

func (p *Provider) walletOrZero() common.Address {
	if p.clients.Wallet == nil {
		return common.Address{}
	}
	return p.clients.Wallet.Address()
}
