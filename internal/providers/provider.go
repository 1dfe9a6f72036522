package providers

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
)

// Options parameterize one calculation request.
type Options struct {
	// SlippageTolerance is a fraction in [0, 1).
	SlippageTolerance decimal.Decimal

	// ProviderAddress is the integrator address fees are attributed to.
	ProviderAddress common.Address

	FromAddress     string
	ReceiverAddress string

	// DisableProxy turns off the proxy pre-swap for providers that would
	// otherwise route through an intermediate bridge token.
	DisableProxy map[trade.Type]bool
}

// ProxyEnabled reports whether the proxy pre-swap is allowed for the
// provider. Enabled by default.
func (o Options) ProxyEnabled(t trade.Type) bool {
	return !o.DisableProxy[t]
}

// CalculationResult is the tagged union every provider returns: exactly one
// of Trade or Err is set. Calculate never lets a raw failure escape.
type CalculationResult struct {
	TradeType trade.Type
	Trade     *trade.CrossChainTrade
	Err       error
}

// Provider is the capability interface of one cross-chain liquidity source.
type Provider interface {
	// Type tags the provider.
	Type() trade.Type

	// IsSupportedBlockchain is a static allow-list membership check,
	// consulted before any network call.
	IsSupportedBlockchain(b chains.Blockchain) bool

	// Calculate quotes from -> toToken and returns a result-or-error value.
	Calculate(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts Options) CalculationResult
}
