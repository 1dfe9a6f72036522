package manager

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
)

// Manager fans a calculation request out to every registered provider and
// collects their results. It knows nothing about provider internals.
type Manager struct {
	providers []providers.Provider
	logger    *zap.Logger
}

// New builds a Manager over a fixed provider set.
func New(list []providers.Provider, logger *zap.Logger) *Manager {
	return &Manager{
		providers: list,
		logger:    logger.Named("manager"),
	}
}

// CalculateTrades quotes all providers concurrently. Every provider yields
// exactly one result; a slow or failing provider never poisons the others.
// Result order matches registration order.
func (m *Manager) CalculateTrades(ctx context.Context, from tokens.TokenAmount, toToken tokens.Token, opts providers.Options) []providers.CalculationResult {
	results := make([]providers.CalculationResult, len(m.providers))

	g := new(errgroup.Group)
	for i, p := range m.providers {
		i, p := i, p
		g.Go(func() error {
			if !p.IsSupportedBlockchain(from.Blockchain) || !p.IsSupportedBlockchain(toToken.Blockchain) {
				results[i] = providers.CalculationResult{
					TradeType: p.Type(),
					Err:       sdkerrors.ErrNotSupportedTokens,
				}
				return nil
			}
			results[i] = p.Calculate(ctx, from, toToken, opts)
			if results[i].Err != nil {
				m.logger.Debug("provider returned no trade",
					zap.String("provider", string(p.Type())), zap.Error(results[i].Err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// BestTrade picks the trade with the highest net output. Trades are
// compared by USD value of the output when both sides carry a price,
// falling back to raw output amounts. Ties keep the earlier result. When no
// provider produced a trade, all their errors are combined.
func (m *Manager) BestTrade(results []providers.CalculationResult) (*trade.CrossChainTrade, error) {
	var best *trade.CrossChainTrade
	var failures error

	for _, result := range results {
		if result.Trade == nil {
			failures = multierr.Append(failures, result.Err)
			continue
		}
		if best == nil || betterThan(result.Trade, best) {
			best = result.Trade
		}
	}
	if best == nil {
		if failures == nil {
			failures = sdkerrors.ErrNotSupportedTokens
		}
		return nil, failures
	}
	return best, nil
}

func betterThan(a, b *trade.CrossChainTrade) bool {
	aUsd, bUsd := a.To.UsdValue(), b.To.UsdValue()
	if aUsd.IsPositive() && bUsd.IsPositive() {
		return aUsd.GreaterThan(bUsd)
	}
	return a.To.Amount().GreaterThan(b.To.Amount())
}
