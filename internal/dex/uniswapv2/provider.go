package uniswapv2

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
)

const pairABIJSON = `[
	{"inputs":[],"name":"token0","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"token1","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getReserves","outputs":[{"internalType":"uint112","name":"_reserve0","type":"uint112"},{"internalType":"uint112","name":"_reserve1","type":"uint112"},{"internalType":"uint32","name":"_blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"}
]`

// ChainDeployment describes one network's V2-style DEX deployment.
type ChainDeployment struct {
	Router common.Address

	// WrappedNative substitutes the native sentinel inside swap paths.
	WrappedNative common.Address

	// Pairs maps a normalized token pair to its pool contract.
	Pairs map[PairKey]common.Address
}

// PairKey identifies an unordered token pair.
type PairKey struct {
	A common.Address
	B common.Address
}

// NewPairKey normalizes the two addresses into a canonical order.
func NewPairKey(a, b common.Address) PairKey {
	if strings.Compare(strings.ToLower(a.Hex()), strings.ToLower(b.Hex())) > 0 {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Provider quotes single-network swaps against Uniswap V2-style pools.
// It doubles as the pre-swap and destination-swap engine of the
// cross-chain providers.
type Provider struct {
	clients     trade.Clients
	deployments map[chains.Blockchain]ChainDeployment
}

// NewProvider builds a Provider over the configured deployments.
func NewProvider(clients trade.Clients, deployments map[chains.Blockchain]ChainDeployment) *Provider {
	return &Provider{clients: clients, deployments: deployments}
}

// IsSupportedBlockchain reports whether the network has a configured
// deployment.
func (p *Provider) IsSupportedBlockchain(b chains.Blockchain) bool {
	_, ok := p.deployments[b]
	return ok
}

// Calculate quotes fromAmount -> toToken on a single network and returns
// the executable on-chain trade. A missing pool is ErrNotSupportedTokens;
// drained reserves are ErrInsufficientLiquidity.
func (p *Provider) Calculate(
	ctx context.Context,
	from tokens.TokenAmount,
	toToken tokens.Token,
	slippageTolerance decimal.Decimal,
) (*trade.OnChainTrade, error) {
	if from.Blockchain != toToken.Blockchain {
		return nil, sdkerrors.ErrNotSupportedTokens
	}
	deployment, ok := p.deployments[from.Blockchain]
	if !ok {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	srcAddr := pathAddress(from.Token, deployment)
	dstAddr := pathAddress(toToken, deployment)
	if srcAddr == dstAddr {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	pair, ok := deployment.Pairs[NewPairKey(srcAddr, dstAddr)]
	if !ok {
		return nil, sdkerrors.ErrNotSupportedTokens
	}

	reserveIn, reserveOut, err := p.orientedReserves(ctx, pair, srcAddr)
	if err != nil {
		return nil, err
	}

	amountOut, ok := GetAmountOut(from.Wei(), reserveIn, reserveOut)
	if !ok || amountOut.Sign() == 0 {
		return nil, sdkerrors.ErrInsufficientLiquidity
	}

	return trade.NewOnChainTrade(trade.OnChainTrade{
		From:              from,
		To:                tokens.NewTokenAmount(toToken, amountOut),
		SlippageTolerance: slippageTolerance,
		Path:              []common.Address{srcAddr, dstAddr},
		ContractAddress:   deployment.Router,
	}, p.clients), nil
}

// orientedReserves reads the pool reserves ordered so the first value is
// the reserve of srcAddr.
func (p *Provider) orientedReserves(ctx context.Context, pair, srcAddr common.Address) (*big.Int, *big.Int, error) {
	out, err := p.clients.Public.CallContractMethod(ctx, pair, pairABIJSON, "token0")
	if err != nil {
		return nil, nil, errors.Wrap(err, "token0")
	}
	token0, ok := out[0].(common.Address)
	if !ok {
		return nil, nil, errors.New("failed to cast token0 to address")
	}

	out, err = p.clients.Public.CallContractMethod(ctx, pair, pairABIJSON, "getReserves")
	if err != nil {
		return nil, nil, errors.Wrap(err, "getReserves")
	}
	const requiredSize = 2
	if len(out) < requiredSize {
		return nil, nil, errors.Errorf("insufficient outputs from getReserves: expected %d, got %d", requiredSize, len(out))
	}
	r0, ok0 := out[0].(*big.Int)
	r1, ok1 := out[1].(*big.Int)
	if !ok0 || !ok1 {
		return nil, nil, errors.New("failed to cast reserves to *big.Int")
	}

	if token0 == srcAddr {
		return r0, r1, nil
	}
	return r1, r0, nil
}

func pathAddress(t tokens.Token, deployment ChainDeployment) common.Address {
	if t.IsNative() {
		return deployment.WrappedNative
	}
	return t.Address
}
