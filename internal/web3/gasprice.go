package web3

import (
	"context"
	"math/big"

	"github.com/pkg/errors"

	"github.com/openswap/crosschain-sdk/internal/chains"
)

// GasPriceSource returns the current gas price of a network in minimal
// native units.
type GasPriceSource interface {
	GetGasPrice(ctx context.Context, blockchain chains.Blockchain) (*big.Int, error)
}

// GasPricer is the subset of an RPC client able to suggest a gas price.
type GasPricer interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

type rpcGasPriceSource struct {
	pricers map[chains.Blockchain]GasPricer
}

// NewRPCGasPriceSource builds a GasPriceSource answering from the per-chain
// RPC clients' eth_gasPrice.
func NewRPCGasPriceSource(pricers map[chains.Blockchain]GasPricer) GasPriceSource {
	return &rpcGasPriceSource{pricers: pricers}
}

func (s *rpcGasPriceSource) GetGasPrice(ctx context.Context, blockchain chains.Blockchain) (*big.Int, error) {
	pricer, ok := s.pricers[blockchain]
	if !ok {
		return nil, errors.Errorf("no gas price source for %s", blockchain)
	}
	price, err := pricer.SuggestGasPrice(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "pricer.SuggestGasPrice")
	}
	return price, nil
}
