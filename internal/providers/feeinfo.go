package providers

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

// FeeRegistryABIJSON is the shared fee surface of the cross-chain router
// contracts: a flat native-coin fee and an integrator percentage fee in
// parts per million.
const FeeRegistryABIJSON = `[
	{"inputs":[],"name":"fixedNativeFee","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"integrator","type":"address"}],"name":"integratorFee","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// feePercentDenominator converts the on-chain parts-per-million fee into a
// fraction.
var feePercentDenominator = decimal.NewFromInt(1_000_000)

// GetFixedFee reads the flat native-coin fee of the router, in native
// units.
func GetFixedFee(ctx context.Context, public web3.Public, router common.Address, blockchain chains.Blockchain) (decimal.Decimal, error) {
	out, err := public.CallContractMethod(ctx, router, FeeRegistryABIJSON, "fixedNativeFee")
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "fixedNativeFee")
	}
	wei, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, errors.New("failed to cast fixedNativeFee to *big.Int")
	}
	native, ok := chains.Native(blockchain)
	if !ok {
		return decimal.Zero, errors.Errorf("unknown native token for %s", blockchain)
	}
	return tokens.FromWei(wei, native.Decimals), nil
}

// GetPlatformFeePercent reads the integrator percentage fee of the router
// as a fraction in [0, 1).
func GetPlatformFeePercent(ctx context.Context, public web3.Public, router, integrator common.Address) (decimal.Decimal, error) {
	out, err := public.CallContractMethod(ctx, router, FeeRegistryABIJSON, "integratorFee", integrator)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "integratorFee")
	}
	ppm, ok := out[0].(*big.Int)
	if !ok {
		return decimal.Zero, errors.New("failed to cast integratorFee to *big.Int")
	}
	percent := decimal.NewFromBigInt(ppm, 0).Div(feePercentDenominator)
	if percent.IsNegative() || percent.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return decimal.Zero, errors.Errorf("platform fee percent %s out of range", percent)
	}
	return percent, nil
}

// GetFeeInfo assembles the fixed and percentage platform fees for one
// (blockchain, router, integrator) triple. The crypto fee is provider
// specific and filled in later.
func GetFeeInfo(
	ctx context.Context,
	public web3.Public,
	router, integrator common.Address,
	blockchain chains.Blockchain,
	percentFeeTokenSymbol string,
) (fees.FeeInfo, error) {
	fixed, err := GetFixedFee(ctx, public, router, blockchain)
	if err != nil {
		return fees.FeeInfo{}, err
	}
	percent, err := GetPlatformFeePercent(ctx, public, router, integrator)
	if err != nil {
		return fees.FeeInfo{}, err
	}

	native, _ := chains.Native(blockchain)
	return fees.FeeInfo{
		FixedFee:    &fees.FixedFee{Amount: fixed, TokenSymbol: native.Symbol},
		PlatformFee: &fees.PlatformFee{Percent: percent, TokenSymbol: percentFeeTokenSymbol},
	}, nil
}
