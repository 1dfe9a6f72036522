package fees

import (
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/tokens"
)

// FixedFee is a flat protocol fee denominated in the source network's
// native coin.
type FixedFee struct {
	Amount      decimal.Decimal
	TokenSymbol string
}

// PlatformFee is the percentage fee taken from the input principal.
// Percent is a fraction in [0, 1).
type PlatformFee struct {
	Percent     decimal.Decimal
	TokenSymbol string
}

// CryptoFee is the native-coin cost paid to the cross-chain messaging
// layer (bridge/relayer fee).
type CryptoFee struct {
	Amount      decimal.Decimal
	TokenSymbol string
}

// FeeInfo aggregates the independent fee components of a trade. Each
// component is additive in its own denomination; nil means the component
// does not apply.
type FeeInfo struct {
	FixedFee    *FixedFee
	PlatformFee *PlatformFee
	CryptoFee   *CryptoFee
}

// NetworkFee sums the fixed and crypto fees. Both are denominated in the
// source network's native coin, so the sum is exact decimal addition with
// no unit conversion.
func (f FeeInfo) NetworkFee() decimal.Decimal {
	total := decimal.Zero
	if f.FixedFee != nil {
		total = total.Add(f.FixedFee.Amount)
	}
	if f.CryptoFee != nil {
		total = total.Add(f.CryptoFee.Amount)
	}
	return total
}

// FromWithoutFee subtracts the platform percentage fee from the input
// amount. The upstream protocol receives this net principal while the user
// is debited the full input amount.
func FromWithoutFee(from tokens.TokenAmount, platformFeePercent decimal.Decimal) tokens.TokenAmount {
	if platformFeePercent.IsZero() {
		return from
	}
	multiplier := decimal.NewFromInt(1).Sub(platformFeePercent)
	return tokens.NewTokenAmountFromDecimal(from.Token, from.Amount().Mul(multiplier))
}

// PoolFee combines the pool-rebalancing components into the total fee
// charged by the bridge pool: equilibriumFee + protocolFee - equilibriumReward.
// The result can be negative when the reward exceeds the fees; it is passed
// through signed so the downstream amount-out computation reflects it.
func PoolFee(equilibriumFee, protocolFee, equilibriumReward decimal.Decimal) decimal.Decimal {
	return equilibriumFee.Add(protocolFee).Sub(equilibriumReward)
}
