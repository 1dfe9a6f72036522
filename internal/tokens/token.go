package tokens

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/chains"
)

// Token is an immutable value object describing an asset on one network.
// The zero address marks the native coin. Price is a unit price in USD;
// a zero price means the price is unknown.
type Token struct {
	Blockchain chains.Blockchain
	Address    common.Address
	Symbol     string
	Decimals   int
	Price      decimal.Decimal
}

// IsNative reports whether the token is the network's gas coin.
func (t Token) IsNative() bool {
	return t.Address == chains.EmptyAddress
}

// Equal compares tokens by (blockchain, address).
func (t Token) Equal(other Token) bool {
	return t.Blockchain == other.Blockchain && t.Address == other.Address
}

// NativeToken builds the native-coin token of the network.
func NativeToken(b chains.Blockchain, price decimal.Decimal) Token {
	meta, _ := chains.Native(b)
	return Token{
		Blockchain: b,
		Address:    chains.EmptyAddress,
		Symbol:     meta.Symbol,
		Decimals:   meta.Decimals,
		Price:      price,
	}
}

// TokenAmount is a Token with an attached amount, held in minimal units.
// Human-unit values are always derived from the wei value through the
// 10^decimals scale, so both representations can never drift apart.
type TokenAmount struct {
	Token
	wei *big.Int
}

// NewTokenAmount builds a TokenAmount from minimal units.
// A nil wei is treated as zero.
func NewTokenAmount(token Token, wei *big.Int) TokenAmount {
	if wei == nil {
		wei = new(big.Int)
	}
	return TokenAmount{Token: token, wei: new(big.Int).Set(wei)}
}

// NewTokenAmountFromDecimal builds a TokenAmount from a human-unit amount.
// The fractional part beyond the token's decimals is truncated, matching
// on-chain representability.
func NewTokenAmountFromDecimal(token Token, amount decimal.Decimal) TokenAmount {
	wei := amount.Shift(int32(token.Decimals)).Truncate(0).BigInt()
	return TokenAmount{Token: token, wei: wei}
}

// Wei returns the amount in minimal units. The caller must not mutate it.
func (a TokenAmount) Wei() *big.Int {
	if a.wei == nil {
		return new(big.Int)
	}
	return a.wei
}

// StringWei returns the minimal-unit amount as a decimal string.
func (a TokenAmount) StringWei() string {
	return a.Wei().String()
}

// Amount returns the amount in human units, derived exactly from wei.
func (a TokenAmount) Amount() decimal.Decimal {
	return decimal.NewFromBigInt(a.Wei(), 0).Shift(int32(-a.Decimals))
}

// UsdValue returns Amount weighted by the token's unit price.
// Zero when the price is unknown.
func (a TokenAmount) UsdValue() decimal.Decimal {
	return a.Amount().Mul(a.Price)
}

// WeiAmountMinusSlippage returns wei reduced by the slippage tolerance,
// truncated towards zero. slippage must be in [0, 1).
func (a TokenAmount) WeiAmountMinusSlippage(slippage decimal.Decimal) *big.Int {
	reduced := decimal.NewFromBigInt(a.Wei(), 0).
		Mul(decimal.NewFromInt(1).Sub(slippage))
	return reduced.Truncate(0).BigInt()
}

// CalculatePriceImpactPercent estimates the relative value lost between the
// input and output legs of a trade, in percent. Returns zero when either
// side has no known price.
func (a TokenAmount) CalculatePriceImpactPercent(to TokenAmount) decimal.Decimal {
	fromUsd := a.UsdValue()
	toUsd := to.UsdValue()
	if fromUsd.IsZero() || toUsd.IsZero() {
		return decimal.Zero
	}
	impact := fromUsd.Sub(toUsd).Div(fromUsd).Mul(decimal.NewFromInt(100))
	if impact.IsNegative() {
		return decimal.Zero
	}
	return impact
}

// FromWei converts a minimal-unit integer into human units for the given
// decimals scale.
func FromWei(wei *big.Int, decimals int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, 0).Shift(int32(-decimals))
}

// ToWei converts a human-unit amount into minimal units for the given
// decimals scale, truncating anything below one minimal unit.
func ToWei(amount decimal.Decimal, decimals int) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}
