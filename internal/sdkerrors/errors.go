package sdkerrors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotSupportedTokens is returned when no viable route, pool or pair
	// exists for the requested token pair. Expected and non-fatal.
	ErrNotSupportedTokens = errors.New("tokens are not supported")

	// ErrInsufficientLiquidity is returned when the upstream protocol
	// explicitly reports a depth problem.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrWalletNotConnected is returned by pre-flight checks when no signer
	// address is available.
	ErrWalletNotConnected = errors.New("wallet is not connected")

	// ErrWrongFromAddress is returned when the sender address fails format
	// or checksum validation.
	ErrWrongFromAddress = errors.New("wrong from address")

	// ErrWrongReceiverAddress is returned when the receiver address fails
	// format or checksum validation.
	ErrWrongReceiverAddress = errors.New("wrong receiver address")

	// ErrUnknown covers any unclassified failure: network, decode,
	// unexpected revert.
	ErrUnknown = errors.New("unknown error")
)

// MinAmountError is returned when the upstream requires a larger input.
// It carries the minimum amount and its token symbol.
type MinAmountError struct {
	MinAmount   decimal.Decimal
	TokenSymbol string
}

func (e *MinAmountError) Error() string {
	return fmt.Sprintf("min amount is %s %s", e.MinAmount.String(), e.TokenSymbol)
}

// NewMinAmountError builds a MinAmountError.
func NewMinAmountError(minAmount decimal.Decimal, tokenSymbol string) *MinAmountError {
	return &MinAmountError{MinAmount: minAmount, TokenSymbol: tokenSymbol}
}

// Parse classifies an arbitrary failure at the provider boundary.
// Known taxonomy errors pass through unchanged; anything else is wrapped
// into ErrUnknown so the rest of the pipeline never matches on raw errors.
func Parse(err error) error {
	if err == nil {
		return nil
	}

	var minAmountErr *MinAmountError
	if errors.As(err, &minAmountErr) {
		return err
	}

	for _, known := range []error{
		ErrNotSupportedTokens,
		ErrInsufficientLiquidity,
		ErrWalletNotConnected,
		ErrWrongFromAddress,
		ErrWrongReceiverAddress,
	} {
		if errors.Is(err, known) {
			return err
		}
	}

	return errors.Wrap(ErrUnknown, err.Error())
}
