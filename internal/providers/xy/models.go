package xy

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/tokens"
)

// nativeAddress is the sentinel the aggregator expects in place of a real
// contract address for native coins.
const nativeAddress = "0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE"

// StatusCode is the aggregator's response status. The API returns it as a
// string and the mapping to domain errors is a closed set.
type StatusCode string

const (
	StatusSuccess            StatusCode = "0"
	StatusNotEnoughLiquidity StatusCode = "3"
	StatusCannotFindPath     StatusCode = "4"
	StatusLessThanGasFee     StatusCode = "5"
	StatusAmountTooSmall     StatusCode = "6"
	StatusQuoteTimeout       StatusCode = "10"
	StatusInternalError      StatusCode = "99"
)

// UnmarshalJSON tolerates both quoted and bare numeric codes; the API is
// inconsistent between versions.
func (s *StatusCode) UnmarshalJSON(b []byte) error {
	*s = StatusCode(strings.Trim(string(b), `"`))
	return nil
}

// swapRequest holds the /swap quote parameters. Key names and casing are
// fixed by the third-party API.
type swapRequest struct {
	SrcChainID       int
	FromTokenAddress string
	Amount           string
	Slippage         string
	DestChainID      int
	ToTokenAddress   string
	ReceiveAddress   string
}

func (r swapRequest) params() map[string]string {
	return map[string]string{
		"srcChainId":       strconv.Itoa(r.SrcChainID),
		"fromTokenAddress": r.FromTokenAddress,
		"amount":           r.Amount,
		"slippage":         r.Slippage,
		"destChainId":      strconv.Itoa(r.DestChainID),
		"toTokenAddress":   r.ToTokenAddress,
		"receiveAddress":   r.ReceiveAddress,
	}
}

// tokenParam resolves the address string sent to the API for a token.
func tokenParam(t tokens.Token) string {
	if t.IsNative() {
		return nativeAddress
	}
	return t.Address.Hex()
}

type swapFee struct {
	Amount decimal.Decimal `json:"amount"`
	Symbol string          `json:"symbol"`
}

type swapTx struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

type swapResponse struct {
	Success       bool       `json:"success"`
	StatusCode    StatusCode `json:"statusCode"`
	Msg           string     `json:"msg"`
	ToTokenAmount string     `json:"toTokenAmount"`
	XYFee         *swapFee   `json:"xyFee"`
	Tx            *swapTx    `json:"tx"`
}
