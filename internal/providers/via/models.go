package via

import (
	"encoding/json"
	"strconv"
)

// Route is one candidate returned by the route discovery API.
type Route struct {
	RouteID       string      `json:"routeId"`
	ToTokenAmount json.Number `json:"toTokenAmount"`
	Slippage      float64     `json:"slippage"`
	Actions       []Action    `json:"actions"`
}

// Action is one hop of a route. The first action carries the provider fee
// when the underlying bridge charges one.
type Action struct {
	AdditionalProviderFee *ProviderFee `json:"additionalProviderFee"`
	Steps                 []Step       `json:"steps"`
}

// ProviderFee is a native-coin fee attached to an action, in wei.
type ProviderFee struct {
	Amount json.Number `json:"amount"`
	Token  struct {
		Symbol string `json:"symbol"`
	} `json:"token"`
}

// Step is one tool invocation inside an action.
type Step struct {
	Tool Tool `json:"tool"`
}

// Tool describes the protocol a step runs through. Type is "swap" for DEX
// hops and "cross" for bridge hops.
type Tool struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type routesPagesResponse struct {
	Pages int `json:"pages"`
}

type getRoutesRequest struct {
	FromChainID      int
	FromTokenAddress string
	FromAmount       string
	ToChainID        int
	ToTokenAddress   string
	FromAddress      string
	Offset           int
}

func (r getRoutesRequest) params() map[string]string {
	return map[string]string{
		"fromChainId":      strconv.Itoa(r.FromChainID),
		"fromTokenAddress": r.FromTokenAddress,
		"fromAmount":       r.FromAmount,
		"toChainId":        strconv.Itoa(r.ToChainID),
		"toTokenAddress":   r.ToTokenAddress,
		"fromAddress":      r.FromAddress,
		"multiTx":          "false",
		"limit":            "1",
		"offset":           strconv.Itoa(r.Offset),
	}
}

type getRoutesResponse struct {
	Routes []Route `json:"routes"`
}

type buildTxResponse struct {
	To    string      `json:"to"`
	Data  string      `json:"data"`
	Value json.Number `json:"value"`
}

// tokenPriceResponse maps chain id -> token address -> USD price.
type tokenPriceResponse map[string]map[string]struct {
	USD float64 `json:"USD"`
}
