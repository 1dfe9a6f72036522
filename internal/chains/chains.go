package chains

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Blockchain is a network supported by at least one provider.
type Blockchain string

const (
	Ethereum  Blockchain = "ETHEREUM"
	BSC       Blockchain = "BINANCE_SMART_CHAIN"
	Polygon   Blockchain = "POLYGON"
	Avalanche Blockchain = "AVALANCHE"
	Fantom    Blockchain = "FANTOM"
	Arbitrum  Blockchain = "ARBITRUM"
	Optimism  Blockchain = "OPTIMISM"
)

// ID returns the EVM chain id of the network, or 0 if unknown.
func (b Blockchain) ID() uint64 {
	return chainIDs[b]
}

var chainIDs = map[Blockchain]uint64{
	Ethereum:  1,
	BSC:       56,
	Polygon:   137,
	Avalanche: 43114,
	Fantom:    250,
	Arbitrum:  42161,
	Optimism:  10,
}

// NativeToken describes the gas coin of a network.
type NativeToken struct {
	Symbol   string
	Decimals int
}

var nativeTokens = map[Blockchain]NativeToken{
	Ethereum:  {Symbol: "ETH", Decimals: 18},
	BSC:       {Symbol: "BNB", Decimals: 18},
	Polygon:   {Symbol: "MATIC", Decimals: 18},
	Avalanche: {Symbol: "AVAX", Decimals: 18},
	Fantom:    {Symbol: "FTM", Decimals: 18},
	Arbitrum:  {Symbol: "ETH", Decimals: 18},
	Optimism:  {Symbol: "ETH", Decimals: 18},
}

// Native returns the native coin metadata for the network.
// The second result is false for networks missing from the table.
func Native(b Blockchain) (NativeToken, bool) {
	n, ok := nativeTokens[b]
	return n, ok
}

// EmptyAddress is the zero address used as the native-asset sentinel.
var EmptyAddress = common.Address{}

// IsAddressCorrect reports whether s is a well-formed EVM address.
// Mixed-case input must additionally carry a valid EIP-55 checksum.
func IsAddressCorrect(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	body := strings.TrimPrefix(s, "0x")
	if _, err := hex.DecodeString(body); err != nil || len(body) != 40 {
		return false
	}
	lower := strings.ToLower(body)
	upper := strings.ToUpper(body)
	if body == lower || body == upper {
		return true
	}
	// Mixed case: require the canonical checksum form.
	return common.HexToAddress(s).Hex() == s
}

// CompareAddresses reports address equality ignoring checksum casing.
func CompareAddresses(a, b string) bool {
	return strings.EqualFold(a, b)
}
