package stargate

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/openswap/crosschain-sdk/internal/chains"
)

// BridgeToken is a token symbol bridgeable through Stargate pools.
type BridgeToken string

const (
	USDC BridgeToken = "USDC"
	USDT BridgeToken = "USDT"
	DAI  BridgeToken = "DAI"
	FRAX BridgeToken = "FRAX"
	ETH  BridgeToken = "ETH"
	LUSD BridgeToken = "LUSD"
	MAI  BridgeToken = "MAI"
	MUSD BridgeToken = "m.USDT"
)

// poolID maps a bridge token to its Stargate pool id.
var poolID = map[BridgeToken]int{
	USDC: 1,
	USDT: 2,
	DAI:  3,
	FRAX: 7,
	ETH:  13,
	LUSD: 15,
	MAI:  16,
	MUSD: 19,
}

// poolDecimals is the authoritative shared-decimals table per bridge token.
// Pool fee amounts are denominated in these decimals, not in the ERC-20
// token's own decimals; the two differ for most 18-decimal stables.
var poolDecimals = map[BridgeToken]int{
	USDC: 6,
	USDT: 6,
	MUSD: 6,
	DAI:  18,
	FRAX: 18,
	ETH:  18,
	LUSD: 18,
	MAI:  18,
}

// supportedBlockchains is the static allow-list consulted before any
// network call.
var supportedBlockchains = []chains.Blockchain{
	chains.Ethereum,
	chains.BSC,
	chains.Polygon,
	chains.Avalanche,
	chains.Fantom,
	chains.Arbitrum,
	chains.Optimism,
}

// supportedPools lists the pool ids deployed on each network.
var supportedPools = map[chains.Blockchain][]int{
	chains.Ethereum:  {1, 2, 3, 7, 13, 15, 16},
	chains.BSC:       {2, 16, 19},
	chains.Polygon:   {1, 2, 16},
	chains.Avalanche: {1, 2, 7},
	chains.Fantom:    {1},
	chains.Arbitrum:  {1, 2, 7, 13, 15, 16},
	chains.Optimism:  {1, 3, 7, 13, 15, 16},
}

// layerZeroChainID maps a network to its LayerZero chain id.
var layerZeroChainID = map[chains.Blockchain]uint16{
	chains.Ethereum:  101,
	chains.BSC:       102,
	chains.Avalanche: 106,
	chains.Polygon:   109,
	chains.Arbitrum:  110,
	chains.Optimism:  111,
	chains.Fantom:    112,
}

// routerAddress is the Stargate router per network.
var routerAddress = map[chains.Blockchain]common.Address{
	chains.Ethereum:  common.HexToAddress("0x8731d54E9D02c286767d56ac03e8037C07e01e98"),
	chains.BSC:       common.HexToAddress("0x4a364f8c717cAAD9A442737Eb7b8A55cc6cf18D8"),
	chains.Polygon:   common.HexToAddress("0x45A01E4e04F14f7A4a6702c74187c5F6222033cd"),
	chains.Avalanche: common.HexToAddress("0x45A01E4e04F14f7A4a6702c74187c5F6222033cd"),
	chains.Fantom:    common.HexToAddress("0xAf5191B0De278C7286d6C7CC6ab6BB8A73bA2Cd6"),
	chains.Arbitrum:  common.HexToAddress("0x53Bf833A5d6c4ddA888F69c22C88C9f356a41614"),
	chains.Optimism:  common.HexToAddress("0xB0D502E938ed5f4df2E681fE6E419ff29631d62b"),
}

// feeLibraryAddress is the fee-library contract per network.
var feeLibraryAddress = map[chains.Blockchain]common.Address{
	chains.Ethereum:  common.HexToAddress("0x8C3085D9a554884124C998CdB7f6d7219E9C1e6F"),
	chains.BSC:       common.HexToAddress("0xCA6522116e8611A346D53Cc2005AC4192e3fc2BC"),
	chains.Polygon:   common.HexToAddress("0xb279b324Ea5648bE6402ABc727173A225383494C"),
	chains.Avalanche: common.HexToAddress("0x5E8eC15ACB5Aa94D5f0589E54441b31c5e0B992d"),
	chains.Fantom:    common.HexToAddress("0x616a68BD6DAd19e066661C7278611487d4072839"),
	chains.Arbitrum:  common.HexToAddress("0x1cF31666c06ac3401ed0C1c6346C4A9425dd7De4"),
	chains.Optimism:  common.HexToAddress("0x505eCDF2f14Cd4f1f413d04624b009A449D38D7E"),
}

// relayerAddress receives the destination-side call when a swap payload is
// attached to the bridge transfer.
var relayerAddress = map[chains.Blockchain]common.Address{
	chains.Ethereum:  common.HexToAddress("0x902F09715B6303d4173037652FA7377e5b98089E"),
	chains.BSC:       common.HexToAddress("0xA27A2cA24DD28Ce14Fb5f5844b59851F03DCf182"),
	chains.Polygon:   common.HexToAddress("0x75dC8e5F50C8221a82CA6aF64aF811caA983B65f"),
	chains.Avalanche: common.HexToAddress("0xCD2E3622d483C7Dc855F72e5eafAdCD577ac78B4"),
	chains.Fantom:    common.HexToAddress("0x52EEA5c490fB89c7A0084B32FEAB854eefF07c82"),
	chains.Arbitrum:  common.HexToAddress("0x177d36dBE2271A4DdB2Ad8304d82628eb921d790"),
	chains.Optimism:  common.HexToAddress("0x81E792e5a9003CC1C8BF5569A00f34b65d75b017"),
}

// poolMapping describes which destination tokens each source pool settles
// into: source chain -> source token -> destination chain -> tokens.
var poolMapping = map[chains.Blockchain]map[BridgeToken]map[chains.Blockchain][]BridgeToken{
	chains.Ethereum: {
		USDC: {
			chains.BSC:       {USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Fantom:    {USDC},
			chains.Arbitrum:  {USDC, USDT},
			chains.Optimism:  {USDC},
		},
		USDT: {
			chains.BSC:       {USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Arbitrum:  {USDC, USDT},
			chains.Optimism:  {USDC},
		},
		ETH: {
			chains.Arbitrum: {ETH},
			chains.Optimism: {ETH},
		},
		FRAX: {
			chains.Avalanche: {FRAX},
			chains.Arbitrum:  {FRAX},
			chains.Optimism:  {FRAX},
		},
	},
	chains.BSC: {
		USDT: {
			chains.Ethereum:  {USDC, USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Arbitrum:  {USDC, USDT},
			chains.Optimism:  {USDC},
		},
		MUSD: {
			chains.Ethereum: {USDT},
		},
	},
	chains.Polygon: {
		USDC: {
			chains.Ethereum:  {USDC, USDT},
			chains.BSC:       {USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Arbitrum:  {USDC, USDT},
			chains.Optimism:  {USDC},
		},
		USDT: {
			chains.Ethereum:  {USDC, USDT},
			chains.BSC:       {USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Arbitrum:  {USDC, USDT},
			chains.Optimism:  {USDC},
		},
	},
	chains.Avalanche: {
		USDC: {
			chains.Ethereum: {USDC, USDT},
			chains.BSC:      {USDT},
			chains.Polygon:  {USDC, USDT},
			chains.Arbitrum: {USDC, USDT},
			chains.Optimism: {USDC},
		},
		USDT: {
			chains.Ethereum: {USDC, USDT},
			chains.BSC:      {USDT},
			chains.Polygon:  {USDC, USDT},
			chains.Arbitrum: {USDC, USDT},
		},
	},
	chains.Fantom: {
		USDC: {
			chains.Ethereum: {USDC},
			chains.Polygon:  {USDC},
			chains.Arbitrum: {USDC},
			chains.Optimism: {USDC},
		},
	},
	chains.Arbitrum: {
		USDC: {
			chains.Ethereum:  {USDC, USDT},
			chains.BSC:       {USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Optimism:  {USDC},
		},
		USDT: {
			chains.Ethereum:  {USDC, USDT},
			chains.BSC:       {USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
		},
		ETH: {
			chains.Ethereum: {ETH},
			chains.Optimism: {ETH},
		},
	},
	chains.Optimism: {
		USDC: {
			chains.Ethereum:  {USDC, USDT},
			chains.BSC:       {USDT},
			chains.Polygon:   {USDC, USDT},
			chains.Avalanche: {USDC, USDT},
			chains.Arbitrum:  {USDC, USDT},
		},
		ETH: {
			chains.Ethereum: {ETH},
			chains.Arbitrum: {ETH},
		},
	},
}

const feeLibraryABIJSON = `[
	{"inputs":[{"name":"_srcPoolId","type":"uint256"},{"name":"_dstPoolId","type":"uint256"},{"name":"_dstChainId","type":"uint16"},{"name":"_from","type":"address"},{"name":"_amountSD","type":"uint256"}],"name":"getFees","outputs":[{"name":"amount","type":"uint256"},{"name":"eqFee","type":"uint256"},{"name":"eqReward","type":"uint256"},{"name":"lpFee","type":"uint256"},{"name":"protocolFee","type":"uint256"},{"name":"lkbRemove","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"_srcPoolId","type":"uint256"},{"name":"_dstPoolId","type":"uint256"},{"name":"_dstChainId","type":"uint16"},{"name":"_amountSD","type":"uint256"},{"name":"_whitelisted","type":"bool"},{"name":"_hasEqReward","type":"bool"}],"name":"getEquilibriumFee","outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

const routerABIJSON = `[
	{"inputs":[{"name":"_dstChainId","type":"uint16"},{"name":"_srcPoolId","type":"uint256"},{"name":"_dstPoolId","type":"uint256"},{"name":"_refundAddress","type":"address"},{"name":"_amountLD","type":"uint256"},{"name":"_minAmountLD","type":"uint256"},{"components":[{"name":"dstGasForCall","type":"uint256"},{"name":"dstNativeAmount","type":"uint256"},{"name":"dstNativeAddr","type":"bytes"}],"name":"_lzTxParams","type":"tuple"},{"name":"_to","type":"bytes"},{"name":"_payload","type":"bytes"}],"name":"swap","outputs":[],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"_dstChainId","type":"uint16"},{"name":"_functionType","type":"uint8"},{"name":"_toAddress","type":"bytes"},{"name":"_transferAndCallPayload","type":"bytes"},{"components":[{"name":"dstGasForCall","type":"uint256"},{"name":"dstNativeAmount","type":"uint256"},{"name":"dstNativeAddr","type":"bytes"}],"name":"_lzTxParams","type":"tuple"}],"name":"quoteLayerZeroFee","outputs":[{"name":"","type":"uint256"},{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"factory","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

const factoryABIJSON = `[
	{"inputs":[{"name":"_poolId","type":"uint256"}],"name":"getPool","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

const poolABIJSON = `[
	{"inputs":[],"name":"token","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

// dstGasForSwapCall is the destination gas reserved when a swap payload is
// attached to the transfer.
const dstGasForSwapCall = 750_000
