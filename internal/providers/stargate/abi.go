package stargate

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var routerABI abi.ABI

func init() {
	var err error
	routerABI, err = abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		panic(err)
	}
}

type lzTxParams = struct {
	DstGasForCall   *big.Int
	DstNativeAmount *big.Int
	DstNativeAddr   []byte
}

func packRouterSwap(
	dstChainID uint16,
	srcPool, dstPool *big.Int,
	refund common.Address,
	amountLD, minAmountLD *big.Int,
	params lzTxParams,
	to []byte,
	payload []byte,
) ([]byte, error) {
	data, err := routerABI.Pack("swap", dstChainID, srcPool, dstPool, refund, amountLD, minAmountLD, params, to, payload)
	if err != nil {
		return nil, errors.Wrap(err, "pack swap")
	}
	return data, nil
}
