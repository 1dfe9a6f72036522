package trade

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

const routerABIJSON = `[
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactETHForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

var (
	routerABI abi.ABI
	erc20ABI  abi.ABI
)

func init() {
	var err error
	routerABI, err = abi.JSON(strings.NewReader(routerABIJSON))
	if err != nil {
		panic(err)
	}
	erc20ABI, err = abi.JSON(strings.NewReader(web3.ERC20ABIJSON()))
	if err != nil {
		panic(err)
	}
}

func packApprove(spender common.Address) ([]byte, error) {
	data, err := erc20ABI.Pack("approve", spender, maxApproval)
	if err != nil {
		return nil, errors.Wrap(err, "pack approve")
	}
	return data, nil
}

// OnChainTrade is a single-network swap quote, either standalone or nested
// inside a cross-chain trade as its pre- or post-bridge leg.
type OnChainTrade struct {
	From              tokens.TokenAmount
	To                tokens.TokenAmount
	SlippageTolerance decimal.Decimal

	// Path is the swap route token sequence; wrapped-native stands in for
	// the native sentinel.
	Path []common.Address

	// ContractAddress is the DEX router the swap executes through.
	ContractAddress common.Address

	Deadline time.Duration

	clients Clients
}

// NewOnChainTrade wires an on-chain quote to its execution collaborators.
func NewOnChainTrade(t OnChainTrade, clients Clients) *OnChainTrade {
	if t.Deadline == 0 {
		t.Deadline = 20 * time.Minute
	}
	t.clients = clients
	return &t
}

// ToTokenAmountMin returns the slippage-adjusted guaranteed output.
func (t *OnChainTrade) ToTokenAmountMin() tokens.TokenAmount {
	return tokens.NewTokenAmount(t.To.Token, t.To.WeiAmountMinusSlippage(t.SlippageTolerance))
}

// EncodeDirect builds the router call without submitting it. Used by proxy
// aggregation and by nested cross-chain legs.
func (t *OnChainTrade) EncodeDirect(opts EncodeOptions) (web3.TransactionRequest, error) {
	if err := checkReceiverAddress(opts.ReceiverAddress, false); err != nil {
		return web3.TransactionRequest{}, err
	}

	receiver := t.clients.Wallet.Address()
	if opts.ReceiverAddress != "" {
		receiver = common.HexToAddress(opts.ReceiverAddress)
	}
	if opts.FromAddress != "" {
		if err := checkFromAddress(opts.FromAddress, false); err != nil {
			return web3.TransactionRequest{}, err
		}
		if receiver == (common.Address{}) {
			receiver = common.HexToAddress(opts.FromAddress)
		}
	}

	deadline := big.NewInt(time.Now().Add(t.Deadline).Unix())
	minOut := t.ToTokenAmountMin().Wei()

	switch {
	case t.From.IsNative():
		data, err := routerABI.Pack("swapExactETHForTokens", minOut, t.Path, receiver, deadline)
		if err != nil {
			return web3.TransactionRequest{}, errors.Wrap(err, "pack swapExactETHForTokens")
		}
		return web3.TransactionRequest{To: t.ContractAddress, Data: data, Value: t.From.Wei()}, nil

	case t.To.IsNative():
		data, err := routerABI.Pack("swapExactTokensForETH", t.From.Wei(), minOut, t.Path, receiver, deadline)
		if err != nil {
			return web3.TransactionRequest{}, errors.Wrap(err, "pack swapExactTokensForETH")
		}
		return web3.TransactionRequest{To: t.ContractAddress, Data: data, Value: new(big.Int)}, nil

	default:
		data, err := routerABI.Pack("swapExactTokensForTokens", t.From.Wei(), minOut, t.Path, receiver, deadline)
		if err != nil {
			return web3.TransactionRequest{}, errors.Wrap(err, "pack swapExactTokensForTokens")
		}
		return web3.TransactionRequest{To: t.ContractAddress, Data: data, Value: new(big.Int)}, nil
	}
}

// NeedApprove reports whether the router's allowance is below the input
// amount.
func (t *OnChainTrade) NeedApprove(ctx context.Context) (bool, error) {
	if err := checkWalletConnected(t.clients.Wallet); err != nil {
		return false, err
	}
	if t.From.IsNative() {
		return false, nil
	}
	allowance, err := t.clients.Public.GetAllowance(ctx, t.From.Address, t.clients.Wallet.Address(), t.ContractAddress)
	if err != nil {
		return false, errors.Wrap(err, "t.clients.Public.GetAllowance")
	}
	return t.From.Wei().Cmp(allowance) > 0, nil
}

// Swap runs pre-flight checks, approves when required and submits the swap.
func (t *OnChainTrade) Swap(ctx context.Context, opts SwapOptions) (common.Hash, error) {
	if err := checkWalletConnected(t.clients.Wallet); err != nil {
		return common.Hash{}, err
	}
	if err := web3.CheckBlockchainCorrect(t.clients.Wallet, t.From.Blockchain); err != nil {
		return common.Hash{}, err
	}
	if err := checkBalance(ctx, t.clients, t.From); err != nil {
		return common.Hash{}, err
	}

	need, err := t.NeedApprove(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if need {
		hash, err := sendApprove(ctx, t.clients, t.From.Address, t.ContractAddress, opts)
		if err != nil {
			return common.Hash{}, errors.Wrap(err, "sendApprove")
		}
		if opts.Callbacks.OnApprove != nil {
			opts.Callbacks.OnApprove(hash)
		}
	}

	req, err := t.EncodeDirect(EncodeOptions{
		FromAddress:     opts.FromAddress,
		ReceiverAddress: opts.ReceiverAddress,
	})
	if err != nil {
		return common.Hash{}, err
	}
	if opts.GasLimit != 0 {
		req.GasLimit = opts.GasLimit
	}
	if opts.GasPrice != nil {
		req.GasPrice = opts.GasPrice
	}

	hash, err := t.clients.Wallet.SendTransaction(ctx, req)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "t.clients.Wallet.SendTransaction")
	}
	if opts.Callbacks.OnConfirm != nil {
		opts.Callbacks.OnConfirm(hash)
	}
	return hash, nil
}
