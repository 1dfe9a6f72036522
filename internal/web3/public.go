package web3

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

const multicallABIJSON = `[
	{"inputs":[{"components":[{"name":"target","type":"address"},{"name":"callData","type":"bytes"}],"name":"calls","type":"tuple[]"},{"name":"requireSuccess","type":"bool"}],"name":"tryAggregate","outputs":[{"components":[{"name":"success","type":"bool"},{"name":"returnData","type":"bytes"}],"name":"returnData","type":"tuple[]"}],"stateMutability":"view","type":"function"}
]`

// EthCaller is the narrow go-ethereum surface required for reads.
type EthCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// MulticallResult holds the outcome of one call inside a batched read.
// A failed call carries Success=false and a nil Output instead of failing
// the whole batch.
type MulticallResult struct {
	Success bool
	Output  []interface{}
}

// Public provides read-only access to contracts of one network.
type Public interface {
	// CallContractMethod executes a single eth_call against the contract.
	CallContractMethod(ctx context.Context, address common.Address, abiJSON, method string, args ...interface{}) ([]interface{}, error)

	// MulticallContractMethod executes the same method with several
	// argument sets through the multicall contract. One reverting call
	// does not fail the batch.
	MulticallContractMethod(ctx context.Context, address common.Address, abiJSON, method string, argsList [][]interface{}) ([]MulticallResult, error)

	// GetAllowance returns the ERC-20 allowance granted by owner to spender.
	GetAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)

	// GetBalance returns the wallet's balance of the token; the zero token
	// address reads the native-coin balance.
	GetBalance(ctx context.Context, token, wallet common.Address) (*big.Int, error)
}

type publicClient struct {
	caller        EthCaller
	multicallAddr common.Address

	mu       sync.Mutex
	abiCache map[string]abi.ABI
}

// NewPublic creates a Public backed by an Ethereum RPC connection.
func NewPublic(rpcURL string, multicallAddr common.Address) (Public, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}
	return NewPublicWithCaller(caller, multicallAddr), nil
}

// NewPublicWithCaller creates a Public over an existing caller.
func NewPublicWithCaller(caller EthCaller, multicallAddr common.Address) Public {
	return &publicClient{
		caller:        caller,
		multicallAddr: multicallAddr,
		abiCache:      make(map[string]abi.ABI),
	}
}

func (c *publicClient) parseABI(abiJSON string) (abi.ABI, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if parsed, ok := c.abiCache[abiJSON]; ok {
		return parsed, nil
	}
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return abi.ABI{}, errors.Wrap(err, "abi.JSON")
	}
	c.abiCache[abiJSON] = parsed
	return parsed, nil
}

func (c *publicClient) CallContractMethod(
	ctx context.Context,
	address common.Address,
	abiJSON, method string,
	args ...interface{},
) ([]interface{}, error) {
	parsed, err := c.parseABI(abiJSON)
	if err != nil {
		return nil, err
	}

	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "pack %s", method)
	}

	res, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &address, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}

	out, err := parsed.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrapf(err, "unpack %s", method)
	}
	return out, nil
}

func (c *publicClient) MulticallContractMethod(
	ctx context.Context,
	address common.Address,
	abiJSON, method string,
	argsList [][]interface{},
) ([]MulticallResult, error) {
	parsed, err := c.parseABI(abiJSON)
	if err != nil {
		return nil, err
	}
	multicallABI, err := c.parseABI(multicallABIJSON)
	if err != nil {
		return nil, err
	}

	type call struct {
		Target   common.Address
		CallData []byte
	}
	calls := make([]call, 0, len(argsList))
	for _, args := range argsList {
		data, err := parsed.Pack(method, args...)
		if err != nil {
			return nil, errors.Wrapf(err, "pack %s", method)
		}
		calls = append(calls, call{Target: address, CallData: data})
	}

	payload, err := multicallABI.Pack("tryAggregate", calls, false)
	if err != nil {
		return nil, errors.Wrap(err, "pack tryAggregate")
	}

	res, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.multicallAddr, Data: payload}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "call tryAggregate")
	}

	var aggregated struct {
		ReturnData []struct {
			Success    bool
			ReturnData []byte
		}
	}
	if err := multicallABI.UnpackIntoInterface(&aggregated, "tryAggregate", res); err != nil {
		return nil, errors.Wrap(err, "unpack tryAggregate")
	}

	results := make([]MulticallResult, len(calls))
	for i, item := range aggregated.ReturnData {
		if i >= len(results) {
			break
		}
		if !item.Success || len(item.ReturnData) == 0 {
			continue
		}
		out, err := parsed.Unpack(method, item.ReturnData)
		if err != nil {
			continue
		}
		results[i] = MulticallResult{Success: true, Output: out}
	}
	return results, nil
}

func (c *publicClient) GetAllowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	out, err := c.CallContractMethod(ctx, token, erc20ABIJSON, "allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "allowance")
	}
	allowance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("failed to cast allowance to *big.Int")
	}
	return allowance, nil
}

func (c *publicClient) GetBalance(ctx context.Context, token, wallet common.Address) (*big.Int, error) {
	if token == (common.Address{}) {
		balance, err := c.caller.BalanceAt(ctx, wallet, nil)
		if err != nil {
			return nil, errors.Wrap(err, "c.caller.BalanceAt")
		}
		return balance, nil
	}

	out, err := c.CallContractMethod(ctx, token, erc20ABIJSON, "balanceOf", wallet)
	if err != nil {
		return nil, errors.Wrap(err, "balanceOf")
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("failed to cast balance to *big.Int")
	}
	return balance, nil
}

// ERC20ABIJSON exposes the minimal ERC-20 ABI used for allowance, balance
// and approve encoding.
func ERC20ABIJSON() string {
	return erc20ABIJSON
}
