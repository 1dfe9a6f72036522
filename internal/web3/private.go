package web3

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/openswap/crosschain-sdk/internal/chains"
)

// TransactionRequest carries everything needed to submit one transaction.
type TransactionRequest struct {
	To       common.Address
	Data     []byte
	Value    *big.Int
	GasLimit uint64
	GasPrice *big.Int
}

// Wallet is the connected signer owned by the execution path. Quoting never
// touches it beyond reading the address.
type Wallet interface {
	// Address returns the signer address, or the zero address when no
	// wallet is connected.
	Address() common.Address

	// Blockchain returns the network the wallet is currently connected to.
	Blockchain() chains.Blockchain

	// SendTransaction signs and submits the transaction, returning its hash.
	SendTransaction(ctx context.Context, req TransactionRequest) (common.Hash, error)
}

// CheckBlockchainCorrect verifies the wallet's active network matches the
// expected one.
func CheckBlockchainCorrect(w Wallet, expected chains.Blockchain) error {
	if w.Blockchain() != expected {
		return errors.Errorf("wallet is connected to %s, expected %s", w.Blockchain(), expected)
	}
	return nil
}
