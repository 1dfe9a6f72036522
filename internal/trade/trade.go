package trade

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/web3"
)

// Type tags the provider that produced a trade.
type Type string

const (
	TypeStargate  Type = "STARGATE"
	TypeXY        Type = "XY"
	TypeVia       Type = "VIA"
	TypeUniswapV2 Type = "UNISWAP_V2"
)

// Status tracks the execution lifecycle of a trade. There is no rollback;
// a submit failure is surfaced and the trade is not retried automatically.
type Status string

const (
	StatusQuoted    Status = "QUOTED"
	StatusApproving Status = "APPROVING"
	StatusSwapping  Status = "SWAPPING"
	StatusSubmitted Status = "SUBMITTED"
)

// Clients is the explicit collaborator set handed to every trade and
// provider. It replaces a process-wide injector singleton: created once per
// SDK session, torn down on wallet disconnect.
type Clients struct {
	Public   web3.Public
	Wallet   web3.Wallet
	GasPrice web3.GasPriceSource
	Logger   *zap.Logger
}

// Callbacks are optional execution hooks.
type Callbacks struct {
	OnApprove func(hash common.Hash)
	OnConfirm func(hash common.Hash)
}

// SwapOptions parameterize trade execution.
type SwapOptions struct {
	FromAddress     string
	ReceiverAddress string
	GasLimit        uint64
	GasPrice        *big.Int
	Callbacks       Callbacks
}

// EncodeOptions parameterize the build-only path used by proxy callers that
// batch legs themselves.
type EncodeOptions struct {
	FromAddress     string
	ReceiverAddress string
}

// TransactionBuilder encodes the provider-specific swap call of a trade.
type TransactionBuilder func(ctx context.Context, opts EncodeOptions) (web3.TransactionRequest, error)

// maxApproval is 2^256-1, the conventional unlimited allowance.
var maxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// CrossChainTrade is the immutable-after-construction representation of an
// accepted cross-chain quote. Created only by a successful calculation.
type CrossChainTrade struct {
	TradeType         Type
	From              tokens.TokenAmount
	To                tokens.TokenAmount
	ToTokenAmountMin  decimal.Decimal
	FeeInfo           fees.FeeInfo
	PriceImpact       decimal.Decimal
	SlippageTolerance decimal.Decimal

	// ProviderAddress identifies the integrator the platform fee is
	// attributed to.
	ProviderAddress common.Address

	// ContractAddress is the execution target and allowance spender.
	ContractAddress common.Address

	// SrcChainTrade is the optional pre-swap into a bridge-supported token.
	SrcChainTrade *OnChainTrade

	// DstChainTrade is the optional destination-side swap.
	DstChainTrade *OnChainTrade

	CryptoFeeToken tokens.Token

	build   TransactionBuilder
	clients Clients
	status  Status
}

// NewCrossChainTrade wires a constructed quote to its execution collaborators.
func NewCrossChainTrade(t CrossChainTrade, build TransactionBuilder, clients Clients) *CrossChainTrade {
	t.build = build
	t.clients = clients
	t.status = StatusQuoted
	return &t
}

// Status returns the current lifecycle state.
func (t *CrossChainTrade) CurrentStatus() Status {
	return t.status
}

// NetworkFee sums fixed and crypto fees, both in source-native denomination.
func (t *CrossChainTrade) NetworkFee() decimal.Decimal {
	return t.FeeInfo.NetworkFee()
}

// NeedApprove reports whether the current allowance is below the input
// amount. Native assets never need approval. Requires a connected wallet.
func (t *CrossChainTrade) NeedApprove(ctx context.Context) (bool, error) {
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

// Approve grants the trade contract an unlimited allowance on the input
// token.
func (t *CrossChainTrade) Approve(ctx context.Context, opts SwapOptions) (common.Hash, error) {
	if err := checkWalletConnected(t.clients.Wallet); err != nil {
		return common.Hash{}, err
	}
	if t.From.IsNative() {
		return common.Hash{}, errors.New("native asset does not need approval")
	}

	t.status = StatusApproving
	hash, err := sendApprove(ctx, t.clients, t.From.Address, t.ContractAddress, opts)
	if err != nil {
		return common.Hash{}, err
	}
	if opts.Callbacks.OnApprove != nil {
		opts.Callbacks.OnApprove(hash)
	}
	return hash, nil
}

// Swap runs pre-flight checks, approves when required and submits the swap
// transaction. Approval and swap are not reorderable by the caller.
func (t *CrossChainTrade) Swap(ctx context.Context, opts SwapOptions) (common.Hash, error) {
	if err := t.checkTradeErrors(ctx); err != nil {
		return common.Hash{}, err
	}
	if err := checkFromAddress(opts.FromAddress, false); err != nil {
		return common.Hash{}, err
	}
	if err := checkReceiverAddress(opts.ReceiverAddress, false); err != nil {
		return common.Hash{}, err
	}

	need, err := t.NeedApprove(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	if need {
		if _, err := t.Approve(ctx, opts); err != nil {
			return common.Hash{}, errors.Wrap(err, "t.Approve")
		}
	}

	t.status = StatusSwapping
	req, err := t.build(ctx, EncodeOptions{
		FromAddress:     opts.FromAddress,
		ReceiverAddress: opts.ReceiverAddress,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "t.build")
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
	t.status = StatusSubmitted
	if opts.Callbacks.OnConfirm != nil {
		opts.Callbacks.OnConfirm(hash)
	}
	return hash, nil
}

// Encode builds the raw transaction payload without submitting it.
func (t *CrossChainTrade) Encode(ctx context.Context, opts EncodeOptions) (web3.TransactionRequest, error) {
	if err := checkFromAddress(opts.FromAddress, true); err != nil {
		return web3.TransactionRequest{}, err
	}
	if err := checkReceiverAddress(opts.ReceiverAddress, false); err != nil {
		return web3.TransactionRequest{}, err
	}
	return t.build(ctx, opts)
}

// checkTradeErrors runs every pre-flight check before an on-chain write:
// wallet connected, active chain matches the source chain, live balance
// covers the input amount.
func (t *CrossChainTrade) checkTradeErrors(ctx context.Context) error {
	if err := checkWalletConnected(t.clients.Wallet); err != nil {
		return err
	}
	if err := web3.CheckBlockchainCorrect(t.clients.Wallet, t.From.Blockchain); err != nil {
		return err
	}
	return checkBalance(ctx, t.clients, t.From)
}

func checkWalletConnected(w web3.Wallet) error {
	if w == nil || w.Address() == (common.Address{}) {
		return sdkerrors.ErrWalletNotConnected
	}
	return nil
}

func checkBalance(ctx context.Context, clients Clients, from tokens.TokenAmount) error {
	balance, err := clients.Public.GetBalance(ctx, from.Address, clients.Wallet.Address())
	if err != nil {
		return errors.Wrap(err, "clients.Public.GetBalance")
	}
	if balance.Cmp(from.Wei()) < 0 {
		return errors.Errorf("insufficient funds: balance %s, required %s %s",
			tokens.FromWei(balance, from.Decimals).String(), from.Amount().String(), from.Symbol)
	}
	return nil
}

func checkFromAddress(fromAddress string, required bool) error {
	if fromAddress == "" {
		if required {
			return errors.New("fromAddress is a required option")
		}
		return nil
	}
	if !chains.IsAddressCorrect(fromAddress) {
		return sdkerrors.ErrWrongFromAddress
	}
	return nil
}

func checkReceiverAddress(receiverAddress string, required bool) error {
	if receiverAddress == "" {
		if required {
			return errors.New("receiverAddress is a required option")
		}
		return nil
	}
	if !chains.IsAddressCorrect(receiverAddress) {
		return sdkerrors.ErrWrongReceiverAddress
	}
	return nil
}

func sendApprove(ctx context.Context, clients Clients, token, spender common.Address, opts SwapOptions) (common.Hash, error) {
	data, err := packApprove(spender)
	if err != nil {
		return common.Hash{}, err
	}

	gasPrice := opts.GasPrice
	if gasPrice == nil && clients.GasPrice != nil {
		price, err := clients.GasPrice.GetGasPrice(ctx, clients.Wallet.Blockchain())
		if err != nil {
			clients.Logger.Debug("gas price lookup failed", zap.Error(err))
		} else {
			gasPrice = price
		}
	}

	hash, err := clients.Wallet.SendTransaction(ctx, web3.TransactionRequest{
		To:       token,
		Data:     data,
		Value:    new(big.Int),
		GasPrice: gasPrice,
	})
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "clients.Wallet.SendTransaction")
	}
	return hash, nil
}

// CalculateGasMargin scales a gas limit by the given margin, truncating to
// an integer. It is a caller-facing helper: pad your own gas estimate with
// it before setting SwapOptions.GasLimit. The execution path submits limits
// as given and never pads them itself.
func CalculateGasMargin(gasLimit *big.Int, margin decimal.Decimal) *big.Int {
	return decimal.NewFromBigInt(gasLimit, 0).Mul(margin).Truncate(0).BigInt()
}
