package trade

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/fees"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/web3"
	"github.com/openswap/crosschain-sdk/internal/web3/mock"
)

var (
	testToken = tokens.Token{
		Blockchain: chains.Ethereum,
		Address:    common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"),
		Symbol:     "USDT",
		Decimals:   6,
	}
	testContract = common.HexToAddress("0x8731d54E9D02c286767d56ac03e8037C07e01e98")
	testWallet   = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func newTestTrade(clients Clients, from tokens.TokenAmount, build TransactionBuilder) *CrossChainTrade {
	if build == nil {
		build = func(context.Context, EncodeOptions) (web3.TransactionRequest, error) {
			return web3.TransactionRequest{To: testContract, Value: new(big.Int)}, nil
		}
	}
	return NewCrossChainTrade(CrossChainTrade{
		TradeType:       TypeStargate,
		From:            from,
		To:              tokens.NewTokenAmount(testToken, big.NewInt(990_000)),
		ContractAddress: testContract,
	}, build, clients)
}

func TestNeedApprove(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	public := mock.NewMockPublic(ctrl)
	wallet := mock.NewMockWallet(ctrl)
	wallet.EXPECT().Address().Return(testWallet).AnyTimes()

	clients := Clients{Public: public, Wallet: wallet, Logger: zap.NewNop()}
	from := tokens.NewTokenAmount(testToken, big.NewInt(1_000_000))

	t.Run("no wallet", func(t *testing.T) {
		tr := newTestTrade(Clients{Public: public, Logger: zap.NewNop()}, from, nil)
		_, err := tr.NeedApprove(context.Background())
		require.ErrorIs(t, err, sdkerrors.ErrWalletNotConnected)
	})

	t.Run("native asset never needs approval", func(t *testing.T) {
		native := tokens.NewTokenAmount(tokens.NativeToken(chains.Ethereum, decimal.Zero), big.NewInt(1))
		tr := newTestTrade(clients, native, nil)

		need, err := tr.NeedApprove(context.Background())
		require.NoError(t, err)
		require.False(t, need)
	})

	t.Run("allowance below amount", func(t *testing.T) {
		public.EXPECT().
			GetAllowance(gomock.Any(), testToken.Address, testWallet, testContract).
			Return(big.NewInt(999_999), nil)

		tr := newTestTrade(clients, from, nil)
		need, err := tr.NeedApprove(context.Background())
		require.NoError(t, err)
		require.True(t, need)
	})

	t.Run("allowance covers amount", func(t *testing.T) {
		public.EXPECT().
			GetAllowance(gomock.Any(), testToken.Address, testWallet, testContract).
			Return(big.NewInt(1_000_000), nil)

		tr := newTestTrade(clients, from, nil)
		need, err := tr.NeedApprove(context.Background())
		require.NoError(t, err)
		require.False(t, need)
	})
}

func TestSwap(t *testing.T) {
	t.Parallel()

	from := tokens.NewTokenAmount(testToken, big.NewInt(1_000_000))

	newClients := func(ctrl *gomock.Controller) (Clients, *mock.MockPublic, *mock.MockWallet) {
		public := mock.NewMockPublic(ctrl)
		wallet := mock.NewMockWallet(ctrl)
		gasPrice := mock.NewMockGasPriceSource(ctrl)
		wallet.EXPECT().Address().Return(testWallet).AnyTimes()
		wallet.EXPECT().Blockchain().Return(chains.Ethereum).AnyTimes()
		gasPrice.EXPECT().GetGasPrice(gomock.Any(), chains.Ethereum).Return(big.NewInt(30), nil).AnyTimes()
		return Clients{Public: public, Wallet: wallet, GasPrice: gasPrice, Logger: zap.NewNop()}, public, wallet
	}

	t.Run("approve precedes swap when allowance is short", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		clients, public, wallet := newClients(ctrl)

		public.EXPECT().
			GetBalance(gomock.Any(), testToken.Address, testWallet).
			Return(big.NewInt(2_000_000), nil)
		public.EXPECT().
			GetAllowance(gomock.Any(), testToken.Address, testWallet, testContract).
			Return(new(big.Int), nil)

		var sent []common.Address
		wallet.EXPECT().
			SendTransaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req web3.TransactionRequest) (common.Hash, error) {
				sent = append(sent, req.To)
				return common.HexToHash("0xabc"), nil
			}).
			Times(2)

		var approved, confirmed bool
		tr := newTestTrade(clients, from, nil)
		_, err := tr.Swap(context.Background(), SwapOptions{
			Callbacks: Callbacks{
				OnApprove: func(common.Hash) { approved = true },
				OnConfirm: func(common.Hash) { confirmed = true },
			},
		})
		require.NoError(t, err)

		// Approval targets the token, the swap targets the trade contract.
		require.Equal(t, []common.Address{testToken.Address, testContract}, sent)
		require.True(t, approved)
		require.True(t, confirmed)
		require.Equal(t, StatusSubmitted, tr.CurrentStatus())
	})

	t.Run("sufficient allowance skips approval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		clients, public, wallet := newClients(ctrl)

		public.EXPECT().
			GetBalance(gomock.Any(), testToken.Address, testWallet).
			Return(big.NewInt(2_000_000), nil)
		public.EXPECT().
			GetAllowance(gomock.Any(), testToken.Address, testWallet, testContract).
			Return(big.NewInt(1_000_000), nil)
		wallet.EXPECT().
			SendTransaction(gomock.Any(), gomock.Any()).
			Return(common.HexToHash("0xdef"), nil)

		tr := newTestTrade(clients, from, nil)
		_, err := tr.Swap(context.Background(), SwapOptions{})
		require.NoError(t, err)
	})

	t.Run("insufficient balance aborts before any write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		clients, public, _ := newClients(ctrl)

		public.EXPECT().
			GetBalance(gomock.Any(), testToken.Address, testWallet).
			Return(big.NewInt(1), nil)

		tr := newTestTrade(clients, from, nil)
		_, err := tr.Swap(context.Background(), SwapOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "insufficient funds")
	})

	t.Run("wrong network aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		public := mock.NewMockPublic(ctrl)
		wallet := mock.NewMockWallet(ctrl)
		wallet.EXPECT().Address().Return(testWallet).AnyTimes()
		wallet.EXPECT().Blockchain().Return(chains.Polygon).AnyTimes()

		tr := newTestTrade(Clients{Public: public, Wallet: wallet, Logger: zap.NewNop()}, from, nil)
		_, err := tr.Swap(context.Background(), SwapOptions{})
		require.Error(t, err)
	})

	t.Run("malformed from address aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		clients, public, _ := newClients(ctrl)

		public.EXPECT().
			GetBalance(gomock.Any(), testToken.Address, testWallet).
			Return(big.NewInt(2_000_000), nil)

		tr := newTestTrade(clients, from, nil)
		_, err := tr.Swap(context.Background(), SwapOptions{FromAddress: "0x123"})
		require.ErrorIs(t, err, sdkerrors.ErrWrongFromAddress)
	})

	t.Run("builder failure surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		clients, public, _ := newClients(ctrl)

		public.EXPECT().
			GetBalance(gomock.Any(), testToken.Address, testWallet).
			Return(big.NewInt(2_000_000), nil)
		public.EXPECT().
			GetAllowance(gomock.Any(), testToken.Address, testWallet, testContract).
			Return(big.NewInt(1_000_000), nil)

		tr := newTestTrade(clients, from, func(context.Context, EncodeOptions) (web3.TransactionRequest, error) {
			return web3.TransactionRequest{}, errors.New("stale route")
		})
		_, err := tr.Swap(context.Background(), SwapOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "stale route")
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	from := tokens.NewTokenAmount(testToken, big.NewInt(1_000_000))
	clients := Clients{Logger: zap.NewNop()}

	t.Run("from address is required", func(t *testing.T) {
		tr := newTestTrade(clients, from, nil)
		_, err := tr.Encode(context.Background(), EncodeOptions{})
		require.Error(t, err)
	})

	t.Run("valid options reach the builder", func(t *testing.T) {
		var gotReceiver string
		tr := newTestTrade(clients, from, func(_ context.Context, opts EncodeOptions) (web3.TransactionRequest, error) {
			gotReceiver = opts.ReceiverAddress
			return web3.TransactionRequest{To: testContract}, nil
		})

		req, err := tr.Encode(context.Background(), EncodeOptions{
			FromAddress:     testWallet.Hex(),
			ReceiverAddress: testWallet.Hex(),
		})
		require.NoError(t, err)
		require.Equal(t, testContract, req.To)
		require.Equal(t, testWallet.Hex(), gotReceiver)
	})

	t.Run("malformed receiver is rejected", func(t *testing.T) {
		tr := newTestTrade(clients, from, nil)
		_, err := tr.Encode(context.Background(), EncodeOptions{
			FromAddress:     testWallet.Hex(),
			ReceiverAddress: "nope",
		})
		require.ErrorIs(t, err, sdkerrors.ErrWrongReceiverAddress)
	})
}

func TestNetworkFeeComposition(t *testing.T) {
	t.Parallel()

	tr := NewCrossChainTrade(CrossChainTrade{
		FeeInfo: fees.FeeInfo{
			FixedFee:  &fees.FixedFee{Amount: decimal.RequireFromString("0.01"), TokenSymbol: "ETH"},
			CryptoFee: &fees.CryptoFee{Amount: decimal.RequireFromString("0.002"), TokenSymbol: "ETH"},
		},
	}, nil, Clients{Logger: zap.NewNop()})

	require.Equal(t, "0.012", tr.NetworkFee().String())
}

func TestOnChainTradeEncodeDirect(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	wallet := mock.NewMockWallet(ctrl)
	wallet.EXPECT().Address().Return(testWallet).AnyTimes()
	clients := Clients{Wallet: wallet, Logger: zap.NewNop()}

	weth := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	router := common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

	t.Run("native input pays value", func(t *testing.T) {
		tr := NewOnChainTrade(OnChainTrade{
			From:            tokens.NewTokenAmount(tokens.NativeToken(chains.Ethereum, decimal.Zero), big.NewInt(5)),
			To:              tokens.NewTokenAmount(testToken, big.NewInt(100)),
			Path:            []common.Address{weth, testToken.Address},
			ContractAddress: router,
		}, clients)

		req, err := tr.EncodeDirect(EncodeOptions{})
		require.NoError(t, err)
		require.Equal(t, router, req.To)
		require.Equal(t, big.NewInt(5), req.Value)
		require.NotEmpty(t, req.Data)
	})

	t.Run("token input sends zero value", func(t *testing.T) {
		tr := NewOnChainTrade(OnChainTrade{
			From:            tokens.NewTokenAmount(testToken, big.NewInt(5)),
			To:              tokens.NewTokenAmount(tokens.NativeToken(chains.Ethereum, decimal.Zero), big.NewInt(100)),
			Path:            []common.Address{testToken.Address, weth},
			ContractAddress: router,
		}, clients)

		req, err := tr.EncodeDirect(EncodeOptions{})
		require.NoError(t, err)
		require.Equal(t, 0, req.Value.Sign())
	})

	t.Run("min output honors slippage", func(t *testing.T) {
		tr := NewOnChainTrade(OnChainTrade{
			From:              tokens.NewTokenAmount(testToken, big.NewInt(5)),
			To:                tokens.NewTokenAmount(testToken, big.NewInt(1000)),
			SlippageTolerance: decimal.RequireFromString("0.05"),
		}, clients)

		require.Equal(t, big.NewInt(950), tr.ToTokenAmountMin().Wei())
	})
}

func TestCalculateGasMargin(t *testing.T) {
	t.Parallel()

	margin := decimal.RequireFromString("1.2")
	require.Equal(t, big.NewInt(120_000), CalculateGasMargin(big.NewInt(100_000), margin))
	// Fractional results truncate towards zero.
	require.Equal(t, big.NewInt(25), CalculateGasMargin(big.NewInt(21), margin))
	require.Equal(t, big.NewInt(0), CalculateGasMargin(big.NewInt(0), margin))
}
