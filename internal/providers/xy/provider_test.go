package xy

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/openswap/crosschain-sdk/internal/chains"
	"github.com/openswap/crosschain-sdk/internal/httpclient"
	"github.com/openswap/crosschain-sdk/internal/providers"
	"github.com/openswap/crosschain-sdk/internal/sdkerrors"
	"github.com/openswap/crosschain-sdk/internal/tokens"
	"github.com/openswap/crosschain-sdk/internal/trade"
	"github.com/openswap/crosschain-sdk/internal/web3/mock"
)

var (
	usdcEthereum = tokens.Token{
		Blockchain: chains.Ethereum,
		Address:    common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"),
		Symbol:     "USDC",
		Decimals:   6,
	}
	usdcPolygon = tokens.Token{
		Blockchain: chains.Polygon,
		Address:    common.HexToAddress("0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"),
		Symbol:     "USDC",
		Decimals:   6,
	}
	registryAddr  = common.HexToAddress("0x3335733c454805df6a77f825f266e136FB4a3333")
	integrator    = common.HexToAddress("0x2222222222222222222222222222222222222222")
	swapContract  = "0x7D26F09d4e2d032Efa0729fC31a4c2Db8a2394b1"
	validReceiver = "0x05050505050505050505050505050505050505aa"
)

func newXYProvider(t *testing.T, public *mock.MockPublic, endpoint string) *Provider {
	t.Helper()
	clients := trade.Clients{Public: public, Logger: zap.NewNop()}
	client := httpclient.New(5*time.Second, zap.NewNop())
	return NewProvider(clients, client, map[chains.Blockchain]common.Address{
		chains.Ethereum: registryAddr,
	}, endpoint)
}

// expectFeeInfo wires the fee-registry reads: zero fixed fee and a 0.1%
// integrator fee.
func expectFeeInfo(public *mock.MockPublic, times int) {
	public.EXPECT().
		CallContractMethod(gomock.Any(), registryAddr, gomock.Any(), "fixedNativeFee").
		Return([]interface{}{new(big.Int)}, nil).
		Times(times)
	public.EXPECT().
		CallContractMethod(gomock.Any(), registryAddr, gomock.Any(), "integratorFee", integrator).
		Return([]interface{}{big.NewInt(1000)}, nil).
		Times(times)
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	public := mock.NewMockPublic(ctrl)
	expectFeeInfo(public, 1)

	var calls int32
	var lastReceiver atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.Equal(t, "/swap", r.URL.Path)

		q := r.URL.Query()
		require.Equal(t, "1", q.Get("srcChainId"))
		require.Equal(t, usdcEthereum.Address.Hex(), q.Get("fromTokenAddress"))
		// 1000 USDC net of the 0.1% platform fee.
		require.Equal(t, "999000000", q.Get("amount"))
		require.Equal(t, "2", q.Get("slippage"))
		require.Equal(t, "137", q.Get("destChainId"))
		require.Equal(t, usdcPolygon.Address.Hex(), q.Get("toTokenAddress"))
		lastReceiver.Store(q.Get("receiveAddress"))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"statusCode":    0,
			"toTokenAmount": "995000000",
			"xyFee":         map[string]interface{}{"amount": "1.2", "symbol": "USDC"},
			"tx":            map[string]string{"to": swapContract, "data": "0xdeadbeef", "value": "0x0"},
		})
	}))
	defer server.Close()

	provider := newXYProvider(t, public, server.URL)

	from := tokens.NewTokenAmountFromDecimal(usdcEthereum, decimal.NewFromInt(1000))
	opts := providers.Options{
		ProviderAddress:   integrator,
		SlippageTolerance: decimal.RequireFromString("0.02"),
	}

	result := provider.Calculate(context.Background(), from, usdcPolygon, opts)
	require.NoError(t, result.Err)
	require.Equal(t, trade.TypeXY, result.TradeType)

	require.Equal(t, "995", result.Trade.To.Amount().String())
	require.Equal(t, common.HexToAddress(swapContract), result.Trade.ContractAddress)
	require.Equal(t, "1.2", result.Trade.FeeInfo.CryptoFee.Amount.String())
	require.Equal(t, "USDC", result.Trade.FeeInfo.CryptoFee.TokenSymbol)
	require.True(t, result.Trade.ToTokenAmountMin.Equal(decimal.RequireFromString("975.1")))
	// No wallet connected and no receiver given: the zero address stands in.
	require.Equal(t, (common.Address{}).Hex(), lastReceiver.Load())

	req, err := result.Trade.Encode(context.Background(), trade.EncodeOptions{
		FromAddress:     validReceiver,
		ReceiverAddress: validReceiver,
	})
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(swapContract), req.To)
	require.Equal(t, common.FromHex("0xdeadbeef"), req.Data)
	require.Equal(t, int64(0), req.Value.Int64())

	// Encoding re-quotes with the updated receiver.
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
	require.Equal(t, validReceiver, lastReceiver.Load())
}

func TestCalculateAmountTooSmall(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	public := mock.NewMockPublic(ctrl)
	expectFeeInfo(public, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    false,
			"statusCode": "6",
			"msg":        "Amount needs to be raised (up to 10.5 USDT)",
		})
	}))
	defer server.Close()

	provider := newXYProvider(t, public, server.URL)
	from := tokens.NewTokenAmountFromDecimal(usdcEthereum, decimal.NewFromInt(1))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{ProviderAddress: integrator})
	require.Error(t, result.Err)

	var minErr *sdkerrors.MinAmountError
	require.ErrorAs(t, result.Err, &minErr)
	require.Equal(t, "10.5", minErr.MinAmount.String())
	require.Equal(t, "USDT", minErr.TokenSymbol)
}

func TestCalculateUnsupportedBlockchain(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No fee-registry or HTTP expectations: the check precedes any request.
	public := mock.NewMockPublic(ctrl)
	provider := newXYProvider(t, public, "http://127.0.0.1:0")

	from := tokens.NewTokenAmountFromDecimal(tokens.Token{
		Blockchain: chains.Blockchain("SOLANA"),
		Symbol:     "USDC",
		Decimals:   6,
	}, decimal.NewFromInt(1))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{})
	require.ErrorIs(t, result.Err, sdkerrors.ErrNotSupportedTokens)
	require.Nil(t, result.Trade)
}

func TestAnalyzeStatusCode(t *testing.T) {
	t.Parallel()

	require.NoError(t, analyzeStatusCode(StatusSuccess, ""))
	require.ErrorIs(t, analyzeStatusCode(StatusNotEnoughLiquidity, ""), sdkerrors.ErrInsufficientLiquidity)
	require.ErrorIs(t, analyzeStatusCode(StatusCannotFindPath, ""), sdkerrors.ErrInsufficientLiquidity)
	require.ErrorIs(t, analyzeStatusCode(StatusLessThanGasFee, ""), sdkerrors.ErrUnknown)
	require.ErrorIs(t, analyzeStatusCode(StatusQuoteTimeout, ""), sdkerrors.ErrUnknown)
	require.ErrorIs(t, analyzeStatusCode(StatusInternalError, ""), sdkerrors.ErrUnknown)
	require.ErrorIs(t, analyzeStatusCode(StatusCode("42"), ""), sdkerrors.ErrUnknown)
}

func TestParseMinAmount(t *testing.T) {
	t.Parallel()

	t.Run("well-formed message", func(t *testing.T) {
		err := parseMinAmount("Amount needs to be raised (up to 0.015 ETH)")
		var minErr *sdkerrors.MinAmountError
		require.ErrorAs(t, err, &minErr)
		require.Equal(t, "0.015", minErr.MinAmount.String())
		require.Equal(t, "ETH", minErr.TokenSymbol)
	})

	t.Run("malformed messages degrade to unknown", func(t *testing.T) {
		for _, message := range []string{
			"",
			"try a larger amount",
			"Amount needs to be raised (up to USDT)",
			"Amount needs to be raised (up to abc USDT)",
		} {
			require.ErrorIs(t, parseMinAmount(message), sdkerrors.ErrUnknown, message)
		}
	})
}

func TestStatusCodeUnmarshal(t *testing.T) {
	t.Parallel()

	var resp swapResponse
	require.NoError(t, json.Unmarshal([]byte(`{"statusCode": 3}`), &resp))
	require.Equal(t, StatusNotEnoughLiquidity, resp.StatusCode)

	require.NoError(t, json.Unmarshal([]byte(`{"statusCode": "6"}`), &resp))
	require.Equal(t, StatusAmountTooSmall, resp.StatusCode)
}

func TestParseWei(t *testing.T) {
	t.Parallel()

	v, err := parseWei("")
	require.NoError(t, err)
	require.Equal(t, int64(0), v.Int64())

	v, err = parseWei("0x10")
	require.NoError(t, err)
	require.Equal(t, int64(16), v.Int64())

	v, err = parseWei("1000")
	require.NoError(t, err)
	require.Equal(t, int64(1000), v.Int64())

	_, err = parseWei("0xzz")
	require.Error(t, err)

	_, err = parseWei("not-a-number")
	require.Error(t, err)
}

func TestTokenParam(t *testing.T) {
	t.Parallel()

	require.Equal(t, nativeAddress, tokenParam(tokens.NativeToken(chains.Ethereum, decimal.Zero)))
	require.Equal(t, usdcEthereum.Address.Hex(), tokenParam(usdcEthereum))
}
