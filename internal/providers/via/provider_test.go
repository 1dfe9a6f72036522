package via

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
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
	proxyContract = common.HexToAddress("0x3335733c454805df6a77f825f266e136FB4a3333")
	routerTarget  = common.HexToAddress("0x7D26F09d4e2d032Efa0729fC31a4c2Db8a2394b1")
	integrator    = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

// apiFixture is the scripted Via API: routes pages, per-page routes, tx
// builds and token prices.
type apiFixture struct {
	pages      int
	routes     map[int][]map[string]interface{}
	txTarget   string
	pricesDown bool

	buildCalls    int32
	lastBuildFrom atomic.Value
}

func (f *apiFixture) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case strings.HasSuffix(r.URL.Path, "/api/v2/routes/pages"):
			_ = json.NewEncoder(w).Encode(map[string]int{"pages": f.pages})

		case strings.HasSuffix(r.URL.Path, "/api/v2/routes"):
			offset, _ := json.Number(q.Get("offset")).Int64()
			routes, ok := f.routes[int(offset)]
			if !ok {
				http.NotFound(w, r)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"routes": routes})

		case strings.HasSuffix(r.URL.Path, "/api/v2/send/tx/build"):
			atomic.AddInt32(&f.buildCalls, 1)
			f.lastBuildFrom.Store(q.Get("fromAddress"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"to":    f.txTarget,
				"data":  "0xabcdef",
				"value": "0",
			})

		case strings.HasSuffix(r.URL.Path, "/v1/token_price"):
			if f.pricesDown {
				http.NotFound(w, r)
				return
			}
			chain := q.Get("chain")
			byAddress := make(map[string]map[string]float64)
			for _, address := range strings.Split(q.Get("tokens_addresses"), ",") {
				price := 1.0
				if chain == "1" && address == chains.EmptyAddress.Hex() {
					price = 2000
				}
				byAddress[address] = map[string]float64{"USD": price}
			}
			_ = json.NewEncoder(w).Encode(map[string]interface{}{chain: byAddress})

		default:
			http.NotFound(w, r)
		}
	}
}

func stargateRoute(id, out string, feeWei string) map[string]interface{} {
	route := map[string]interface{}{
		"routeId":       id,
		"toTokenAmount": json.Number(out),
		"slippage":      1.0,
	}
	action := map[string]interface{}{
		"steps": []map[string]interface{}{
			{"tool": map[string]string{"name": "Stargate", "type": "cross"}},
		},
	}
	if feeWei != "" {
		action["additionalProviderFee"] = map[string]interface{}{
			"amount": json.Number(feeWei),
			"token":  map[string]string{"symbol": "ETH"},
		}
	}
	route["actions"] = []map[string]interface{}{action}
	return route
}

func newViaProvider(t *testing.T, public *mock.MockPublic, serverURL string) *Provider {
	t.Helper()
	clients := trade.Clients{Public: public, Logger: zap.NewNop()}
	client := httpclient.New(5*time.Second, zap.NewNop())
	contracts := map[chains.Blockchain]common.Address{chains.Ethereum: proxyContract}
	return NewProvider(clients, client, contracts, serverURL, serverURL+"/v1/token_price", "test-key")
}

func expectWhitelist(public *mock.MockPublic, routers ...common.Address) {
	public.EXPECT().
		CallContractMethod(gomock.Any(), proxyContract, gomock.Any(), "getAvailableRouters").
		Return([]interface{}{routers}, nil)
}

func expectFeeInfo(public *mock.MockPublic) {
	public.EXPECT().
		CallContractMethod(gomock.Any(), proxyContract, gomock.Any(), "fixedNativeFee").
		Return([]interface{}{new(big.Int)}, nil)
	public.EXPECT().
		CallContractMethod(gomock.Any(), proxyContract, gomock.Any(), "integratorFee", integrator).
		Return([]interface{}{big.NewInt(1000)}, nil)
}

func TestCalculate(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixture := &apiFixture{
		pages: 2,
		routes: map[int][]map[string]interface{}{
			// Page 2 is missing and must be skipped, not fatal.
			1: {stargateRoute("r1", "995000000", "5000000000000000")},
		},
		txTarget: routerTarget.Hex(),
	}
	server := httptest.NewServer(fixture.handler())
	defer server.Close()

	public := mock.NewMockPublic(ctrl)
	expectWhitelist(public, routerTarget)
	expectFeeInfo(public)

	provider := newViaProvider(t, public, server.URL)
	from := tokens.NewTokenAmountFromDecimal(usdcEthereum, decimal.NewFromInt(1000))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{ProviderAddress: integrator})
	require.NoError(t, result.Err)
	require.Equal(t, trade.TypeVia, result.TradeType)

	require.Equal(t, "995", result.Trade.To.Amount().String())
	require.True(t, result.Trade.SlippageTolerance.Equal(decimal.RequireFromString("0.01")))
	require.Equal(t, "985.05", result.Trade.ToTokenAmountMin.String())
	require.Equal(t, proxyContract, result.Trade.ContractAddress)
	require.True(t, result.Trade.FeeInfo.PlatformFee.Percent.Equal(decimal.RequireFromString("0.001")))
	require.Equal(t, "0.005", result.Trade.FeeInfo.CryptoFee.Amount.String())
	require.Equal(t, "ETH", result.Trade.FeeInfo.CryptoFee.TokenSymbol)
	// Prices resolved through the explorer endpoint land on the trade legs,
	// so downstream USD comparison and price impact work.
	require.True(t, result.Trade.CryptoFeeToken.Price.Equal(decimal.NewFromInt(2000)))
	require.True(t, result.Trade.From.Price.Equal(decimal.NewFromInt(1)))
	require.True(t, result.Trade.To.Price.Equal(decimal.NewFromInt(1)))
	require.True(t, result.Trade.PriceImpact.Equal(decimal.RequireFromString("0.5")))

	// One build per surviving route during the whitelist probe.
	require.EqualValues(t, 1, atomic.LoadInt32(&fixture.buildCalls))

	sender := "0x05050505050505050505050505050505050505aa"
	req, err := result.Trade.Encode(context.Background(), trade.EncodeOptions{FromAddress: sender})
	require.NoError(t, err)
	require.Equal(t, routerTarget, req.To)
	require.Equal(t, common.FromHex("0xabcdef"), req.Data)
	require.Equal(t, int64(0), req.Value.Int64())
	require.EqualValues(t, 2, atomic.LoadInt32(&fixture.buildCalls))
	require.Equal(t, sender, fixture.lastBuildFrom.Load())
}

func TestCalculateNothingWhitelisted(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixture := &apiFixture{
		pages: 1,
		routes: map[int][]map[string]interface{}{
			1: {stargateRoute("r1", "995000000", "")},
		},
		// The built transaction targets a router outside the whitelist.
		txTarget: "0x9999999999999999999999999999999999999999",
	}
	server := httptest.NewServer(fixture.handler())
	defer server.Close()

	public := mock.NewMockPublic(ctrl)
	expectWhitelist(public, routerTarget)

	provider := newViaProvider(t, public, server.URL)
	from := tokens.NewTokenAmountFromDecimal(usdcEthereum, decimal.NewFromInt(1000))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{ProviderAddress: integrator})
	require.ErrorIs(t, result.Err, sdkerrors.ErrNotSupportedTokens)
	require.Nil(t, result.Trade)
}

func TestCalculatePriceLookupFallback(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixture := &apiFixture{
		pages: 1,
		routes: map[int][]map[string]interface{}{
			1: {stargateRoute("r1", "990000000", "")},
		},
		txTarget:   routerTarget.Hex(),
		pricesDown: true,
	}
	server := httptest.NewServer(fixture.handler())
	defer server.Close()

	public := mock.NewMockPublic(ctrl)
	expectWhitelist(public, routerTarget)
	expectFeeInfo(public)

	provider := newViaProvider(t, public, server.URL)

	fromToken := usdcEthereum
	fromToken.Price = decimal.RequireFromString("1.5")
	from := tokens.NewTokenAmountFromDecimal(fromToken, decimal.NewFromInt(1000))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{ProviderAddress: integrator})
	require.NoError(t, result.Err)
	require.Equal(t, "990", result.Trade.To.Amount().String())
	// Explorer unreachable: the caller-known prices stand, the native price
	// stays unknown and the route carries no crypto fee.
	require.True(t, result.Trade.CryptoFeeToken.Price.IsZero())
	require.Nil(t, result.Trade.FeeInfo.CryptoFee)
	require.True(t, result.Trade.From.Price.Equal(decimal.RequireFromString("1.5")))
	require.True(t, result.Trade.To.Price.IsZero())
}

func TestCalculateBadPages(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fixture := &apiFixture{pages: 0}
	server := httptest.NewServer(fixture.handler())
	defer server.Close()

	public := mock.NewMockPublic(ctrl)
	provider := newViaProvider(t, public, server.URL)
	from := tokens.NewTokenAmountFromDecimal(usdcEthereum, decimal.NewFromInt(1))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{})
	require.ErrorIs(t, result.Err, sdkerrors.ErrUnknown)
}

func TestCalculateUnsupportedBlockchain(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No HTTP server and no contract reads: the check precedes any request.
	public := mock.NewMockPublic(ctrl)
	provider := newViaProvider(t, public, "http://127.0.0.1:0")

	from := tokens.NewTokenAmountFromDecimal(tokens.Token{
		Blockchain: chains.Blockchain("SOLANA"),
		Symbol:     "USDC",
		Decimals:   6,
	}, decimal.NewFromInt(1))

	result := provider.Calculate(context.Background(), from, usdcPolygon, providers.Options{})
	require.ErrorIs(t, result.Err, sdkerrors.ErrNotSupportedTokens)
}
