package uniswapv2

import (
	"math/big"
	"sync"
)

var (
	// Uniswap V2 swap fee: 0.3% (997/1000).
	feeMul = big.NewInt(997)
	feeDen = big.NewInt(1000)

	defaultMath = newMathService()
)

type mathTmp struct {
	a *big.Int
	b *big.Int
	c *big.Int
}

type mathService struct {
	pool *sync.Pool
}

func newMathService() *mathService {
	return &mathService{
		pool: &sync.Pool{
			New: func() any {
				return &mathTmp{
					a: new(big.Int),
					b: new(big.Int),
					c: new(big.Int),
				}
			},
		},
	}
}

func (m *mathService) getAmountOutInto(out, amountIn, reserveIn, reserveOut *big.Int) bool {
	if out == nil {
		return false
	}
	if amountIn.Sign() <= 0 || reserveIn.Sign() <= 0 || reserveOut.Sign() <= 0 {
		out.SetInt64(0)
		return false
	}

	t := m.pool.Get().(*mathTmp)

	// ainFee := amountIn * 997.
	t.a.Mul(amountIn, feeMul)

	// num := ainFee * reserveOut.
	t.b.Mul(t.a, reserveOut)

	// den := reserveIn * 1000 + ainFee.
	t.c.Mul(reserveIn, feeDen)
	t.c.Add(t.c, t.a)

	if t.c.Sign() == 0 {
		out.SetInt64(0)
		m.pool.Put(t)
		return false
	}

	out.Quo(t.b, t.c)

	m.pool.Put(t)
	return true
}

// GetAmountOutInto computes the output amount for a given input using the
// Uniswap V2 constant-product formula with the 0.3% fee. It writes the
// result into out and returns ok; out must be non-nil. Temporaries come
// from a pool, so a warm call does not allocate.
func GetAmountOutInto(out, amountIn, reserveIn, reserveOut *big.Int) bool {
	return defaultMath.getAmountOutInto(out, amountIn, reserveIn, reserveOut)
}

// GetAmountOut is the allocating variant of GetAmountOutInto. Returns
// (0, false) when any input is non-positive.
func GetAmountOut(amountIn, reserveIn, reserveOut *big.Int) (*big.Int, bool) {
	out := new(big.Int)
	ok := defaultMath.getAmountOutInto(out, amountIn, reserveIn, reserveOut)
	return out, ok
}
