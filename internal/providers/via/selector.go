package via

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// BestRoute picks the route with the highest net value,
// toTokenPrice*output - nativeTokenPrice*providerFee. When the destination
// token has no known price, raw output amounts are compared instead. Ties
// keep the first-seen route, so the result does not depend on response
// ordering beyond the order routes were discovered in.
func BestRoute(routes []Route, toTokenPrice, nativeTokenPrice decimal.Decimal) (Route, bool) {
	if len(routes) == 0 {
		return Route{}, false
	}

	best := routes[0]
	bestScore := routeScore(best, toTokenPrice, nativeTokenPrice)
	for _, route := range routes[1:] {
		if score := routeScore(route, toTokenPrice, nativeTokenPrice); score.GreaterThan(bestScore) {
			best = route
			bestScore = score
		}
	}
	return best, true
}

func routeScore(route Route, toTokenPrice, nativeTokenPrice decimal.Decimal) decimal.Decimal {
	out := decimalFromNumber(route.ToTokenAmount)
	if toTokenPrice.IsZero() {
		return out
	}
	score := toTokenPrice.Mul(out)
	if fee := providerFeeAmount(route); !fee.IsZero() && !nativeTokenPrice.IsZero() {
		score = score.Sub(nativeTokenPrice.Mul(fee))
	}
	return score
}

func providerFeeAmount(route Route) decimal.Decimal {
	if len(route.Actions) == 0 || route.Actions[0].AdditionalProviderFee == nil {
		return decimal.Zero
	}
	return decimalFromNumber(route.Actions[0].AdditionalProviderFee.Amount)
}

func decimalFromNumber(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// BridgeName extracts the bridge protocol a route settles through: the
// first word of the first cross-type step's tool name, lowercased. Empty
// when the route has no bridge hop.
func BridgeName(route Route) string {
	for _, action := range route.Actions {
		for _, step := range action.Steps {
			if step.Tool.Type == "cross" {
				name := strings.ToLower(step.Tool.Name)
				if i := strings.IndexByte(name, ' '); i >= 0 {
					name = name[:i]
				}
				return name
			}
		}
	}
	return ""
}
