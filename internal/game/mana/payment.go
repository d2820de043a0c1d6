package mana

// genericOrder is the spend order for generic costs: colorless first so colored
// mana is never wasted while colorless remains, then colors in fixed priority.
var genericOrder = []Symbol{SymbolColorless, SymbolWhite, SymbolBlue, SymbolBlack, SymbolRed, SymbolGreen}

// Pay maps a cost onto a pool and returns the pool left after payment. Three
// passes: colored requirements strictly from the matching color, colorless
// strictly from colorless, then generic in genericOrder. Failures return the
// original pool untouched and an InsufficientError naming the shortfall.
func Pay(pool Pool, cost Cost) (Pool, error) {
	paid := pool

	for _, color := range Colors {
		need := cost.Colored(color)
		if need == 0 {
			continue
		}
		next, err := paid.WithSpent(color, need)
		if err != nil {
			return pool, err
		}
		paid = next
	}

	if cost.Colorless > 0 {
		next, err := paid.WithSpent(SymbolColorless, cost.Colorless)
		if err != nil {
			return pool, err
		}
		paid = next
	}

	remaining := cost.Generic
	for _, symbol := range genericOrder {
		if remaining == 0 {
			break
		}
		available := paid.Amount(symbol)
		if available == 0 {
			continue
		}
		spend := remaining
		if spend > available {
			spend = available
		}
		next, err := paid.WithSpent(symbol, spend)
		if err != nil {
			return pool, err
		}
		paid = next
		remaining -= spend
	}
	if remaining > 0 {
		return pool, &InsufficientError{Need: cost.Generic, Have: cost.Generic - remaining}
	}

	return paid, nil
}

// CanPay reports whether the pool covers the cost. Pools are values, so the
// attempt mutates nothing the caller holds.
func CanPay(pool Pool, cost Cost) bool {
	_, err := Pay(pool, cost)
	return err == nil
}
