package mana

import (
	"errors"
	"fmt"
)

// Symbol represents one of the six mana symbols.
type Symbol string

const (
	SymbolWhite     Symbol = "W"
	SymbolBlue      Symbol = "U"
	SymbolBlack     Symbol = "B"
	SymbolRed       Symbol = "R"
	SymbolGreen     Symbol = "G"
	SymbolColorless Symbol = "C"
)

// Colors lists the five colors in the fixed priority order used when generic
// costs fall back to colored mana.
var Colors = []Symbol{SymbolWhite, SymbolBlue, SymbolBlack, SymbolRed, SymbolGreen}

// Symbols lists every symbol a pool tracks.
var Symbols = []Symbol{SymbolWhite, SymbolBlue, SymbolBlack, SymbolRed, SymbolGreen, SymbolColorless}

// ErrInvalidAmount is returned when adding or spending a non-positive amount.
var ErrInvalidAmount = errors.New("mana amount must be positive")

// ErrUnknownSymbol is returned for symbols outside the six the pool tracks.
var ErrUnknownSymbol = errors.New("unknown mana symbol")

// InsufficientError reports a shortfall of a specific symbol, or a generic
// shortfall when Symbol is empty.
type InsufficientError struct {
	Symbol Symbol
	Need   int
	Have   int
}

func (e *InsufficientError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("insufficient mana for generic cost: need %d, have %d", e.Need, e.Have)
	}
	return fmt.Sprintf("insufficient {%s} mana: need %d, have %d", e.Symbol, e.Need, e.Have)
}

// Pool is an immutable snapshot of a player's available mana. Mutations return
// a replacement value; the aggregate always holds the latest one.
type Pool struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

// NewPool returns an empty pool.
func NewPool() Pool {
	return Pool{}
}

// Amount returns the count for one symbol.
func (p Pool) Amount(s Symbol) int {
	switch s {
	case SymbolWhite:
		return p.White
	case SymbolBlue:
		return p.Blue
	case SymbolBlack:
		return p.Black
	case SymbolRed:
		return p.Red
	case SymbolGreen:
		return p.Green
	case SymbolColorless:
		return p.Colorless
	default:
		return 0
	}
}

// Total returns the pool's total mana across all symbols.
func (p Pool) Total() int {
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// IsEmpty reports whether the pool holds no mana at all.
func (p Pool) IsEmpty() bool {
	return p.Total() == 0
}

// WithAdded returns a copy with amount more of the symbol. Non-positive
// amounts and unknown symbols are rejected.
func (p Pool) WithAdded(s Symbol, amount int) (Pool, error) {
	if amount <= 0 {
		return p, ErrInvalidAmount
	}
	switch s {
	case SymbolWhite:
		p.White += amount
	case SymbolBlue:
		p.Blue += amount
	case SymbolBlack:
		p.Black += amount
	case SymbolRed:
		p.Red += amount
	case SymbolGreen:
		p.Green += amount
	case SymbolColorless:
		p.Colorless += amount
	default:
		return p, ErrUnknownSymbol
	}
	return p, nil
}

// WithSpent returns a copy with amount less of the symbol, or an
// InsufficientError naming the shortfall.
func (p Pool) WithSpent(s Symbol, amount int) (Pool, error) {
	if amount <= 0 {
		return p, ErrInvalidAmount
	}
	have := p.Amount(s)
	if have < amount {
		return p, &InsufficientError{Symbol: s, Need: amount, Have: have}
	}
	switch s {
	case SymbolWhite:
		p.White -= amount
	case SymbolBlue:
		p.Blue -= amount
	case SymbolBlack:
		p.Black -= amount
	case SymbolRed:
		p.Red -= amount
	case SymbolGreen:
		p.Green -= amount
	case SymbolColorless:
		p.Colorless -= amount
	default:
		return p, ErrUnknownSymbol
	}
	return p, nil
}

func (p Pool) String() string {
	return fmt.Sprintf("W:%d U:%d B:%d R:%d G:%d C:%d",
		p.White, p.Blue, p.Black, p.Red, p.Green, p.Colorless)
}
