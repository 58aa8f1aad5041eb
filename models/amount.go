package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Conversion rates inside each denomination chain
const (
	ScrapPerIngot    int64 = 4
	IngotsPerBlock   int64 = 9
	DiamondsPerBlock int64 = 9

	// MaxParsedComponent bounds a single parsed component so sums stay far from int64 overflow
	MaxParsedComponent int64 = 1_000_000_000_000
)

// ErrInvalidAmount is returned when an amount has a negative component or cannot be parsed
var ErrInvalidAmount = errors.New("invalid amount")

// Denomination suffixes, coarsest first. Order matches the Amount fields.
var Suffixes = [5]string{"nb", "ni", "ns", "db", "d"}

// Amount is a currency holding split over the five denominations.
// The netherite chain (blocks, ingots, scrap) and the diamond chain (blocks, diamonds)
// never convert into each other.
type Amount struct {
	NetheriteBlocks int64 `db:"netherite_blocks" json:"nb"`
	NetheriteIngots int64 `db:"netherite_ingots" json:"ni"`
	NetheriteScrap  int64 `db:"netherite_scrap" json:"ns"`
	DiamondBlocks   int64 `db:"diamond_blocks" json:"db"`
	Diamonds        int64 `db:"diamonds" json:"d"`
}

// NewAmount builds an Amount, rejecting negative components
func NewAmount(nb, ni, ns, db, d int64) (Amount, error) {
	a := Amount{NetheriteBlocks: nb, NetheriteIngots: ni, NetheriteScrap: ns, DiamondBlocks: db, Diamonds: d}
	if a.HasNegative() {
		return Amount{}, fmt.Errorf("%w: components must be non-negative, got %v", ErrInvalidAmount, a.Components())
	}
	return a, nil
}

// AmountFromComponents builds an Amount from components ordered nb, ni, ns, db, d
func AmountFromComponents(c [5]int64) Amount {
	return Amount{
		NetheriteBlocks: c[0],
		NetheriteIngots: c[1],
		NetheriteScrap:  c[2],
		DiamondBlocks:   c[3],
		Diamonds:        c[4],
	}
}

// Components returns the amount as nb, ni, ns, db, d
func (a Amount) Components() [5]int64 {
	return [5]int64{a.NetheriteBlocks, a.NetheriteIngots, a.NetheriteScrap, a.DiamondBlocks, a.Diamonds}
}

// IsZero reports whether every component is zero
func (a Amount) IsZero() bool {
	return a == Amount{}
}

// HasNegative reports whether any component is below zero
func (a Amount) HasNegative() bool {
	for _, c := range a.Components() {
		if c < 0 {
			return true
		}
	}
	return false
}

// IsNormalized reports whether the amount is in canonical form
func (a Amount) IsNormalized() bool {
	return !a.HasNegative() &&
		a.NetheriteScrap < ScrapPerIngot &&
		a.NetheriteIngots < IngotsPerBlock &&
		a.Diamonds < DiamondsPerBlock
}

// ScrapValue is the netherite chain expressed in scrap
func (a Amount) ScrapValue() int64 {
	return (a.NetheriteBlocks*IngotsPerBlock+a.NetheriteIngots)*ScrapPerIngot + a.NetheriteScrap
}

// DiamondValue is the diamond chain expressed in diamonds
func (a Amount) DiamondValue() int64 {
	return a.DiamondBlocks*DiamondsPerBlock + a.Diamonds
}

// Normalize carries every component that reached its conversion rate into the next
// coarser denomination: diamonds first, then scrap into ingots, then ingots into blocks.
// Components must be non-negative.
func Normalize(a Amount) Amount {
	a.DiamondBlocks += a.Diamonds / DiamondsPerBlock
	a.Diamonds %= DiamondsPerBlock

	a.NetheriteIngots += a.NetheriteScrap / ScrapPerIngot
	a.NetheriteScrap %= ScrapPerIngot

	a.NetheriteBlocks += a.NetheriteIngots / IngotsPerBlock
	a.NetheriteIngots %= IngotsPerBlock

	return a
}

// String renders the non-zero components with their suffixes, e.g. "10nb, 5ni, 2d"
func (a Amount) String() string {
	var parts []string
	for i, c := range a.Components() {
		if c != 0 {
			parts = append(parts, strconv.FormatInt(c, 10)+Suffixes[i])
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, ", ")
}

// ParseAmount sums suffixed tokens such as "10nb 5ni 1ns 5db 2d".
// Repeated suffixes add up; denominations left out are zero. The result is not normalized.
func ParseAmount(tokens ...string) (Amount, error) {
	var c [5]int64
	parsed := 0
	for _, token := range tokens {
		for _, field := range strings.FieldsFunc(token, func(r rune) bool { return r == ' ' || r == ',' }) {
			idx, value, err := parseToken(strings.ToLower(field))
			if err != nil {
				return Amount{}, err
			}
			c[idx] += value
			if c[idx] > MaxParsedComponent {
				return Amount{}, fmt.Errorf("%w: %s exceeds %d", ErrInvalidAmount, Suffixes[idx], MaxParsedComponent)
			}
			parsed++
		}
	}
	if parsed == 0 {
		return Amount{}, fmt.Errorf("%w: no denominations given", ErrInvalidAmount)
	}
	return AmountFromComponents(c), nil
}

func parseToken(token string) (int, int64, error) {
	// two-letter suffixes first so "5db" is not read as diamonds
	for idx, suffix := range Suffixes {
		if !strings.HasSuffix(token, suffix) {
			continue
		}
		number := strings.TrimSuffix(token, suffix)
		value, err := strconv.ParseInt(number, 10, 64)
		if err != nil || value < 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidAmount, token)
		}
		if value > MaxParsedComponent {
			return 0, 0, fmt.Errorf("%w: %q exceeds %d", ErrInvalidAmount, token, MaxParsedComponent)
		}
		return idx, value, nil
	}
	return 0, 0, fmt.Errorf("%w: unknown denomination in %q", ErrInvalidAmount, token)
}
