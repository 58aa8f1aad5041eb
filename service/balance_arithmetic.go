package service

import (
	"fmt"

	"qbank/models"
)

// AddToBalance sums the two amounts component-wise and normalizes the result
func AddToBalance(balance, amount models.Amount) models.Amount {
	return models.Normalize(models.Amount{
		NetheriteBlocks: balance.NetheriteBlocks + amount.NetheriteBlocks,
		NetheriteIngots: balance.NetheriteIngots + amount.NetheriteIngots,
		NetheriteScrap:  balance.NetheriteScrap + amount.NetheriteScrap,
		DiamondBlocks:   balance.DiamondBlocks + amount.DiamondBlocks,
		Diamonds:        balance.Diamonds + amount.Diamonds,
	})
}

// SubtractFromBalance removes amount from balance, borrowing from coarser denominations
// of the same chain when a component runs short. It returns ErrInsufficientFunds when a
// chain is exhausted and never returns a negative component.
func SubtractFromBalance(balance, amount models.Amount) (models.Amount, error) {
	if balance.HasNegative() || amount.HasNegative() {
		return models.Amount{}, fmt.Errorf("%w: cannot subtract %v from %v", models.ErrInvalidAmount, amount.Components(), balance.Components())
	}
	balance = models.Normalize(balance)

	result := models.Amount{
		NetheriteBlocks: balance.NetheriteBlocks - amount.NetheriteBlocks,
		NetheriteIngots: balance.NetheriteIngots - amount.NetheriteIngots,
		NetheriteScrap:  balance.NetheriteScrap - amount.NetheriteScrap,
		DiamondBlocks:   balance.DiamondBlocks - amount.DiamondBlocks,
		Diamonds:        balance.Diamonds - amount.Diamonds,
	}

	// A scrap borrow can leave ingots negative again, so repeat until both hold
	for result.NetheriteBlocks >= 0 && (result.NetheriteIngots < 0 || result.NetheriteScrap < 0) {
		if result.NetheriteIngots < 0 {
			borrow := ceilDiv(-result.NetheriteIngots, models.IngotsPerBlock)
			result.NetheriteBlocks -= borrow
			result.NetheriteIngots += borrow * models.IngotsPerBlock
		}
		if result.NetheriteScrap < 0 {
			borrow := ceilDiv(-result.NetheriteScrap, models.ScrapPerIngot)
			result.NetheriteIngots -= borrow
			result.NetheriteScrap += borrow * models.ScrapPerIngot
		}
	}

	if result.Diamonds < 0 {
		borrow := ceilDiv(-result.Diamonds, models.DiamondsPerBlock)
		result.DiamondBlocks -= borrow
		result.Diamonds += borrow * models.DiamondsPerBlock
	}

	if result.HasNegative() {
		return models.Amount{}, fmt.Errorf("%w: balance %s cannot cover %s", ErrInsufficientFunds, balance, amount)
	}

	return models.Normalize(result), nil
}

// LoanInterest is 2/9 of the principal, rounded up on fractional remainders.
// Ingots and blocks are valued together; the fractional ingot becomes scrap,
// and scrap and the diamond chain are charged separately.
func LoanInterest(principal models.Amount) models.Amount {
	ingots := principal.NetheriteBlocks*models.IngotsPerBlock + principal.NetheriteIngots
	twiceIngots := 2 * ingots

	// remainder/9 of an ingot, rounded up to whole scrap
	remainder := twiceIngots % 9
	scrap := ceilDiv(remainder*models.ScrapPerIngot, 9) + ceilDiv(2*principal.NetheriteScrap, 9)

	diamonds := principal.DiamondBlocks*models.DiamondsPerBlock + principal.Diamonds

	return models.Normalize(models.Amount{
		NetheriteIngots: twiceIngots / 9,
		NetheriteScrap:  scrap,
		Diamonds:        ceilDiv(2*diamonds, 9),
	})
}

// BalanceInterest is the daily savings accrual: 1/18 of an ingot per ingot held paid
// in scrap, and 1/36 of the diamond value, both rounded down.
func BalanceInterest(balance models.Amount) models.Amount {
	ingots := balance.NetheriteBlocks*models.IngotsPerBlock + balance.NetheriteIngots
	diamonds := balance.DiamondBlocks*models.DiamondsPerBlock + balance.Diamonds

	return models.Normalize(models.Amount{
		NetheriteScrap: (4*ingots + balance.NetheriteScrap) / 72,
		Diamonds:       diamonds / 36,
	})
}

// SumAmounts adds every amount into one normalized total
func SumAmounts(amounts ...models.Amount) models.Amount {
	var total models.Amount
	for _, a := range amounts {
		total = AddToBalance(total, a)
	}
	return total
}

func ceilDiv(n, d int64) int64 {
	return (n + d - 1) / d
}
