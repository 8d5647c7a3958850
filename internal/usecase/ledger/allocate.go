package ledger

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// centPlaces is the precision payable shares are rounded to
const centPlaces = 2

// AllocateSpend splits totalSpend across members in proportion to their weights (meal counts).
// Returns a map of member ID to allocated share
// Logic:
//  1. Sort members by weight (Higher = First), ties broken by ID for determinism
//  2. Give each member floor(total * weight / totalWeight) to the cent
//  3. Hand the leftover cents to the heaviest member
//
// Safety: Ensures total allocation equals totalSpend exactly (no penny lost)
func AllocateSpend(totalSpend decimal.Decimal, weights map[uuid.UUID]int) (map[uuid.UUID]decimal.Decimal, error) {
	if totalSpend.IsNegative() {
		return nil, errors.New("total spend cannot be negative")
	}

	if len(weights) == 0 {
		return nil, errors.New("weights cannot be empty")
	}

	totalWeight := 0
	for _, w := range weights {
		if w < 0 {
			return nil, errors.New("weights cannot be negative")
		}
		totalWeight += w
	}
	if totalWeight == 0 {
		return nil, errors.New("total weight must be positive")
	}

	members := make([]uuid.UUID, 0, len(weights))
	for id := range weights {
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool {
		wi, wj := weights[members[i]], weights[members[j]]
		if wi != wj {
			return wi > wj
		}
		return members[i].String() < members[j].String()
	})

	allocation := make(map[uuid.UUID]decimal.Decimal, len(members))
	allocated := decimal.Zero
	divisor := decimal.NewFromInt(int64(totalWeight))
	for _, id := range members {
		share := totalSpend.Mul(decimal.NewFromInt(int64(weights[id]))).Div(divisor).RoundFloor(centPlaces)
		allocation[id] = share
		allocated = allocated.Add(share)
	}

	// Assign the rounding residue to the heaviest member
	residue := totalSpend.Sub(allocated)
	allocation[members[0]] = allocation[members[0]].Add(residue)

	// Safety check: Ensure total allocation equals total spend exactly
	totalAllocated := decimal.Zero
	for _, amount := range allocation {
		totalAllocated = totalAllocated.Add(amount)
	}

	if !totalAllocated.Equal(totalSpend) {
		return nil, errors.New("total allocation does not equal total spend")
	}

	return allocation, nil
}

// MealRate returns the spend per meal for a month, rounded to 4 places for display.
// Returns zero when no meals were eaten.
func MealRate(totalSpend decimal.Decimal, totalMeals int) decimal.Decimal {
	if totalMeals <= 0 {
		return decimal.Zero
	}
	return totalSpend.Div(decimal.NewFromInt(int64(totalMeals))).Round(4)
}
