package ranking

import (
	"math"
	"sort"

	"github.com/okian/worthboard/internal/domain/model"
)

const centsPerUnit = 100

// floorEpsilon absorbs float error so that e.g. 3333.0000000001 - 1e-12
// still floors to 3333 rather than 3332.
const floorEpsilon = 1e-7

// WholeCents reports whether amount has at most two decimal places, the
// precision Apportion pays out in.
func WholeCents(amount float64) bool {
	c := amount * centsPerUnit
	return math.Abs(c-math.Round(c)) < floorEpsilon*centsPerUnit
}

// Apportion splits amount across ranked people in proportion to their
// WorthPercentage. Each payment is first floored to whole cents; the
// cents left over go one at a time to the people with the largest
// fractional remainder, ties in rank order. The rounded payments sum to
// amount exactly when amount has at most two decimals. A zero amount
// returns nil: there is nothing to apportion.
func Apportion(people []model.PersonWorth, amount float64) []model.Payout {
	if amount <= 0 || len(people) == 0 {
		return nil
	}
	totalCents := int64(math.Round(amount * centsPerUnit))

	var pctSum float64
	for _, p := range people {
		pctSum += p.WorthPercentage
	}

	out := make([]model.Payout, len(people))
	cents := make([]int64, len(people))
	remainders := make([]float64, len(people))
	var assigned int64
	for i, p := range people {
		share := 0.0
		if pctSum > 0 {
			// Percentages may not sum to exactly 100.
			share = p.WorthPercentage / pctSum
		}
		rawCents := share * float64(totalCents)
		floored := int64(math.Floor(rawCents + floorEpsilon))
		if floored < 0 {
			floored = 0
		}
		cents[i] = floored
		remainders[i] = rawCents - float64(floored)
		assigned += floored
		out[i] = model.Payout{
			PersonWorth: p,
			RawPayment:  p.WorthPercentage / 100 * amount,
		}
	}

	distribute(cents, remainders, totalCents-assigned)

	for i := range out {
		out[i].RoundedPayment = float64(cents[i]) / centsPerUnit
	}
	return out
}

// distribute adds (or, for a negative shortfall, removes) one cent at a
// time following the remainder order. It cycles if the shortfall exceeds
// the number of rows, which only happens when every share is zero.
func distribute(cents []int64, remainders []float64, shortfall int64) {
	if shortfall == 0 || len(cents) == 0 {
		return
	}
	order := make([]int, len(cents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})

	if shortfall > 0 {
		for k := int64(0); k < shortfall; k++ {
			cents[order[int(k%int64(len(order)))]]++
		}
		return
	}
	// Over-assignment: take back from the smallest remainders, never
	// pushing a payment below zero.
	for k := len(order) - 1; shortfall < 0; k-- {
		if k < 0 {
			k = len(order) - 1
		}
		if cents[order[k]] > 0 {
			cents[order[k]]--
			shortfall++
		}
	}
}
