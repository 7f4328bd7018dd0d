package analysis

import "math"

// InvestmentMetrics are the headline project-level return figures. IRRs are
// nil when no rate of return exists for the cashflow profile (for example a
// project that never turns cash-positive).
type InvestmentMetrics struct {
	TotalNetCashGBP float64  `json:"total_net_cash_gbp"`
	IRRMonthly      *float64 `json:"irr_monthly"`
	IRRAnnual       *float64 `json:"irr_annual"`
}

// ComputeInvestmentMetrics computes total net cash and IRR for a project.
// netCashflowsGBP are the periodic (monthly) net flows; initialCapexGBP is
// treated as a negative cashflow at t=0 (positive input here). The annual
// IRR compounds the monthly rate: (1+r)^12 - 1.
func ComputeInvestmentMetrics(netCashflowsGBP []float64, initialCapexGBP float64) InvestmentMetrics {
	total := -initialCapexGBP
	for _, cf := range netCashflowsGBP {
		total += cf
	}

	m := InvestmentMetrics{TotalNetCashGBP: total}

	cashflows := make([]float64, 0, len(netCashflowsGBP)+1)
	cashflows = append(cashflows, -initialCapexGBP)
	cashflows = append(cashflows, netCashflowsGBP...)

	if r, ok := irr(cashflows); ok {
		annual := math.Pow(1+r, 12) - 1
		m.IRRMonthly = &r
		m.IRRAnnual = &annual
	}
	return m
}

func npv(rate float64, cashflows []float64) float64 {
	total := 0.0
	for i, cf := range cashflows {
		total += cf / math.Pow(1+rate, float64(i))
	}
	return total
}

// irr finds the periodic rate where NPV crosses zero. It scans for a sign
// change on [-0.9999, 10] and bisects the bracket; conventional profiles
// (one outflow, then inflows) have exactly one root so the scan direction
// never matters for them.
func irr(cashflows []float64) (float64, bool) {
	const (
		lo       = -0.9999
		hi       = 10.0
		scanStep = 0.01
		maxIter  = 200
		tol      = 1e-12
	)

	// A rate of return needs money going both ways.
	hasNeg, hasPos := false, false
	for _, cf := range cashflows {
		if cf < 0 {
			hasNeg = true
		}
		if cf > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, false
	}

	a := lo
	fa := npv(a, cashflows)
	var b float64
	found := false
	for x := lo + scanStep; x <= hi; x += scanStep {
		fx := npv(x, cashflows)
		if math.IsNaN(fx) || math.IsInf(fx, 0) {
			a, fa = x, fx
			continue
		}
		if fa*fx <= 0 && !math.IsNaN(fa) && !math.IsInf(fa, 0) {
			b = x
			found = true
			break
		}
		a, fa = x, fx
	}
	if !found {
		return 0, false
	}

	for i := 0; i < maxIter; i++ {
		mid := (a + b) / 2
		fm := npv(mid, cashflows)
		if math.Abs(fm) < tol || (b-a)/2 < tol {
			return mid, true
		}
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return (a + b) / 2, true
}
