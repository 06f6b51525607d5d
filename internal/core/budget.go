package core

import "github.com/shopspring/decimal"

// BudgetStatus is the result of comparing a period's spend against the
// configured monthly budget and savings goal.
type BudgetStatus struct {
	Active         bool // budget tracking only applies to the this-month period
	OverBudget     bool
	Savings        decimal.Decimal
	SavingsPercent float64 // progress toward the savings goal, clamped to [0, 100]
	GoalReached    bool
}

var oneHundred = decimal.NewFromInt(100)

// EvaluateBudget computes savings and budget signals for the given period
// spend. Budget and goal are monthly settings, so every period other than
// PeriodThisMonth yields an inactive zero status. A zero budget means "not
// set": savings stay at zero and no over-budget signal is raised regardless
// of spend. Callers are expected to clamp negative inputs before calling.
func EvaluateBudget(total, budget, goal decimal.Decimal, period Period) BudgetStatus {
	st := BudgetStatus{Savings: decimal.Zero}
	if period != PeriodThisMonth {
		return st
	}
	st.Active = true
	if budget.IsPositive() {
		st.OverBudget = total.GreaterThan(budget)
		if left := budget.Sub(total); left.IsPositive() {
			st.Savings = left
		}
	}
	if goal.IsPositive() {
		pct, _ := st.Savings.Div(goal).Mul(oneHundred).Float64()
		if pct > 100 {
			pct = 100
		}
		st.SavingsPercent = pct
		st.GoalReached = st.Savings.GreaterThanOrEqual(goal)
	}
	return st
}
