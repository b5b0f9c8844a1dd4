package model

// Balance labels a day's net energy. The values appear verbatim in CSV and
// JSON output.
type Balance string

const (
	BalanceSurplus Balance = "SURPLUS"
	BalanceNeutral Balance = "NEUTRAL"
	BalanceDeficit Balance = "DEFICIT"
)

func BalanceFromNetWh(netWh float64) Balance {
	switch {
	case netWh > 0:
		return BalanceSurplus
	case netWh < 0:
		return BalanceDeficit
	default:
		return BalanceNeutral
	}
}
