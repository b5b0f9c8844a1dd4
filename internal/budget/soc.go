package budget

import "battery-budget/internal/model"

// ProjectSOC walks perDayNet from a full bank and reports the charge level
// after each day as a percentage of usable energy, clamped to [0, 100]. The
// running level itself is not clamped. ok is false when the bank does not
// validate, e.g. no installed capacity or no system voltage.
func ProjectSOC(bank model.BatteryBank, perDayNet []float64) (soc []float64, ok bool) {
	if bank.Validate() != nil {
		return nil, false
	}
	level := bank.UsableWh()
	soc = make([]float64, len(perDayNet))
	for i, net := range perDayNet {
		level += net
		pct, ok := bank.ToPercentage(level)
		if !ok {
			return nil, false
		}
		soc[i] = pct
	}
	return soc, true
}
