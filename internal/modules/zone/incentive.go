// README: Incentive feedback; projects saturation snapshots onto price bonus multipliers.
package zone

import "commute/internal/types"

// Incentive closes the loop between occupancy and price. It only ever reads
// snapshots, so pricing pulls the latest state without touching the
// assignment pipeline.
type Incentive struct {
	monitor *Monitor
	table   Incentives
}

func NewIncentive(monitor *Monitor, table Incentives) *Incentive {
	return &Incentive{monitor: monitor, table: table}
}

// BonusMultiplierFor returns the price multiplier for trips starting in the
// zone, always >= 1. Unknown zones read as neutral so a quote for an
// unzoned origin still succeeds.
func (i *Incentive) BonusMultiplierFor(zoneID types.ID) float64 {
	snap, err := i.monitor.Get(zoneID)
	if err != nil {
		return 1.0
	}
	mult := i.table.forLevel(snap.Status)
	if mult < 1.0 {
		return 1.0
	}
	return mult
}
