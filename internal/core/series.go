package core

// DefaultNetFlowWindow is the number of days shown by the net-flow chart.
const DefaultNetFlowWindow = 12

// NetFlowPoint is one day of the net-flow series: income minus expenses.
type NetFlowPoint struct {
	Date Date  `json:"date"`
	Net  Money `json:"net"`
}

// NetFlowSeries builds windowDays consecutive calendar days ending at today
// inclusive, oldest first. Days with no transactions keep a zero net;
// transactions outside the window are ignored, not clamped to a boundary.
// The result must be recomputed per call because today is a moving anchor.
func NetFlowSeries(txns []Transaction, today Date, windowDays int) []NetFlowPoint {
	if windowDays <= 0 {
		windowDays = DefaultNetFlowWindow
	}
	points := make([]NetFlowPoint, windowDays)
	index := make(map[string]int, windowDays)
	for i := range points {
		d := today.AddDays(i - windowDays + 1)
		points[i] = NetFlowPoint{Date: d}
		index[d.Key()] = i
	}
	for _, t := range txns {
		i, ok := index[t.Date.Key()]
		if !ok {
			continue
		}
		if t.Type == Income {
			points[i].Net.Cents += t.Amount.Cents
		} else {
			points[i].Net.Cents -= t.Amount.Cents
		}
	}
	return points
}
