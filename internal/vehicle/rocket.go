package vehicle

import "fmt"

// Rocket is an ordered sequence of stages, bottom stage first. The order is
// physically significant but does not affect the total: each stage's delta-v
// is computed independently and summed, with no staged mass-shedding
// correction between stages.
type Rocket struct {
	Stages []Stage
}

// TotalDeltaV returns the sum of every stage's delta-v in stage order.
// A rocket with no stages has total delta-v zero. Any stage error is wrapped
// with its index and returned immediately.
func (r Rocket) TotalDeltaV() (float64, error) {
	var total float64
	for i, s := range r.Stages {
		dv, err := s.DeltaV()
		if err != nil {
			return 0, fmt.Errorf("stage %d: %w", i, err)
		}
		total += dv
	}
	return total, nil
}
