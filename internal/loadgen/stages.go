package loadgen

import (
	"math"
	"time"
)

// Stage holds Target concurrent virtual users for Duration.
type Stage struct {
	Duration time.Duration `json:"duration"`
	Target   int           `json:"target"`
}

// GenerateStages samples baseline + amplitude*sin(2πt/period) at every interval
// start within total. Targets are rounded and never negative.
func GenerateStages(total, interval time.Duration, baseline, amplitude float64, period time.Duration) []Stage {
	if interval <= 0 || total < interval {
		return []Stage{}
	}

	numIntervals := int(total / interval)
	stages := make([]Stage, 0, numIntervals)
	for i := 0; i < numIntervals; i++ {
		value := baseline
		if period > 0 {
			t := (time.Duration(i) * interval).Seconds()
			value += amplitude * math.Sin(2*math.Pi/period.Seconds()*t)
		}
		target := int(roundHalfUp(value))
		if target < 0 {
			target = 0
		}
		stages = append(stages, Stage{Duration: interval, Target: target})
	}
	return stages
}

// TotalDuration sums the stage durations.
func TotalDuration(stages []Stage) time.Duration {
	var d time.Duration
	for _, s := range stages {
		d += s.Duration
	}
	return d
}

// roundHalfUp rounds .5 toward positive infinity.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
