// internal/engine/benchmark/benchmark.go
package benchmark

import (
	"math"
	"sort"

	"greenmatch/internal/models"
)

// MinSampleSize is the smallest reference sample for which quartiles are
// meaningful. Below it no benchmark is emitted at all.
const MinSampleSize = 4

// Compute positions yourValue within a reference sample of peer metric
// values. Quartiles use the nearest-rank method (the sample value at
// round(q*(n-1)), no interpolation), which tolerates the small comparable
// pools this platform actually has.
func Compute(metric string, yourValue float64, sample []float64, unit string) (models.BenchmarkData, bool) {
	if len(sample) < MinSampleSize {
		return models.BenchmarkData{}, false
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	return models.BenchmarkData{
		Metric:     metric,
		YourValue:  yourValue,
		P25:        quartile(sorted, 0.25),
		P50:        quartile(sorted, 0.50),
		P75:        quartile(sorted, 0.75),
		Percentile: Percentile(yourValue, sorted),
		Unit:       unit,
	}, true
}

// quartile is the nearest-rank sample value for quantile q over an
// ascending-sorted sample. For a sample of four, q=0.25/0.50/0.75 land on
// indices 1, 2 and 2.
func quartile(sorted []float64, q float64) float64 {
	idx := int(math.Round(q * float64(len(sorted)-1)))
	return sorted[idx]
}

// Percentile is the rank-based position of value within an ascending-sorted
// sample: the share of sample entries strictly below the first entry >= value.
// Values at or below the minimum rank 0; values above every entry rank 100.
func Percentile(value float64, sorted []float64) int {
	idx := -1
	for i, s := range sorted {
		if s >= value {
			idx = i
			break
		}
	}

	if idx < 0 {
		return 100
	}
	if idx == 0 {
		return 0
	}
	return int(math.Round(float64(idx) / float64(len(sorted)) * 100))
}
