// Package stats assembles an operational overview of the booking
// system, combining ledger counts from the database with in-process
// Prometheus metrics.
package stats

import (
	"context"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/rai252/Cliniify-marketplaces/internal/appointments"
)

// Overview is the aggregate snapshot served to operators.
type Overview struct {
	TotalAppointments int                         `json:"total_appointments"`
	ByStatus          map[appointments.Status]int `json:"by_status"`
	ConflictsRejected int64                       `json:"conflicts_rejected"`
	SlotGeneration    LatencySnapshot             `json:"slot_generation"`
}

// LatencySnapshot summarizes a histogram.
type LatencySnapshot struct {
	Total   int64           `json:"total"`
	P90Ms   float64         `json:"p90_ms"`
	P95Ms   float64         `json:"p95_ms"`
	Buckets []LatencyBucket `json:"buckets,omitempty"`
}

// LatencyBucket is one cumulative histogram bucket.
type LatencyBucket struct {
	LeSeconds float64 `json:"le_seconds"`
	Count     int64   `json:"count"`
}

type appointmentCounter interface {
	CountsByStatus(ctx context.Context) (map[appointments.Status]int, error)
}

// Service builds overview snapshots.
type Service struct {
	repo     appointmentCounter
	gatherer prometheus.Gatherer
}

func NewService(repo appointmentCounter, gatherer prometheus.Gatherer) *Service {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Service{repo: repo, gatherer: gatherer}
}

// Overview queries the ledger and the metrics registry.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	counts, err := s.repo.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &Overview{
		TotalAppointments: total,
		ByStatus:          counts,
		ConflictsRejected: int64(snapshotCounter(s.gatherer, "cliniify_appointments_conflicts_total")),
		SlotGeneration:    snapshotHistogram(s.gatherer, "cliniify_appointments_slot_generation_seconds"),
	}, nil
}

func snapshotCounter(gatherer prometheus.Gatherer, name string) float64 {
	family := findFamily(gatherer, name)
	if family == nil {
		return 0
	}
	var total float64
	for _, metric := range family.Metric {
		if c := metric.GetCounter(); c != nil {
			total += c.GetValue()
		}
	}
	return total
}

func snapshotHistogram(gatherer prometheus.Gatherer, name string) LatencySnapshot {
	family := findFamily(gatherer, name)
	if family == nil {
		return LatencySnapshot{}
	}

	cumulativeByUpper := map[float64]uint64{}
	var sampleCount uint64
	for _, metric := range family.Metric {
		h := metric.GetHistogram()
		if h == nil {
			continue
		}
		sampleCount += h.GetSampleCount()
		for _, b := range h.Bucket {
			cumulativeByUpper[b.GetUpperBound()] += b.GetCumulativeCount()
		}
	}
	if sampleCount == 0 || len(cumulativeByUpper) == 0 {
		return LatencySnapshot{}
	}

	uppers := make([]float64, 0, len(cumulativeByUpper))
	for upper := range cumulativeByUpper {
		uppers = append(uppers, upper)
	}
	sort.Float64s(uppers)

	snapshot := LatencySnapshot{Total: int64(sampleCount)}
	for _, upper := range uppers {
		snapshot.Buckets = append(snapshot.Buckets, LatencyBucket{
			LeSeconds: upper,
			Count:     int64(cumulativeByUpper[upper]),
		})
	}
	snapshot.P90Ms = percentileMs(uppers, cumulativeByUpper, sampleCount, 0.90)
	snapshot.P95Ms = percentileMs(uppers, cumulativeByUpper, sampleCount, 0.95)
	return snapshot
}

// percentileMs returns the upper bound of the first bucket covering the
// requested quantile, in milliseconds. Bucket resolution bounds the
// precision; that is good enough for a dashboard.
func percentileMs(uppers []float64, cumulative map[float64]uint64, total uint64, q float64) float64 {
	threshold := q * float64(total)
	for _, upper := range uppers {
		if float64(cumulative[upper]) >= threshold {
			return upper * 1000
		}
	}
	if len(uppers) == 0 {
		return 0
	}
	return uppers[len(uppers)-1] * 1000
}

func findFamily(gatherer prometheus.Gatherer, name string) *dto.MetricFamily {
	mfs, err := gatherer.Gather()
	if err != nil {
		return nil
	}
	for _, mf := range mfs {
		if mf != nil && mf.GetName() == name {
			return mf
		}
	}
	return nil
}
