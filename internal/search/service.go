package search

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/internal/establishments"
	"github.com/rai252/Cliniify-marketplaces/internal/observability/metrics"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

var searchTracer = otel.Tracer("cliniify/search")

// DoctorSearcher is the slice of doctors.Repository the aggregator uses.
type DoctorSearcher interface {
	SearchVerified(ctx context.Context, query, location string) ([]*doctors.Doctor, error)
	SuggestNames(ctx context.Context, term string) ([]string, error)
	SuggestSpecializations(ctx context.Context, term string) ([]string, error)
}

// EstablishmentSearcher is the slice of establishments.Repository the
// aggregator uses.
type EstablishmentSearcher interface {
	Search(ctx context.Context, query, location string) ([]*establishments.Establishment, error)
	DoctorIDs(ctx context.Context, establishmentID string) ([]string, error)
	SuggestNames(ctx context.Context, term string) ([]string, error)
	SuggestCategories(ctx context.Context, term string) ([]string, error)
}

// RatingSource answers rating aggregates; feedback.Repository satisfies
// it.
type RatingSource interface {
	AveragesForDoctors(ctx context.Context, doctorIDs []string) (map[string]float64, error)
}

// Service combines doctors and establishments matching a query and
// location filter into one rating-sorted result list.
type Service struct {
	doctors        DoctorSearcher
	establishments EstablishmentSearcher
	ratings        RatingSource
	cache          *Cache
	metrics        *metrics.SearchMetrics
	logger         *logging.Logger
}

func NewService(docs DoctorSearcher, ests EstablishmentSearcher, ratings RatingSource, cache *Cache, m *metrics.SearchMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		doctors:        docs,
		establishments: ests,
		ratings:        ratings,
		cache:          cache,
		metrics:        m,
		logger:         logger,
	}
}

// Search filters doctors and establishments per location token, unions
// and de-duplicates the matches, attaches average ratings, and returns
// the combined list sorted descending by rating. Ties keep discovery
// order. The ranking is a plain unweighted mean, chosen over weighted
// or time-decayed scores to keep the ordering explainable to clinics.
func (s *Service) Search(ctx context.Context, query string, locations []string) ([]Result, error) {
	ctx, span := searchTracer.Start(ctx, "search.query")
	defer span.End()
	span.SetAttributes(attribute.String("query", query), attribute.Int("locations", len(locations)))

	started := time.Now()
	defer func() {
		s.metrics.ObserveLatency(time.Since(started).Seconds())
	}()

	if cached, ok := s.cache.GetResults(ctx, query, locations); ok {
		s.metrics.ObserveQuery("search", true)
		return cached, nil
	}
	s.metrics.ObserveQuery("search", false)

	var (
		results []Result
		seen    = make(map[string]struct{})
	)
	for _, location := range locations {
		docs, err := s.doctors.SearchVerified(ctx, query, location)
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			appendResult(&results, seen, Result{Kind: KindDoctor, Doctor: d})
		}

		ests, err := s.establishments.Search(ctx, query, location)
		if err != nil {
			return nil, err
		}
		for _, e := range ests {
			appendResult(&results, seen, Result{Kind: KindEstablishment, Establishment: e})
		}
	}

	if err := s.attachRatings(ctx, results); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AverageRating > results[j].AverageRating
	})

	s.cache.SetResults(ctx, query, locations, results)
	return results, nil
}

func appendResult(results *[]Result, seen map[string]struct{}, r Result) {
	id := r.ID()
	if _, ok := seen[id]; ok {
		return
	}
	seen[id] = struct{}{}
	*results = append(*results, r)
}

// attachRatings computes each result's average rating. A doctor's
// rating is the mean over their own feedback. An establishment's is the
// unweighted mean over its doctors that have at least one rating;
// unrated doctors contribute nothing and an establishment with no rated
// doctors degrades to zero rather than failing the search.
func (s *Service) attachRatings(ctx context.Context, results []Result) error {
	var doctorIDs []string
	for _, r := range results {
		if r.Kind == KindDoctor {
			doctorIDs = append(doctorIDs, r.Doctor.ID)
		}
	}

	doctorAvgs := map[string]float64{}
	if len(doctorIDs) > 0 {
		avgs, err := s.ratings.AveragesForDoctors(ctx, doctorIDs)
		if err != nil {
			return err
		}
		doctorAvgs = avgs
	}

	for i := range results {
		switch results[i].Kind {
		case KindDoctor:
			results[i].AverageRating = doctorAvgs[results[i].Doctor.ID]
		case KindEstablishment:
			results[i].AverageRating = s.establishmentRating(ctx, results[i].Establishment.ID)
		}
	}
	return nil
}

func (s *Service) establishmentRating(ctx context.Context, establishmentID string) float64 {
	staffIDs, err := s.establishments.DoctorIDs(ctx, establishmentID)
	if err != nil {
		s.logger.Warn("failed to load establishment staff for rating",
			"error", err, "establishment_id", establishmentID)
		return 0
	}
	if len(staffIDs) == 0 {
		return 0
	}

	avgs, err := s.ratings.AveragesForDoctors(ctx, staffIDs)
	if err != nil {
		s.logger.Warn("failed to load staff ratings",
			"error", err, "establishment_id", establishmentID)
		return 0
	}
	if len(avgs) == 0 {
		return 0
	}

	var sum float64
	for _, avg := range avgs {
		sum += avg
	}
	return sum / float64(len(avgs))
}

// Suggest runs independent substring matches of term against doctor
// names, specializations, establishment names and categories. Matches
// are unranked, each tagged with its category.
func (s *Service) Suggest(ctx context.Context, term string) ([]Suggestion, error) {
	ctx, span := searchTracer.Start(ctx, "search.suggest")
	defer span.End()

	s.metrics.ObserveQuery("suggest", false)

	suggestions := []Suggestion{}

	names, err := s.doctors.SuggestNames(ctx, term)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		suggestions = append(suggestions, Suggestion{Category: CategoryDoctor, Value: name})
	}

	specs, err := s.doctors.SuggestSpecializations(ctx, term)
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		suggestions = append(suggestions, Suggestion{Category: CategorySpecialization, Value: spec})
	}

	estNames, err := s.establishments.SuggestNames(ctx, term)
	if err != nil {
		return nil, err
	}
	for _, name := range estNames {
		suggestions = append(suggestions, Suggestion{Category: CategoryEstablishment, Value: name})
	}

	categories, err := s.establishments.SuggestCategories(ctx, term)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		suggestions = append(suggestions, Suggestion{Category: CategoryType, Value: category})
	}

	return suggestions, nil
}
