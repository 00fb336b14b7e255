package search

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rai252/Cliniify-marketplaces/internal/doctors"
	"github.com/rai252/Cliniify-marketplaces/pkg/logging"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, time.Minute, logging.Default()), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	results := []Result{{
		Kind:          KindDoctor,
		AverageRating: 4.5,
		Doctor:        &doctors.Doctor{ID: "doc-1", FullName: "Meera Kulkarni"},
	}}
	cache.SetResults(ctx, "cardiology", []string{"Pune"}, results)

	got, ok := cache.GetResults(ctx, "cardiology", []string{"Pune"})
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].Doctor.ID != "doc-1" || got[0].AverageRating != 4.5 {
		t.Fatalf("got = %+v", got)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	if _, ok := cache.GetResults(context.Background(), "cardiology", []string{"Pune"}); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheKeyDistinguishesLocations(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.SetResults(ctx, "cardiology", []string{"Pune"}, []Result{})

	if _, ok := cache.GetResults(ctx, "cardiology", []string{"Delhi"}); ok {
		t.Fatal("different locations must not share a cache entry")
	}
}

func TestCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.SetResults(ctx, "cardiology", []string{"Pune"}, []Result{})
	mr.FastForward(2 * time.Minute)

	if _, ok := cache.GetResults(ctx, "cardiology", []string{"Pune"}); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *Cache

	cache.SetResults(context.Background(), "q", []string{"loc"}, []Result{})
	if _, ok := cache.GetResults(context.Background(), "q", []string{"loc"}); ok {
		t.Fatal("nil cache must always miss")
	}
}
