package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yasminebennouis/app-reclamations/internal/models"
)

func rec(id int, svc models.Service, st models.Statut, titre string) models.Reclamation {
	return models.Reclamation{
		ID: int64(id), Titre: titre, Service: svc, Statut: st,
		DateCreation: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(id) * time.Minute),
	}
}

func dataset() []models.Reclamation {
	var all []models.Reclamation
	for i := 1; i <= 30; i++ {
		all = append(all, rec(i, models.ServiceIT, models.StatutOuvert, fmt.Sprintf("panne réseau %d", i)))
	}
	for i := 31; i <= 45; i++ {
		all = append(all, rec(i, models.ServiceEquipement, models.StatutEnCours, fmt.Sprintf("chariot %d", i)))
	}
	return all
}

func pageOf(items []models.Reclamation, page, size int) *models.Page {
	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	lo := page * size
	if lo > len(items) {
		lo = len(items)
	}
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return &models.Page{
		Content: items[lo:hi], TotalElements: int64(len(items)),
		TotalPages: totalPages, Number: page, Size: size,
	}
}

func serverSideFilter(all []models.Reclamation, f Filters) []models.Reclamation {
	var out []models.Reclamation
	for _, r := range all {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func workingPrimary(all []models.Reclamation) FetchPage {
	return func(_ context.Context, f Filters, page, size int) (*models.Page, error) {
		return pageOf(serverSideFilter(all, f), page, size), nil
	}
}

func brokenPrimary() FetchPage {
	return func(context.Context, Filters, int, int) (*models.Page, error) {
		return nil, errors.New("404 not found")
	}
}

func fallbackOf(all []models.Reclamation) FetchAll {
	return func(context.Context) ([]models.Reclamation, error) {
		return all, nil
	}
}

func TestPrimaryPaginationAndHasMore(t *testing.T) {
	all := dataset()
	c := NewController(workingPrimary(all), fallbackOf(all), zerolog.Nop())

	src, err := c.Load(context.Background(), true)
	if err != nil || src != SourcePrimary {
		t.Fatalf("load: src=%v err=%v", src, err)
	}
	if len(c.Rows()) != 20 || !c.HasMore() {
		t.Fatalf("page 0: rows=%d hasMore=%v", len(c.Rows()), c.HasMore())
	}

	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 40 || !c.HasMore() {
		t.Fatalf("page 1: rows=%d hasMore=%v", len(c.Rows()), c.HasMore())
	}

	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 45 || c.HasMore() {
		t.Fatalf("page 2: rows=%d hasMore=%v", len(c.Rows()), c.HasMore())
	}
}

func TestFallbackFiltersAndSlicesClientSide(t *testing.T) {
	all := dataset()
	c := NewController(brokenPrimary(), fallbackOf(all), zerolog.Nop())

	it := models.ServiceIT
	src, err := c.ApplyFilters(context.Background(), Filters{Service: &it})
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if src != SourceFallback {
		t.Fatalf("source = %v, want fallback", src)
	}

	rows := c.Rows()
	if len(rows) != 20 {
		t.Fatalf("fallback page 0 size = %d, want 20", len(rows))
	}
	for _, r := range rows {
		if r.Service != models.ServiceIT {
			t.Fatalf("non-IT row leaked through fallback filter: %+v", r)
		}
	}
	if !c.HasMore() {
		t.Fatal("30 IT records at size 20 should leave a second page")
	}

	// Next page drains the remainder.
	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 30 || c.HasMore() {
		t.Fatalf("after page 1: rows=%d hasMore=%v", len(c.Rows()), c.HasMore())
	}
}

func TestBothFilterPathsAgreeOnMembership(t *testing.T) {
	all := dataset()
	f := Filters{Query: "RÉSEAU 1"}

	// Case rules must match on both paths: lowercase needle, lowercase haystack.
	primary := serverSideFilter(all, f)

	c := NewController(brokenPrimary(), fallbackOf(all), zerolog.Nop())
	if _, err := c.ApplyFilters(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	got := c.Rows()
	if len(got) != len(primary) {
		t.Fatalf("membership disagrees: primary %d rows, fallback %d", len(primary), len(got))
	}
}

func TestApplyFiltersDiscardsAccumulation(t *testing.T) {
	all := dataset()
	c := NewController(workingPrimary(all), fallbackOf(all), zerolog.Nop())

	if _, err := c.Load(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 40 {
		t.Fatalf("precondition: %d rows accumulated", len(c.Rows()))
	}

	eq := models.ServiceEquipement
	if _, err := c.ApplyFilters(context.Background(), Filters{Service: &eq}); err != nil {
		t.Fatal(err)
	}
	rows := c.Rows()
	if len(rows) != 15 {
		t.Fatalf("rows after new filter = %d, want 15", len(rows))
	}
	for _, r := range rows {
		if r.Service != models.ServiceEquipement {
			t.Fatalf("stale row from previous filter survived: %+v", r)
		}
	}
}

func TestOverlappingLoadIsNoOp(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	all := dataset()

	blocking := func(_ context.Context, f Filters, page, size int) (*models.Page, error) {
		close(started)
		<-release
		return pageOf(all, page, size), nil
	}
	c := NewController(blocking, fallbackOf(all), zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := c.Load(context.Background(), true); err != nil {
			t.Error(err)
		}
	}()

	<-started
	src, err := c.Load(context.Background(), false)
	if src != SourceNone || err != nil {
		t.Fatalf("overlapping load: src=%v err=%v, want no-op", src, err)
	}

	close(release)
	wg.Wait()
	if len(c.Rows()) != 20 {
		t.Fatalf("first load lost: %d rows", len(c.Rows()))
	}
}

// Two ApplyFilters before the first response resolves: the later
// completion wins, and page/hasMore counters stay consistent. Known race,
// must not corrupt state.
func TestFilterRaceKeepsCountersConsistent(t *testing.T) {
	all := dataset()
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	slowPrimary := func(_ context.Context, f Filters, page, size int) (*models.Page, error) {
		once.Do(func() { close(started) })
		<-release
		return pageOf(serverSideFilter(all, f), page, size), nil
	}
	c := NewController(slowPrimary, fallbackOf(all), zerolog.Nop())

	it := models.ServiceIT
	eq := models.ServiceEquipement

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = c.ApplyFilters(context.Background(), Filters{Service: &it})
	}()

	<-started
	// Second filter application while the first request is outstanding:
	// its Load is a no-op, but filters and accumulation reset now.
	if src, err := c.ApplyFilters(context.Background(), Filters{Service: &eq}); src != SourceNone || err != nil {
		t.Fatalf("second ApplyFilters should no-op the load: src=%v err=%v", src, err)
	}

	close(release)
	wg.Wait()

	// The outstanding response (IT filter) resolved last and won.
	rows := c.Rows()
	for _, r := range rows {
		if r.Service != models.ServiceIT {
			t.Fatalf("mixed-filter rows: %+v", r)
		}
	}
	if len(rows) != 20 {
		t.Fatalf("rows = %d", len(rows))
	}
	if c.Loading() || c.Refreshing() {
		t.Fatal("flags stuck after race")
	}
	if !c.HasMore() {
		t.Fatal("hasMore corrupted: 30 IT rows at size 20 have a second page")
	}
}

func TestRefreshReplacesFromPageZero(t *testing.T) {
	all := dataset()
	c := NewController(workingPrimary(all), fallbackOf(all), zerolog.Nop())

	if _, err := c.Load(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if len(c.Rows()) != 40 {
		t.Fatalf("precondition: %d rows accumulated", len(c.Rows()))
	}

	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	rows := c.Rows()
	if len(rows) != 20 || rows[0].ID != all[0].ID {
		t.Fatalf("refresh did not replace with page 0: %d rows", len(rows))
	}
	if c.Refreshing() {
		t.Fatal("refreshing flag stuck")
	}
	if !c.HasMore() {
		t.Fatal("hasMore lost on refresh")
	}

	// The counter points at page 1 again: the next append continues from
	// the refreshed page 0, not from the pre-refresh position.
	if _, err := c.Load(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if got := c.Rows(); len(got) != 40 || got[20].ID != all[20].ID {
		t.Fatalf("append after refresh: %d rows", len(got))
	}
}

func TestDoubleFailureEndsLoadingWithoutRows(t *testing.T) {
	c := NewController(brokenPrimary(), func(context.Context) ([]models.Reclamation, error) {
		return nil, errors.New("network down")
	}, zerolog.Nop())

	src, err := c.Load(context.Background(), true)
	if src != SourceNone || err == nil {
		t.Fatalf("want terminal failure, got src=%v err=%v", src, err)
	}
	if len(c.Rows()) != 0 || c.Loading() {
		t.Fatalf("state after double failure: rows=%d loading=%v", len(c.Rows()), c.Loading())
	}
}

func TestCloseDiscardsLateResponse(t *testing.T) {
	all := dataset()
	release := make(chan struct{})
	started := make(chan struct{})

	blocking := func(_ context.Context, f Filters, page, size int) (*models.Page, error) {
		close(started)
		<-release
		return pageOf(all, page, size), nil
	}
	c := NewController(blocking, fallbackOf(all), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Load(context.Background(), true)
	}()

	<-started
	c.Close()
	close(release)
	<-done

	if len(c.Rows()) != 0 {
		t.Fatal("response mutated state after teardown")
	}
}

func TestShouldLoadMore(t *testing.T) {
	all := dataset()
	c := NewController(workingPrimary(all), fallbackOf(all), zerolog.Nop())
	if _, err := c.Load(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if c.ShouldLoadMore(0) {
		t.Fatal("trigger fired at the top of the list")
	}
	if !c.ShouldLoadMore(18) {
		t.Fatal("trigger missed near the end of the list")
	}
}
