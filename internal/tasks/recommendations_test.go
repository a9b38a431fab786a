package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/wdiw/internal/models"
	"github.com/desertthunder/wdiw/internal/shared"
	tu "github.com/desertthunder/wdiw/internal/testing"
)

func rec(id string, typ models.RecommendationType) models.Recommendation {
	return models.Recommendation{IMDbID: id, Title: id, Type: typ}
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()
	oldBatch := models.Batch{rec("tt1", models.TypeAll), rec("tt2", models.TypeRated)}
	newBatch := models.Batch{rec("tt3", models.TypeAll)}

	t.Run("Enter", func(t *testing.T) {
		t.Run("no identity redirects without calls", func(t *testing.T) {
			svc := &tu.MockService{}
			page, nav, err := NewRecommendations(svc, tu.NewMemoryIdentity(""), quietLogger()).Enter(ctx, nil)

			if page != nil || nav.To != RouteLanding || nav.Message != "" {
				t.Errorf("expected silent landing redirect, got %+v %+v", page, nav)
			}
			if !errors.Is(err, shared.ErrNoIdentity) {
				t.Errorf("expected ErrNoIdentity, got %v", err)
			}
			if svc.TotalCalls() != 0 {
				t.Errorf("expected zero remote calls, got %d", svc.TotalCalls())
			}
		})

		t.Run("not ready redirects", func(t *testing.T) {
			svc := &tu.MockService{Statuses: []models.Status{models.StatusScraping}}
			_, nav, err := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger()).Enter(ctx, nil)

			if !nav.Redirect() || !errors.Is(err, shared.ErrNotReady) {
				t.Errorf("expected redirect with ErrNotReady, got %+v %v", nav, err)
			}
			if _, _, batch, _ := svc.Calls(); batch != 0 {
				t.Errorf("expected no fetch, got %d", batch)
			}
		})

		t.Run("status failure redirects", func(t *testing.T) {
			svc := &tu.MockService{StatusErr: shared.ErrAPIRequest}
			_, nav, _ := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger()).Enter(ctx, nil)
			if !nav.Redirect() {
				t.Errorf("expected redirect, got %+v", nav)
			}
		})

		t.Run("fetch failure redirects", func(t *testing.T) {
			svc := &tu.MockService{Statuses: []models.Status{models.StatusReady}, BatchErr: shared.ErrAPIRequest}
			_, nav, err := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger()).Enter(ctx, nil)
			if !nav.Redirect() || !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected redirect with ErrAPIRequest, got %+v %v", nav, err)
			}
		})

		t.Run("identity read failure redirects", func(t *testing.T) {
			identity := tu.NewMemoryIdentity("dave")
			identity.GetErr = errors.New("locked")
			svc := &tu.MockService{}

			_, nav, _ := NewRecommendations(svc, identity, quietLogger()).Enter(ctx, nil)
			if !nav.Redirect() || svc.TotalCalls() != 0 {
				t.Errorf("expected redirect without calls, got %+v calls=%d", nav, svc.TotalCalls())
			}
		})

		t.Run("ready profile loads batch", func(t *testing.T) {
			svc := &tu.MockService{Statuses: []models.Status{models.StatusReady}, Batches: []models.Batch{oldBatch}}
			progress := make(chan ProgressUpdate, 4)

			page, nav, err := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger()).Enter(ctx, progress)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if nav.To != RouteRecommendations {
				t.Errorf("expected recommendations route, got %s", nav.To)
			}
			if page.Identifier != "dave" || len(page.Batch) != 2 {
				t.Errorf("unexpected page %+v", page)
			}
			if u := drain(progress); len(u) != 1 || u[0].Phase != FetchRecommendations {
				t.Errorf("expected fetch update, got %+v", u)
			}
		})
	})

	t.Run("Regenerate", func(t *testing.T) {
		t.Run("one fetch replaces the set", func(t *testing.T) {
			svc := &tu.MockService{
				Statuses: []models.Status{models.StatusReady},
				Batches:  []models.Batch{oldBatch, newBatch},
			}
			r := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger())

			page, _, err := r.Enter(ctx, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			batch, err := r.Regenerate(ctx, page.Identifier, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(batch) != 1 || batch[0].IMDbID != "tt3" {
				t.Errorf("expected the new batch only, got %+v", batch)
			}
			if _, _, fetches, regens := svc.Calls(); fetches != 2 || regens != 1 {
				t.Errorf("expected 1 regenerate and 1 extra fetch, got regens=%d fetches=%d", regens, fetches)
			}
		})

		t.Run("failure keeps no batch", func(t *testing.T) {
			svc := &tu.MockService{RegenErr: shared.ErrAPIRequest}
			batch, err := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger()).Regenerate(ctx, "dave", nil)

			if batch != nil || !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v %v", batch, err)
			}
			if _, _, fetches, _ := svc.Calls(); fetches != 0 {
				t.Errorf("expected no fetch after failed regenerate, got %d", fetches)
			}
		})

		t.Run("concurrent calls share one recompute", func(t *testing.T) {
			entered := make(chan struct{})
			release := make(chan struct{})
			var once sync.Once

			svc := &tu.MockService{Batches: []models.Batch{newBatch}}
			svc.RegenHook = func() {
				once.Do(func() { close(entered) })
				<-release
			}
			r := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger())

			var wg sync.WaitGroup
			results := make([]models.Batch, 2)
			errs := make([]error, 2)
			call := func(i int) {
				defer wg.Done()
				results[i], errs[i] = r.Regenerate(ctx, "dave", nil)
			}

			wg.Add(1)
			go call(0)
			<-entered

			wg.Add(1)
			go call(1)
			time.Sleep(50 * time.Millisecond)
			close(release)
			wg.Wait()

			for i := range errs {
				if errs[i] != nil {
					t.Fatalf("call %d: unexpected error %v", i, errs[i])
				}
				if len(results[i]) != 1 || results[i][0].IMDbID != "tt3" {
					t.Errorf("call %d: unexpected batch %+v", i, results[i])
				}
			}
			if _, _, fetches, regens := svc.Calls(); regens != 1 || fetches != 1 {
				t.Errorf("expected one recompute and one fetch, got regens=%d fetches=%d", regens, fetches)
			}
		})

		t.Run("different identifiers do not share", func(t *testing.T) {
			svc := &tu.MockService{}
			r := NewRecommendations(svc, tu.NewMemoryIdentity("dave"), quietLogger())

			r.Regenerate(ctx, "dave", nil)
			r.Regenerate(ctx, "erin", nil)
			if _, _, _, regens := svc.Calls(); regens != 2 {
				t.Errorf("expected 2 recomputes, got %d", regens)
			}
		})
	})

	t.Run("Saved", func(t *testing.T) {
		if _, err := NewRecommendations(&tu.MockService{}, tu.NewMemoryIdentity(""), nil).Saved(ctx); !errors.Is(err, shared.ErrNoIdentity) {
			t.Errorf("expected ErrNoIdentity, got %v", err)
		}
		if id, err := NewRecommendations(&tu.MockService{}, tu.NewMemoryIdentity("dave"), nil).Saved(ctx); err != nil || id != "dave" {
			t.Errorf("expected dave, got %q %v", id, err)
		}
	})
}
