package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/store/storetest"
	"outreach/internal/platform/testkit"
	"outreach/internal/services/api/categories/domain"
	"outreach/internal/services/api/categories/repo"

	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRepo struct {
	cats    []schema.Category
	lists   int
	listErr error
	insErr  error
}

func (f *fakeRepo) List(context.Context) ([]schema.Category, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]schema.Category(nil), f.cats...), nil
}

func (f *fakeRepo) Insert(_ context.Context, c schema.Category) (schema.Category, error) {
	if f.insErr != nil {
		return schema.Category{}, f.insErr
	}
	c.ID = "cat-new"
	f.cats = append(f.cats, c)
	return c, nil
}

func (f *fakeRepo) Seed(_ context.Context, cats []schema.Category) (int, error) {
	n := 0
	for _, c := range cats {
		if _, ok := schema.NewSet(f.cats).Lookup(c.Name); ok {
			continue
		}
		f.cats = append(f.cats, c)
		n++
	}
	return n, nil
}

func newSvc(t *testing.T, f *fakeRepo) *Svc {
	t.Helper()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	return New(&storetest.DB{}, binder, Options{TTL: time.Minute})
}

func TestNew_PanicsWithoutDeps(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), Options{}) })
	testkit.MustPanic(t, func() { New(&storetest.DB{}, nil, Options{}) })
}

func TestSet_CachesUntilExpiry(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	testkit.Swap(t, &now, func() time.Time { return clock })

	f := &fakeRepo{cats: schema.MustPresets()}
	s := newSvc(t, f)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		set, err := s.Set(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if set.Len() != 7 {
			t.Fatalf("len = %d", set.Len())
		}
	}
	if f.lists != 1 {
		t.Fatalf("lists = %d, want 1", f.lists)
	}

	clock = clock.Add(2 * time.Minute)
	if _, err := s.Set(ctx); err != nil {
		t.Fatal(err)
	}
	if f.lists != 2 {
		t.Fatalf("expired cache not reloaded, lists = %d", f.lists)
	}
}

func TestSet_ErrorNotCached(t *testing.T) {
	f := &fakeRepo{listErr: errors.New("conn reset")}
	s := newSvc(t, f)
	if _, err := s.Set(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	f.listErr = nil
	if _, err := s.Set(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if f.lists != 2 {
		t.Fatalf("lists = %d", f.lists)
	}
}

func TestCreate(t *testing.T) {
	cases := []struct {
		name   string
		in     domain.CreateInput
		insErr error
		code   perr.ErrorCode
	}{
		{
			name: "valid select",
			in: domain.CreateInput{Name: "has_pet", Type: schema.TypeSingleSelect, UrgencyWeight: 10,
				Options: []schema.Option{{Label: "Yes", NumericValue: 0.5}, {Label: "No"}}},
		},
		{
			name: "duplicate name folded",
			in:   domain.CreateInput{Name: "HEIGHT", Type: schema.TypeNumber},
			code: perr.ErrorCodeConflict,
		},
		{
			name:   "unique violation from store",
			in:     domain.CreateInput{Name: "shelter", Type: schema.TypeText},
			insErr: &pgconn.PgError{Code: "23505"},
			code:   perr.ErrorCodeConflict,
		},
		{
			name: "options on text",
			in:   domain.CreateInput{Name: "notes", Type: schema.TypeText, Options: []schema.Option{{Label: "x"}}},
			code: perr.ErrorCodeValidation,
		},
		{
			name: "auto trigger without positive option",
			in: domain.CreateInput{Name: "danger", Type: schema.TypeSingleSelect, UrgencyWeight: 5, AutoTrigger: true,
				Options: []schema.Option{{Label: "No"}}},
			code: perr.ErrorCodeValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeRepo{cats: schema.MustPresets(), insErr: tc.insErr}
			s := newSvc(t, f)
			got, err := s.Create(context.Background(), tc.in)
			if tc.code != perr.ErrorCodeUnknown {
				if !perr.IsCode(err, tc.code) {
					t.Fatalf("err = %v, want code %d", err, tc.code)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.ID == "" || got.Priority != schema.PriorityMedium {
				t.Fatalf("created = %+v", got)
			}
		})
	}
}

func TestCreate_InvalidatesCache(t *testing.T) {
	f := &fakeRepo{cats: schema.MustPresets()}
	s := newSvc(t, f)
	ctx := context.Background()

	if _, err := s.Set(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, domain.CreateInput{Name: "shelter", Type: schema.TypeText}); err != nil {
		t.Fatal(err)
	}
	set, err := s.Set(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := set.Get("shelter"); !ok {
		t.Fatal("new category not visible after create")
	}
}

func TestSeed_IsIdempotent(t *testing.T) {
	f := &fakeRepo{}
	s := newSvc(t, f)
	n, err := s.Seed(context.Background())
	if err != nil || n != 7 {
		t.Fatalf("first seed n=%d err=%v", n, err)
	}
	n, err = s.Seed(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("second seed n=%d err=%v", n, err)
	}
}
