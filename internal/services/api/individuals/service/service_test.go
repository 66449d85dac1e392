package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/store/storetest"
	"outreach/internal/platform/testkit"
	"outreach/internal/services/api/individuals/domain"
	"outreach/internal/services/api/individuals/repo"
)

const (
	idA = "5b0c6a8e-3f0e-4a51-9c1e-0a3f4b6f2d11"
	idB = "0f8fad5b-d9cb-469f-a165-70867728950e"
)

type registry struct{ set *schema.Set }

func (r registry) Set(context.Context) (*schema.Set, error) { return r.set, nil }

func categories() registry {
	cats := append(schema.MustPresets(),
		schema.Category{
			Name: "weapon_possession", Type: schema.TypeSingleSelect, UrgencyWeight: 100, AutoTrigger: true,
			Options: []schema.Option{{Label: "Yes", NumericValue: 1}, {Label: "No"}},
		},
		schema.Category{
			Name: "veteran_status", Type: schema.TypeSingleSelect, UrgencyWeight: 20,
			Options: []schema.Option{{Label: "Yes", NumericValue: 1}, {Label: "No"}},
		},
	)
	return registry{set: schema.NewSet(cats)}
}

type fakeRepo struct {
	inds     map[string]domain.Individual
	xs       []domain.Interaction
	linked   map[string]string
	xErr     error
	seq      int
	likeSeen string
}

func newFake() *fakeRepo {
	return &fakeRepo{inds: map[string]domain.Individual{}, linked: map[string]string{}}
}

func (f *fakeRepo) Get(_ context.Context, id string) (domain.Individual, error) {
	ind, ok := f.inds[id]
	if !ok {
		return ind, perr.ErrNotFound
	}
	return ind, nil
}

func (f *fakeRepo) Lock(ctx context.Context, id string) (domain.Individual, error) { return f.Get(ctx, id) }

func (f *fakeRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.inds[id]
	return ok, nil
}

func (f *fakeRepo) Insert(_ context.Context, ind domain.Individual) (domain.Individual, error) {
	f.seq++
	ind.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq)
	ind.CreatedAt = time.Now()
	ind.UpdatedAt = ind.CreatedAt
	ind.Derive()
	f.inds[ind.ID] = ind
	return ind, nil
}

func (f *fakeRepo) Update(_ context.Context, ind domain.Individual) (domain.Individual, error) {
	old, ok := f.inds[ind.ID]
	if !ok {
		return ind, perr.ErrNotFound
	}
	ind.UrgencyOverride = old.UrgencyOverride
	ind.UpdatedAt = time.Now()
	ind.Derive()
	f.inds[ind.ID] = ind
	return ind, nil
}

func (f *fakeRepo) SetOverride(_ context.Context, id string, v *int) (domain.OverrideResult, error) {
	ind, ok := f.inds[id]
	if !ok {
		return domain.OverrideResult{}, perr.ErrNotFound
	}
	ind.UrgencyOverride = v
	f.inds[id] = ind
	return domain.OverrideResult{UrgencyScore: ind.UrgencyScore, UrgencyOverride: v}, nil
}

func (f *fakeRepo) LinkConsents(_ context.Context, id, url string) (int64, error) {
	f.linked[url] = id
	return 1, nil
}

func (f *fakeRepo) InsertInteraction(_ context.Context, x domain.Interaction) (domain.Interaction, error) {
	if f.xErr != nil {
		return x, f.xErr
	}
	x.ID = fmt.Sprintf("x%d", len(f.xs)+1)
	x.CreatedAt = time.Now()
	f.xs = append(f.xs, x)
	return x, nil
}

func (f *fakeRepo) Interactions(_ context.Context, id string, limit, offset int) ([]domain.Interaction, int, error) {
	var all []domain.Interaction
	for i := len(f.xs) - 1; i >= 0; i-- {
		if f.xs[i].IndividualID == id {
			all = append(all, f.xs[i])
		}
	}
	total := len(all)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return all[offset:end], total, nil
}

func (f *fakeRepo) ByName(_ context.Context, name string) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for _, ind := range f.inds {
		if ind.Name == name {
			out = append(out, domain.Candidate{ID: ind.ID, Name: ind.Name, Data: ind.Data})
		}
	}
	return out, nil
}

func (f *fakeRepo) NameLike(_ context.Context, pattern string, _ int) ([]domain.Candidate, error) {
	f.likeSeen = pattern
	return []domain.Candidate{{ID: "like"}}, nil
}

func newSvc(t *testing.T, f *fakeRepo) *Svc {
	t.Helper()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	return New(&storetest.DB{}, binder, categories())
}

func validData() schema.Data {
	return schema.Data{
		"name": "John", "height": 72.0, "weight": 180.0, "skin_color": "Light",
		"approximate_age": []any{45.0, 50.0},
	}
}

var worker = domain.User{ID: "u1", Name: "Sam"}

func TestNew_PanicsWithoutDeps(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG(), categories()) })
	testkit.MustPanic(t, func() { New(&storetest.DB{}, nil, categories()) })
	testkit.MustPanic(t, func() { New(&storetest.DB{}, repo.NewPG(), nil) })
}

func TestSave_Create(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	loc := &domain.Location{Latitude: 37.77, Longitude: -122.42, Address: "123 Market St, San Francisco"}

	out, err := s.Save(context.Background(), worker, domain.SaveInput{
		Data: validData(), Location: loc, Transcription: " met John ", PhotoURL: "https://s/p1.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}
	ind := out.Individual
	if ind.Name != "John" || ind.PhotoURL != "https://s/p1.jpg" || len(ind.PhotoHistory) != 0 {
		t.Fatalf("individual = %+v", ind)
	}
	if out.Interaction == nil || !out.Interaction.HasTranscription || out.Interaction.UserName != "Sam" {
		t.Fatalf("interaction = %+v", out.Interaction)
	}
	x := f.xs[0]
	if len(x.Changes) != len(validData()) || x.Transcription != "met John" || x.Location != loc {
		t.Fatalf("first interaction must carry the full data: %+v", x)
	}
	if f.linked["https://s/p1.jpg"] != ind.ID {
		t.Fatalf("consent not linked: %v", f.linked)
	}
}

func TestSave_AutoTrigger(t *testing.T) {
	s := newSvc(t, newFake())
	d := validData()
	d["weapon_possession"] = "Yes"
	out, err := s.Save(context.Background(), worker, domain.SaveInput{Data: d})
	if err != nil {
		t.Fatal(err)
	}
	if out.Individual.UrgencyScore != 100 || out.Individual.DisplayScore != 100 {
		t.Fatalf("score = %d", out.Individual.UrgencyScore)
	}
}

func TestSave_MergeDiff(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	first, err := s.Save(ctx, worker, domain.SaveInput{Data: validData()})
	if err != nil {
		t.Fatal(err)
	}
	o := 70
	if _, err := s.SetOverride(ctx, first.Individual.ID, &o); err != nil {
		t.Fatal(err)
	}

	next := validData()
	next["height"] = 73.0
	next["veteran_status"] = "Yes"
	out, err := s.Save(ctx, worker, domain.SaveInput{Data: next, MergeWithID: first.Individual.ID})
	if err != nil {
		t.Fatal(err)
	}
	changes := f.xs[1].Changes
	if len(changes) != 2 || changes["height"] != 73.0 || changes["veteran_status"] != "Yes" {
		t.Fatalf("changes = %v", changes)
	}
	ind := out.Individual
	if ind.ID != first.Individual.ID || ind.Data["veteran_status"] != "Yes" || ind.Data["weight"] != 180.0 {
		t.Fatalf("merged = %+v", ind)
	}
	if ind.UrgencyScore == 0 || ind.UrgencyOverride == nil || *ind.UrgencyOverride != 70 {
		t.Fatalf("score/override = %d/%v", ind.UrgencyScore, ind.UrgencyOverride)
	}
}

func TestSave_MergeKeepsUnsentKeys(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	d := validData()
	d["gender"] = "Male"
	first, _ := s.Save(ctx, worker, domain.SaveInput{Data: d})

	out, err := s.Save(ctx, worker, domain.SaveInput{Data: validData(), MergeWithID: first.Individual.ID, PhotoURL: "https://s/p2.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Individual.Data["gender"] != "Male" {
		t.Fatal("absent key treated as deletion")
	}
	if len(f.xs[1].Changes) != 0 {
		t.Fatalf("identical save produced changes %v", f.xs[1].Changes)
	}
	if out.Individual.PhotoURL != "https://s/p2.jpg" {
		t.Fatalf("photo = %q", out.Individual.PhotoURL)
	}
}

func TestSave_Errors(t *testing.T) {
	missing := validData()
	delete(missing, "height")
	tall := validData()
	tall["height"] = 400.0

	cases := []struct {
		name string
		in   domain.SaveInput
		code perr.ErrorCode
	}{
		{"missing required", domain.SaveInput{Data: missing}, perr.ErrorCodeValidation},
		{"out of range", domain.SaveInput{Data: tall}, perr.ErrorCodeValidation},
		{"unknown merge target", domain.SaveInput{Data: validData(), MergeWithID: idB}, perr.ErrorCodeNotFound},
		{"malformed merge id", domain.SaveInput{Data: validData(), MergeWithID: "nope"}, perr.ErrorCodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFake()
			_, err := newSvc(t, f).Save(context.Background(), worker, tc.in)
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("err = %v, want code %d", err, tc.code)
			}
			if tc.in.MergeWithID != "" && !strings.Contains(err.Error(), tc.in.MergeWithID) {
				t.Fatalf("not found should echo the id: %v", err)
			}
			if len(f.inds) != 0 || len(f.xs) != 0 {
				t.Fatal("failed save wrote data")
			}
		})
	}
}

func TestSave_InteractionFailureKeepsIndividual(t *testing.T) {
	f := newFake()
	f.xErr = errors.New("conn reset")
	out, err := newSvc(t, f).Save(context.Background(), worker, domain.SaveInput{Data: validData()})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if out.Interaction != nil || out.Individual.ID == "" || len(f.inds) != 1 {
		t.Fatalf("result = %+v", out)
	}
}

func TestSave_TxFailure(t *testing.T) {
	f := newFake()
	binder := repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f })
	s := New(&storetest.DB{TxErr: errors.New("conn refused")}, binder, categories())
	if _, err := s.Save(context.Background(), worker, domain.SaveInput{Data: validData()}); err == nil {
		t.Fatal("expected error")
	}
	if len(f.xs) != 0 {
		t.Fatal("interaction written without individual")
	}
}

func TestSetOverride(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	saved, _ := s.Save(ctx, worker, domain.SaveInput{Data: validData()})
	id := saved.Individual.ID

	o := 85
	got, err := s.SetOverride(ctx, id, &o)
	if err != nil || got.DisplayScore != 85 || got.UrgencyScore != saved.Individual.UrgencyScore {
		t.Fatalf("set = %+v err %v", got, err)
	}
	got, err = s.SetOverride(ctx, id, nil)
	if err != nil || got.UrgencyOverride != nil || got.DisplayScore != got.UrgencyScore {
		t.Fatalf("clear = %+v err %v", got, err)
	}

	bad := 101
	if _, err := s.SetOverride(ctx, id, &bad); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("out of range err = %v", err)
	}
	if _, err := s.SetOverride(ctx, idB, &o); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
}

func TestGet_RecentInteractions(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	first, _ := s.Save(ctx, worker, domain.SaveInput{Data: validData()})
	for i := 0; i < 12; i++ {
		if _, err := s.Save(ctx, worker, domain.SaveInput{Data: validData(), MergeWithID: first.Individual.ID}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.Get(ctx, first.Individual.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.RecentInteractions) != 10 || got.RecentInteractions[0].ID != "x13" {
		t.Fatalf("recent = %d first %s", len(got.RecentInteractions), got.RecentInteractions[0].ID)
	}
	if _, err := s.Get(ctx, idA); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
}

func TestInteractions_Paging(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	first, _ := s.Save(ctx, worker, domain.SaveInput{Data: validData()})
	id := first.Individual.ID

	if _, _, err := s.Interactions(ctx, id, 101, 0); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("limit err = %v", err)
	}
	if _, _, err := s.Interactions(ctx, id, 10, -1); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("offset err = %v", err)
	}
	if _, _, err := s.Interactions(ctx, idA, 10, 0); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
	items, total, err := s.Interactions(ctx, id, 0, 0)
	if err != nil || total != 1 || len(items) != 1 {
		t.Fatalf("items = %v total %d err %v", items, total, err)
	}
}

func TestReplacePhoto(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	saved, _ := s.Save(ctx, worker, domain.SaveInput{Data: validData(), PhotoURL: "P0"})
	id := saved.Individual.ID

	for _, url := range []string{"P1", "P2", "P3", "P4"} {
		if _, err := s.ReplacePhoto(ctx, id, url); err != nil {
			t.Fatal(err)
		}
	}
	ind := f.inds[id]
	if ind.PhotoURL != "P4" || len(ind.PhotoHistory) != 3 || ind.PhotoHistory[2].URL != "P1" {
		t.Fatalf("photos = %q %+v", ind.PhotoURL, ind.PhotoHistory)
	}
	if len(f.xs) != 1 {
		t.Fatalf("photo updates wrote interactions: %d", len(f.xs))
	}
	if _, err := s.ReplacePhoto(ctx, idA, "P5"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("unknown err = %v", err)
	}
}

func TestExists(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	saved, _ := s.Save(context.Background(), worker, domain.SaveInput{Data: validData()})
	for id, want := range map[string]bool{saved.Individual.ID: true, idA: false, "garbage": false} {
		got, err := s.Exists(context.Background(), id)
		if err != nil || got != want {
			t.Fatalf("Exists(%s) = %v, %v", id, got, err)
		}
	}
}

func TestCandidates(t *testing.T) {
	f := newFake()
	s := newSvc(t, f)
	ctx := context.Background()
	if _, err := s.Save(ctx, worker, domain.SaveInput{Data: validData()}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Candidates(ctx, " John ")
	if err != nil || len(got) != 1 || got[0].Name != "John" {
		t.Fatalf("exact = %+v err %v", got, err)
	}
	if f.likeSeen != "" {
		t.Fatal("substring fallback ran despite exact hits")
	}

	got, err = s.Candidates(ctx, "Jo_")
	if err != nil || len(got) != 1 || f.likeSeen != `%Jo\_%` {
		t.Fatalf("fallback = %+v pattern %q err %v", got, f.likeSeen, err)
	}
	if got, _ := s.Candidates(ctx, "  "); got != nil {
		t.Fatalf("blank name = %+v", got)
	}
}
