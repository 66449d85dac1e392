package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"outreach/internal/core/schema"
	"outreach/internal/modkit/repokit"
	perr "outreach/internal/platform/errors"
	"outreach/internal/platform/store/storetest"
	"outreach/internal/platform/testkit"
	"outreach/internal/services/api/export/domain"
	"outreach/internal/services/api/export/repo"

	"github.com/xuri/excelize/v2"
)

type fakeRepo struct {
	recs []repo.Record
	err  error
}

func (f *fakeRepo) All(context.Context) ([]repo.Record, error) { return f.recs, f.err }

func newSvc(f *fakeRepo) *Svc {
	return New(&storetest.DB{}, repokit.BindFunc[repo.Repo](func(repokit.Queryer) repo.Repo { return f }))
}

var seen = time.Date(2025, 3, 1, 9, 30, 0, 0, time.FixedZone("PST", -8*3600))

func sample() []repo.Record {
	return []repo.Record{
		{ID: "a", Name: "John, Jr.", DisplayScore: 90, LastSeen: &seen,
			Data: schema.Data{"name": "John, Jr.", "height": 72.0, "weight": 180.5, "skin_color": "Light", "gender": "Male"}},
		{ID: "b", Name: "Mary", DisplayScore: 0, Data: schema.Data{"name": "Mary"}},
	}
}

func TestRows(t *testing.T) {
	rows, err := newSvc(&fakeRepo{recs: sample()}).Rows(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || *rows[0].Height != 72 || *rows[0].Weight != 180.5 || rows[0].SkinColor != "Light" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].LastSeen == nil || rows[0].LastSeen.Location() != time.UTC || rows[0].LastSeen.Hour() != 17 {
		t.Fatalf("last seen not normalized: %v", rows[0].LastSeen)
	}
	if rows[1].Height != nil || rows[1].LastSeen != nil {
		t.Fatalf("blank row = %+v", rows[1])
	}

	_, err = newSvc(&fakeRepo{err: errors.New("conn reset")}).Rows(context.Background())
	if perr.HTTPStatus(err) != 500 {
		t.Fatalf("err = %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	rows, _ := newSvc(&fakeRepo{recs: sample()}).Rows(context.Background())
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	want := "name,height,weight,skin_color,urgency_score,last_seen\n" +
		"\"John, Jr.\",72,180.5,Light,90,2025-03-01T17:30:00Z\n" +
		"Mary,,,,0,\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	testkit.MustContain(t, buf.String(), "name,height,weight,skin_color,urgency_score,last_seen")
}

func TestWriteXLSX(t *testing.T) {
	rows, _ := newSvc(&fakeRepo{recs: sample()}).Rows(context.Background())
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0][0] != "name" || got[1][0] != "John, Jr." || got[1][1] != "72" || got[1][5] != "2025-03-01T17:30:00Z" {
		t.Fatalf("sheet = %v", got)
	}
	if got[2][0] != "Mary" || got[2][4] != "0" {
		t.Fatalf("blank row = %v", got[2])
	}
}

func TestNew_Panics(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, repo.NewPG()) })
	testkit.MustPanic(t, func() { New(&storetest.DB{}, nil) })
}

var _ domain.ServicePort = (*Svc)(nil)
