package services

import (
	"context"
	"errors"
	"testing"

	"back2u-backend/internal/models"
)

func TestCreateReportStartsOpen(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	andi := user("u1", "Andi")

	lat, lng := -6.2, 106.8
	empty := ""
	report, err := env.reports.CreateReport(ctx, models.ReportInput{
		Title:        "Dompet Hitam",
		Description:  "Dompet kulit",
		LocationName: "Stasiun",
		Latitude:     &lat,
		Longitude:    &lng,
		ImagePath:    &empty,
	}, andi)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report.ID == "" {
		t.Fatal("no id assigned")
	}

	got, err := env.reports.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.Status != models.StatusOpen {
		t.Errorf("status = %s, want OPEN", got.Status)
	}
	if got.UserID != "u1" || got.User != andi {
		t.Errorf("author not recorded: %+v", got)
	}
	if got.ImagePath != nil {
		t.Errorf("empty image path stored as %q, want null", *got.ImagePath)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestCreateReportRequiresTitle(t *testing.T) {
	env := newTestEnv(t)
	for _, title := range []string{"", "   "} {
		_, err := env.reports.CreateReport(context.Background(), models.ReportInput{Title: title}, user("u1", "Andi"))
		if !errors.Is(err, ErrValidation) {
			t.Errorf("title %q: err = %v, want ErrValidation", title, err)
		}
	}

	all, _ := env.reports.ListReports(context.Background())
	if len(all) != 0 {
		t.Fatalf("invalid report persisted: %+v", all)
	}
}

func TestGetReportNotFound(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.reports.GetReport(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStatusLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	report := env.mustReport(t, user("A", "Andi"), "Dompet")

	if _, err := env.reports.SetStatus(ctx, report.ID, models.StatusFound, "B"); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("non-owner: err = %v, want ErrPermissionDenied", err)
	}
	if _, err := env.reports.SetStatus(ctx, report.ID, models.StatusOpen, "A"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("OPEN->OPEN: err = %v, want ErrInvalidTransition", err)
	}

	updated, err := env.reports.SetStatus(ctx, report.ID, models.StatusFound, "A")
	if err != nil {
		t.Fatalf("owner SetStatus: %v", err)
	}
	if updated.Status != models.StatusFound {
		t.Errorf("returned status = %s", updated.Status)
	}
	stored, _ := env.reports.GetReport(ctx, report.ID)
	if stored.Status != models.StatusFound {
		t.Errorf("stored status = %s, want FOUND", stored.Status)
	}

	for _, caller := range []string{"A", "B"} {
		if _, err := env.reports.SetStatus(ctx, report.ID, models.StatusFound, caller); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("repeat by %s: err = %v, want ErrInvalidTransition", caller, err)
		}
	}
}

func TestSetStatusMissingReport(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.reports.SetStatus(context.Background(), "missing", models.StatusFound, "A")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetStatusLeavesLinkedRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	report := env.mustReport(t, user("A", "Andi"), "Dompet")
	ret := env.mustReturn(t, user("B", "Budi"), report.ID, "Ditemukan")

	if _, err := env.reports.SetStatus(ctx, report.ID, models.StatusFound, "A"); err != nil {
		t.Fatal(err)
	}

	n, err := env.notifications.GetNotification(ctx, NotificationID(ret.ID))
	if err != nil {
		t.Fatal(err)
	}
	if n.Report.Status != models.StatusOpen {
		t.Errorf("embedded report status = %s, want snapshot OPEN", n.Report.Status)
	}
}

func TestSearchReports(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.mustReport(t, user("A", "Andi"), "Dompet Hitam")
	env.mustReport(t, user("B", "Budi"), "Kunci Motor")
	env.mustReport(t, user("A", "Andi"), "Kunci Rumah")

	tests := []struct {
		name  string
		q     string
		owner string
		want  int
	}{
		{"all", "", "", 3},
		{"query", "kunci", "", 2},
		{"owner", "", "A", 2},
		{"query and owner", "KUNCI", "A", 1},
		{"no match", "tas", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.reports.SearchReports(ctx, tt.q, tt.owner)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d reports, want %d", len(got), tt.want)
			}
		})
	}
}
