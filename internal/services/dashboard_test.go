package services

import (
	"context"
	"fmt"
	"testing"
)

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	andi := user("A", "Andi")
	budi := user("B", "Budi")

	var newest string
	for i := 0; i < 6; i++ {
		newest = env.mustReport(t, andi, fmt.Sprintf("barang %d", i)).ID
	}
	other := env.mustReport(t, budi, "punya budi")
	env.mustReturn(t, andi, other.ID, "ketemu")

	d, err := env.dashboard.GetDashboard(ctx, "A")
	if err != nil {
		t.Fatal(err)
	}
	if d.ReportCount != 6 || len(d.Reports) != 4 {
		t.Errorf("reports = %d (count %d), want 4 of 6", len(d.Reports), d.ReportCount)
	}
	if d.Reports[0].ID != newest {
		t.Errorf("first report %s, want newest %s", d.Reports[0].ID, newest)
	}
	if d.ReturnCount != 1 || len(d.Returns) != 1 || d.Returns[0].ReportID != other.ID {
		t.Errorf("returns = %+v", d.Returns)
	}

	d, err = env.dashboard.GetDashboard(ctx, "B")
	if err != nil {
		t.Fatal(err)
	}
	if d.ReportCount != 1 || d.ReturnCount != 0 {
		t.Errorf("budi dashboard = %+v", d)
	}
}
