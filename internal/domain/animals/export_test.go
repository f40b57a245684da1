package animals

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	svc, _ := newTestService(t, Deps{})

	in := adultCow()
	in.Name = "Luna"
	in.WeightKg = ptrFloat(540.5)
	mustCreate(t, svc, in)
	mustCreate(t, svc, CreateInput{Sex: "male", Source: "newborn_calf", BirthDate: date(2026, 2, 1)})

	b, err := svc.ExportXLSX(context.Background(), farmA)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != exportSheet {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(exportSheet)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, h := range ExportHeader {
		if rows[0][i] != h {
			t.Fatalf("header %d: expected %q, got %q", i, h, rows[0][i])
		}
	}

	// Orden por caravana: COW-2026-0001 es la vaca.
	cow := rows[1]
	if cow[0] != "COW-2026-0001" || cow[1] != "Luna" || cow[4] != "2023-06-01" {
		t.Fatalf("unexpected cow row %v", cow)
	}
	if cow[5] != "33" {
		t.Fatalf("expected age 33 months, got %q", cow[5])
	}
	if cow[11] != "540.5" || cow[12] != string(LifecycleActive) {
		t.Fatalf("unexpected weight/lifecycle %v", cow)
	}

	calf := rows[2]
	if calf[2] != "male" || calf[7] != "calf" {
		t.Fatalf("unexpected calf row %v", calf)
	}
}
