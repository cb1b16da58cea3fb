package sheet

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var rosterContract = Contract{
	Sheet: "roster",
	Columns: []Column{
		{Name: "name"},
		{Name: "joined", Type: TypeDate},
		{Name: "seat", Type: TypeInt, Optional: true},
		{Name: "fee", Type: TypeFloat, Optional: true},
	},
}

func writeWorkbook(t *testing.T, dir, sheetName string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, sheetName+".xlsx")); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()
}

func TestReadMissingWorkbook(t *testing.T) {
	svc := &Service{Dir: t.TempDir()}
	_, err := svc.Read(rosterContract)
	if !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("err=%v, want ErrSheetNotFound", err)
	}
}

func TestReadSchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "roster", [][]any{
		{"name", "seat"},
		{"Asha", "4"},
	})

	svc := &Service{Dir: dir}
	_, err := svc.Read(rosterContract)
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err=%v, want SchemaMismatchError", err)
	}
	if len(mismatch.Missing) != 1 || mismatch.Missing[0] != "joined" {
		t.Errorf("missing=%v, want [joined]", mismatch.Missing)
	}
}

func TestReadCoercesTypes(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "roster", [][]any{
		{"name", "joined", "seat", "fee"},
		{"Asha", "2025-06-02", "4", "1250.50"},
		{"Vikram", "6/2/25", "7.0", "900"},
	})

	svc := &Service{Dir: dir}
	recs, err := svc.Read(rosterContract)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records=%d, want 2", len(recs))
	}

	want := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	if got := recs[0].Get("joined").T(); !got.Equal(want) {
		t.Errorf("joined=%v, want %v", got, want)
	}
	if got := recs[0].Get("fee").F(); got != 1250.50 {
		t.Errorf("fee=%v, want 1250.50", got)
	}
	// excelize renders integer cells as floats at times
	if got := recs[1].Get("seat").I(); got != 7 {
		t.Errorf("seat=%d, want 7", got)
	}
	if got := recs[1].Get("joined").T(); !got.Equal(want) {
		t.Errorf("short date=%v, want %v", got, want)
	}
}

func TestReadBlankOptionalIsAbsent(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "roster", [][]any{
		{"name", "joined", "seat", "fee"},
		{"Asha", "2025-06-02", "", ""},
	})

	svc := &Service{Dir: dir}
	recs, err := svc.Read(rosterContract)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	seat := recs[0].Get("seat")
	if !seat.Absent {
		t.Errorf("seat=%v, want absent", seat)
	}
	if seat.Type != TypeInt {
		t.Errorf("seat type=%v, want int", seat.Type)
	}
}

func TestReadBadCellSkipsOnlyThatRow(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "roster", [][]any{
		{"name", "joined", "seat", "fee"},
		{"Asha", "2025-06-02", "4", "100"},
		{"Vikram", "not a date", "5", "100"},
		{"Meera", "2025-06-03", "6", "100"},
	})

	svc := &Service{Dir: dir}
	recs, err := svc.Read(rosterContract)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("records=%d, want 3", len(recs))
	}
	if recs[0].Err != nil || recs[2].Err != nil {
		t.Errorf("good rows carry errors: %v, %v", recs[0].Err, recs[2].Err)
	}

	var ce *TypeCoercionError
	if !errors.As(recs[1].Err, &ce) {
		t.Fatalf("row 2 err=%v, want TypeCoercionError", recs[1].Err)
	}
	if ce.Column != "joined" || ce.Row != 2 {
		t.Errorf("coercion error at %s row %d, want joined row 2", ce.Column, ce.Row)
	}
}
