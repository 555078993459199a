package xlsx

import (
	"context"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]any) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func TestReadWorkbook(t *testing.T) {
	f := workbook(t,
		[]any{"Employee ID", "Name", "Status"},
		[]any{"E1", "Jane Doe", "Hired"},
		[]any{"E2", "John Roe", "Applied"},
	)
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := New("people.xlsx", buf).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0]["Employee ID"] != "E1" || rows[1]["Status"] != "Applied" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestReadFirstSheetOnly(t *testing.T) {
	f := workbook(t, []any{"A"}, []any{"first"})
	if _, err := f.NewSheet("Second"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow("Second", "A1", &[]any{"B"}); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	rows, err := New("multi.xlsx", buf).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0]["A"] != "first" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestReadNotAWorkbook(t *testing.T) {
	if _, err := New("junk.xlsx", strings.NewReader("not a zip")).Read(context.Background()); err == nil {
		t.Fatal("expected a parse error")
	}
}
