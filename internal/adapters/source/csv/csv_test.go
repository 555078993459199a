package csv

import (
	"context"
	"strings"
	"testing"
)

func TestReadCSV(t *testing.T) {
	in := "Employee ID,Name,Status\nE1,Jane Doe,Hired\nE2,John Roe,\n"
	rows, err := New("people.csv", strings.NewReader(in)).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0]["Employee ID"] != "E1" || rows[0]["Status"] != "Hired" {
		t.Fatalf("row 0 = %#v", rows[0])
	}
	if rows[1]["Status"] != "" {
		t.Fatalf("row 1 = %#v", rows[1])
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "A,B,C\n1,2\n3,4,5,6\n"
	rows, err := New("ragged.csv", strings.NewReader(in)).Read(context.Background())
	if err != nil {
		t.Fatalf("ragged export rejected: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0]["C"] != "" {
		t.Fatalf("short row not padded: %#v", rows[0])
	}
}

func TestReadCSVTabDelimited(t *testing.T) {
	r := New("people.tsv", strings.NewReader("A\tB\n1\t2\n"))
	r.Comma = '\t'
	rows, err := r.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rows) != 1 || rows[0]["B"] != "2" {
		t.Fatalf("rows = %#v", rows)
	}
}

func TestReadCSVMalformed(t *testing.T) {
	in := "A,B\n\"unterminated\n"
	if _, err := New("bad.csv", strings.NewReader(in)).Read(context.Background()); err == nil {
		t.Fatal("expected a parse error")
	}
}
