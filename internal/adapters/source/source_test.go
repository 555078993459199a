package source

import (
	"reflect"
	"testing"
)

func TestFromGrid(t *testing.T) {
	grid := [][]string{
		{"Employee ID", "Name", ""},
		{"E1", "Jane Doe", "ignored"},
		{"E2"}, // short row padded
		{"", "  ", ""},
	}
	got := FromGrid(grid)
	want := []map[string]any{
		{"Employee ID": "E1", "Name": "Jane Doe"},
		{"Employee ID": "E2", "Name": ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(map[string]any(got[i]), want[i]) {
			t.Errorf("row %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestFromGridHeaderOnly(t *testing.T) {
	if got := FromGrid([][]string{{"A", "B"}}); got != nil {
		t.Fatalf("got %v", got)
	}
	if got := FromGrid(nil); got != nil {
		t.Fatalf("got %v", got)
	}
}
