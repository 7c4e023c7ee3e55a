package zones

import (
	"reflect"
	"testing"
)

func TestCatalog_ZonesForConcern(t *testing.T) {
	tests := []struct {
		name    string
		concern string
		want    []string
	}{
		{"acne", "acne", []string{"t_zone", "left_cheek", "right_cheek", "chin"}},
		{"oiliness", "oiliness", []string{"t_zone"}},
		{"unknown concern", "moisture", []string{"left_cheek", "right_cheek"}},
		{"empty concern", "", []string{"left_cheek", "right_cheek"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Default.ZonesForConcern(tt.concern); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ZonesForConcern(%q) = %v, want %v", tt.concern, got, tt.want)
			}
		})
	}
}

func TestCatalog_KnownConcernsHaveZones(t *testing.T) {
	for _, concern := range Default.Concerns() {
		zones := Default.ZonesForConcern(concern)
		if len(zones) == 0 {
			t.Errorf("%s: no zones", concern)
		}
		for _, z := range zones {
			if len(Default.IndicesForZone(z)) < 3 {
				t.Errorf("%s: zone %s has fewer than 3 indices", concern, z)
			}
		}
	}
}

func TestCatalog_IndicesForZone(t *testing.T) {
	if got := Default.IndicesForZone("no_such_zone"); got == nil || len(got) != 0 {
		t.Errorf("unknown zone = %v, want empty slice", got)
	}

	got := Default.IndicesForZone("forehead_center")
	want := []int{10, 151, 9, 8, 168, 6, 197, 195, 5, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("leaf order not preserved: %v", got)
	}

	// Sub-zones of a composite resolve on their own
	if got := Default.IndicesForZone("nose_bridge"); len(got) != 16 || got[0] != 6 {
		t.Errorf("nose_bridge = %v", got)
	}
}

func TestZone_CompositeUnion(t *testing.T) {
	z := Composite("both", Leaf("a", 1, 2, 3, 1), Leaf("b", 3, 4), Composite("inner", Leaf("c", 5, 2)))
	got := z.Indices()
	want := []int{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Indices() = %v, want %v", got, want)
	}

	tZone := Default.IndicesForZone("t_zone")
	seen := map[int]bool{}
	for _, idx := range tZone {
		if seen[idx] {
			t.Fatalf("t_zone union has duplicate index %d", idx)
		}
		seen[idx] = true
	}
	for _, sub := range []string{"forehead", "nose_bridge", "nose_tip"} {
		for _, idx := range Default.IndicesForZone(sub) {
			if !seen[idx] {
				t.Errorf("t_zone union misses %d from %s", idx, sub)
			}
		}
	}
}

func TestCatalog_IndicesAreCopies(t *testing.T) {
	a := Default.IndicesForZone("chin")
	a[0] = -1
	if Default.IndicesForZone("chin")[0] == -1 {
		t.Error("IndicesForZone exposes catalog storage")
	}
}

func TestCatalog_Validate(t *testing.T) {
	if err := Default.Validate(MeshLandmarkCount); err != nil {
		t.Fatal(err)
	}
	if err := Default.Validate(400); err == nil {
		t.Error("expected out of range error for a 400 point detector")
	}
	broken := NewCatalog([]Zone{Leaf("x", 1, 2, 3)}, []ConcernZones{{"c", []string{"y"}}}, []string{"x"})
	if err := broken.Validate(10); err == nil {
		t.Error("expected unknown zone error")
	}
}
