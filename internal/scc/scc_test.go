package scc

import "testing"

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		scc       float64
		wantClass int
		wantLabel string
	}{
		{"zero", 0, ClassNormal, "normal"},
		{"lower band inclusive", 100, ClassNormal, "normal"},
		{"just above normal", 101, ClassCaution, "caution"},
		{"caution band inclusive", 300, ClassCaution, "caution"},
		{"just above caution", 301, ClassInflammation, "inflammation suspected"},
		{"typical healthy", 50, ClassNormal, "normal"},
		{"typical caution", 150, ClassCaution, "caution"},
		{"typical inflamed", 400, ClassInflammation, "inflammation suspected"},
		{"fractional boundary", 100.5, ClassCaution, "caution"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.scc)
			if got.Class != tc.wantClass {
				t.Errorf("Classify(%g).Class = %d, want %d", tc.scc, got.Class, tc.wantClass)
			}
			if got.Label != tc.wantLabel {
				t.Errorf("Classify(%g).Label = %q, want %q", tc.scc, got.Label, tc.wantLabel)
			}
			if got.Description == "" {
				t.Errorf("Classify(%g) has empty description", tc.scc)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if Classify(250) != Classify(250) {
			t.Fatal("expected identical results for identical input")
		}
	}
}

func TestCriteria(t *testing.T) {
	info := Criteria()

	if info.ClassificationMethod != "somatic_cell_count" {
		t.Errorf("unexpected classification method %q", info.ClassificationMethod)
	}
	if len(info.Criteria) != 3 {
		t.Fatalf("expected 3 criteria bands, got %d", len(info.Criteria))
	}

	classes := map[int]bool{}
	for _, band := range info.Criteria {
		classes[band.Class] = true
	}
	for _, c := range []int{ClassNormal, ClassCaution, ClassInflammation} {
		if !classes[c] {
			t.Errorf("criteria missing class %d", c)
		}
	}
}

func TestCriteriaEcho(t *testing.T) {
	echo := CriteriaEcho()
	if len(echo) != 3 {
		t.Fatalf("expected 3 echo entries, got %d", len(echo))
	}
	if echo["normal"] == "" || echo["caution"] == "" || echo["inflammation_suspected"] == "" {
		t.Error("criteria echo has empty entries")
	}
}
