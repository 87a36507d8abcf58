package classify

import (
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/nearbite/internal/domain"
)

type venue struct {
	Name   string
	Rating float64
}

func TestReconcile_MixedEntries(t *testing.T) {
	var cats domain.CategoryMap
	if err := json.Unmarshal([]byte(`{"牛肉麵🍜": ["A", {"name": "B"}, "Ghost"]}`), &cats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	universe := map[string]venue{
		"A": {Name: "A", Rating: 4.1},
		"B": {Name: "B", Rating: 3.9},
	}

	got := Reconcile(cats, universe)

	recs := got["牛肉麵🍜"]
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Name != "A" || recs[1].Name != "B" {
		t.Errorf("expected [A B] in entry order, got %+v", recs)
	}
	if recs[0].Rating != 4.1 {
		t.Error("record should be the full universe value")
	}
}

func TestReconcile_AllDroppedKeepsLabel(t *testing.T) {
	cats := domain.CategoryMap{"素食 🥗": {domain.NameEntry("Ghost")}}

	got := Reconcile(cats, map[string]venue{})

	recs, ok := got["素食 🥗"]
	if !ok {
		t.Fatal("label should stay present")
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty list, got %v", recs)
	}
}

func TestReconcile_UnknownEntriesDropped(t *testing.T) {
	var cats domain.CategoryMap
	if err := json.Unmarshal([]byte(`{"x": [42, {"id": "A"}, {"name": 7}, "A"]}`), &cats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Reconcile(cats, map[string]venue{"A": {Name: "A"}})

	if len(got["x"]) != 1 {
		t.Errorf("only the bare name should resolve, got %+v", got["x"])
	}
}

func TestReconcile_DuplicatesAcrossLabels(t *testing.T) {
	cats := domain.CategoryMap{
		"炒飯 🍚":  {domain.NameEntry("A")},
		"滷肉飯 🍚": {domain.NameEntry("A")},
	}

	got := Reconcile(cats, map[string]venue{"A": {Name: "A"}})

	if len(got["炒飯 🍚"]) != 1 || len(got["滷肉飯 🍚"]) != 1 {
		t.Errorf("a name may appear under several labels, got %+v", got)
	}
}
