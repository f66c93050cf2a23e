package telemetry

import (
	"reflect"
	"testing"
)

func TestVectorAllFieldsPresent(t *testing.T) {
	spec := DPFeatureSpec()
	snap := Snapshot{
		"windSpeed":     5.0,
		"currentSpeed":  1.0,
		"mode":          "AUTO",
		"load":          0.2,
		"generatorLoad": 0.3,
		"positionError": 0.1,
	}

	vector, missing := spec.Vector(snap)
	if len(vector) != len(spec.Fields) {
		t.Fatalf("vector length = %d, want %d", len(vector), len(spec.Fields))
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing fields: %v", missing)
	}
	want := []float64{5, 1, 1, 0.2, 0.3, 0.1}
	if !reflect.DeepEqual(vector, want) {
		t.Fatalf("vector = %v, want %v", vector, want)
	}
}

func TestVectorMissingFieldDefaultsToZero(t *testing.T) {
	spec := DPFeatureSpec()
	snap := Snapshot{
		"windSpeed":     5.0,
		"currentSpeed":  1.0,
		"mode":          "AUTO",
		"load":          0.2,
		"positionError": 0.1,
	}

	vector, missing := spec.Vector(snap)
	if vector[4] != 0 {
		t.Fatalf("missing generatorLoad should default to 0, got %v", vector[4])
	}
	if !reflect.DeepEqual(missing, []string{"generatorLoad"}) {
		t.Fatalf("missing = %v, want [generatorLoad]", missing)
	}
	// Other positions are untouched.
	want := []float64{5, 1, 1, 0.2, 0, 0.1}
	if !reflect.DeepEqual(vector, want) {
		t.Fatalf("vector = %v, want %v", vector, want)
	}
}

func TestVectorCategoricalEncoding(t *testing.T) {
	spec := DPFeatureSpec()

	vector, _ := spec.Vector(Snapshot{"mode": "AUTO"})
	if vector[2] != 1 {
		t.Fatalf("mode AUTO should encode to 1, got %v", vector[2])
	}

	vector, _ = spec.Vector(Snapshot{"mode": "MANUAL"})
	if vector[2] != 0 {
		t.Fatalf("mode MANUAL should encode to 0, got %v", vector[2])
	}

	vector, missing := spec.Vector(Snapshot{})
	if vector[2] != 0 {
		t.Fatalf("absent mode should encode to 0, got %v", vector[2])
	}
	found := false
	for _, key := range missing {
		if key == "mode" {
			found = true
		}
	}
	if !found {
		t.Fatalf("absent mode should be reported missing, got %v", missing)
	}
}

func TestSnapshotNumberCoercion(t *testing.T) {
	snap := Snapshot{"a": 1, "b": int64(2), "c": float32(3), "d": "texto"}
	if v, ok := snap.Number("a"); !ok || v != 1 {
		t.Fatalf("int field: got %v %v", v, ok)
	}
	if v, ok := snap.Number("b"); !ok || v != 2 {
		t.Fatalf("int64 field: got %v %v", v, ok)
	}
	if v, ok := snap.Number("c"); !ok || v != 3 {
		t.Fatalf("float32 field: got %v %v", v, ok)
	}
	if _, ok := snap.Number("d"); ok {
		t.Fatalf("text field should not read as number")
	}
	if _, ok := snap.Number("e"); ok {
		t.Fatalf("absent field should not read as number")
	}
}
