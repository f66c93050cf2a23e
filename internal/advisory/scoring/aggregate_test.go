package scoring

import (
	"context"
	"math"
	"testing"

	telemetry "nautilus-one/internal/telemetry/domain"
)

func TestFieldMeanScorer(t *testing.T) {
	scorer, err := NewFieldMeanScorer([]string{"nonConformities", "overdueAudits", "docExpiry"})
	if err != nil {
		t.Fatalf("scorer: %v", err)
	}

	cases := []struct {
		name string
		snap telemetry.Snapshot
		want float64
	}{
		{
			name: "all present",
			snap: telemetry.Snapshot{"nonConformities": 0.3, "overdueAudits": 0.6, "docExpiry": 0.9},
			want: 0.6,
		},
		{
			name: "missing counts as zero",
			snap: telemetry.Snapshot{"nonConformities": 0.9},
			want: 0.3,
		},
		{
			name: "out of range clamped",
			snap: telemetry.Snapshot{"nonConformities": 3.0, "overdueAudits": -1.0, "docExpiry": 0.0},
			want: 1.0 / 3.0,
		},
		{
			name: "empty snapshot",
			snap: telemetry.Snapshot{},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scorer.Score(context.Background(), tc.snap)
			if err != nil {
				t.Fatalf("score: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("score = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestNewFieldMeanScorerRequiresFields(t *testing.T) {
	if _, err := NewFieldMeanScorer(nil); err == nil {
		t.Fatal("expected error")
	}
}
