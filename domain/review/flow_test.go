package review

import (
	"math"
	"reflect"
	"testing"
)

func TestBuildFlow_GoldenScenario(t *testing.T) {
	// Published review numbers: 462 identified, 60 excluded at
	// title/abstract, 314 at full text, 88 included.
	flow, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}

	if len(flow.Phases) != 4 {
		t.Fatalf("expected 4 phases, got %d", len(flow.Phases))
	}

	screening, ok := flow.PhaseByName(PhaseScreening)
	if !ok {
		t.Fatal("screening phase missing")
	}
	if screening.RecordsIn != 462 || screening.Excluded != 60 || screening.RecordsOut() != 402 {
		t.Errorf("screening phase wrong: in=%d excluded=%d out=%d",
			screening.RecordsIn, screening.Excluded, screening.RecordsOut())
	}

	eligibility, _ := flow.PhaseByName(PhaseEligibility)
	if eligibility.RecordsIn != 402 || eligibility.Excluded != 314 || eligibility.RecordsOut() != 88 {
		t.Errorf("eligibility phase wrong: in=%d excluded=%d out=%d",
			eligibility.RecordsIn, eligibility.Excluded, eligibility.RecordsOut())
	}
	if eligibility.CumulativeExcluded != 374 {
		t.Errorf("cumulative exclusion after full text = %d, want 374", eligibility.CumulativeExcluded)
	}

	included, _ := flow.PhaseByName(PhaseIncluded)
	if included.RecordsOut() != 88 {
		t.Errorf("final included = %d, want 88", included.RecordsOut())
	}
	if flow.TotalExcluded != 374 {
		t.Errorf("total excluded = %d, want 374", flow.TotalExcluded)
	}
}

func TestBuildFlow_PhaseChaining(t *testing.T) {
	flow, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}

	// records_out of phase N equals records_in of phase N+1
	for i := 0; i < len(flow.Phases)-1; i++ {
		out := flow.Phases[i].RecordsOut()
		next := flow.Phases[i+1]
		if out != next.RecordsIn {
			t.Errorf("phase %s out %d != phase %s in %d",
				flow.Phases[i].Phase, out, next.Phase, next.RecordsIn)
		}
	}
}

func TestBuildFlow_BreakdownReconciliation(t *testing.T) {
	flow, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}

	screening, _ := flow.PhaseByName(PhaseScreening)
	eligibility, _ := flow.PhaseByName(PhaseEligibility)

	sumFor := func(phase ScreeningPhase) int {
		sum := 0
		for _, e := range flow.ExclusionsFor(phase) {
			sum += e.Count
		}
		return sum
	}

	if got := sumFor(ScreenTitleAbstract); got != screening.Excluded {
		t.Errorf("title/abstract reasons sum to %d, phase excluded %d", got, screening.Excluded)
	}
	if got := sumFor(ScreenFullText); got != eligibility.Excluded {
		t.Errorf("full-text reasons sum to %d, phase excluded %d", got, eligibility.Excluded)
	}
}

func TestBuildFlow_PercentageSums(t *testing.T) {
	cfg := DefaultConfig()
	flow, err := BuildFlow(cfg)
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}

	for _, phase := range []ScreeningPhase{ScreenTitleAbstract, ScreenFullText} {
		reasons := flow.ExclusionsFor(phase)
		var sum, expected float64
		var excluded int
		for _, e := range reasons {
			sum += e.PercentageOfInitial
			excluded += e.Count
		}
		expected = 100 * float64(excluded) / float64(cfg.InitialRecords)

		// Each reason may be off by at most half a rounding unit
		tolerance := 0.005 * float64(len(reasons))
		if math.Abs(sum-expected) > tolerance {
			t.Errorf("%s percentages sum %.4f, want %.4f within %.4f", phase, sum, expected, tolerance)
		}
	}
}

func TestPercentOfInitial(t *testing.T) {
	tests := []struct {
		count, initial int
		want           float64
	}{
		{95, 462, 20.56},
		{10, 462, 2.16},
		{6, 462, 1.3},
		{29, 462, 6.28},
		{0, 462, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := PercentOfInitial(tt.count, tt.initial); got != tt.want {
			t.Errorf("PercentOfInitial(%d, %d) = %v, want %v", tt.count, tt.initial, got, tt.want)
		}
	}
}

func TestBuildFlow_Deterministic(t *testing.T) {
	a, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}
	b, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical configs must produce identical flow results")
	}
}

func TestBuildFlow_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FullTextExcluded = 500 // exceeds the 402 remaining after screening
	cfg.FullTextBreakdown = []ReasonCount{{Reason: "not_relevant", Count: 500}}

	if _, err := BuildFlow(cfg); err == nil {
		t.Fatal("expected error for negative remainder")
	}
}

func TestBuildFlow_ReasonStats(t *testing.T) {
	flow, err := BuildFlow(DefaultConfig())
	if err != nil {
		t.Fatalf("BuildFlow failed: %v", err)
	}

	if len(flow.ReasonStats) != 2 {
		t.Fatalf("expected stats for both screening phases, got %d", len(flow.ReasonStats))
	}

	ft := flow.ReasonStats[1]
	if ft.Phase != ScreenFullText {
		t.Fatalf("expected full-text stats second, got %s", ft.Phase)
	}
	if ft.Sum != 314 {
		t.Errorf("full-text reason sum = %v, want 314", ft.Sum)
	}
	if ft.Max != 95 || ft.Min != 29 {
		t.Errorf("full-text min/max = %v/%v, want 29/95", ft.Min, ft.Max)
	}
	if ft.Mean != 62.8 {
		t.Errorf("full-text mean = %v, want 62.8", ft.Mean)
	}
	if ft.Median != 60 {
		t.Errorf("full-text median = %v, want 60", ft.Median)
	}
}

func TestSortedExclusions(t *testing.T) {
	reasons := []ExclusionReason{
		{Phase: ScreenTitleAbstract, Reason: "Beta", Count: 4},
		{Phase: ScreenTitleAbstract, Reason: "Alpha", Count: 4},
		{Phase: ScreenTitleAbstract, Reason: "Gamma", Count: 10},
	}

	sorted := SortedExclusions(reasons)
	if sorted[0].Reason != "Gamma" {
		t.Errorf("expected dominant reason first, got %q", sorted[0].Reason)
	}
	if sorted[1].Reason != "Alpha" || sorted[2].Reason != "Beta" {
		t.Errorf("ties must break by reason name, got %v", sorted)
	}
	if reasons[0].Reason != "Beta" {
		t.Error("input slice must not be mutated")
	}
}

func TestTitleReason(t *testing.T) {
	tests := []struct{ in, want string }{
		{"duplicate_methodologies", "Duplicate Methodologies"},
		{"no_spatial_resolution", "No Spatial Resolution"},
		{"other_reasons", "Other Reasons"},
		{"single", "Single"},
	}
	for _, tt := range tests {
		if got := TitleReason(tt.in); got != tt.want {
			t.Errorf("TitleReason(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
