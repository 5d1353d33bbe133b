package review

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// KappaThreshold is the minimum kappa considered acceptable for screening
// reliability, per the Landis & Koch moderate/substantial boundary.
const KappaThreshold = 0.60

// ComputeAgreement derives Cohen's kappa and companion statistics from a
// 2x2 reviewer decision tally.
//
//	po = observed agreement proportion
//	pe = expected-by-chance agreement from the marginals
//	kappa = (po - pe) / (1 - pe)
//
// When pe equals 1 the statistic is undefined; the metric is returned
// with Defined=false and renders as null instead of failing the run.
func ComputeAgreement(t AgreementTally) AgreementMetric {
	n := float64(t.Total())
	if n == 0 {
		return AgreementMetric{Interpretation: "No data", ConfidenceLevel: "None"}
	}

	a := float64(t.BothInclude)
	b := float64(t.R1IncludeR2Exclude)
	c := float64(t.R1ExcludeR2Include)
	d := float64(t.BothExclude)

	po := (a + d) / n

	r1Include := (a + b) / n
	r1Exclude := (c + d) / n
	r2Include := (a + c) / n
	r2Exclude := (b + d) / n
	pe := r1Include*r2Include + r1Exclude*r2Exclude

	metric := AgreementMetric{
		ObservedAgreement: round3(po),
		ExpectedAgreement: round3(pe),
		PercentAgreement:  round1(po * 100),
		DisagreementRate:  round1(float64(t.Disagreements()) / n * 100),
		TotalAssessed:     t.Total(),
		Tally:             t,
	}

	if pe == 1 {
		metric.Kappa = math.NaN()
		metric.Defined = false
		metric.Interpretation = "Undefined (no chance-corrected variation)"
		metric.ConfidenceLevel = "None"
		return metric
	}

	kappa := (po - pe) / (1 - pe)
	metric.Kappa = round3(kappa)
	metric.Defined = true
	metric.Interpretation = InterpretKappa(kappa)
	metric.MeetsThreshold = kappa >= KappaThreshold

	switch {
	case kappa >= 0.75:
		metric.ConfidenceLevel = "High"
	case kappa >= KappaThreshold:
		metric.ConfidenceLevel = "Moderate"
	default:
		metric.ConfidenceLevel = "Low"
	}

	// Large-sample standard error of kappa, with a normal-approximation
	// 95% CI and two-tailed z-test against kappa = 0.
	se := math.Sqrt(po * (1 - po) / (n * (1 - pe) * (1 - pe)))
	metric.StdError = round3(se)
	if se > 0 {
		norm := distuv.Normal{Mu: 0, Sigma: 1}
		z := norm.Quantile(0.975)
		metric.CI95Low = round3(math.Max(kappa-z*se, -1))
		metric.CI95High = round3(math.Min(kappa+z*se, 1))
		metric.PValue = round3(2 * (1 - norm.CDF(math.Abs(kappa/se))))
	} else {
		metric.CI95Low = metric.Kappa
		metric.CI95High = metric.Kappa
	}

	return metric
}

// InterpretKappa maps a kappa value onto the Landis & Koch (1977) scale
func InterpretKappa(kappa float64) string {
	switch {
	case kappa < 0.00:
		return "Poor agreement"
	case kappa < 0.20:
		return "Slight agreement"
	case kappa < 0.40:
		return "Fair agreement"
	case kappa < 0.60:
		return "Moderate agreement"
	case kappa < 0.80:
		return "Substantial agreement"
	default:
		return "Almost perfect agreement"
	}
}

func round3(v float64) float64 {
	out, err := stats.Round(v, 3)
	if err != nil {
		return v
	}
	return out
}

func round1(v float64) float64 {
	out, err := stats.Round(v, 1)
	if err != nil {
		return v
	}
	return out
}
