package validation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

var (
	target    = decimal.NewFromInt(TargetProbability)
	tolerance = decimal.NewFromFloat(ProbabilityTolerance)
)

// Validate checks a config against the catalog and trigger invariants.
// It never mutates the config and never fails; problems are reported as issues.
func Validate(cfg domain.Config) domain.ValidationResult {
	var issues []string

	total := TotalActiveProbability(cfg.Rewards)
	if total.Sub(target).Abs().GreaterThan(tolerance) {
		issues = append(issues, fmt.Sprintf(IssueFmtTotalProbability, total.String(), TargetProbability, tolerance.String()))
	}

	seen := make(map[int]bool, len(cfg.Rewards))
	reported := make(map[int]bool)
	activeCount := 0
	for _, r := range cfg.Rewards {
		if r.Probability < 0 {
			issues = append(issues, fmt.Sprintf(IssueFmtNegativeProbability, r.ID, decimal.NewFromFloat(r.Probability).String()))
		}
		if seen[r.ID] && !reported[r.ID] {
			issues = append(issues, fmt.Sprintf(IssueFmtDuplicateRewardID, r.ID))
			reported[r.ID] = true
		}
		seen[r.ID] = true
		if r.Active {
			activeCount++
		}
	}

	if cfg.IsActive && activeCount == 0 {
		issues = append(issues, IssueNoActiveRewards)
	}

	issues = append(issues, thresholdIssues(cfg.Triggers.Threshold)...)
	issues = append(issues, structuralIssues(cfg)...)

	if issues == nil {
		issues = []string{}
	}

	return domain.ValidationResult{
		Valid:            len(issues) == 0,
		Issues:           issues,
		TotalProbability: total.InexactFloat64(),
	}
}

// TotalActiveProbability sums the probabilities of active rewards without float drift
func TotalActiveProbability(rewards []domain.Reward) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rewards {
		if r.Active {
			total = total.Add(decimal.NewFromFloat(r.Probability))
		}
	}
	return total
}

func thresholdIssues(t domain.ThresholdTrigger) []string {
	var issues []string
	seen := make(map[string]bool, len(t.Thresholds))
	for _, th := range t.Thresholds {
		if th.ID != "" && seen[th.ID] {
			issues = append(issues, fmt.Sprintf(IssueFmtDuplicateThreshold, th.ID))
		}
		seen[th.ID] = true
	}
	return issues
}
