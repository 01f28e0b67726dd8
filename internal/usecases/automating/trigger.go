package automating

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/growzzy/growzzy-api/internal/domain"
)

var operators = map[string]func(value, threshold float64) bool{
	">":  func(v, t float64) bool { return v > t },
	"<":  func(v, t float64) bool { return v < t },
	">=": func(v, t float64) bool { return v >= t },
	"<=": func(v, t float64) bool { return v <= t },
	"==": func(v, t float64) bool { return v == t },
}

func validOperator(op string) bool {
	_, ok := operators[op]
	return ok
}

// Compare applies op to value and threshold. Unknown operators never match.
func Compare(value float64, op string, threshold float64) bool {
	fn, ok := operators[op]
	if !ok {
		return false
	}
	return fn(value, threshold)
}

// EvaluateThreshold is false for a missing campaign or an unknown metric.
func EvaluateThreshold(campaign *domain.Campaign, cfg domain.TriggerConfig) bool {
	if campaign == nil {
		return false
	}

	value, ok := campaign.Metric(cfg.Metric)
	if !ok {
		return false
	}
	return Compare(value, cfg.Operator, cfg.Value)
}

type hourRange struct {
	start, end int
}

// contains treats start > end as a range that wraps past midnight.
func (r hourRange) contains(hour int) bool {
	if r.start <= r.end {
		return hour >= r.start && hour < r.end
	}
	return hour >= r.start || hour < r.end
}

func parseHourRange(raw string) (hourRange, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return hourRange{}, fmt.Errorf("%w: range %q must look like 9-17", ErrInvalidTrigger, raw)
	}

	start, err := parseHour(parts[0])
	if err != nil {
		return hourRange{}, err
	}
	end, err := parseHour(parts[1])
	if err != nil {
		return hourRange{}, err
	}
	return hourRange{start: start, end: end}, nil
}

func parseHour(raw string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("%w: hour %q", ErrInvalidTrigger, raw)
	}
	return h, nil
}

// MatchesSchedule reports whether hour falls in any of the ranges.
// Malformed ranges are skipped.
func MatchesSchedule(hour int, schedule []string) bool {
	for _, raw := range schedule {
		r, err := parseHourRange(raw)
		if err != nil {
			continue
		}
		if r.contains(hour) {
			return true
		}
	}
	return false
}
