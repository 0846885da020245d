// Package doctor holds the health checks behind `neighborly doctor` and
// `neighborly config validate`.
package doctor

import "context"

// Status is the outcome of one item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Item is a single finding. Key is set when the item concerns a stored
// history record; those are the items --fix can repair.
type Item struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Key     string `json:"key,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`
}

// Result groups the items of one check.
type Result struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

func (r *Result) pass(label, detail string) { r.add(Item{Label: label, Status: StatusPass, Detail: detail}) }
func (r *Result) warn(label, detail string) { r.add(Item{Label: label, Status: StatusWarn, Detail: detail}) }
func (r *Result) fail(label, detail string) { r.add(Item{Label: label, Status: StatusFail, Detail: detail}) }

func (r *Result) add(item Item) {
	r.Items = append(r.Items, item)
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// Report is the outcome of a doctor run.
type Report struct {
	Results []Result `json:"checks"`
}

// Run executes checks in order.
func Run(ctx context.Context, checks ...Check) Report {
	report := Report{Results: make([]Result, 0, len(checks))}
	for _, check := range checks {
		report.Results = append(report.Results, check.Run(ctx))
	}
	return report
}

// Counts tallies items by status.
func (r Report) Counts() (passed, warned, failed int) {
	for _, res := range r.Results {
		for _, item := range res.Items {
			switch item.Status {
			case StatusPass:
				passed++
			case StatusWarn:
				warned++
			case StatusFail:
				failed++
			}
		}
	}
	return passed, warned, failed
}

// Healthy reports whether no item failed.
func (r Report) Healthy() bool {
	_, _, failed := r.Counts()
	return failed == 0
}

// FixableKeys lists the history records --fix would delete.
func (r Report) FixableKeys() []string {
	var keys []string
	for _, res := range r.Results {
		for _, item := range res.Items {
			if item.Fixable && item.Status != StatusPass {
				keys = append(keys, item.Key)
			}
		}
	}
	return keys
}
