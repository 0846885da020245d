package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/neighborly/internal/core/history"
	"github.com/hay-kot/neighborly/internal/core/kv"
	"github.com/hay-kot/neighborly/pkg/randid"
)

// selfTestPrefix is suffixed with a random id so concurrent runs do not collide.
const selfTestPrefix = history.KeyPrefix + "doctor_selftest_"

// RecordsCheck verifies the storage backend is writable and that every record
// under the history namespace is a log the history store can read back.
type RecordsCheck struct {
	store   kv.Store
	backend string
	fix     bool
}

// NewRecordsCheck creates a new history records check.
// If fix is true, corrupt and unknown records are deleted.
func NewRecordsCheck(store kv.Store, backend string, fix bool) *RecordsCheck {
	return &RecordsCheck{
		store:   store,
		backend: backend,
		fix:     fix,
	}
}

func (c *RecordsCheck) Name() string {
	return "History Storage"
}

func (c *RecordsCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}
	label := "Backend " + c.backend

	switch err := c.roundTrip(ctx); {
	case errors.Is(err, kv.ErrUnavailable):
		result.warn(label, "history is not persisted: "+err.Error())
		return result
	case err != nil:
		result.fail(label, err.Error())
		return result
	}
	result.pass(label, "read/write ok")

	records, err := c.store.List(ctx, history.KeyPrefix)
	if err != nil {
		result.fail("List records", err.Error())
		return result
	}

	bad := 0
	for _, record := range records {
		if err := history.CheckRecord(record.Key, record.Value); err != nil {
			bad++
			result.add(c.repair(ctx, record.Key, err))
		}
	}

	if bad == 0 {
		result.pass("Records", fmt.Sprintf("%d record(s) valid", len(records)))
	}
	return result
}

func (c *RecordsCheck) roundTrip(ctx context.Context) error {
	key := selfTestPrefix + randid.Generate(8)
	if err := c.store.Set(ctx, key, "[]"); err != nil {
		return err
	}
	if _, err := c.store.Get(ctx, key); err != nil {
		return err
	}
	return c.store.Delete(ctx, key)
}

// repair reports a bad record and, with --fix, deletes it.
func (c *RecordsCheck) repair(ctx context.Context, key string, problem error) Item {
	item := Item{Label: key, Key: key, Detail: problem.Error()}

	if !c.fix {
		item.Status = StatusWarn
		item.Fixable = true
		return item
	}

	if err := c.store.Delete(ctx, key); err != nil {
		item.Status = StatusFail
		item.Detail = fmt.Sprintf("%s; delete failed: %v", problem, err)
		return item
	}

	item.Status = StatusPass
	item.Detail = "deleted (" + problem.Error() + ")"
	return item
}
