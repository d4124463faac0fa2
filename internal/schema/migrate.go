// Package schema validates loaded collections against the current shape
// and upgrades records written under older shapes. It is the single
// place where new fields are introduced: one ordered chain of pure
// migration steps, applied once each, in order.
package schema

import (
	"fmt"

	"github.com/mesh-intelligence/daybook/pkg/types"
)

// CurrentVersion is the shape version this build reads and writes.
const CurrentVersion = types.SchemaVersion

// A migration upgrades every collection from version-1 to version. Steps
// are pure: they only fill newly introduced fields with their documented
// defaults and never drop records (validation does that afterwards).
type migration struct {
	version int
	apply   func(collection string, records []map[string]any)
}

// migrations is the linear chain v1 -> v2 -> v3.
var migrations = []migration{
	{version: 2, apply: migrateV2},
	{version: 3, apply: migrateV3},
}

// migrateV2 introduced appointment statuses and taxable income.
func migrateV2(collection string, records []map[string]any) {
	switch collection {
	case types.Appointments:
		fillMissing(records, "status", types.StatusScheduled)
	case types.Income:
		fillMissing(records, "taxable", true)
	}
}

// migrateV3 introduced deductibility flags, per-entry mileage rates, and
// the active flag on recurring rules.
func migrateV3(collection string, records []map[string]any) {
	switch collection {
	case types.Expenses:
		fillMissing(records, "taxDeductible", true)
	case types.Mileage:
		fillMissing(records, "rate", types.DefaultMileageRate.String())
	case types.RecurringRules:
		fillMissing(records, "isActive", true)
	}
}

// fillMissing sets field to value on every record that lacks it.
func fillMissing(records []map[string]any, field string, value any) {
	for _, rec := range records {
		if _, ok := rec[field]; !ok {
			rec[field] = value
		}
	}
}

// migrate runs every chain step above from. Versions newer than this
// build understands are rejected, never guessed at.
func migrate(collection string, from int, records []map[string]any) error {
	if from > CurrentVersion {
		return fmt.Errorf("%w: collection %q is at v%d, this build supports up to v%d",
			types.ErrUnsupportedVersion, collection, from, CurrentVersion)
	}
	if from < 1 {
		from = 1
	}
	for _, m := range migrations {
		if m.version > from {
			m.apply(collection, records)
		}
	}
	return nil
}
