package schema

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// requiredFields maps a collection to the fields a record must carry to
// load at all. A record missing one of these is dropped individually;
// the rest of the collection loads normally.
var requiredFields = map[string][]string{
	types.Clients:        {"id", "name"},
	types.Appointments:   {"id", "date"},
	types.Income:         {"id", "amount", "date"},
	types.Expenses:       {"id", "amount", "date"},
	types.Mileage:        {"id", "date", "miles"},
	types.Invoices:       {"id", "date", "total"},
	types.BusinessGoals:  {"id", "name", "targetAmount"},
	types.RecurringRules: {"id", "frequency", "startDate"},
}

// dateFields maps a collection to the field whose value must parse as a
// date for the record to be usable.
var dateFields = map[string]string{
	types.Appointments:   "date",
	types.Income:         "date",
	types.Expenses:       "date",
	types.Mileage:        "date",
	types.Invoices:       "date",
	types.RecurringRules: "startDate",
}

// optionalDefaults maps a collection to documented defaults filled in
// when the field is absent.
var optionalDefaults = map[string]map[string]any{
	types.Appointments:   {"status": types.StatusScheduled},
	types.Income:         {"taxable": true},
	types.Expenses:       {"category": "Other", "taxDeductible": true},
	types.Invoices:       {"status": types.InvoiceDraft, "tax": "0"},
	types.BusinessGoals:  {"currentAmount": "0"},
	types.RecurringRules: {"isActive": true},
}

// Normalize turns raw stored records into a structurally valid collection
// of the current shape. It migrates older versions through the chain,
// fills documented defaults, and drops individual records that fail a
// required-field check, logging each drop. The result is always valid,
// even if empty. Unknown future versions return ErrUnsupportedVersion.
func Normalize(collection string, version int, raw []json.RawMessage, logger *log.Logger) ([]json.RawMessage, error) {
	records := decode(collection, raw, logger)

	if err := migrate(collection, version, records); err != nil {
		return nil, err
	}

	kept := validate(collection, records, logger)

	out := make([]json.RawMessage, 0, len(kept))
	for _, rec := range kept {
		data, err := json.Marshal(rec)
		if err != nil {
			// Not reachable for maps decoded from JSON; drop defensively.
			continue
		}
		out = append(out, json.RawMessage(data))
	}
	return out, nil
}

// decode parses raw records into maps, dropping lines that are not JSON
// objects. Numbers decode as json.Number so values survive re-encoding
// unchanged.
func decode(collection string, raw []json.RawMessage, logger *log.Logger) []map[string]any {
	records := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		dec := json.NewDecoder(bytes.NewReader(r))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil || rec == nil {
			logf(logger, "dropping unreadable %s record: %v", collection, err)
			continue
		}
		records = append(records, rec)
	}
	return records
}

// validate applies defaults and drops records failing required checks.
func validate(collection string, records []map[string]any, logger *log.Logger) []map[string]any {
	required := requiredFields[collection]
	defaults := optionalDefaults[collection]
	dateField := dateFields[collection]

	kept := records[:0]
recordLoop:
	for _, rec := range records {
		for _, field := range required {
			if !hasValue(rec, field) {
				logf(logger, "dropping %s record %v: missing %s", collection, rec["id"], field)
				continue recordLoop
			}
		}
		if dateField != "" {
			str, ok := rec[dateField].(string)
			if !ok {
				logf(logger, "dropping %s record %v: %s is not a string", collection, rec["id"], dateField)
				continue
			}
			if _, err := dates.Parse(str); err != nil {
				logf(logger, "dropping %s record %v: %v", collection, rec["id"], err)
				continue
			}
		}
		for field, value := range defaults {
			if _, ok := rec[field]; !ok {
				rec[field] = value
			}
		}
		kept = append(kept, rec)
	}
	return kept
}

// hasValue reports whether the field is present and, for strings,
// non-empty.
func hasValue(rec map[string]any, field string) bool {
	v, ok := rec[field]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

func logf(logger *log.Logger, format string, args ...any) {
	if logger != nil {
		logger.Printf(format, args...)
	}
}
