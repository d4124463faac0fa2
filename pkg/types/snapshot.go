package types

import "encoding/json"

// Snapshot is the single portable backup document: every collection keyed
// by name, plus a creation timestamp and a format tag. A snapshot is
// created on demand for export and consumed once on import, at which
// point it fully replaces stored state. There is no merge.
type Snapshot struct {
	Clients        []json.RawMessage `json:"clients"`
	Appointments   []json.RawMessage `json:"appointments"`
	Income         []json.RawMessage `json:"income"`
	Expenses       []json.RawMessage `json:"expenses"`
	Mileage        []json.RawMessage `json:"mileage"`
	Invoices       []json.RawMessage `json:"invoices"`
	BusinessGoals  []json.RawMessage `json:"businessGoals"`
	RecurringRules []json.RawMessage `json:"recurringRules"`
	ExportDate     string            `json:"exportDate"`
	Version        string            `json:"version,omitempty"`
}

// Collection returns the records stored under the given collection name
// and whether the key was present in the document at all. A present but
// empty array reports true with zero records; a missing key reports
// false, which import treats very differently.
func (s *Snapshot) Collection(name string) ([]json.RawMessage, bool) {
	recs := s.collectionRef(name)
	if recs == nil {
		return nil, false
	}
	return *recs, *recs != nil
}

// SetCollection stores records under the given collection name. Nil
// records are normalized to an empty array so the key is always present
// in the exported document.
func (s *Snapshot) SetCollection(name string, records []json.RawMessage) {
	recs := s.collectionRef(name)
	if recs == nil {
		return
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	*recs = records
}

// collectionRef maps a collection name to its field. Returns nil for
// unknown names.
func (s *Snapshot) collectionRef(name string) *[]json.RawMessage {
	switch name {
	case Clients:
		return &s.Clients
	case Appointments:
		return &s.Appointments
	case Income:
		return &s.Income
	case Expenses:
		return &s.Expenses
	case Mileage:
		return &s.Mileage
	case Invoices:
		return &s.Invoices
	case BusinessGoals:
		return &s.BusinessGoals
	case RecurringRules:
		return &s.RecurringRules
	default:
		return nil
	}
}
