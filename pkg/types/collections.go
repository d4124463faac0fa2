package types

// Collection names. Each is the storage key of one JSON array of records.
const (
	Clients        = "clients"
	Appointments   = "appointments"
	Income         = "income"
	Expenses       = "expenses"
	Mileage        = "mileage"
	Invoices       = "invoices"
	BusinessGoals  = "businessGoals"
	RecurringRules = "recurringRules"
)

// AllCollections lists every collection in snapshot order.
var AllCollections = []string{
	Clients,
	Appointments,
	Income,
	Expenses,
	Mileage,
	Invoices,
	BusinessGoals,
	RecurringRules,
}

// CoreCollections are the arrays a snapshot must carry to be importable.
var CoreCollections = []string{Clients, Appointments, Income, Expenses}

// knownCollections is the set of recognized collection names.
var knownCollections = map[string]bool{
	Clients:        true,
	Appointments:   true,
	Income:         true,
	Expenses:       true,
	Mileage:        true,
	Invoices:       true,
	BusinessGoals:  true,
	RecurringRules: true,
}

// KnownCollection reports whether name is one of the standard collections.
// The store itself also accepts ad hoc keys (per-screen preferences share
// the storage mechanism) but the schema and snapshot layers do not.
func KnownCollection(name string) bool { return knownCollections[name] }
