// Package recur keeps the appointment collection populated with every
// occurrence of every active recurring rule from today through a fixed
// horizon, without duplicates and without retroactively creating past
// occurrences. Each rule's high-water mark is persisted immediately
// after every step, so a crash mid-run resumes from the last confirmed
// point instead of re-scanning: the whole procedure is idempotent and
// safely re-entrant.
package recur

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/mesh-intelligence/daybook/internal/schema"
	"github.com/mesh-intelligence/daybook/pkg/dates"
	"github.com/mesh-intelligence/daybook/pkg/types"
)

// generatedNoteSuffix marks appointments materialized by the engine.
const generatedNoteSuffix = "(Recurring)"

// Engine expands recurring rules into concrete appointments.
type Engine struct {
	store         types.Store
	horizonMonths int
	logger        *log.Logger

	// today is the generation anchor, overridable in tests.
	today func() dates.Date
}

// New creates an Engine writing through store. A non-positive horizon
// falls back to the default of three months ahead.
func New(store types.Store, horizonMonths int, logger *log.Logger) *Engine {
	if horizonMonths <= 0 {
		horizonMonths = types.DefaultHorizonMonths
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Engine{
		store:         store,
		horizonMonths: horizonMonths,
		logger:        logger,
		today:         dates.Today,
	}
}

// SetToday overrides the generation anchor. For tests.
func (e *Engine) SetToday(today func() dates.Date) {
	if today != nil {
		e.today = today
	}
}

// Result summarizes one generation run.
type Result struct {
	Generated    int // appointments materialized
	SkippedRules int // malformed rules skipped
}

// occurrenceKey identifies a materialized occurrence. At most one
// appointment may exist per key; this is the engine's central
// correctness property.
type occurrenceKey struct {
	ruleID   string
	date     string
	clientID string
}

// Run generates appointments for every active rule up to the horizon.
// A malformed rule (unknown frequency, interval below one) is skipped
// and logged; it never aborts generation for the others. The engine only
// creates appointments: a generated appointment the user deleted is not
// recreated, because the rule's high-water mark has already advanced
// past its date.
func (e *Engine) Run() (Result, error) {
	var res Result

	rules, err := e.loadRules()
	if err != nil {
		return res, err
	}
	appts, err := e.loadAppointments()
	if err != nil {
		return res, err
	}

	existing := make(map[occurrenceKey]bool, len(appts))
	for _, a := range appts {
		if a.RecurringRuleID == "" {
			continue
		}
		existing[occurrenceKey{a.RecurringRuleID, a.Date.String(), a.ClientID}] = true
	}

	today := e.today()
	horizon := today.AddMonths(e.horizonMonths)

	for i := range rules {
		rule := &rules[i]
		if !rule.Active {
			continue
		}
		if err := rule.Validate(); err != nil {
			e.logger.Printf("skipping rule %s: %v", rule.ID, err)
			res.SkippedRules++
			continue
		}
		generated, err := e.generateRule(rule, rules, &appts, existing, today, horizon)
		res.Generated += generated
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

// generateRule walks one rule's occurrence dates from its high-water
// mark (or start date) to the horizon. After each step both collections
// are persisted, appointments first: if the run dies between the two
// writes, the next run finds the appointment by its occurrence key and
// does not duplicate it.
func (e *Engine) generateRule(rule *types.RecurringRule, rules []types.RecurringRule,
	appts *[]types.Appointment, existing map[occurrenceKey]bool, today, horizon dates.Date) (int, error) {

	generated := 0
	var cursor dates.Date

	if rule.LastGenerated == nil {
		// First pass for this rule. The start date itself is an
		// occurrence when it falls within the generation window; a
		// start date in the past fast-forwards without materializing.
		cursor = rule.StartDate
		if cursor.After(horizon) {
			return 0, nil
		}
		if !cursor.Before(today) && e.materialize(rule, cursor, appts, existing) {
			generated++
		}
		if err := e.persistStep(rule, cursor, rules, *appts); err != nil {
			return generated, err
		}
	} else {
		cursor = *rule.LastGenerated
	}

	for {
		next, err := Advance(cursor, rule.Frequency, rule.Interval)
		if err != nil {
			return generated, err
		}
		if next.After(horizon) {
			return generated, nil
		}
		if !next.Before(today) && e.materialize(rule, next, appts, existing) {
			generated++
		}
		if err := e.persistStep(rule, next, rules, *appts); err != nil {
			return generated, err
		}
		cursor = next
	}
}

// materialize appends a new appointment for the occurrence unless one
// with the same (rule, date, client) key already exists. Reports whether
// an appointment was created.
func (e *Engine) materialize(rule *types.RecurringRule, on dates.Date,
	appts *[]types.Appointment, existing map[occurrenceKey]bool) bool {

	key := occurrenceKey{rule.ID, on.String(), rule.ClientID}
	if existing[key] {
		return false
	}

	notes := generatedNoteSuffix
	if rule.Notes != "" {
		notes = rule.Notes + " " + generatedNoteSuffix
	}
	*appts = append(*appts, types.Appointment{
		ID:              types.NewID(),
		ClientID:        rule.ClientID,
		Date:            on,
		Time:            rule.Time,
		Service:         rule.Service,
		Status:          types.StatusScheduled,
		Notes:           notes,
		RecurringRuleID: rule.ID,
	})
	existing[key] = true
	return true
}

// persistStep advances the rule's high-water mark to cursor and writes
// both collections through the store immediately, never the debounced
// path. Appointments go first; see generateRule.
func (e *Engine) persistStep(rule *types.RecurringRule, cursor dates.Date,
	rules []types.RecurringRule, appts []types.Appointment) error {

	mark := cursor
	rule.LastGenerated = &mark

	apptRecords, err := marshalAppointments(appts)
	if err != nil {
		return err
	}
	if err := e.store.Write(types.Appointments, apptRecords); err != nil {
		return fmt.Errorf("persist appointments: %w", err)
	}

	ruleRecords, err := marshalRules(rules)
	if err != nil {
		return err
	}
	if err := e.store.Write(types.RecurringRules, ruleRecords); err != nil {
		return fmt.Errorf("persist recurring rules: %w", err)
	}
	return nil
}

// loadRules reads and normalizes the recurring-rule collection.
func (e *Engine) loadRules() ([]types.RecurringRule, error) {
	raw, version, err := e.store.Read(types.RecurringRules)
	if err != nil {
		return nil, err
	}
	normalized, err := schema.Normalize(types.RecurringRules, version, raw, e.logger)
	if err != nil {
		return nil, err
	}
	rules := make([]types.RecurringRule, 0, len(normalized))
	for _, rec := range normalized {
		var r types.RecurringRule
		if err := json.Unmarshal(rec, &r); err != nil {
			e.logger.Printf("skipping undecodable recurring rule: %v", err)
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// loadAppointments reads and normalizes the appointment collection.
func (e *Engine) loadAppointments() ([]types.Appointment, error) {
	raw, version, err := e.store.Read(types.Appointments)
	if err != nil {
		return nil, err
	}
	normalized, err := schema.Normalize(types.Appointments, version, raw, e.logger)
	if err != nil {
		return nil, err
	}
	appts := make([]types.Appointment, 0, len(normalized))
	for _, rec := range normalized {
		var a types.Appointment
		if err := json.Unmarshal(rec, &a); err != nil {
			e.logger.Printf("skipping undecodable appointment: %v", err)
			continue
		}
		appts = append(appts, a)
	}
	return appts, nil
}

// marshalAppointments encodes appointments as raw collection records.
func marshalAppointments(appts []types.Appointment) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(appts))
	for _, a := range appts {
		data, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal appointment %s: %w", a.ID, err)
		}
		records = append(records, json.RawMessage(data))
	}
	return records, nil
}

// marshalRules encodes rules as raw collection records.
func marshalRules(rules []types.RecurringRule) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(rules))
	for _, r := range rules {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("marshal recurring rule %s: %w", r.ID, err)
		}
		records = append(records, json.RawMessage(data))
	}
	return records, nil
}
