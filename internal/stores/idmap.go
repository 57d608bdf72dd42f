package stores

// ReconciliationMap resolves wizard-local product references to the
// durable identifiers finalize assigned. Candidates reference products
// two ways: by the opaque key the platform supplied, or by name when no
// key existed. Later entries overwrite earlier ones, so among
// duplicate-named products the last one recorded wins.
type ReconciliationMap struct {
	assigned map[string]string
}

func NewReconciliationMap() *ReconciliationMap {
	return &ReconciliationMap{assigned: make(map[string]string)}
}

// Record registers a product under both its wizard-local key and its
// name. Empty keys are skipped.
func (m *ReconciliationMap) Record(localKey, name, id string) {
	if localKey != "" {
		m.assigned[localKey] = id
	}
	if name != "" {
		m.assigned[name] = id
	}
}

// Resolve returns the durable identifier for a reference, or false when
// the reference matches nothing that was persisted.
func (m *ReconciliationMap) Resolve(ref string) (string, bool) {
	id, ok := m.assigned[ref]
	return id, ok
}
