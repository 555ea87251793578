package registry

// Override replaces the catalog lookup for one type name across all
// categories. Exactly one of the two fields is set: Initialize builds the
// instance directly from normalized parameters, while Entry hands a
// replacement class description to the regular category handling.
type Override struct {
	Initialize Constructor
	Entry      *Entry
}

// Overrides maps type names to their overrides. The table is assembled
// before instantiation begins and never mutated afterwards, so it is safe
// for concurrent readers.
type Overrides map[string]Override

// Lookup returns the override for a type name, if any.
func (o Overrides) Lookup(typeName string) (Override, bool) {
	ov, ok := o[typeName]
	return ov, ok
}
