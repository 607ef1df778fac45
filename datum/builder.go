package datum

// ObjectBuilder assembles an object datum field by field. Add reports a
// conflict instead of overwriting, which gives callers a statically narrow
// way to attach a field known to be absent: a true return at such a call
// site is an internal-consistency failure, not data to handle.
type ObjectBuilder struct {
	fields map[string]Datum
}

// NewObjectBuilder returns an empty builder.
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{fields: make(map[string]Datum)}
}

// BuildingFrom returns a builder seeded with base's fields. A missing or
// non-object base seeds an empty builder.
func BuildingFrom(base Datum) *ObjectBuilder {
	b := NewObjectBuilder()
	if base.typ == TypeObject {
		for k, v := range base.objVal {
			b.fields[k] = v
		}
	}
	return b
}

// Add sets key to val unless the key is already present. Returns true when
// the key was already present (a conflict); the existing value is kept.
func (b *ObjectBuilder) Add(key string, val Datum) bool {
	if _, ok := b.fields[key]; ok {
		return true
	}
	b.fields[key] = val
	return false
}

// Overwrite sets key to val unconditionally.
func (b *ObjectBuilder) Overwrite(key string, val Datum) {
	b.fields[key] = val
}

// Delete removes key, reporting whether it was present.
func (b *ObjectBuilder) Delete(key string) bool {
	if _, ok := b.fields[key]; !ok {
		return false
	}
	delete(b.fields, key)
	return true
}

// AddWarning appends a human-readable warning string to the object's
// "warnings" array, deduplicating against warnings already present and
// respecting the array size limit.
func (b *ObjectBuilder) AddWarning(msg string, limits Limits) {
	existing, ok := b.fields["warnings"]
	if !ok || existing.typ != TypeArray {
		b.fields["warnings"] = Array([]Datum{String(msg)})
		return
	}
	for i := 0; i < existing.Len(); i++ {
		if w := existing.Index(i); w.typ == TypeString && w.strVal == msg {
			return
		}
	}
	if existing.Len() >= limits.ArraySizeLimit() {
		return
	}
	arr := make([]Datum, 0, existing.Len()+1)
	arr = append(arr, existing.arrVal...)
	arr = append(arr, String(msg))
	b.fields["warnings"] = Datum{typ: TypeArray, arrVal: arr}
}

// AddWarnings appends one warning per recorded condition.
func (b *ObjectBuilder) AddWarnings(conds *ConditionSet, limits Limits) {
	for _, cond := range conds.All() {
		b.AddWarning(cond, limits)
	}
}

// Finish returns the built object. The builder must not be used afterwards.
func (b *ObjectBuilder) Finish() Datum {
	fields := b.fields
	b.fields = nil
	return objectOwned(fields)
}
