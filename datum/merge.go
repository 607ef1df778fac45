package datum

// MergeFunc resolves one conflicting key when two objects are merged.
// It receives both operand values and may record conditions; returning a
// missing datum drops the key from the result.
type MergeFunc func(key string, left, right Datum, limits Limits, conds *ConditionSet) (Datum, error)

// Merge combines two datums. When both are objects the result carries the
// union of their fields, with fn resolving keys present in both operands.
// When either operand is not an object, the right operand wins, matching
// document merge semantics elsewhere in the engine.
func (d Datum) Merge(other Datum, fn MergeFunc, limits Limits, conds *ConditionSet) (Datum, error) {
	if d.typ != TypeObject || other.typ != TypeObject {
		return other, nil
	}

	out := make(map[string]Datum, len(d.objVal)+len(other.objVal))
	for k, v := range d.objVal {
		out[k] = v
	}
	for k, rv := range other.objVal {
		lv, ok := out[k]
		if !ok {
			out[k] = rv
			continue
		}
		mv, err := fn(k, lv, rv, limits, conds)
		if err != nil {
			return Datum{}, err
		}
		if !mv.Has() {
			delete(out, k)
			continue
		}
		out[k] = mv
	}
	return objectOwned(out), nil
}
