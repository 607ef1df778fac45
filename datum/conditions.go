package datum

// ConditionSet collects warning conditions raised during one evaluation.
// A condition identifies a kind of partial failure ("too many changes,
// array truncated"), deduplicated across batches. The set is owned by a
// single evaluator invocation and never shared.
type ConditionSet struct {
	seen  map[string]struct{}
	order []string
}

// Add records a condition. Duplicates are ignored; first-seen order is kept.
func (cs *ConditionSet) Add(cond string) {
	if cs.seen == nil {
		cs.seen = make(map[string]struct{})
	}
	if _, ok := cs.seen[cond]; ok {
		return
	}
	cs.seen[cond] = struct{}{}
	cs.order = append(cs.order, cond)
}

// Len returns the number of distinct conditions recorded.
func (cs *ConditionSet) Len() int { return len(cs.order) }

// All returns the distinct conditions in first-seen order.
func (cs *ConditionSet) All() []string {
	out := make([]string, len(cs.order))
	copy(out, cs.order)
	return out
}
