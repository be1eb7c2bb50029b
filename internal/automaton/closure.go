package automaton

// EpsilonClosure returns the smallest superset of set closed under epsilon
// transitions. Labels unknown to a are kept but not expanded.
func EpsilonClosure(a *Automaton, set LabelSet) LabelSet {
	closure := make(map[Label]bool, set.Len())
	stack := make([]Label, 0, set.Len())
	set.Each(func(l Label) {
		closure[l] = true
		stack = append(stack, l)
	})
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a.Epsilon(s).Each(func(eps Label) {
			if !closure[eps] {
				closure[eps] = true
				stack = append(stack, eps)
			}
		})
	}
	return fromMembers(closure)
}

// Move returns the union of the c-successors of every label in set.
func Move(a *Automaton, set LabelSet, c Symbol) LabelSet {
	sets := make([]LabelSet, 0, set.Len())
	set.Each(func(l Label) {
		if succ := a.Transitions(l, c); !succ.Empty() {
			sets = append(sets, succ)
		}
	})
	return UnionAll(sets...)
}

func fromMembers(members map[Label]bool) LabelSet {
	labels := make([]Label, 0, len(members))
	for l := range members {
		labels = append(labels, l)
	}
	return NewLabelSet(labels...)
}
