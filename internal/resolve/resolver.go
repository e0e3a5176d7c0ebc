package resolve

// Select picks one channel id for name from the candidate set. It is a pure
// function: the same set and name always yield the same id.
//
// Selection order:
//  1. Candidates whose display name equals name exactly (no normalization).
//  2. A single exact match wins outright.
//  3. Among several exact matches, the highest total evidence wins.
//  4. With no exact match, the highest total evidence across the whole set wins.
//
// Ties on total evidence are broken by the lexicographically smallest channel
// id, which is stable across runs and independent of map iteration order.
// Returns false only for an empty set.
func Select(set CandidateSet, name string) (string, bool) {
	if len(set) == 0 {
		return "", false
	}

	var exact []Candidate
	for _, cand := range set {
		if cand.DisplayName == name {
			exact = append(exact, cand)
		}
	}

	pool := exact
	if len(pool) == 0 {
		pool = make([]Candidate, 0, len(set))
		for _, cand := range set {
			pool = append(pool, cand)
		}
	}

	best := pool[0]
	for _, cand := range pool[1:] {
		if better(cand, best) {
			best = cand
		}
	}

	return best.ID, true
}

func better(a, b Candidate) bool {
	at, bt := a.TotalEvidence(), b.TotalEvidence()
	if at != bt {
		return at > bt
	}
	return a.ID < b.ID
}
