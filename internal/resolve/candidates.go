// Package resolve turns noisy name-search signals into a single channel
// identity. Discovery collects candidates with per-source evidence counts;
// selection picks one candidate deterministically.
package resolve

// Source identifies which discovery query surfaced a candidate.
type Source string

const (
	// SourceSearch counts hits from the direct channel search.
	SourceSearch Source = "search"
	// SourceContent counts hits attributed to a channel via video search.
	SourceContent Source = "content"
)

var allSources = []Source{SourceSearch, SourceContent}

// Hit is one attribution of a search result to a channel.
type Hit struct {
	ID          string
	DisplayName string
}

// Candidate is a provisional match for the queried artist name.
type Candidate struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Evidence    map[Source]int `json:"evidence"`
}

// TotalEvidence sums the per-source counts.
func (c Candidate) TotalEvidence() int {
	total := 0
	for _, n := range c.Evidence {
		total += n
	}
	return total
}

// CandidateSet maps channel id to its candidate record. Sets are built by a
// single owner per discovery round and only ever grown through Merge.
type CandidateSet map[string]Candidate

// Merge returns a new set combining base with hits attributed to source.
// Neither input is mutated. A channel seen for the first time gets evidence
// counts initialized to zero across all sources before its first increment;
// counts only ever increase.
func Merge(base CandidateSet, hits []Hit, source Source) CandidateSet {
	merged := make(CandidateSet, len(base)+len(hits))
	for id, cand := range base {
		evidence := make(map[Source]int, len(cand.Evidence))
		for src, n := range cand.Evidence {
			evidence[src] = n
		}
		cand.Evidence = evidence
		merged[id] = cand
	}

	for _, hit := range hits {
		cand, ok := merged[hit.ID]
		if !ok {
			cand = Candidate{
				ID:          hit.ID,
				DisplayName: hit.DisplayName,
				Evidence:    make(map[Source]int, len(allSources)),
			}
			for _, src := range allSources {
				cand.Evidence[src] = 0
			}
		}
		cand.Evidence[source]++
		merged[hit.ID] = cand
	}

	return merged
}
