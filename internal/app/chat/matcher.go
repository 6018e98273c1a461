/*
Package chat contains the core logic for room membership, discovery, and bounded message history.

This file defines the Matcher, which routes an arriving connection into the most
topically relevant existing room, or signals that no room is a good enough fit.
*/
package chat

// Scorer computes a similarity score between two tag collections; higher means
// more similar. Implementations must be pure functions with no side effects.
type Scorer interface {
	Score(tagsA, tagsB []string) float64
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(tagsA, tagsB []string) float64

// Score calls f.
func (f ScorerFunc) Score(tagsA, tagsB []string) float64 {
	return f(tagsA, tagsB)
}

// Matcher selects the best existing room for a connection's context tags.
type Matcher struct {
	store     *Store
	scorer    Scorer
	threshold float64
}

// NewMatcher constructs a Matcher over the given store. threshold is the
// similarity floor a room must strictly exceed to be considered at all.
func NewMatcher(store *Store, scorer Scorer, threshold float64) *Matcher {
	return &Matcher{
		store:     store,
		scorer:    scorer,
		threshold: threshold,
	}
}

// FindRoom scans all live rooms and returns the one whose tags score highest
// against contextTags, or nil when no room's score strictly exceeds the
// threshold. The threshold seeds the running best, so every candidate has to
// beat both the floor and every room scored before it; on a tie the first
// room to reach the score in scan order keeps the slot. FindRoom is a pure
// read and never mutates store state.
func (m *Matcher) FindRoom(contextTags []string) *Room {
	bestID := ""
	bestScore := m.threshold

	for _, candidate := range m.store.Candidates() {
		score := m.scorer.Score(contextTags, candidate.Tags)
		if score > bestScore {
			bestID = candidate.ID
			bestScore = score
		}
	}

	if bestID == "" {
		return nil
	}
	return m.store.Get(bestID)
}
