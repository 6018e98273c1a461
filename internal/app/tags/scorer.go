/*
Package tags provides the default tag-similarity scorer used for room matching.

Context tags arrive ordered by relevance (the widget extracts them from page
context, most significant first), so overlap on an early tag counts for more
than overlap on a late one.
*/
package tags

import "strings"

// Similarity scores how well a room's tags match a query's context tags.
// The result is in [0, 1]: the position-weighted fraction of the query tags
// present in the room tags, with weight 1/(i+1) for the tag at index i.
// Matching is case-insensitive and ignores surrounding whitespace. Either
// collection being empty scores 0. Similarity is a pure function.
func Similarity(query, roomTags []string) float64 {
	if len(query) == 0 || len(roomTags) == 0 {
		return 0
	}

	roomSet := make(map[string]struct{}, len(roomTags))
	for _, tag := range roomTags {
		if normalized := normalize(tag); normalized != "" {
			roomSet[normalized] = struct{}{}
		}
	}
	if len(roomSet) == 0 {
		return 0
	}

	var total, hit float64
	for i, tag := range query {
		normalized := normalize(tag)
		if normalized == "" {
			continue
		}

		weight := 1.0 / float64(i+1)
		total += weight
		if _, ok := roomSet[normalized]; ok {
			hit += weight
		}
	}

	if total == 0 {
		return 0
	}
	return hit / total
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
