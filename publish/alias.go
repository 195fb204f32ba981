package publish

import "github.com/hivelink/broker/topic"

// aliasResolution is the Topic-Alias Resolver's output: the final topic
// name to route on, and whether this packet freshly established the
// binding (spec §3's isNewTopicAlias).
type aliasResolution struct {
	Topic    string
	IsNewAlias bool
}

// resolveTopicAlias implements the four-branch decision matrix of spec
// §4.4 against the connection's alias table and the global limiter.
//
// The limiter's usage counters are mutated before the exceedance check, and
// that mutation is never rolled back on exceedance — the alias slot stays
// bound, the connection is simply disconnected afterward. This ordering is
// mandated by spec §4.4/§9 and must not be "optimized" into a pre-check,
// because the limiter's byte accounting depends on the incoming topic's
// length.
func resolveTopicAlias(topicName string, hasAlias bool, alias uint16, table *topic.Alias, limiter *topic.AliasLimiter) (aliasResolution, *DecodeError) {
	switch {
	case topicName == "" && !hasAlias:
		return aliasResolution{}, newProtocolError(ErrAbsentTopicAndAlias, "absent topic alias while topic name is zero length", "rejecting PUBLISH with neither topic name nor topic alias")

	case topicName == "" && hasAlias:
		if alias > table.Size() {
			return aliasResolution{}, newAliasInvalid(ErrTopicAliasTooLarge, "topic alias too large", "rejecting PUBLISH with topic alias exceeding table size")
		}
		resolved, ok := table.Get(alias)
		if !ok {
			return aliasResolution{}, newAliasInvalid(ErrTopicAliasUnmapped, "topic alias not mapped", "rejecting PUBLISH referencing an unmapped topic alias")
		}
		return aliasResolution{Topic: resolved, IsNewAlias: false}, nil

	case topicName != "" && !hasAlias:
		return aliasResolution{Topic: topicName, IsNewAlias: false}, nil

	default: // topicName != "" && hasAlias
		if alias > table.Size() {
			return aliasResolution{}, newAliasInvalid(ErrTopicAliasTooLarge, "topic alias too large", "rejecting PUBLISH with topic alias exceeding table size")
		}

		previous, hadPrevious, _ := table.Swap(alias, topicName)
		if hadPrevious {
			limiter.RemoveUsage(previous)
		}
		limiter.AddUsage(topicName)

		if limiter.LimitExceeded() {
			return aliasResolution{}, newQuotaExceeded(ErrAliasLimiterExceeded, "topic alias limiter quota exceeded", "rejecting PUBLISH that pushed the global topic alias limiter over its hard limit")
		}
		return aliasResolution{Topic: topicName, IsNewAlias: true}, nil
	}
}
