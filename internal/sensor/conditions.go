package sensor

import "regexp"

// skEntry pairs an attenuation divisor with the condition labels it
// applies to. Mappings are walked in order; the first entry containing the
// reported condition wins.
type skEntry struct {
	sk         float64
	conditions []string
}

// genericMapping is the standard divisor table for the common weather
// condition vocabulary.
var genericMapping = []skEntry{
	{10, []string{"lightning", "lightning-rainy", "pouring"}},
	{5, []string{"cloudy", "fog", "rainy", "snowy", "snowy-rainy", "hail", "exceptional"}},
	{2, []string{"partlycloudy", "windy-variant"}},
	{1, []string{"sunny", "clear-night", "windy"}},
}

// providerMapping adds provider-specific condition labels, selected by
// matching the upstream attribution string. Provider entries are appended
// after the generic table, so generic labels keep their divisors.
type providerMapping struct {
	pattern *regexp.Regexp
	entries []skEntry
}

var providerMappings = []providerMapping{
	{
		pattern: regexp.MustCompile(`(?i).*accuweather.*`),
		entries: []skEntry{
			{3, []string{"mostlycloudy"}},
		},
	},
	{
		pattern: regexp.MustCompile(`(?i).*ecobee.*`),
		entries: []skEntry{
			{10, []string{"snowy-heavy"}},
			{5, []string{"tornado"}},
			{2, []string{"hazy"}},
		},
	},
}

// mappingForAttribution builds the ordered divisor mapping for an upstream
// source: the generic table plus the additions of every provider whose
// pattern matches the attribution string.
func mappingForAttribution(attribution string) []skEntry {
	mapping := append([]skEntry(nil), genericMapping...)
	for _, pm := range providerMappings {
		if pm.pattern.MatchString(attribution) {
			mapping = append(mapping, pm.entries...)
		}
	}
	return mapping
}

// lookupCondition walks the mapping in order and returns the divisor of
// the first entry containing the condition.
func lookupCondition(mapping []skEntry, condition string) (float64, bool) {
	for _, entry := range mapping {
		for _, label := range entry.conditions {
			if label == condition {
				return entry.sk, true
			}
		}
	}
	return 0, false
}
