package reconcile

import (
	"sort"
	"strings"

	"spotinfo/internal/models"
)

// MatchesFilter reports whether an instance type matches a user filter: the
// filter equals the family ("m5"), equals the size ("large"), or occurs
// anywhere in the name. The substring rule is broad on purpose ("5.la"
// matches "m5.large").
func MatchesFilter(instanceType, filter string) bool {
	parts := strings.Split(instanceType, ".")
	if parts[0] == filter {
		return true
	}
	if len(parts) > 1 && parts[1] == filter {
		return true
	}
	return strings.Contains(instanceType, filter)
}

// Select projects the index onto one region, applies the optional filter and
// orders the result by instance type. An unknown region yields an empty slice.
func Select(idx Index, region string, filter *string) []models.MergedRecord {
	selected := make([]models.MergedRecord, 0)

	for instanceType, regions := range idx {
		merged, ok := regions[region]
		if !ok {
			continue
		}
		if filter != nil && !MatchesFilter(instanceType, *filter) {
			continue
		}
		selected = append(selected, *merged)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].InstanceType < selected[j].InstanceType
	})
	return selected
}
