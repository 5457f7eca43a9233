// internal/model/sort.go
package model

// SortKey selects the single descending order applied to searches and listings.
// The zero value is SortStars.
type SortKey uint8

const (
	SortStars SortKey = iota
	SortForks
	SortUpdated
)

var sortKeyNames = [...]string{
	SortStars:   "stars",
	SortForks:   "forks",
	SortUpdated: "updated",
}

// String returns the wire value understood by GitHub and by the store.
func (k SortKey) String() string {
	if int(k) < len(sortKeyNames) {
		return sortKeyNames[k]
	}
	return sortKeyNames[SortStars]
}

// ParseSortKey matches s exactly against the allowed wire values.
func ParseSortKey(s string) (SortKey, bool) {
	for k, name := range sortKeyNames {
		if s == name {
			return SortKey(k), true
		}
	}
	return SortStars, false
}

// SortKeys lists every allowed sort key in declaration order.
func SortKeys() []SortKey {
	return []SortKey{SortStars, SortForks, SortUpdated}
}
