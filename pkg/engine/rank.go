package engine

import (
	"sort"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// Rank sorts notifications in place: severity descending, then timestamp
// descending. The sort is stable, so entries with equal severity and
// timestamp keep the fixed analyzer assembly order.
func Rank(list []model.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		if ri, rj := list[i].Severity.Rank(), list[j].Severity.Rank(); ri != rj {
			return ri > rj
		}
		return list[i].Timestamp.After(list[j].Timestamp)
	})
}
