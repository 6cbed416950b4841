package service

import (
	"cquizy_backend/internal/model"
	"sort"
)

// PickGradeBand selects the band for a percentage from a group's active
// bands. Ranges may overlap; the band with the highest max wins, ties broken
// by ascending name so the choice is stable. No match means "ungraded" and
// returns nil, which is not an error.
func PickGradeBand(bands []model.GradeBand, percentage float64) *model.GradeBand {
	matches := make([]model.GradeBand, 0, len(bands))
	for _, b := range bands {
		if !b.Active {
			continue
		}
		if float64(b.MinPercentage) <= percentage && percentage <= float64(b.MaxPercentage) {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MaxPercentage != matches[j].MaxPercentage {
			return matches[i].MaxPercentage > matches[j].MaxPercentage
		}
		return matches[i].Name < matches[j].Name
	})

	return &matches[0]
}
