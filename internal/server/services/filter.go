package services

import (
	"strings"

	"github.com/lucasmateusli/equiptrack/pkg/models"
)

// EquipmentFilter holds the listing criteria. Empty (or "all") fields are
// skipped; the rest are combined with AND.
type EquipmentFilter struct {
	Search       string // case-insensitive substring over imei or iccid
	Status       string
	Empresa      string
	TechnicianID string
}

// FilterEquipment returns the items matching every set criterion, in the
// order they came in.
func FilterEquipment(items []models.Equipment, filter EquipmentFilter) []models.Equipment {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	matched := make([]models.Equipment, 0, len(items))
	for _, item := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(item.IMEI), search) &&
			!strings.Contains(strings.ToLower(item.ICCID), search) {
			continue
		}
		if !matchesCriterion(filter.Status, item.Status) {
			continue
		}
		if !matchesCriterion(filter.Empresa, item.Empresa) {
			continue
		}
		if filter.TechnicianID != "" && filter.TechnicianID != "all" {
			if item.TechnicianID == nil || item.TechnicianID.String() != filter.TechnicianID {
				continue
			}
		}
		matched = append(matched, item)
	}
	return matched
}

func matchesCriterion(criterion, value string) bool {
	return criterion == "" || criterion == "all" || criterion == value
}
