package entity

// Closed category set; anything else goes through "other" + CustomCategory.
const (
	CategoryGarbage     = "garbage"
	CategoryPothole     = "pothole"
	CategoryStreetlight = "streetlight"
	CategoryWater       = "water"
	CategoryPublicWorks = "public works"
	CategorySafety      = "safety"
	CategoryEmergency   = "emergency"
	CategoryOther       = "other"
)

var validCategories = map[string]bool{
	CategoryGarbage:     true,
	CategoryPothole:     true,
	CategoryStreetlight: true,
	CategoryWater:       true,
	CategoryPublicWorks: true,
	CategorySafety:      true,
	CategoryEmergency:   true,
	CategoryOther:       true,
}

func ValidCategory(c string) bool {
	return validCategories[c]
}

// Priorities, ordered low < medium < high < critical.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

func ValidPriority(p string) bool {
	return validPriorities[p]
}
