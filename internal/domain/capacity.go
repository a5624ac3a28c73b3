package domain

// CapacityPolicy максимальное число заявителей на слот.
// Переопределение для органа важнее общего значения.
type CapacityPolicy struct {
	Default   int
	PerAgency map[AgencyCode]int
}

func NewCapacityPolicy(maxPerSlot int, perAgency map[AgencyCode]int) CapacityPolicy {
	if maxPerSlot <= 0 {
		maxPerSlot = DefaultMaxPerSlot
	}
	return CapacityPolicy{Default: maxPerSlot, PerAgency: perAgency}
}

// For емкость слотов органа
func (p CapacityPolicy) For(agency AgencyCode) int {
	if limit, ok := p.PerAgency[agency]; ok && limit > 0 {
		return limit
	}
	if p.Default > 0 {
		return p.Default
	}
	return DefaultMaxPerSlot
}
