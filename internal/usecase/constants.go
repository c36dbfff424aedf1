package usecase

// Pagination defaults for history queries. Admin user listings use the wider
// domain.DefaultListLimit/MaxListLimit clamp instead.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)
