package models

const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// ValidStatus reports whether s is one of the four ticket statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	// DefaultTokenTTLHours lifetime of an issued customer token
	DefaultTokenTTLHours = 24

	// DefaultCacheTTL lifetime of cached GET responses in seconds
	DefaultCacheTTL = 300

	// DefaultPageLimit page size for list endpoints when none is given
	DefaultPageLimit = 20

	// MaxPageLimit upper bound for the limit query parameter
	MaxPageLimit = 100
)
