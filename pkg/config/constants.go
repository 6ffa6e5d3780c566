package config

// Reservation statuses. Pending and Confirmed block a specialist's slot;
// Cancelled, Completed and NoShow are terminal and no longer count toward
// conflict checks.
const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
	Completed = "completed"
	NoShow    = "no_show"
)

// Actor roles carried in auth tokens.
const (
	RoleClient     = "client"
	RoleSpecialist = "specialist"
	RoleAdmin      = "admin"
)

type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

func NonTerminalStatuses() []string {
	return []string{Pending, Confirmed}
}

func IsTerminalStatus(status string) bool {
	switch status {
	case Cancelled, Completed, NoShow:
		return true
	}
	return false
}
