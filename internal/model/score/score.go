package score

import "github.com/zhouzirui/po-simulator/backend/internal/model/persona"

// Bounds for every score field.
const (
	MinMemberValue = -100
	MaxMemberValue = 100
	MinGlobalValue = 0
	MaxGlobalValue = 100
)

// Member holds the relationship values between the player and one persona.
type Member struct {
	TeamMorale              int `json:"teamMorale"`
	StakeholderSatisfaction int `json:"stakeholderSatisfaction"`
}

// Snapshot is a point-in-time copy of the whole score state.
type Snapshot struct {
	Members              map[persona.RoleID]Member `json:"members"`
	Outcome              int                       `json:"outcome"`
	Burden               int                       `json:"burden"`
	WeeklyMeetingTime    int                       `json:"weeklyMeetingTime"`
	MaxWeeklyMeetingTime int                       `json:"maxWeeklyMeetingTime"`
	AverageMorale        int                       `json:"averageMorale"`
	AverageSatisfaction  int                       `json:"averageSatisfaction"`
}
