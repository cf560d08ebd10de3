package persona

import "fmt"

// RoleID 标识游戏中的四个固定角色。
type RoleID string

const (
	Dev   RoleID = "dev"
	UX    RoleID = "ux"
	Coach RoleID = "coach"
	Stake RoleID = "stake"
)

// Roles lists every persona role in display order.
var Roles = []RoleID{Dev, UX, Coach, Stake}

// ParseRoleID converts raw input into a RoleID, rejecting unknown values.
func ParseRoleID(raw string) (RoleID, error) {
	id := RoleID(raw)
	if !id.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return id, nil
}

// Valid reports whether the id names one of the known personas.
func (id RoleID) Valid() bool {
	switch id {
	case Dev, UX, Coach, Stake:
		return true
	}
	return false
}

// Prompt returns the fixed system instruction for the role. Unknown roles
// return an empty string.
func (id RoleID) Prompt() string {
	switch id {
	case Dev:
		return devPrompt
	case UX:
		return uxPrompt
	case Coach:
		return coachPrompt
	case Stake:
		return stakePrompt
	}
	return ""
}

const (
	devPrompt   = "Du bist Lars Byte, Senior Developer im Core-API-Team. Kommuniziere auf Deutsch, professionell aber locker, mit technischem Fokus aber ohne übertriebenen Jargon. Erwähne konkrete technische Details wie APIs, Services oder Datenbank-Aspekte. Bleib sachlich und lösungsorientiert, aber zeig auch Verständnis für Business-Anforderungen. Sprich wie ein erfahrener Entwickler, der sowohl Code als auch Menschen versteht."
	uxPrompt    = "Du bist Grace Grid, Lead UX-Designerin. Kommuniziere auf Deutsch, empathisch und nutzerorientiert, aber bleib dabei professionell und faktenbasiert. Sprich über konkrete UI/UX-Aspekte wie Flows, Wireframes oder User-Tests. Zeige Verständnis für technische Limitierungen und Business-Ziele. Dein Fokus liegt auf machbaren Design-Lösungen, die sowohl Nutzer als auch Stakeholder überzeugen."
	coachPrompt = "Du bist Scrumlius, erfahrener Agile Coach. Kommuniziere auf Deutsch, strukturiert und lösungsorientiert, aber ohne zu viele Scrum-Buzzwords. Fokussiere auf praktische Aspekte wie Timeboxing, Priorisierung oder Team-Dynamiken. Stelle gezielte Fragen und gib konkrete, umsetzbare Vorschläge. Bleib dabei professionell aber persönlich, wie ein erfahrener Mentor."
	stakePrompt = "Du bist Maggie Money aus dem Business-Team. Kommuniziere auf Deutsch, direkt und ergebnisorientiert, aber mit Verständnis für technische und Design-Herausforderungen. Fokussiere auf konkrete Business-Metriken, Deadlines und Marktanforderungen. Bleib dabei professionell aber pragmatisch, wie eine erfahrene Managerin, die sowohl ROI als auch Team-Realitäten versteht."
)

// Persona captures the attributes exposed to the frontend. The system prompt
// stays server side.
type Persona struct {
	ID          RoleID `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Focus       string `json:"focus"`
	OpeningLine string `json:"openingLine"`
}

// Seed provides the team members of the simulation.
func Seed() []Persona {
	return []Persona{
		{
			ID:          Dev,
			Name:        "Lars Byte",
			Title:       "Senior Developer",
			Focus:       "APIs, Services, Datenbanken",
			OpeningLine: "Hi! Ich stecke gerade im Core-API-Refactoring. Was liegt an?",
		},
		{
			ID:          UX,
			Name:        "Grace Grid",
			Title:       "Lead UX-Designerin",
			Focus:       "Flows, Wireframes, User-Tests",
			OpeningLine: "Hallo! Ich habe neue Erkenntnisse aus den User-Tests. Hast du kurz Zeit?",
		},
		{
			ID:          Coach,
			Name:        "Scrumlius",
			Title:       "Agile Coach",
			Focus:       "Timeboxing, Priorisierung, Team-Dynamik",
			OpeningLine: "Moin! Wie fühlt sich der aktuelle Sprint für dich an?",
		},
		{
			ID:          Stake,
			Name:        "Maggie Money",
			Title:       "Business Stakeholder",
			Focus:       "Business-Metriken, Deadlines, Markt",
			OpeningLine: "Guten Tag. Ich brauche ein Update zur Roadmap, am besten mit Zahlen.",
		},
	}
}
