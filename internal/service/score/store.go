package score

import (
	"math"
	"sync"

	"github.com/zhouzirui/po-simulator/backend/internal/model/persona"
	"github.com/zhouzirui/po-simulator/backend/internal/model/score"
)

// DefaultMaxWeeklyMeetingTime is the weekly meeting budget in minutes.
const DefaultMaxWeeklyMeetingTime = 480

// Store keeps the simulation scores in memory. Callers pass values or
// deltas; the store clamps every field into its range.
type Store struct {
	mu                sync.RWMutex
	members           map[persona.RoleID]score.Member
	outcome           int
	burden            int
	weeklyMeetingTime int
	maxMeetingTime    int
}

// NewStore creates a zeroed store. A non-positive maxMeetingTime falls back
// to DefaultMaxWeeklyMeetingTime.
func NewStore(maxMeetingTime int) *Store {
	if maxMeetingTime <= 0 {
		maxMeetingTime = DefaultMaxWeeklyMeetingTime
	}
	s := &Store{maxMeetingTime: maxMeetingTime}
	s.members = zeroMembers()
	return s
}

func zeroMembers() map[persona.RoleID]score.Member {
	members := make(map[persona.RoleID]score.Member, len(persona.Roles))
	for _, id := range persona.Roles {
		members[id] = score.Member{}
	}
	return members
}

// UpdateMemberScore sets absolute morale and satisfaction for a persona.
// Unknown ids are ignored; the return value reports whether anything changed.
func (s *Store) UpdateMemberScore(id persona.RoleID, morale, satisfaction int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return false
	}
	s.members[id] = score.Member{
		TeamMorale:              clamp(morale, score.MinMemberValue, score.MaxMemberValue),
		StakeholderSatisfaction: clamp(satisfaction, score.MinMemberValue, score.MaxMemberValue),
	}
	return true
}

// UpdateOutcome shifts the outcome by delta.
func (s *Store) UpdateOutcome(delta int) {
	s.mu.Lock()
	s.outcome = shift(s.outcome, delta, score.MinGlobalValue, score.MaxGlobalValue)
	s.mu.Unlock()
}

// UpdateBurden shifts the burden by delta.
func (s *Store) UpdateBurden(delta int) {
	s.mu.Lock()
	s.burden = shift(s.burden, delta, score.MinGlobalValue, score.MaxGlobalValue)
	s.mu.Unlock()
}

// AddMeetingTime books minutes against the weekly meeting budget.
func (s *Store) AddMeetingTime(minutes int) {
	s.mu.Lock()
	s.weeklyMeetingTime = shift(s.weeklyMeetingTime, minutes, 0, s.maxMeetingTime)
	s.mu.Unlock()
}

// SkipMeeting costs the team outcome.
func (s *Store) SkipMeeting(reduction int) {
	if reduction == math.MinInt {
		s.UpdateOutcome(math.MaxInt)
		return
	}
	s.UpdateOutcome(-reduction)
}

// ResetAllScores zeroes every field.
func (s *Store) ResetAllScores() {
	s.mu.Lock()
	s.members = zeroMembers()
	s.outcome = 0
	s.burden = 0
	s.weeklyMeetingTime = 0
	s.mu.Unlock()
}

// Member returns the scores of one persona.
func (s *Store) Member(id persona.RoleID) (score.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	return m, ok
}

// Outcome returns the team outcome, 0..100.
func (s *Store) Outcome() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.outcome
}

// Burden returns the PO burden, 0..100.
func (s *Store) Burden() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.burden
}

// WeeklyMeetingTime returns the booked meeting minutes this week.
func (s *Store) WeeklyMeetingTime() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weeklyMeetingTime
}

// MaxWeeklyMeetingTime returns the weekly meeting budget in minutes.
func (s *Store) MaxWeeklyMeetingTime() int {
	return s.maxMeetingTime
}

// AverageMorale is the rounded mean team morale across all personas.
func (s *Store) AverageMorale() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averageLocked(func(m score.Member) int { return m.TeamMorale })
}

// AverageSatisfaction is the rounded mean stakeholder satisfaction.
func (s *Store) AverageSatisfaction() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.averageLocked(func(m score.Member) int { return m.StakeholderSatisfaction })
}

// Snapshot copies the current state.
func (s *Store) Snapshot() score.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make(map[persona.RoleID]score.Member, len(s.members))
	for id, m := range s.members {
		members[id] = m
	}

	return score.Snapshot{
		Members:              members,
		Outcome:              s.outcome,
		Burden:               s.burden,
		WeeklyMeetingTime:    s.weeklyMeetingTime,
		MaxWeeklyMeetingTime: s.maxMeetingTime,
		AverageMorale:        s.averageLocked(func(m score.Member) int { return m.TeamMorale }),
		AverageSatisfaction:  s.averageLocked(func(m score.Member) int { return m.StakeholderSatisfaction }),
	}
}

func (s *Store) averageLocked(field func(score.Member) int) int {
	if len(s.members) == 0 {
		return 0
	}
	sum := 0
	for _, m := range s.members {
		sum += field(m)
	}
	// half up, so -2.5 rounds to -2
	return int(math.Floor(float64(sum)/float64(len(s.members)) + 0.5))
}

// shift adds delta to cur (already within [lo, hi]) and saturates at the
// bounds instead of overflowing.
func shift(cur, delta, lo, hi int) int {
	if delta > hi-cur {
		return hi
	}
	if delta < lo-cur {
		return lo
	}
	return cur + delta
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
