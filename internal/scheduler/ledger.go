package scheduler

import "sort"

// Ledger tracks resource occupancy for a single run. Baseline bookings are
// loaded once from the plan snapshot; reservations made during the run are
// layered on top and also counted towards the per-day load.
type Ledger struct {
	teacherBlocks map[string]map[string]TimeBlock
	roomBlocks    map[string]map[string]TimeBlock
	dayLoad       map[Weekday]int
	days          []Weekday
	prefs         map[string]TeacherPreference
}

// NewLedger seeds a ledger from the plan's committed bookings.
func NewLedger(plan Plan) *Ledger {
	l := &Ledger{
		teacherBlocks: make(map[string]map[string]TimeBlock),
		roomBlocks:    make(map[string]map[string]TimeBlock),
		dayLoad:       make(map[Weekday]int),
		prefs:         plan.Preferences,
	}
	seen := make(map[Weekday]bool)
	for _, block := range plan.Blocks {
		if !block.Active || seen[block.Day] {
			continue
		}
		seen[block.Day] = true
		l.days = append(l.days, block.Day)
	}
	sort.Slice(l.days, func(i, j int) bool { return l.days[i] < l.days[j] })

	for _, booking := range plan.Existing {
		l.hold(l.teacherBlocks, booking.TeacherID, booking.Block)
		l.hold(l.roomBlocks, booking.RoomID, booking.Block)
	}
	return l
}

func (l *Ledger) hold(index map[string]map[string]TimeBlock, owner string, block TimeBlock) {
	if owner == "" {
		return
	}
	blocks, ok := index[owner]
	if !ok {
		blocks = make(map[string]TimeBlock)
		index[owner] = blocks
	}
	blocks[block.ID] = block
}

// Reserve claims the teacher and room for the candidate's block.
func (l *Ledger) Reserve(c Candidate) {
	l.hold(l.teacherBlocks, c.Obligation.TeacherID, c.Block)
	l.hold(l.roomBlocks, c.Room.ID, c.Block)
	l.dayLoad[c.Block.Day]++
}

// TeacherBusy reports whether the teacher already holds the block.
func (l *Ledger) TeacherBusy(teacherID, blockID string) bool {
	_, ok := l.teacherBlocks[teacherID][blockID]
	return ok
}

// RoomBusy reports whether the room already holds the block.
func (l *Ledger) RoomBusy(roomID, blockID string) bool {
	_, ok := l.roomBlocks[roomID][blockID]
	return ok
}

// TeacherBlocks returns the blocks currently held by the teacher.
func (l *Ledger) TeacherBlocks(teacherID string) []TimeBlock {
	return values(l.teacherBlocks[teacherID])
}

// RoomBlocks returns the blocks currently held by the room.
func (l *Ledger) RoomBlocks(roomID string) []TimeBlock {
	return values(l.roomBlocks[roomID])
}

// DayLoad returns how many reservations this run has placed on the day.
func (l *Ledger) DayLoad(day Weekday) int {
	return l.dayLoad[day]
}

// Days returns the weekdays that have at least one active block.
func (l *Ledger) Days() []Weekday {
	out := make([]Weekday, len(l.days))
	copy(out, l.days)
	return out
}

// MinDayLoad returns the lowest load across the schedulable days.
func (l *Ledger) MinDayLoad() int {
	if len(l.days) == 0 {
		return 0
	}
	lowest := l.dayLoad[l.days[0]]
	for _, day := range l.days[1:] {
		if load := l.dayLoad[day]; load < lowest {
			lowest = load
		}
	}
	return lowest
}

// Preference returns the stored preference for the teacher, if any.
func (l *Ledger) Preference(teacherID string) (TeacherPreference, bool) {
	pref, ok := l.prefs[teacherID]
	return pref, ok
}

// Clone returns an independent copy; preferences are shared read-only.
func (l *Ledger) Clone() *Ledger {
	clone := &Ledger{
		teacherBlocks: cloneIndex(l.teacherBlocks),
		roomBlocks:    cloneIndex(l.roomBlocks),
		dayLoad:       make(map[Weekday]int, len(l.dayLoad)),
		days:          l.days,
		prefs:         l.prefs,
	}
	for day, load := range l.dayLoad {
		clone.dayLoad[day] = load
	}
	return clone
}

func cloneIndex(src map[string]map[string]TimeBlock) map[string]map[string]TimeBlock {
	dst := make(map[string]map[string]TimeBlock, len(src))
	for owner, blocks := range src {
		inner := make(map[string]TimeBlock, len(blocks))
		for id, block := range blocks {
			inner[id] = block
		}
		dst[owner] = inner
	}
	return dst
}

func values(blocks map[string]TimeBlock) []TimeBlock {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]TimeBlock, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, block)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
