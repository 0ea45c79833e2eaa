package scheduler

import (
	"fmt"
	"strings"
)

// Kind tags a constraint as mandatory or preference.
type Kind string

const (
	KindMandatory  Kind = "MANDATORY"
	KindPreference Kind = "PREFERENCE"
)

// OverlapMode selects how temporal overlap between different blocks is detected.
type OverlapMode string

const (
	// OverlapExact flags blocks that share weekday and start time.
	OverlapExact OverlapMode = "exact"
	// OverlapInterval flags any partially overlapping blocks on the same weekday.
	OverlapInterval OverlapMode = "interval"
)

// ParseOverlapMode falls back to OverlapExact for unknown values.
func ParseOverlapMode(raw string) OverlapMode {
	if OverlapMode(strings.ToLower(strings.TrimSpace(raw))) == OverlapInterval {
		return OverlapInterval
	}
	return OverlapExact
}

// Constraint validates one candidate against the run's ledger.
type Constraint interface {
	Name() string
	Kind() Kind
	// Weight is the score contribution of a satisfied preference; zero for mandatory rules.
	Weight() float64
	Validate(c Candidate, state *Ledger) (bool, string)
}

// Weights configures preference contributions.
type Weights struct {
	TeacherPreference float64
	RoomAffinity      float64
	Balance           float64
}

// DefaultWeights returns the stock preference weights.
func DefaultWeights() Weights {
	return Weights{TeacherPreference: 0.3, RoomAffinity: 0.4, Balance: 0.2}
}

// Catalog is the closed, ordered list of constraints used by a validator.
type Catalog struct {
	constraints []Constraint
}

// NewCatalog builds the default catalog. The list is fixed after construction.
func NewCatalog(weights Weights, mode OverlapMode) *Catalog {
	return &Catalog{constraints: []Constraint{
		teacherAvailability{},
		roomAvailability{},
		capacityLimit{},
		temporalOverlap{mode: mode},
		teacherPreference{weight: weights.TeacherPreference},
		roomAffinity{weight: weights.RoomAffinity},
		distributionBalance{weight: weights.Balance},
	}}
}

// Constraints returns a copy of the catalog entries.
func (c *Catalog) Constraints() []Constraint {
	out := make([]Constraint, len(c.constraints))
	copy(out, c.constraints)
	return out
}

type teacherAvailability struct{}

func (teacherAvailability) Name() string    { return "TeacherAvailability" }
func (teacherAvailability) Kind() Kind      { return KindMandatory }
func (teacherAvailability) Weight() float64 { return 0 }

func (teacherAvailability) Validate(c Candidate, state *Ledger) (bool, string) {
	if state.TeacherBusy(c.Obligation.TeacherID, c.Block.ID) {
		return false, fmt.Sprintf("teacher %s already assigned to block %s", c.Obligation.TeacherID, c.Block.ID)
	}
	return true, ""
}

type roomAvailability struct{}

func (roomAvailability) Name() string    { return "RoomAvailability" }
func (roomAvailability) Kind() Kind      { return KindMandatory }
func (roomAvailability) Weight() float64 { return 0 }

func (roomAvailability) Validate(c Candidate, state *Ledger) (bool, string) {
	if !c.Room.Available {
		return false, fmt.Sprintf("room %s is not available", c.Room.Code)
	}
	if state.RoomBusy(c.Room.ID, c.Block.ID) {
		return false, fmt.Sprintf("room %s already occupied in block %s", c.Room.Code, c.Block.ID)
	}
	return true, ""
}

type capacityLimit struct{}

func (capacityLimit) Name() string    { return "Capacity" }
func (capacityLimit) Kind() Kind      { return KindMandatory }
func (capacityLimit) Weight() float64 { return 0 }

func (capacityLimit) Validate(c Candidate, _ *Ledger) (bool, string) {
	if c.Attendance > c.Room.Capacity {
		return false, fmt.Sprintf("expected attendance %d exceeds room %s capacity %d", c.Attendance, c.Room.Code, c.Room.Capacity)
	}
	return true, ""
}

type temporalOverlap struct {
	mode OverlapMode
}

func (temporalOverlap) Name() string    { return "TemporalOverlap" }
func (temporalOverlap) Kind() Kind      { return KindMandatory }
func (temporalOverlap) Weight() float64 { return 0 }

func (t temporalOverlap) Validate(c Candidate, state *Ledger) (bool, string) {
	// identical block ids are covered by the availability rules
	for _, held := range state.TeacherBlocks(c.Obligation.TeacherID) {
		if held.ID != c.Block.ID && t.clashes(held, c.Block) {
			return false, fmt.Sprintf("teacher %s holds overlapping block %s", c.Obligation.TeacherID, held.ID)
		}
	}
	for _, held := range state.RoomBlocks(c.Room.ID) {
		if held.ID != c.Block.ID && t.clashes(held, c.Block) {
			return false, fmt.Sprintf("room %s holds overlapping block %s", c.Room.Code, held.ID)
		}
	}
	return true, ""
}

func (t temporalOverlap) clashes(a, b TimeBlock) bool {
	if t.mode == OverlapInterval {
		return a.Overlaps(b)
	}
	return a.SameStart(b)
}

type teacherPreference struct {
	weight float64
}

func (teacherPreference) Name() string      { return "TeacherPreference" }
func (teacherPreference) Kind() Kind        { return KindPreference }
func (p teacherPreference) Weight() float64 { return p.weight }

func (teacherPreference) Validate(c Candidate, state *Ledger) (bool, string) {
	pref, ok := state.Preference(c.Obligation.TeacherID)
	if !ok {
		return true, ""
	}
	for _, window := range pref.Avoid {
		if window.Contains(c.Block) {
			return false, fmt.Sprintf("block %s falls in a window teacher %s avoids", c.Block.ID, c.Obligation.TeacherID)
		}
	}
	if len(pref.Preferred) == 0 {
		return true, ""
	}
	for _, window := range pref.Preferred {
		if window.Contains(c.Block) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("block %s is outside teacher %s preferred windows", c.Block.ID, c.Obligation.TeacherID)
}

type roomAffinity struct {
	weight float64
}

func (roomAffinity) Name() string      { return "RoomAffinity" }
func (roomAffinity) Kind() Kind        { return KindPreference }
func (a roomAffinity) Weight() float64 { return a.weight }

func (roomAffinity) Validate(c Candidate, _ *Ledger) (bool, string) {
	if c.Obligation.NeedsLaboratory() == c.Room.IsLaboratory() {
		return true, ""
	}
	if c.Obligation.NeedsLaboratory() {
		return false, fmt.Sprintf("laboratory subject %s placed in non-laboratory room %s", c.Obligation.SubjectID, c.Room.Code)
	}
	return false, fmt.Sprintf("theory subject %s placed in laboratory %s", c.Obligation.SubjectID, c.Room.Code)
}

type distributionBalance struct {
	weight float64
}

func (distributionBalance) Name() string      { return "DistributionBalance" }
func (distributionBalance) Kind() Kind        { return KindPreference }
func (b distributionBalance) Weight() float64 { return b.weight }

func (distributionBalance) Validate(c Candidate, state *Ledger) (bool, string) {
	load := state.DayLoad(c.Block.Day)
	lowest := state.MinDayLoad()
	if load > lowest+1 {
		return false, fmt.Sprintf("%s already carries %d sessions against a minimum of %d", c.Block.Day, load, lowest)
	}
	return true, ""
}
