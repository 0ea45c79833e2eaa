package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidTimeBlock is returned when a block does not start before it ends.
	ErrInvalidTimeBlock = errors.New("time block start must be before end")
	// ErrInvalidWeekday is returned for days outside Monday..Saturday.
	ErrInvalidWeekday = errors.New("weekday must be between MONDAY and SATURDAY")
	// ErrInvalidClock is returned when a clock value cannot be parsed.
	ErrInvalidClock = errors.New("clock must be formatted as HH:MM")
)

// Weekday enumerates the six working days.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = map[Weekday]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
}

// Weekdays returns the working days in calendar order.
func Weekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether the day is a working day.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Saturday
}

func (d Weekday) String() string {
	if name, ok := weekdayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAY(%d)", int(d))
}

// ParseWeekday accepts either a day name (MONDAY) or its index (1).
func ParseWeekday(raw string) (Weekday, error) {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if idx, err := strconv.Atoi(raw); err == nil {
		day := Weekday(idx)
		if !day.Valid() {
			return 0, ErrInvalidWeekday
		}
		return day, nil
	}
	for day, name := range weekdayNames {
		if name == raw {
			return day, nil
		}
	}
	return 0, ErrInvalidWeekday
}

// Clock is a time of day expressed in minutes after midnight.
type Clock int

// NewClock builds a clock from hour and minute components.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock parses HH:MM or HH:MM:SS.
func ParseClock(raw string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return NewClock(hour, minute), nil
}

// Hour returns the hour component.
func (c Clock) Hour() int {
	return int(c) / 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeBlock is a bounded interval on one weekday.
type TimeBlock struct {
	ID     string
	Name   string
	Day    Weekday
	Start  Clock
	End    Clock
	Active bool
}

// NewTimeBlock validates and builds an active block.
func NewTimeBlock(id, name string, day Weekday, start, end Clock) (TimeBlock, error) {
	block := TimeBlock{ID: id, Name: name, Day: day, Start: start, End: end, Active: true}
	if err := block.Validate(); err != nil {
		return TimeBlock{}, err
	}
	return block, nil
}

// Validate checks the weekday and ordering invariants.
func (b TimeBlock) Validate() error {
	if !b.Day.Valid() {
		return ErrInvalidWeekday
	}
	if b.Start >= b.End {
		return fmt.Errorf("%w: block %s %s-%s", ErrInvalidTimeBlock, b.ID, b.Start, b.End)
	}
	return nil
}

// Duration is derived from start and end.
func (b TimeBlock) Duration() time.Duration {
	return time.Duration(b.End-b.Start) * time.Minute
}

// SameStart reports whether both blocks begin at the same moment of the same day.
func (b TimeBlock) SameStart(other TimeBlock) bool {
	return b.Day == other.Day && b.Start == other.Start
}

// Overlaps reports true interval overlap on the same day.
func (b TimeBlock) Overlaps(other TimeBlock) bool {
	return b.Day == other.Day && b.Start < other.End && other.Start < b.End
}

// RoomType classifies rooms for affinity checks.
type RoomType string

const (
	RoomTypeClassroom   RoomType = "CLASSROOM"
	RoomTypeLectureHall RoomType = "LECTURE_HALL"
	RoomTypeLaboratory  RoomType = "LABORATORY"
)

// Room is static reference data for the duration of a run.
type Room struct {
	ID        string
	Code      string
	Capacity  int
	Type      RoomType
	Available bool
}

// IsLaboratory reports whether the room is a laboratory.
func (r Room) IsLaboratory() bool {
	return r.Type == RoomTypeLaboratory
}

// SubjectKind distinguishes practical from theory subjects.
type SubjectKind string

const (
	SubjectKindTheory     SubjectKind = "THEORY"
	SubjectKindLaboratory SubjectKind = "LABORATORY"
)

// Obligation binds one teacher to one subject within a plan.
type Obligation struct {
	ID           string
	PlanID       string
	TeacherID    string
	TeacherName  string
	SubjectID    string
	SubjectName  string
	SubjectKind  SubjectKind
	SubjectLevel int
	WeeklyHours  int
	// ExpectedAttendance overrides the attendance estimate when positive.
	ExpectedAttendance int
	Active             bool
}

// NeedsLaboratory reports whether the subject should be taught in a lab.
func (o Obligation) NeedsLaboratory() bool {
	return o.SubjectKind == SubjectKindLaboratory
}

// Modality describes how a session is delivered.
type Modality string

const (
	ModalityInPerson Modality = "IN_PERSON"
	ModalityVirtual  Modality = "VIRTUAL"
	ModalityHybrid   Modality = "HYBRID"
)

// Candidate is a proposed placement of an obligation.
type Candidate struct {
	Obligation Obligation
	Block      TimeBlock
	Room       Room
	Attendance int
	Modality   Modality
	Score      float64
}

// Booking is an already committed placement used as baseline occupancy.
type Booking struct {
	EntryID      string
	PlanID       string
	ObligationID string
	TeacherID    string
	RoomID       string
	Block        TimeBlock
}

// Window is a span of time on one weekday.
type Window struct {
	Day   Weekday
	Start Clock
	End   Clock
}

// Contains reports whether the block lies entirely inside the window.
func (w Window) Contains(b TimeBlock) bool {
	return w.Day == b.Day && w.Start <= b.Start && b.End <= w.End
}

// TeacherPreference lists the windows a teacher favours or avoids.
type TeacherPreference struct {
	TeacherID string
	Preferred []Window
	Avoid     []Window
}

// Plan is the snapshot consumed by one run.
type Plan struct {
	ID          string
	Obligations []Obligation
	Blocks      []TimeBlock
	Rooms       []Room
	Existing    []Booking
	Preferences map[string]TeacherPreference
}

// ConflictCategory classifies conflict records.
type ConflictCategory string

const (
	CategoryAlgorithmAssignment ConflictCategory = "ALGORITHM_ASSIGNMENT"
	CategoryDoubleBooking       ConflictCategory = "DOUBLE_BOOKING"
)

// Conflict records a rejected candidate or a broken occupancy invariant.
type Conflict struct {
	PlanID       string
	Category     ConflictCategory
	Description  string
	ObligationID string
}

// Result is the outcome of one run.
type Result struct {
	Success     bool
	Assignments []Candidate
	Conflicts   []Conflict
	Unassigned  []Obligation
	Score       float64
	Elapsed     time.Duration
	Strategy    Strategy
	Message     string
}
