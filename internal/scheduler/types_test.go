package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, c.Hour())
	assert.Equal(t, "08:30", c.String())

	c, err = ParseClock("14:05:00")
	require.NoError(t, err)
	assert.Equal(t, NewClock(14, 5), c)

	for _, raw := range []string{"", "8", "25:00", "10:61", "ab:cd", "1:2:3:4"} {
		_, err := ParseClock(raw)
		assert.ErrorIs(t, err, ErrInvalidClock, raw)
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("wednesday")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, day)

	day, err = ParseWeekday("6")
	require.NoError(t, err)
	assert.Equal(t, Saturday, day)

	_, err = ParseWeekday("SUNDAY")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
	_, err = ParseWeekday("7")
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestNewTimeBlockDerivesDuration(t *testing.T) {
	b, err := NewTimeBlock("b1", "first", Monday, NewClock(8, 0), NewClock(9, 30))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, b.Duration())
	assert.True(t, b.Active)

	b.End = NewClock(10, 0)
	assert.Equal(t, 2*time.Hour, b.Duration())
}

func TestNewTimeBlockRejectsInvertedRange(t *testing.T) {
	_, err := NewTimeBlock("b1", "bad", Monday, NewClock(10, 0), NewClock(10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeBlock)

	_, err = NewTimeBlock("b2", "bad", Monday, NewClock(11, 0), NewClock(10, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeBlock)

	_, err = NewTimeBlock("b3", "bad", Weekday(7), NewClock(8, 0), NewClock(10, 0))
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestTimeBlockOverlapModes(t *testing.T) {
	a := testBlock("a", Monday, "08:00", "10:00")
	b := testBlock("b", Monday, "09:00", "11:00")
	c := testBlock("c", Monday, "08:00", "09:00")
	d := testBlock("d", Tuesday, "08:00", "10:00")

	assert.False(t, a.SameStart(b))
	assert.True(t, a.Overlaps(b))
	assert.True(t, a.SameStart(c))
	assert.False(t, a.SameStart(d))
	assert.False(t, a.Overlaps(d))
	assert.False(t, c.Overlaps(testBlock("e", Monday, "09:00", "10:00")))
}

func TestWindowContains(t *testing.T) {
	w := Window{Day: Monday, Start: NewClock(8, 0), End: NewClock(12, 0)}
	assert.True(t, w.Contains(testBlock("a", Monday, "08:00", "10:00")))
	assert.False(t, w.Contains(testBlock("b", Monday, "11:00", "13:00")))
	assert.False(t, w.Contains(testBlock("c", Tuesday, "08:00", "10:00")))
}

// --- Fixtures ---

func testBlock(id string, day Weekday, start, end string) TimeBlock {
	s, err := ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseClock(end)
	if err != nil {
		panic(err)
	}
	return TimeBlock{ID: id, Name: id, Day: day, Start: s, End: e, Active: true}
}

func testRoom(id string, capacity int, kind RoomType) Room {
	return Room{ID: id, Code: "R-" + id, Capacity: capacity, Type: kind, Available: true}
}

func testObligation(id, teacherID string, attendance int) Obligation {
	return Obligation{
		ID:                 id,
		PlanID:             "plan-1",
		TeacherID:          teacherID,
		TeacherName:        "Teacher " + teacherID,
		SubjectID:          "subject-" + id,
		SubjectName:        "Subject " + id,
		SubjectKind:        SubjectKindTheory,
		SubjectLevel:       3,
		WeeklyHours:        2,
		ExpectedAttendance: attendance,
		Active:             true,
	}
}

func testCandidate(ob Obligation, block TimeBlock, room Room, attendance int) Candidate {
	return Candidate{Obligation: ob, Block: block, Room: room, Attendance: attendance, Modality: ModalityInPerson}
}
