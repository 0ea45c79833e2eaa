package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownStrategy is returned when a strategy key is not in the enumeration.
var ErrUnknownStrategy = errors.New("unknown scheduling strategy")

// Strategy identifies a solving engine.
type Strategy string

const (
	StrategyTeacherPriority      Strategy = "teacher_priority"
	StrategyRoomOptimization     Strategy = "room_optimization"
	StrategyBalancedDistribution Strategy = "balanced_distribution"
	StrategyGeneticAlgorithm     Strategy = "genetic_algorithm"
)

// Descriptor is the presentation data for a strategy.
type Descriptor struct {
	Key         Strategy
	Name        string
	Description string
}

var descriptors = []Descriptor{
	{
		Key:         StrategyTeacherPriority,
		Name:        "Teacher Priority",
		Description: "Walks obligations teacher by teacher and picks the best free block and room, favouring mornings, mid-week days and matching room types.",
	},
	{
		Key:         StrategyRoomOptimization,
		Name:        "Room Optimization",
		Description: "Places the heaviest obligations first into rooms whose expected occupancy sits between 60% and 90% of capacity.",
	},
	{
		Key:         StrategyBalancedDistribution,
		Name:        "Balanced Distribution",
		Description: "Routes each obligation to the least loaded weekday to spread sessions evenly across the week.",
	},
	{
		Key:         StrategyGeneticAlgorithm,
		Name:        "Genetic Algorithm",
		Description: "Evolves a population of complete timetables with tournament selection, crossover and mutation.",
	},
}

// Strategies lists every available strategy in a stable order.
func Strategies() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// ParseStrategy resolves a strategy key.
func ParseStrategy(raw string) (Strategy, error) {
	key := Strategy(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := constructors[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, raw)
	}
	return key, nil
}

// Engine produces candidate assignments for a plan snapshot.
type Engine interface {
	Generate(ctx context.Context, plan Plan) ([]Candidate, error)
}

// Options tunes engines. Zero values take defaults; only the genetic engine
// reads the population fields.
type Options struct {
	PopulationSize    int
	Generations       int
	MutationRate      float64
	TournamentSize    int
	PlacementAttempts int
	Workers           int
	Rand              *rand.Rand
	Validator         *Validator
	Logger            *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.PopulationSize <= 0 {
		o.PopulationSize = 50
	}
	if o.Generations <= 0 {
		o.Generations = 100
	}
	if o.MutationRate <= 0 || o.MutationRate > 1 {
		o.MutationRate = 0.1
	}
	if o.TournamentSize <= 0 {
		o.TournamentSize = 3
	}
	if o.PlacementAttempts <= 0 {
		o.PlacementAttempts = 50
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Validator == nil {
		o.Validator = NewValidator(nil)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

var constructors = map[Strategy]func(Options) Engine{
	StrategyTeacherPriority:      func(o Options) Engine { return &teacherPriorityEngine{logger: o.Logger} },
	StrategyRoomOptimization:     func(o Options) Engine { return &roomOptimizationEngine{logger: o.Logger} },
	StrategyBalancedDistribution: func(o Options) Engine { return &balancedEngine{logger: o.Logger} },
	StrategyGeneticAlgorithm:     func(o Options) Engine { return &geneticEngine{opts: o} },
}

// NewEngine builds the engine registered for the strategy.
func NewEngine(strategy Strategy, opts Options) (Engine, error) {
	build, ok := constructors[strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
	return build(opts.withDefaults()), nil
}

// --- shared helpers ---

func activeObligations(plan Plan) []Obligation {
	out := make([]Obligation, 0, len(plan.Obligations))
	for _, ob := range plan.Obligations {
		if ob.Active {
			out = append(out, ob)
		}
	}
	return out
}

// orderedBlocks returns active blocks sorted by day, start and id.
func orderedBlocks(plan Plan) []TimeBlock {
	out := make([]TimeBlock, 0, len(plan.Blocks))
	for _, block := range plan.Blocks {
		if block.Active {
			out = append(out, block)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// usableRooms returns available rooms, smallest first.
func usableRooms(plan Plan) []Room {
	out := make([]Room, 0, len(plan.Rooms))
	for _, room := range plan.Rooms {
		if room.Available {
			out = append(out, room)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Capacity != out[j].Capacity {
			return out[i].Capacity < out[j].Capacity
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// defaultAttendance is the requested seat count, or 80% of the room capped at 30.
func defaultAttendance(ob Obligation, room Room) int {
	if ob.ExpectedAttendance > 0 {
		return ob.ExpectedAttendance
	}
	estimate := int(float64(room.Capacity) * 0.8)
	if estimate > 30 {
		return 30
	}
	return estimate
}

func newCandidate(ob Obligation, block TimeBlock, room Room, attendance int, score float64) Candidate {
	return Candidate{
		Obligation: ob,
		Block:      block,
		Room:       room,
		Attendance: attendance,
		Modality:   ModalityInPerson,
		Score:      score,
	}
}

// affine pairs laboratory work with laboratories and theory with lecture halls.
func affine(ob Obligation, room Room) bool {
	if ob.NeedsLaboratory() {
		return room.IsLaboratory()
	}
	return room.Type == RoomTypeLectureHall
}

func fits(attendance int, room Room) bool {
	return attendance <= room.Capacity
}

// placement is the best pair found during a scan.
type placement struct {
	block      TimeBlock
	room       Room
	attendance int
	score      float64
	found      bool
}

// consider keeps the first strictly better option.
func (p *placement) consider(block TimeBlock, room Room, attendance int, score float64) {
	if p.found && score <= p.score {
		return
	}
	*p = placement{block: block, room: room, attendance: attendance, score: score, found: true}
}
