package scheduler

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const logEveryGenerations = 20

type individual struct {
	genes   []Candidate
	fitness float64
}

type geneticEngine struct {
	opts Options
}

type resourceSlot struct {
	owner string
	block string
}

// Generate evolves complete timetables and returns the fittest individual of
// the last generation evaluated. The random source is only touched from the
// calling goroutine, so a seeded source yields identical output.
func (e *geneticEngine) Generate(ctx context.Context, plan Plan) ([]Candidate, error) {
	obligations := activeObligations(plan)
	blocks := orderedBlocks(plan)
	rooms := usableRooms(plan)
	if len(obligations) == 0 || len(blocks) == 0 || len(rooms) == 0 {
		return nil, nil
	}
	rng := e.opts.Rand
	baseline := NewLedger(plan)

	population := make([]individual, e.opts.PopulationSize)
	for i := range population {
		population[i].genes = e.randomIndividual(rng, obligations, blocks, rooms)
	}
	if err := e.evaluate(baseline, population); err != nil {
		return nil, err
	}

	for gen := 0; gen < e.opts.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			e.opts.Logger.Info("genetic search stopped early", zap.Int("generation", gen), zap.Error(err))
			break
		}
		parents := e.selectParents(rng, population)
		next := make([]individual, 0, len(population))
		for len(next) < len(population) {
			i, j := distinctPair(rng, len(parents))
			child := crossover(rng, parents[i].genes, parents[j].genes)
			if rng.Float64() < e.opts.MutationRate {
				mutate(rng, child, blocks, rooms)
			}
			next = append(next, individual{genes: child})
		}
		if err := e.evaluate(baseline, next); err != nil {
			return nil, err
		}
		population = next

		if gen%logEveryGenerations == 0 {
			best := fittest(population)
			e.opts.Logger.Debug("genetic generation",
				zap.Int("generation", gen),
				zap.Float64("best_fitness", best.fitness),
				zap.Int("genes", len(best.genes)))
		}
	}

	best := fittest(population)
	out := make([]Candidate, len(best.genes))
	copy(out, best.genes)
	return out, nil
}

// randomIndividual draws up to PlacementAttempts block/room pairs per
// obligation until one does not collide inside the individual.
func (e *geneticEngine) randomIndividual(rng *rand.Rand, obligations []Obligation, blocks []TimeBlock, rooms []Room) []Candidate {
	teacherUsed := make(map[resourceSlot]bool)
	roomUsed := make(map[resourceSlot]bool)
	genes := make([]Candidate, 0, len(obligations))
	for _, ob := range obligations {
		for attempt := 0; attempt < e.opts.PlacementAttempts; attempt++ {
			block := blocks[rng.Intn(len(blocks))]
			room := rooms[rng.Intn(len(rooms))]
			tKey := resourceSlot{owner: ob.TeacherID, block: block.ID}
			rKey := resourceSlot{owner: room.ID, block: block.ID}
			if teacherUsed[tKey] || roomUsed[rKey] {
				continue
			}
			teacherUsed[tKey] = true
			roomUsed[rKey] = true
			genes = append(genes, newCandidate(ob, block, room, defaultAttendance(ob, room), 0))
			break
		}
	}
	return genes
}

// evaluate scores every individual concurrently. Each goroutine writes only
// its own slot.
func (e *geneticEngine) evaluate(baseline *Ledger, population []individual) error {
	var g errgroup.Group
	g.SetLimit(e.opts.Workers)
	for i := range population {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("fitness evaluation panicked: %v", r)
				}
			}()
			population[i].fitness = e.fitness(baseline, population[i].genes)
			return nil
		})
	}
	return g.Wait()
}

// fitness is the sum of +50 per valid or -100 per invalid candidate plus its
// preference score, with a +10 bonus for every placed obligation.
func (e *geneticEngine) fitness(baseline *Ledger, genes []Candidate) float64 {
	state := baseline.Clone()
	total := 0.0
	for _, c := range genes {
		ev := e.opts.Validator.Evaluate(c, state)
		if ev.Valid {
			total += 50
			state.Reserve(c)
		} else {
			total -= 100
		}
		total += ev.Score
	}
	return total + float64(10*len(genes))
}

// selectParents runs size-k tournaments with distinct entrants until half the
// population is chosen.
func (e *geneticEngine) selectParents(rng *rand.Rand, population []individual) []individual {
	want := len(population) / 2
	if want < 2 {
		want = 2
	}
	k := e.opts.TournamentSize
	if k > len(population) {
		k = len(population)
	}
	parents := make([]individual, 0, want)
	for len(parents) < want {
		entrants := rng.Perm(len(population))[:k]
		winner := population[entrants[0]]
		for _, idx := range entrants[1:] {
			if population[idx].fitness > winner.fitness {
				winner = population[idx]
			}
		}
		parents = append(parents, winner)
	}
	return parents
}

// distinctPair draws two different indexes below n. n must be at least 2.
func distinctPair(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// crossover splices a prefix of a with the suffix of b and drops any gene
// whose teacher, room or obligation was already placed in that block.
func crossover(rng *rand.Rand, a, b []Candidate) []Candidate {
	if len(a) == 0 {
		return append([]Candidate(nil), b...)
	}
	if len(b) == 0 {
		return append([]Candidate(nil), a...)
	}
	shortest := len(a)
	if len(b) < shortest {
		shortest = len(b)
	}
	if shortest < 2 {
		return append([]Candidate(nil), a...)
	}
	point := 1 + rng.Intn(shortest-1)

	spliced := make([]Candidate, 0, len(b))
	spliced = append(spliced, a[:point]...)
	spliced = append(spliced, b[point:]...)

	teacherSeen := make(map[resourceSlot]bool, len(spliced))
	roomSeen := make(map[resourceSlot]bool, len(spliced))
	obligationSeen := make(map[string]bool, len(spliced))
	child := make([]Candidate, 0, len(spliced))
	for _, c := range spliced {
		tKey := resourceSlot{owner: c.Obligation.TeacherID, block: c.Block.ID}
		rKey := resourceSlot{owner: c.Room.ID, block: c.Block.ID}
		if teacherSeen[tKey] || roomSeen[rKey] || obligationSeen[c.Obligation.ID] {
			continue
		}
		teacherSeen[tKey] = true
		roomSeen[rKey] = true
		obligationSeen[c.Obligation.ID] = true
		child = append(child, c)
	}
	return child
}

// mutate re-rolls the block or the room of one random gene.
func mutate(rng *rand.Rand, genes []Candidate, blocks []TimeBlock, rooms []Room) {
	if len(genes) == 0 {
		return
	}
	i := rng.Intn(len(genes))
	if rng.Float64() < 0.5 {
		genes[i].Block = blocks[rng.Intn(len(blocks))]
		return
	}
	genes[i].Room = rooms[rng.Intn(len(rooms))]
	genes[i].Attendance = defaultAttendance(genes[i].Obligation, genes[i].Room)
}

func fittest(population []individual) individual {
	best := population[0]
	for _, ind := range population[1:] {
		if ind.fitness > best.fitness {
			best = ind
		}
	}
	return best
}
