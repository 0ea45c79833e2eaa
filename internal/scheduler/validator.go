package scheduler

// Evaluation is the combined verdict for one candidate.
type Evaluation struct {
	Valid   bool
	Reasons []string
	Score   float64
}

// Validator applies a catalog to candidates.
type Validator struct {
	catalog *Catalog
}

// NewValidator wraps the catalog; a nil catalog falls back to the defaults.
func NewValidator(catalog *Catalog) *Validator {
	if catalog == nil {
		catalog = NewCatalog(DefaultWeights(), OverlapExact)
	}
	return &Validator{catalog: catalog}
}

// Validate is false iff a mandatory constraint fails. Reasons list every
// failing constraint as "Name: message", preferences included.
func (v *Validator) Validate(c Candidate, state *Ledger) (bool, []string) {
	ev := v.Evaluate(c, state)
	return ev.Valid, ev.Reasons
}

// Score sums the weights of satisfied preference constraints.
func (v *Validator) Score(c Candidate, state *Ledger) float64 {
	return v.Evaluate(c, state).Score
}

// Evaluate runs every constraint once.
func (v *Validator) Evaluate(c Candidate, state *Ledger) Evaluation {
	ev := Evaluation{Valid: true}
	for _, constraint := range v.catalog.constraints {
		ok, reason := constraint.Validate(c, state)
		if ok {
			if constraint.Kind() == KindPreference {
				ev.Score += constraint.Weight()
			}
			continue
		}
		if constraint.Kind() == KindMandatory {
			ev.Valid = false
		}
		ev.Reasons = append(ev.Reasons, constraint.Name()+": "+reason)
	}
	return ev
}
