package sim

import "github.com/gridfall/outbreak/internal/model"

// Thought pools, cosmetic only. Selection never feeds back into any force
// or interaction decision.
var (
	thoughtsCivilianCalm = []string{
		"Quiet morning so far.",
		"Should check on the neighbors.",
		"I could use a coffee.",
		"The streets feel emptier than usual.",
		"Maybe the radio has news.",
	}
	thoughtsCivilianPanic = []string{
		"They're here. Run.",
		"Don't look back, don't look back.",
		"Where is everyone?!",
		"I have to get off this street.",
		"Somebody help us!",
	}
	thoughtsCivilianArmed = []string{
		"Let them come. I'm ready.",
		"Count your shots. Stay calm.",
		"Not my street. Not today.",
		"Hold the corner, watch the alley.",
	}
	thoughtsSoldier = []string{
		"Sector sweep in progress.",
		"Contact discipline. Wait for the shot.",
		"Keep the civilians behind us.",
		"Ammo check. Still green.",
	}
	thoughtsMedic = []string{
		"Stabilize first, questions later.",
		"The serum works. It has to.",
		"One more patient. Then the next.",
		"Hold still. This will help.",
	}
	thoughtsZombie = []string{
		"...hungry...",
		"...closer...",
		"...warm...",
		"...sounds... over there...",
	}
	thoughtsZombieTrapped = []string{
		"...can't... move...",
		"...the net... tight...",
	}
)

// pickThought samples from the pool matching the entity's kind and context.
func (s *Simulation) pickThought(e *model.Entity, threats int) string {
	var pool []string
	switch {
	case e.Kind == model.KindZombie && e.Trapped:
		pool = thoughtsZombieTrapped
	case e.Kind == model.KindZombie:
		pool = thoughtsZombie
	case e.Kind == model.KindSoldier && e.Medic:
		pool = thoughtsMedic
	case e.Kind == model.KindSoldier:
		pool = thoughtsSoldier
	case e.Armed:
		pool = thoughtsCivilianArmed
	case threats > 0:
		pool = thoughtsCivilianPanic
	default:
		pool = thoughtsCivilianCalm
	}
	return pool[s.rng.Intn(len(pool))]
}
