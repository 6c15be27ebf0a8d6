package probe

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/domain/types"
)

// generator draws control states from the server's own choices. The same
// seed and choices always produce the same sequence of states.
type generator struct {
	rng  *rand.Rand
	opts types.Options
}

func newGenerator(seed uint64, opts types.Options) (*generator, error) {
	if len(opts.Seasons) == 0 || len(opts.Genders) == 0 || len(opts.Years) == 0 || len(opts.Medals) == 0 {
		return nil, ErrNoChoices
	}
	return &generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		opts: opts,
	}, nil
}

// Next returns a random request. Most thresholds are small so that the
// medal datasets are rarely empty.
func (g *generator) Next() Request {
	threshold := g.rng.IntN(10)
	if g.rng.IntN(4) == 0 {
		threshold = g.rng.IntN(maxThreshold)
	}

	return Request{
		ID:        uuid.NewString(),
		Season:    g.pick(g.opts.Seasons),
		Gender:    g.pick(g.opts.Genders),
		Year:      g.pick(g.opts.Years),
		Threshold: threshold,
		Medals:    g.medals(),
	}
}

// Generate returns n random requests.
func (g *generator) Generate(n int) []Request {
	out := make([]Request, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

func (g *generator) pick(choices []types.Choice) string {
	return choices[g.rng.IntN(len(choices))].Value
}

// medals picks a random subset in random order. An empty subset is kept on
// purpose: the server must treat it as all medals.
func (g *generator) medals() []string {
	perm := g.rng.Perm(len(g.opts.Medals))
	n := g.rng.IntN(len(perm) + 1)
	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, g.opts.Medals[i].Value)
	}
	return out
}
