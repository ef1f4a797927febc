package lib

import (
    "math/rand/v2"
)

type RandomSource interface {
    Byte() byte
}

type pcgSource struct {
    rng *rand.Rand
}

func (source *pcgSource) Byte() byte {
    return byte(source.rng.UintN(256))
}

/* a seeded source, the same seed always produces the same bytes */
func MakeRandomSource(seed uint64) RandomSource {
    return &pcgSource{
        rng: rand.New(rand.NewPCG(seed, seed ^ 0x9e3779b97f4a7c15)),
    }
}

/* replays a fixed list of bytes, starting over when it runs out */
type SequenceSource struct {
    Values []byte
    next int
}

func (source *SequenceSource) Byte() byte {
    if len(source.Values) == 0 {
        return 0
    }
    value := source.Values[source.next % len(source.Values)]
    source.next += 1
    return value
}
