package history

import (
	"fmt"
	"math/rand"
)

// Word lists for generated run names, docker-style adjective plus scientist
// surname joined by a hyphen, e.g. "quirky-einstein". All entries already
// satisfy the cluster resource-name grammar.
var (
	adjectives = []string{
		"agitated", "angry", "astonishing", "awesome", "berserk", "big",
		"boring", "clever", "condescending", "crazy", "curious", "deadly",
		"determined", "dreamy", "elegant", "evil", "fabulous", "fervent",
		"festering", "furious", "gigantic", "gloomy", "goofy", "grave",
		"happy", "high", "hopeful", "infallible", "insane", "irreverent",
		"jolly", "kind", "lethal", "lonely", "loving", "mad", "magical",
		"marvelous", "mighty", "modest", "nasty", "naughty", "nice",
		"nostalgic", "peaceful", "pedantic", "prickly", "quirky", "ridiculous",
		"sad", "scruffy", "serene", "sharp", "sick", "silly", "sleepy",
		"small", "soggy", "spontaneous", "stoic", "stupefied", "suspicious",
		"tender", "thirsty", "tiny", "trusting", "voluminous", "wise",
	}

	scientists = []string{
		"archimedes", "avogadro", "babbage", "bohr", "boltzmann", "born",
		"carson", "crick", "curie", "darwin", "descartes", "dijkstra",
		"einstein", "ekeblad", "euclid", "euler", "faraday", "fermat",
		"fermi", "feynman", "franklin", "galileo", "gauss", "goodall",
		"hawking", "heisenberg", "hilbert", "hodgkin", "hopper", "hypatia",
		"jones", "kay", "kepler", "knuth", "lamarck", "lavoisier", "leavitt",
		"legentil", "linnaeus", "lovelace", "lumiere", "magritte", "maxwell",
		"mccarthy", "mcclintock", "meitner", "mendel", "mestorf", "meucci",
		"miescher", "mirzakhani", "montalcini", "newton", "noether", "pare",
		"pasteur", "pauling", "payne", "perlman", "pike", "planck",
		"poincare", "poitras", "ptolemy", "ramanujan", "ritchie", "sammet",
		"sanger", "shannon", "shaw", "shirley", "sinoussi", "snyder",
		"stonebraker", "swanson", "tesla", "thompson", "torvalds", "turing",
		"volta", "watson", "wiles", "williams", "wilson", "wozniak",
	}
)

// maxMintAttempts bounds the random picks before falling back to a numeric
// suffix on the last candidate.
const maxMintAttempts = 10

// generateName picks a random adjective-scientist pair.
func generateName(rng *rand.Rand) string {
	return adjectives[rng.Intn(len(adjectives))] + "-" + scientists[rng.Intn(len(scientists))]
}

// mintName returns a name for which exists reports false. After
// maxMintAttempts random picks it appends an increasing numeric suffix to
// the last candidate until a free one is found.
func mintName(rng *rand.Rand, exists func(string) (bool, error)) (string, error) {
	var candidate string
	for range maxMintAttempts {
		candidate = generateName(rng)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	for i := 2; ; i++ {
		suffixed := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := exists(suffixed)
		if err != nil {
			return "", err
		}
		if !taken {
			return suffixed, nil
		}
	}
}
