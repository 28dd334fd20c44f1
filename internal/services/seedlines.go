package services

import "math/rand"

// seedLines are the curated opening lines a new poem starts from.
var seedLines = []string{
	"The moon forgot its own reflection",
	"Somewhere a clock is eating the hours",
	"I found a letter written in rain",
	"The city exhaled its last grey breath",
	"Under the floorboards, a garden waited",
	"Her shadow arrived three days early",
	"The sea returned what we never lost",
	"Every mirror in the house faced east",
	"A stranger sold me yesterday's thunder",
	"The lighthouse blinked in a language of salt",
	"We buried the radio still singing",
	"Dawn crept in wearing borrowed shoes",
}

func randomSeedLine() string {
	return seedLines[rand.Intn(len(seedLines))]
}
