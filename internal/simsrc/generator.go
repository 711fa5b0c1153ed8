package simsrc

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	runShapeDivisor    = 10
)

// Constants for time generation ranges, in seconds.
const (
	fullGameMin   = 3600.0
	fullGameRange = 1800.0
	levelMin      = 45.0
	levelRange    = 120.0
)

// Constants for run shape cases. Most runs are clean full-game or level
// runs; a few carry partial or bogus data to exercise the skip paths.
const (
	caseAnyPct        = 0
	case100Glitched   = 1
	case100Clean      = 2
	caseLevelCastle   = 3
	caseLevelDesert   = 4
	casePartialValues = 5
	caseUnknownCat    = 6
	caseBogusValue    = 7
	caseAnyPctVC     = 8
	caseLevelPartial = 9
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func randomCase(divisor int64) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(divisor))
	return n.Int64()
}

// generateRun produces one verified run in wire shape.
func generateRun() wireRun {
	run := wireRun{
		ID: uuid.New().String(),
		Players: wirePlayers{Data: []wirePlayer{{
			ID:    uuid.New().String(),
			Names: wireNames{International: randomRunnerName()},
		}}},
	}

	switch randomCase(runShapeDivisor) {
	case caseAnyPct:
		run.Category = catAnyPct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64, varAmiibo: valAmiiboNo}
	case caseAnyPctVC:
		run.Category = catAnyPct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valVC, varAmiibo: valAmiiboNo}
	case case100Glitched:
		run.Category = cat100Pct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64, varRoute: valGlitched, varAmiibo: valAmiiboNo}
	case case100Clean:
		run.Category = cat100Pct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64, varRoute: valClean, varAmiibo: valAmiiboNo}
	case caseLevelCastle:
		run.Category = catPerLevel
		run.Level = levelCastle
		run.Times.PrimaryT = levelMin + getRandomFloat()*levelRange
		run.Values = map[string]string{varStrat: valSkipYes, varPlatform: valN64}
	case caseLevelDesert:
		run.Category = catPerLevel
		run.Level = levelDesert
		run.Times.PrimaryT = levelMin + getRandomFloat()*levelRange
		run.Values = map[string]string{varStrat: valSkipNo, varPlatform: valVC}
	case caseLevelPartial:
		// strat not recorded; both level slots stay eligible
		run.Category = catPerLevel
		run.Level = levelCastle
		run.Times.PrimaryT = levelMin + getRandomFloat()*levelRange
		run.Values = map[string]string{varPlatform: valVC}
	case casePartialValues:
		// only one of two separating variables recorded; ambiguous
		run.Category = catAnyPct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64}
	case caseUnknownCat:
		// category the taxonomy never saw; must be skipped
		run.Category = "cat-mystery"
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{}
	case caseBogusValue:
		// noise variable id that no slot carries
		run.Category = catAnyPct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64, varAmiibo: valAmiiboNo, "var-noise": "val-noise"}
	default:
		run.Category = catAnyPct
		run.Times.PrimaryT = fullGameMin + getRandomFloat()*fullGameRange
		run.Values = map[string]string{varPlatform: valN64, varAmiibo: valAmiiboNo}
	}

	return run
}

// generateBatch produces n runs, newest first.
func generateBatch(n int) []wireRun {
	runs := make([]wireRun, n)
	for i := range runs {
		runs[i] = generateRun()
	}
	return runs
}

var runnerNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"mkwfan", "starslider", "warpless", "bljhunter", "pixelpace",
	"cointoss", "glitchgrrl", "retrorun", "framecount", "splitsville",
}

func randomRunnerName() string {
	return runnerNames[randomCase(int64(len(runnerNames)))]
}
