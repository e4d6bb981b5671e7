package minutes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess_RemovesFillerWords(t *testing.T) {
	out := Preprocess("um the report is you know ready")
	assert.Equal(t, "the report is ready", out)
}

func TestPreprocess_CollapsesStutters(t *testing.T) {
	out := Preprocess("the the report is is ready")
	assert.Equal(t, "the report is ready", out)
}

func TestPreprocess_RepairsGluedWords(t *testing.T) {
	// Engines sometimes concatenate across utterance boundaries.
	out := Preprocess("send the reportFirstly check the rota")
	assert.Contains(t, out, "report")
	assert.Contains(t, out, boundaryMarker+"Firstly")
}

func TestPreprocess_StripsGreetingsAndSignoffs(t *testing.T) {
	out := Preprocess("Good morning everyone the budget is overspent thanks everyone")
	assert.Equal(t, "the budget is overspent", out)
}

func TestPreprocess_InsertsBoundariesBeforeTransitionCues(t *testing.T) {
	out := Preprocess("we reviewed the budget also we need to hire two staff")
	assert.Contains(t, out, boundaryMarker+"also")
	assert.Contains(t, out, boundaryMarker+"we need to hire")
}

func TestPreprocess_LeavesLeadingCueAlone(t *testing.T) {
	out := Preprocess("firstly the budget is overspent")
	assert.False(t, strings.HasPrefix(out, boundaryMarker))
}

func TestSplitUnits_UnpunctuatedDictation(t *testing.T) {
	units := splitUnits(Preprocess("we reviewed the budget also we need to hire two staff"))
	assert.Equal(t, []string{"we reviewed the budget", "we need to hire two staff"}, units)
}

func TestSplitUnits_PunctuationAndLength(t *testing.T) {
	units := splitUnits("yes. We agreed to extend the project deadline! ok; short")
	assert.Equal(t, []string{"We agreed to extend the project deadline"}, units)
}
