package generate

import (
	"strings"
	"testing"

	"github.com/dgallion1/testgest/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 1, EstimateTokens("  "))
	assert.Equal(t, 4, EstimateTokens("倒车灯亮"))
	assert.Equal(t, 2, EstimateTokens("hello world"))
	// 3 Han characters plus 1 word ("R")
	assert.Equal(t, 4, EstimateTokens("挂R档灯"))
}

func reqs(n int, desc string) []model.Requirement {
	out := make([]model.Requirement, n)
	for i := range out {
		out[i] = model.Requirement{ID: "1.1", Description: desc}
	}
	return out
}

func TestBatch(t *testing.T) {
	desc := strings.Repeat("灯", 20)
	cost := requirementTokens(model.Requirement{ID: "1.1", Description: desc})

	batches := Batch(reqs(5, desc), 2*cost)
	assert.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)
}

func TestBatch_OversizeRequirementStandsAlone(t *testing.T) {
	in := []model.Requirement{
		{ID: "1", Description: "短"},
		{ID: "2", Description: strings.Repeat("长", 500)},
		{ID: "3", Description: "短"},
	}
	batches := Batch(in, 100)
	assert.Len(t, batches, 3)
	assert.Equal(t, "2", batches[1][0].ID)
}

func TestBatch_NoBudget(t *testing.T) {
	assert.Len(t, Batch(reqs(10, "x"), 0), 1)
	assert.Nil(t, Batch(nil, 100))
}
