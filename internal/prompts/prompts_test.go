package prompts

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileSimilarityPromptText(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "profile_similarity", []byte(ProfileSimilarity))
}

func TestSimilarityVerdictShape(t *testing.T) {
	raw := `{"strengths":["Go services"],"gaps":["Kubernetes operators"]}`

	var verdict SimilarityVerdict
	require.NoError(t, json.Unmarshal([]byte(raw), &verdict))
	assert.Equal(t, []string{"Go services"}, verdict.Strengths)
	assert.Equal(t, []string{"Kubernetes operators"}, verdict.Gaps)
}
