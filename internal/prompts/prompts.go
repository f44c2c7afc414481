// Package prompts holds the prompt texts sent to the model, together
// with the typed input/output contracts they promise.
package prompts

// ProfileSimilarity asks the model to grade a résumé against a job
// description. The caller supplies a SimilarityInput as the structured
// input; the model must answer with a SimilarityVerdict.
const ProfileSimilarity = `Compare the following candidate resume (split by sections) to the provided job description.
Identify:
- strengths: relevant skills, experiences, or qualifications
- gaps: missing or weak areas
Return a JSON object: {"strengths": [...], "gaps": [...]} ONLY.
The resume sections and the job description are provided in the input JSON.`

// SimilarityInput is the structured input of ProfileSimilarity.
type SimilarityInput struct {
	Resume         map[string]string `json:"resume"`
	JobDescription string            `json:"job_description"`
}

// SimilarityVerdict is the JSON object ProfileSimilarity demands back.
type SimilarityVerdict struct {
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
}
