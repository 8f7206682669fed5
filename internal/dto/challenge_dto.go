package dto

import "github.com/noah-isme/gema-code-review/internal/models"

// ChallengeFilter defines query parameters for listing challenges.
type ChallengeFilter struct {
	Difficulty string   `query:"difficulty"`
	Tags       []string `query:"tags"`
	Search     string   `query:"search" validate:"max=128"`
	Page       int      `query:"page" validate:"gte=0"`
	PageSize   int      `query:"page_size" validate:"gte=0"`
}

// Pagination describes pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
}

// ChallengeResponse represents a challenge descriptor returned by the API.
type ChallengeResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Difficulty     string   `json:"difficulty"`
	Tags           []string `json:"tags"`
	Prompt         string   `json:"prompt"`
	SampleSolution string   `json:"sample_solution,omitempty"`
}

// ChallengeListResponse wraps challenges and pagination metadata.
type ChallengeListResponse struct {
	Items      []ChallengeResponse `json:"items"`
	Pagination Pagination          `json:"pagination"`
}

// NewChallengeResponse builds a response DTO from the model. Sample solutions
// are only exposed on detail views.
func NewChallengeResponse(challenge models.Challenge, includeSolution bool) ChallengeResponse {
	tags := challenge.TagsSlice()
	if tags == nil {
		tags = []string{}
	}

	response := ChallengeResponse{
		ID:          challenge.ExternalID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Difficulty:  challenge.Difficulty,
		Tags:        tags,
		Prompt:      challenge.Prompt,
	}
	if includeSolution {
		response.SampleSolution = challenge.SampleSolution
	}
	return response
}

// NewChallengeListResponse builds a list response from models and pagination meta.
func NewChallengeListResponse(challenges []models.Challenge, pagination Pagination) ChallengeListResponse {
	items := make([]ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		items = append(items, NewChallengeResponse(challenge, false))
	}

	return ChallengeListResponse{
		Items:      items,
		Pagination: pagination,
	}
}
