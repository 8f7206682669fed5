package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pelletier/go-toml/v2"
)

//go:embed challenges.toml
var defaultCatalog []byte

// Difficulty classifies a challenge.
type Difficulty string

// Supported difficulty levels.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ErrUnknownDifficulty indicates a difficulty outside Easy, Medium and Hard.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty normalises a difficulty label, ignoring case.
func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, value)
	}
}

// Challenge describes a coding exercise offered to users.
type Challenge struct {
	ID             string
	Title          string
	Description    string
	Difficulty     Difficulty
	Tags           []string
	Prompt         string
	SampleSolution string
}

// TagSet returns the lower-cased tags for set comparisons.
func (c Challenge) TagSet() mapset.Set[string] {
	return NormaliseTags(c.Tags)
}

// NormaliseTags lower-cases, trims and de-duplicates tags into a set.
func NormaliseTags(tags []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSetWithSize[string](len(tags))
	for _, tag := range tags {
		if trimmed := strings.ToLower(strings.TrimSpace(tag)); trimmed != "" {
			set.Add(trimmed)
		}
	}
	return set
}

// Catalog is an ordered, read-only list of challenges.
type Catalog struct {
	challenges []Challenge
	index      map[string]int
}

type catalogFile struct {
	Challenges []struct {
		ID             string   `toml:"id"`
		Title          string   `toml:"title"`
		Description    string   `toml:"description"`
		Difficulty     string   `toml:"difficulty"`
		Tags           []string `toml:"tags"`
		Prompt         string   `toml:"prompt"`
		SampleSolution string   `toml:"sample_solution"`
	} `toml:"challenges"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a TOML catalog and validates every entry.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	cat := &Catalog{
		challenges: make([]Challenge, 0, len(file.Challenges)),
		index:      make(map[string]int, len(file.Challenges)),
	}

	for i, entry := range file.Challenges {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			return nil, fmt.Errorf("challenge #%d is missing an id", i+1)
		}
		if _, exists := cat.index[id]; exists {
			return nil, fmt.Errorf("duplicate challenge id %q", id)
		}
		if strings.TrimSpace(entry.Title) == "" {
			return nil, fmt.Errorf("challenge %q is missing a title", id)
		}
		difficulty, err := ParseDifficulty(entry.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("challenge %q: %w", id, err)
		}

		cat.index[id] = len(cat.challenges)
		cat.challenges = append(cat.challenges, Challenge{
			ID:             id,
			Title:          strings.TrimSpace(entry.Title),
			Description:    strings.TrimSpace(entry.Description),
			Difficulty:     difficulty,
			Tags:           dedupeTags(entry.Tags),
			Prompt:         entry.Prompt,
			SampleSolution: entry.SampleSolution,
		})
	}

	return cat, nil
}

// All returns the challenges in catalog order.
func (c *Catalog) All() []Challenge {
	out := make([]Challenge, len(c.challenges))
	copy(out, c.challenges)
	return out
}

// Get looks up a challenge by id.
func (c *Catalog) Get(id string) (Challenge, bool) {
	i, ok := c.index[strings.TrimSpace(id)]
	if !ok {
		return Challenge{}, false
	}
	return c.challenges[i], true
}

// Len reports the number of challenges.
func (c *Catalog) Len() int {
	return len(c.challenges)
}

// dedupeTags keeps the declared order while dropping case-insensitive repeats.
func dedupeTags(tags []string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || !seen.Add(strings.ToLower(trimmed)) {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
