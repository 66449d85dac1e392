package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"outreach/internal/core/schema"
)

// The prompt text is part of the extraction contract. Output is re-checked by
// Normalize, which applies the same rules.

const categorizeSystem = `You extract structured records from field notes written by homeless outreach workers.
Return a single JSON object and nothing else. No prose, no code fences.`

const categorizeRules = `Rules:
- Use exactly the category names listed above as JSON keys. Do not invent keys.
- approximate_age MUST be [min, max] integers.
  - A specific age N becomes [N-2, N+2], clamped to 0..120.
  - "teenage" or "teen" -> [13, 19]; "young adult" -> [18, 30]; "middle-aged" -> [40, 60]; "elderly" or "senior" -> [65, 85].
  - "in their Xties" -> [X0, X9]; "early Xties" -> [X0, X5]; "mid Xties" -> [X3, X7]; "late Xties" -> [X5, X9].
  - If no age is mentioned use [-1, -1].
- height MUST be total inches as a number. 6 feet -> 72, 5'4" -> 64.
- weight is pounds as a number.
- skin_color MUST be one of Light, Medium, Dark.
- single_select values MUST be one of the listed options, spelled exactly.
- multi_select values MUST be a list containing only listed options.
- Numbers are digits only, without units.
- Use null for anything not mentioned.`

// CategorizeMessages builds the system and user prompts for one transcript
func CategorizeMessages(transcript string, cats *schema.Set) (system, user string) {
	var b strings.Builder
	b.WriteString("Categories:\n")
	for _, c := range cats.All() {
		b.WriteString(describe(c))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(categorizeRules)
	b.WriteString("\n\nTranscript:\n")
	b.WriteString(transcript)
	return categorizeSystem, b.String()
}

// describe renders "- name (type[: options]: required?)"
func describe(c schema.Category) string {
	req := "optional"
	if c.IsRequired {
		req = "required"
	}
	if len(c.Options) > 0 {
		return fmt.Sprintf("- %s (%s: %s: %s)", c.Name, c.Type, strings.Join(c.Labels(), ", "), req)
	}
	return fmt.Sprintf("- %s (%s: %s)", c.Name, c.Type, req)
}

const compareSystem = `You compare two records describing people met during homeless outreach and judge whether they are the same person.
Reply with a single integer from 0 to 100 and nothing else. 100 means certainly the same person.`

// CompareMessages builds the prompts for one pairwise duplicate check
func CompareMessages(candidate, existing schema.Data) (system, user string, err error) {
	a, err := json.Marshal(candidate)
	if err != nil {
		return "", "", err
	}
	b, err := json.Marshal(existing)
	if err != nil {
		return "", "", err
	}
	user = fmt.Sprintf(`Consider name similarity (nicknames, spelling), age range overlap, height and weight within a few units, and matching physical traits.

New record:
%s

Existing record:
%s

Confidence (0-100):`, a, b)
	return compareSystem, user, nil
}
