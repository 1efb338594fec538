package profile

import (
	"strconv"
	"strings"
)

// MaxLengthConstraint is the target length at or above which the prompt asks
// for no particular length.
const MaxLengthConstraint = 600

const promptIntro = `You are a personality writer for chatbots. Given a set of behavioral traits, write a system prompt that will instruct an LLM to embody this personality in all responses.

The system prompt should:
`

const promptRules = `- Begin with a clear directive like "You MUST adopt the following personality..." or "Your responses MUST reflect..."
- Be written in second person imperative ("You must...", "Always...", "Never...")
`

const promptStyle = `- Feel natural and cohesive, not a list
- Emphasize that the LLM cannot deviate from this personality
- Capture the essence of the traits without listing them verbatim

Behavioral traits:
`

const promptOutro = `

Write ONLY the system prompt with no explanation or commentary:`

// LengthBounds returns the character range requested for a target length.
func LengthBounds(length int) (lo, hi int) {
	return int(float64(length) * 0.9), int(float64(length) * 1.1)
}

// GeneratePrompt renders the profile-writing prompt for traits. A length in
// (0, MaxLengthConstraint) selects the variant that asks for roughly that many
// characters; any other length selects the 4-6 sentence variant.
func GeneratePrompt(traits []Trait, length int) string {
	var b strings.Builder
	b.WriteString(promptIntro)
	if length > 0 && length < MaxLengthConstraint {
		lo, hi := LengthBounds(length)
		b.WriteString("- Be approximately " + strconv.Itoa(lo) + "-" + strconv.Itoa(hi) + " characters in length\n")
		b.WriteString(promptRules)
	} else {
		b.WriteString(promptRules)
		b.WriteString("- Be 4-6 sentences\n")
	}
	b.WriteString(promptStyle)
	for i, t := range traits {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- " + t.Trait)
	}
	b.WriteString(promptOutro)
	return b.String()
}
