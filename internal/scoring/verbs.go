package scoring

import "strings"

// actionVerbs are accepted as the first word of a bullet in addition to any
// past-tense "-ed" word
var actionVerbs = toSet([]string{
	"achieved", "architected", "automated", "built", "championed", "coached",
	"collaborated", "configured", "consolidated", "coordinated", "created", "cut",
	"debugged", "decreased", "defined", "delivered", "deployed", "designed",
	"developed", "directed", "drove", "eliminated", "enabled", "engineered",
	"established", "expanded", "founded", "grew", "headed", "identified",
	"implemented", "improved", "increased", "integrated", "introduced", "launched",
	"led", "maintained", "managed", "mentored", "migrated", "modernized",
	"negotiated", "optimized", "orchestrated", "organized", "overhauled", "owned",
	"partnered", "pioneered", "planned", "presented", "published", "rebuilt",
	"redesigned", "reduced", "refactored", "resolved", "revamped", "saved",
	"scaled", "secured", "shipped", "simplified", "spearheaded", "standardized",
	"streamlined", "taught", "tested", "trained", "transformed", "tripled",
	"upgraded", "won", "wrote",
	// present tense for current roles
	"build", "design", "develop", "drive", "lead", "maintain", "manage",
	"mentor", "own", "run", "ship", "write",
})

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// startsWithActionVerb checks the first word of a bullet
func startsWithActionVerb(verbs map[string]struct{}, bullet string) bool {
	words := strings.Fields(foldText(bullet))
	if len(words) == 0 {
		return false
	}
	first := strings.Trim(words[0], ".,!?;:-•*()\"'")
	if _, ok := verbs[first]; ok {
		return true
	}
	// Past tense is a reasonable proxy for an accomplishment verb
	return strings.HasSuffix(first, "ed") && len(first) > 4
}
