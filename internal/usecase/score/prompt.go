package score

import (
	"fmt"
	"strings"

	"github.com/spacefit/spacefit/internal/domain"
)

const systemPrompt = `You are a commercial real estate expert. You evaluate how well ` +
	`retail and office properties fit a prospective tenant's requirements. ` +
	`You respond only with the exact JSON requested, no prose.`

const responseInstruction = `Rate how well EACH numbered property above fits this tenant. ` +
	`Respond with a JSON array containing exactly one object per property, in the form ` +
	`[{"index": <property number>, "score": <0-10>, "explanation": "<one sentence>"}]. ` +
	`Use every property number exactly once. Output the JSON array and nothing else.`

// buildMessages renders the scoring conversation: a system turn, one turn
// listing the numbered candidates, and one turn with the tenant query and
// response instructions. Candidate i is listed under ordinal i+1.
func buildMessages(query string, candidates []domain.MatchCandidate) []Message {
	var listing strings.Builder
	listing.WriteString("Candidate properties:\n")
	for i := range candidates {
		p := &candidates[i].Property
		fmt.Fprintf(&listing, "\n%d. %s, %s", i+1, p.City(), p.State())
		if p.PropertyType() != "" {
			fmt.Fprintf(&listing, " (%s)", p.PropertyType())
		}
		fmt.Fprintf(&listing, " at $%.2f/sqft", p.RentPerSqft())
		if lt := p.LeaseType(); lt != "" {
			fmt.Fprintf(&listing, ", %s lease", lt)
		}
		fmt.Fprintf(&listing, "\n   %s", p.Description())
		if n := p.Neighborhood(); n != "" {
			fmt.Fprintf(&listing, "\n   Neighborhood: %s", n)
		}
		if f := p.Features(); len(f) > 0 {
			fmt.Fprintf(&listing, "\n   Features: %s", strings.Join(f, ", "))
		}
		if dt := p.DesiredTenants(); len(dt) > 0 {
			fmt.Fprintf(&listing, "\n   Seeking tenants like: %s", strings.Join(dt, ", "))
		}
		listing.WriteString("\n")
	}

	ask := fmt.Sprintf("Tenant requirements: %s\n\n%s", query, responseInstruction)

	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: listing.String()},
		{Role: RoleUser, Content: ask},
	}
}
