package api

import "net/http"

// PlansPool caches the plan catalog. The catalog is static per build but
// served through the pool so a future billing backend can slot in without
// changing the handler.
const PlansPool = "plans"

// Plan describes a subscription tier.
type Plan struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	MonthlyUSD  int      `json:"monthly_usd"`
	MaxMembers  int      `json:"max_members"`
	Features    []string `json:"features"`
	AgentAccess bool     `json:"agent_access"`
}

func planCatalog() []Plan {
	return []Plan{
		{
			Code:       "free",
			Name:       "Free",
			MonthlyUSD: 0,
			MaxMembers: 3,
			Features:   []string{"prospect tracking", "team invites"},
		},
		{
			Code:        "pro",
			Name:        "Pro",
			MonthlyUSD:  29,
			MaxMembers:  25,
			Features:    []string{"prospect tracking", "team invites", "AI insights", "lead discovery", "activity reports"},
			AgentAccess: true,
		},
	}
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.pools.Get(PlansPool, "catalog"); ok {
		if plans, isCatalog := cached.([]Plan); isCatalog {
			writeJSON(w, http.StatusOK, plans)
			return
		}
	}

	plans := planCatalog()
	s.pools.Set(PlansPool, "catalog", plans)
	writeJSON(w, http.StatusOK, plans)
}
