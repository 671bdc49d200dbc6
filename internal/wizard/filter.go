package wizard

import (
	"sort"
	"strings"
)

func matches(name, query string) bool {
	query = strings.TrimSpace(query)
	return query == "" || strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

// FilterCampaigns keeps campaigns whose name contains query, ignoring case.
func FilterCampaigns(campaigns []Campaign, query string) []Campaign {
	out := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if matches(c.Name, query) {
			out = append(out, c)
		}
	}
	return out
}

// FilterAdSets keeps ad sets whose name contains query, ignoring case.
func FilterAdSets(sets []AdSet, query string) []AdSet {
	out := make([]AdSet, 0, len(sets))
	for _, s := range sets {
		if matches(s.Name, query) {
			out = append(out, s)
		}
	}
	return out
}

func statusRank(status string) int {
	if isActive(status) {
		return 0
	}
	return 1
}

// SortCampaigns orders active campaigns first, then by name.
func SortCampaigns(campaigns []Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		a, b := campaigns[i], campaigns[j]
		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra < rb
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// SortAdSets groups ad sets under their campaign: campaigns that are active
// come first, then campaign name, then the ad set's own status and name.
func SortAdSets(sets []AdSet, campaigns []Campaign) {
	byID := make(map[string]Campaign, len(campaigns))
	for _, c := range campaigns {
		byID[c.ID] = c
	}

	sort.SliceStable(sets, func(i, j int) bool {
		a, b := sets[i], sets[j]
		ca, cb := byID[a.CampaignID], byID[b.CampaignID]
		if ra, rb := statusRank(ca.Status), statusRank(cb.Status); ra != rb {
			return ra < rb
		}
		if na, nb := strings.ToLower(ca.Name), strings.ToLower(cb.Name); na != nb {
			return na < nb
		}
		if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
			return ra < rb
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}
