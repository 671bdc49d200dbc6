package wizard

// Summary is what the launch step shows before publishing.
type Summary struct {
	AccountID   string   `json:"accountId"`
	Campaigns   []string `json:"campaigns"`
	AdSets      []string `json:"adSets"`
	AdSetCount  int      `json:"adSetCount"`
	Placements  []string `json:"placements"`
	Objective   string   `json:"objective"`
	Headline    string   `json:"headline"`
	CTA         string   `json:"cta"`
	CanPublish  bool     `json:"canPublish"`
	BlockReason string   `json:"blockReason,omitempty"`
}

type SummaryOptions struct {
	Placements        []string
	Objective         string
	Connected         bool
	RequireConnection bool
}

// BuildSummary resolves campaign ids to names and decides whether the
// publish action is enabled.
func BuildSummary(draft CreativeDraft, sel *Selection, campaigns []Campaign, opts SummaryOptions) Summary {
	names := make(map[string]string, len(campaigns))
	for _, c := range campaigns {
		names[c.ID] = c.Name
	}

	s := Summary{
		Campaigns:  []string{},
		AdSets:     []string{},
		Placements: append([]string{}, opts.Placements...),
		Objective:  opts.Objective,
		Headline:   draft.Headline,
		CTA:        draft.CTA,
	}
	if sel != nil {
		s.AccountID = sel.AccountID
		for _, id := range sel.CampaignIDs {
			name, ok := names[id]
			if !ok {
				name = id
			}
			s.Campaigns = append(s.Campaigns, name)
		}
		for _, a := range sel.AdSets {
			s.AdSets = append(s.AdSets, a.Name)
		}
		s.AdSetCount = len(sel.AdSets)
	}

	switch {
	case s.AdSetCount == 0:
		s.BlockReason = ErrNoAdSets.Error()
	case opts.RequireConnection && !opts.Connected:
		s.BlockReason = "connect your ads account first"
	default:
		s.CanPublish = true
	}
	return s
}
