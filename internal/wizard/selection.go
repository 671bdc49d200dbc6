package wizard

// Selection is the set of campaigns and ad sets the ad will be published to.
// Ad sets can only be selected under a selected campaign.
type Selection struct {
	AccountID   string   `json:"accountId"`
	CampaignIDs []string `json:"campaignIds"`
	AdSets      []AdSet  `json:"adSets"`
}

func NewSelection(accountID string) *Selection {
	return &Selection{AccountID: accountID, CampaignIDs: []string{}, AdSets: []AdSet{}}
}

// SetAccount switches account, clearing everything selected under the old one.
func (s *Selection) SetAccount(accountID string) {
	if s.AccountID == accountID {
		return
	}
	s.AccountID = accountID
	s.CampaignIDs = []string{}
	s.AdSets = []AdSet{}
}

// Clone returns a copy that shares no slices with s.
func (s Selection) Clone() Selection {
	return Selection{
		AccountID:   s.AccountID,
		CampaignIDs: append([]string{}, s.CampaignIDs...),
		AdSets:      append([]AdSet{}, s.AdSets...),
	}
}

func (s *Selection) HasCampaign(id string) bool {
	return containsID(s.CampaignIDs, id)
}

func (s *Selection) HasAdSet(id string) bool {
	for _, a := range s.AdSets {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ToggleCampaign selects or deselects a campaign. Deselecting also drops
// every selected ad set of that campaign.
func (s *Selection) ToggleCampaign(id string) {
	if !s.HasCampaign(id) {
		s.CampaignIDs = append(s.CampaignIDs, id)
		return
	}

	campaigns := make([]string, 0, len(s.CampaignIDs))
	for _, c := range s.CampaignIDs {
		if c != id {
			campaigns = append(campaigns, c)
		}
	}
	s.CampaignIDs = campaigns

	sets := make([]AdSet, 0, len(s.AdSets))
	for _, a := range s.AdSets {
		if a.CampaignID != id {
			sets = append(sets, a)
		}
	}
	s.AdSets = sets
}

// ToggleAdSet selects or deselects an ad set. It reports false, changing
// nothing, when the ad set's campaign is not selected.
func (s *Selection) ToggleAdSet(set AdSet) bool {
	if s.HasAdSet(set.ID) {
		sets := make([]AdSet, 0, len(s.AdSets))
		for _, a := range s.AdSets {
			if a.ID != set.ID {
				sets = append(sets, a)
			}
		}
		s.AdSets = sets
		return true
	}

	if !s.HasCampaign(set.CampaignID) {
		return false
	}
	s.AdSets = append(s.AdSets, set)
	return true
}

// Available narrows all to the ad sets of selected campaigns; with no
// campaign selected nothing is available.
func (s *Selection) Available(all []AdSet) []AdSet {
	if len(s.CampaignIDs) == 0 {
		return []AdSet{}
	}
	return adSetsOf(all, s.CampaignIDs)
}

func (s *Selection) AdSetIDs() []string {
	ids := make([]string, 0, len(s.AdSets))
	for _, a := range s.AdSets {
		ids = append(ids, a.ID)
	}
	return ids
}
