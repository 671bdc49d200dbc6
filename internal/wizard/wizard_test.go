package wizard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draperads/internal/db/dbtest"
	"draperads/internal/events"
	"draperads/internal/meta"
	"draperads/internal/services"
)

func validDraft() CreativeDraft {
	return CreativeDraft{
		PrimaryText: "Buy now",
		Headline:    "Sale",
		CTA:         "shop_now",
		WebsiteURL:  "https://x.com",
		BrandName:   "Draper",
	}
}

func findAdSet(t *testing.T, sets []AdSet, id string) AdSet {
	t.Helper()
	for _, s := range sets {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("ad set %s not found", id)
	return AdSet{}
}

func TestDeselectingCampaignCascadesToAdSets(t *testing.T) {
	ctx := context.Background()
	p := NewFixtureProvider()
	all, err := p.ListAdSets(ctx, "act_1234567890", nil)
	require.NoError(t, err)

	sel := NewSelection("act_1234567890")
	sel.ToggleCampaign("camp_101")
	sel.ToggleCampaign("camp_102")
	require.True(t, sel.ToggleAdSet(findAdSet(t, all, "adset_1011")))
	require.True(t, sel.ToggleAdSet(findAdSet(t, all, "adset_1013")))
	require.True(t, sel.ToggleAdSet(findAdSet(t, all, "adset_1021")))
	require.True(t, sel.ToggleAdSet(findAdSet(t, all, "adset_1022")))

	sel.ToggleCampaign("camp_101")

	assert.Equal(t, []string{"camp_102"}, sel.CampaignIDs)
	assert.ElementsMatch(t, []string{"adset_1021", "adset_1022"}, sel.AdSetIDs())
	for _, a := range sel.AdSets {
		assert.Equal(t, "camp_102", a.CampaignID)
	}
}

func TestToggleAdSetRequiresCampaign(t *testing.T) {
	sel := NewSelection("act_1234567890")
	ok := sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"})
	assert.False(t, ok)
	assert.Empty(t, sel.AdSets)

	sel.ToggleCampaign("camp_101")
	assert.True(t, sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"}))
	assert.True(t, sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"}))
	assert.Empty(t, sel.AdSets)
}

func TestAvailableAdSets(t *testing.T) {
	ctx := context.Background()
	p := NewFixtureProvider()
	all, err := p.ListAdSets(ctx, "act_1234567890", nil)
	require.NoError(t, err)

	sel := NewSelection("act_1234567890")
	assert.Empty(t, sel.Available(all))

	sel.ToggleCampaign("camp_102")
	available := sel.Available(all)
	require.Len(t, available, 2)
	for _, a := range available {
		assert.Equal(t, "camp_102", a.CampaignID)
	}
}

func TestSetAccountClearsSelection(t *testing.T) {
	sel := NewSelection("act_1234567890")
	sel.ToggleCampaign("camp_101")
	sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"})

	sel.SetAccount("act_9876543210")
	assert.Empty(t, sel.CampaignIDs)
	assert.Empty(t, sel.AdSets)
}

func TestFixtureUnknownAccount(t *testing.T) {
	_, err := NewFixtureProvider().ListCampaigns(context.Background(), "act_0")
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	campaigns, err := NewFixtureProvider().ListCampaigns(context.Background(), "act_1234567890")
	require.NoError(t, err)

	got := FilterCampaigns(campaigns, "  SALE ")
	require.Len(t, got, 1)
	assert.Equal(t, "camp_101", got[0].ID)

	assert.Len(t, FilterCampaigns(campaigns, ""), 3)
	assert.Empty(t, FilterCampaigns(campaigns, "nothing"))

	sets := []AdSet{{Name: "Women 25-34"}, {Name: "Broad US"}}
	assert.Len(t, FilterAdSets(sets, "women"), 1)
}

func TestSortCampaigns(t *testing.T) {
	campaigns := []Campaign{
		{ID: "1", Name: "zeta", Status: StatusPaused},
		{ID: "2", Name: "Beta", Status: StatusActive},
		{ID: "3", Name: "alpha", Status: StatusPaused},
		{ID: "4", Name: "Alpha", Status: StatusActive},
	}
	SortCampaigns(campaigns)

	ids := []string{}
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"4", "2", "3", "1"}, ids)
}

func TestSortAdSetsGroupsByCampaign(t *testing.T) {
	campaigns := []Campaign{
		{ID: "c1", Name: "Paused Campaign", Status: StatusPaused},
		{ID: "c2", Name: "Zebra", Status: StatusActive},
		{ID: "c3", Name: "Apple", Status: StatusActive},
	}
	sets := []AdSet{
		{ID: "s1", Name: "A", Status: StatusActive, CampaignID: "c1"},
		{ID: "s2", Name: "B", Status: StatusPaused, CampaignID: "c2"},
		{ID: "s3", Name: "C", Status: StatusActive, CampaignID: "c2"},
		{ID: "s4", Name: "D", Status: StatusPaused, CampaignID: "c3"},
		{ID: "s5", Name: "A", Status: StatusPaused, CampaignID: "c3"},
	}
	SortAdSets(sets, campaigns)

	ids := []string{}
	for _, s := range sets {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"s5", "s4", "s3", "s2", "s1"}, ids)
}

func TestDraftPrimaryTextLimit(t *testing.T) {
	d := validDraft()
	d.PrimaryText = strings.Repeat("a", 125)
	assert.True(t, d.Valid())

	d.PrimaryText = strings.Repeat("a", 126)
	errs := d.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "primaryText", errs[0].Field)
	assert.Equal(t, "primaryText must be at most 125 characters", errs[0].Message)

	tracker := NewStepTracker(events.NewEventBus())
	assert.ErrorIs(t, tracker.Next(d, nil), ErrInvalidDraft)
	assert.Equal(t, StepDesign, tracker.Current())
}

func TestDraftValidation(t *testing.T) {
	d := CreativeDraft{
		PrimaryText: "ok",
		Headline:    strings.Repeat("h", 41),
		Description: strings.Repeat("d", 31),
		CTA:         "nope",
		WebsiteURL:  "not a url",
	}
	fields := map[string]bool{}
	for _, e := range d.Validate() {
		fields[e.Field] = true
	}
	assert.Equal(t, map[string]bool{
		"headline": true, "description": true, "cta": true, "websiteUrl": true, "brandName": true,
	}, fields)
}

func TestDraftRemaining(t *testing.T) {
	d := validDraft()
	p, h, desc := d.Remaining()
	assert.Equal(t, 118, p)
	assert.Equal(t, 36, h)
	assert.Equal(t, 30, desc)
}

func TestDraftRoundTrip(t *testing.T) {
	d := validDraft()
	assert.Equal(t, d, DraftFromAd(d.Ad()))
}

func TestStepTracker(t *testing.T) {
	bus := events.NewEventBus()
	tracker := NewStepTracker(bus)

	changes := make(chan StepChange, 4)
	off := tracker.OnChange(func(c StepChange) { changes <- c })
	defer off()

	sel := NewSelection("act_1234567890")
	require.NoError(t, tracker.Next(validDraft(), sel))
	assert.Equal(t, StepTarget, tracker.Current())

	assert.ErrorIs(t, tracker.Next(validDraft(), sel), ErrNoAdSets)

	sel.ToggleCampaign("camp_101")
	sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"})
	require.NoError(t, tracker.Next(validDraft(), sel))
	assert.Equal(t, StepLaunch, tracker.Current())
	assert.ErrorIs(t, tracker.Next(validDraft(), sel), ErrInvalidStep)

	tracker.Back()
	assert.Equal(t, StepTarget, tracker.Current())

	got := map[StepChange]bool{}
	for i := 0; i < 3; i++ {
		select {
		case c := <-changes:
			got[c] = true
		case <-time.After(time.Second):
			t.Fatal("step change not announced")
		}
	}
	assert.True(t, got[StepChange{From: StepDesign, To: StepTarget}])
	assert.True(t, got[StepChange{From: StepTarget, To: StepLaunch}])
	assert.True(t, got[StepChange{From: StepLaunch, To: StepTarget}])
}

func TestStepRestore(t *testing.T) {
	tracker := NewStepTracker(events.NewEventBus())
	require.NoError(t, tracker.Restore(StepLaunch))
	assert.Equal(t, StepLaunch, tracker.Current())
	assert.ErrorIs(t, tracker.Restore(Step(9)), ErrInvalidStep)
	assert.Equal(t, "launch", StepLaunch.String())
}

func TestSummary(t *testing.T) {
	campaigns, err := NewFixtureProvider().ListCampaigns(context.Background(), "act_1234567890")
	require.NoError(t, err)

	sel := NewSelection("act_1234567890")
	s := BuildSummary(validDraft(), sel, campaigns, SummaryOptions{})
	assert.False(t, s.CanPublish)
	assert.NotEmpty(t, s.BlockReason)

	sel.ToggleCampaign("camp_102")
	sel.ToggleCampaign("camp_999")
	sel.ToggleAdSet(AdSet{ID: "adset_1021", Name: "Broad US 18-65", CampaignID: "camp_102"})

	s = BuildSummary(validDraft(), sel, campaigns, SummaryOptions{Placements: []string{"feed"}, Objective: "traffic"})
	assert.True(t, s.CanPublish)
	assert.Equal(t, []string{"Brand Awareness Q3", "camp_999"}, s.Campaigns)
	assert.Equal(t, []string{"Broad US 18-65"}, s.AdSets)
	assert.Equal(t, 1, s.AdSetCount)

	s = BuildSummary(validDraft(), sel, campaigns, SummaryOptions{RequireConnection: true})
	assert.False(t, s.CanPublish)

	s = BuildSummary(validDraft(), sel, campaigns, SummaryOptions{RequireConnection: true, Connected: true})
	assert.True(t, s.CanPublish)
}

func TestRecommendedDimensions(t *testing.T) {
	d, ok := RecommendedDimensions("stories")
	require.True(t, ok)
	assert.Equal(t, 1920, d.Height)

	_, ok = RecommendedDimensions("billboard")
	assert.False(t, ok)

	assert.Len(t, MediaGuidance([]string{"feed", "facebook", "stories", "right_column"}), 3)
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []Snapshot
}

func (r *recordingSaver) save(ctx context.Context, s Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, s)
	return nil
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

func TestAutosaverDebounces(t *testing.T) {
	rec := &recordingSaver{}
	a := NewAutosaver(30*time.Millisecond, rec.save)

	for _, text := range []string{"B", "Bu", "Buy", "Buy now"} {
		d := validDraft()
		d.PrimaryText = text
		a.Change(Snapshot{Draft: d})
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, "Buy now", rec.saved[0].Draft.PrimaryText)
	assert.False(t, a.Pending())
}

func TestAutosaverFlushAndStop(t *testing.T) {
	rec := &recordingSaver{}
	a := NewAutosaver(time.Hour, rec.save)

	a.Change(Snapshot{Draft: validDraft(), Step: StepTarget})
	assert.True(t, a.Pending())
	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, StepTarget, rec.saved[0].Step)

	require.NoError(t, a.Flush(context.Background()))
	assert.Equal(t, 1, rec.count())

	a.Stop()
	a.Change(Snapshot{Draft: validDraft()})
	assert.False(t, a.Pending())
}

func TestAutosaverPropagatesFlushError(t *testing.T) {
	a := NewAutosaver(time.Hour, func(ctx context.Context, s Snapshot) error {
		return errors.New("offline")
	})
	a.Change(Snapshot{})
	assert.Error(t, a.Flush(context.Background()))
}

func TestDraftSaverWritesOneRow(t *testing.T) {
	gdb := dbtest.New(t)
	ads := services.NewAdService(gdb, nil)
	saver := NewDraftSaver(ads, 0)
	ctx := context.Background()

	d := validDraft()
	require.NoError(t, saver.Save(ctx, Snapshot{Draft: d}))
	id := saver.AdID()
	require.NotZero(t, id)

	d.Headline = "Bigger Sale"
	require.NoError(t, saver.Save(ctx, Snapshot{Draft: d}))
	assert.Equal(t, id, saver.AdID())

	stored, err := ads.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bigger Sale", stored.Headline)

	list, total, err := ads.List(ctx, services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}

type fakeGraph struct{}

func (fakeGraph) GetCampaigns(ctx context.Context, token, accountID string) ([]meta.Campaign, error) {
	return []meta.Campaign{{ID: "c1", Name: "Live", Status: "active"}}, nil
}

func (fakeGraph) GetAdSets(ctx context.Context, token, accountID string) ([]meta.AdSet, error) {
	return []meta.AdSet{
		{ID: "s1", Name: "One", Status: "ACTIVE", CampaignID: "c1"},
		{ID: "s2", Name: "Two", Status: "PAUSED", CampaignID: "c2"},
	}, nil
}

func (fakeGraph) GetPages(ctx context.Context, token string) ([]meta.Page, error) {
	return []meta.Page{{ID: "p1", Name: "Page"}, {ID: "p2", Name: "Other"}}, nil
}

func (fakeGraph) GetInstagramAccounts(ctx context.Context, token, pageID string) ([]meta.InstagramAccount, error) {
	return []meta.InstagramAccount{{ID: "ig-" + pageID, Username: "user_" + pageID}}, nil
}

func TestMetaProvider(t *testing.T) {
	ctx := context.Background()
	p := NewMetaProvider(fakeGraph{}, "tok")

	campaigns, err := p.ListCampaigns(ctx, "act_1")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, campaigns[0].Status)

	sets, err := p.ListAdSets(ctx, "act_1", []string{"c1"})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "s1", sets[0].ID)

	ig, err := p.ListInstagramAccounts(ctx, "act_1")
	require.NoError(t, err)
	require.Len(t, ig, 2)
	assert.Equal(t, "p2", ig[1].PageID)
}

func twoCampaignSelection() *Selection {
	sel := NewSelection("act_1234567890")
	sel.ToggleCampaign("camp_101")
	sel.ToggleCampaign("camp_102")
	sel.ToggleAdSet(AdSet{ID: "adset_1011", CampaignID: "camp_101"})
	sel.ToggleAdSet(AdSet{ID: "adset_1021", CampaignID: "camp_102"})
	return sel
}

func TestToggleLeavesCopiesIntact(t *testing.T) {
	sel := twoCampaignSelection()
	copied := *sel

	sel.ToggleCampaign("camp_101")
	sel.ToggleAdSet(AdSet{ID: "adset_1021", CampaignID: "camp_102"})

	assert.Equal(t, []string{"camp_101", "camp_102"}, copied.CampaignIDs)
	assert.Equal(t, []string{"adset_1011", "adset_1021"}, copied.AdSetIDs())
	assert.Equal(t, []string{"camp_102"}, sel.CampaignIDs)
	assert.Empty(t, sel.AdSets)
}

func TestAutosaverKeepsSnapshotOfChange(t *testing.T) {
	rec := &recordingSaver{}
	a := NewAutosaver(time.Hour, rec.save)

	sel := twoCampaignSelection()
	a.Change(Snapshot{Draft: validDraft(), Selection: *sel, Step: StepTarget})
	sel.ToggleCampaign("camp_101")
	sel.AdSets = append(sel.AdSets, AdSet{ID: "adset_1022", CampaignID: "camp_102"})

	require.NoError(t, a.Flush(context.Background()))
	require.Equal(t, 1, rec.count())
	saved := rec.saved[0].Selection
	assert.Equal(t, []string{"camp_101", "camp_102"}, saved.CampaignIDs)
	assert.Equal(t, []string{"adset_1011", "adset_1021"}, saved.AdSetIDs())
}

func TestDraftSaverPersistsWizardState(t *testing.T) {
	gdb := dbtest.New(t)
	ads := services.NewAdService(gdb, nil)
	saver := NewDraftSaver(ads, 0)
	ctx := context.Background()

	snap := Snapshot{Draft: validDraft(), Selection: *twoCampaignSelection(), Step: StepTarget}
	require.NoError(t, saver.Save(ctx, snap))

	snap.Selection.ToggleCampaign("camp_102")
	snap.Step = StepLaunch
	require.NoError(t, saver.Save(ctx, snap))

	stored, err := ads.Get(ctx, saver.AdID())
	require.NoError(t, err)
	restored, err := SnapshotFromAd(*stored)
	require.NoError(t, err)

	assert.Equal(t, snap.Draft, restored.Draft)
	assert.Equal(t, StepLaunch, restored.Step)
	assert.Equal(t, "act_1234567890", restored.Selection.AccountID)
	assert.Equal(t, []string{"camp_101"}, restored.Selection.CampaignIDs)
	assert.Equal(t, []string{"adset_1011"}, restored.Selection.AdSetIDs())

	tracker := NewStepTracker(events.NewEventBus())
	require.NoError(t, tracker.Restore(restored.Step))
	assert.Equal(t, StepLaunch, tracker.Current())
}

func TestSnapshotFromAdWithoutState(t *testing.T) {
	restored, err := SnapshotFromAd(validDraft().Ad())
	require.NoError(t, err)
	assert.Equal(t, StepDesign, restored.Step)
	assert.Empty(t, restored.Selection.CampaignIDs)
	assert.NotNil(t, restored.Selection.AdSets)
}
