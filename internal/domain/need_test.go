package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oxygenNeed() Need {
	return Need{
		ID:       "1",
		Title:    "Oxygen Concentrators for Mutare General",
		Location: "Mutare, Manicaland",
		Category: CategoryMedical,
		Urgency:  UrgencyHigh,
		Raised:   12500,
		Target:   25000,
		Donations: []Donation{
			{ID: "d101", DonorName: "Econet Global", Amount: 5000, Date: "2023-11-15"},
		},
	}
}

func TestApplyDonationCreditsAndPrepends(t *testing.T) {
	n := oxygenNeed()
	d := Donation{ID: "new", DonorName: "Rudo", Amount: 500}

	require.NoError(t, n.ApplyDonation(d))

	assert.Equal(t, 13000.0, n.Raised)
	assert.InDelta(t, 0.52, n.Progress(), 1e-12)
	require.Len(t, n.Donations, 2)
	assert.Equal(t, "new", n.Donations[0].ID)
	assert.Equal(t, "d101", n.Donations[1].ID)
}

func TestApplyDonationRejectsNonPositive(t *testing.T) {
	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		n := oxygenNeed()
		err := n.ApplyDonation(Donation{ID: "bad", Amount: amount})
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.Equal(t, 12500.0, n.Raised)
		assert.Len(t, n.Donations, 1)
	}
}

func TestProgressIsCapped(t *testing.T) {
	assert.Equal(t, 1.0, Need{Raised: 15000, Target: 15000}.Progress())
	assert.Equal(t, 1.0, Need{Raised: 20000, Target: 15000}.Progress())
	assert.Equal(t, 0.0, Need{Raised: 100, Target: 0}.Progress())
}

func TestCloneDoesNotShareDonations(t *testing.T) {
	n := oxygenNeed()
	c := n.Clone()
	c.Donations[0].DonorName = "changed"
	assert.Equal(t, "Econet Global", n.Donations[0].DonorName)
}

func TestNeedFilter(t *testing.T) {
	needs := []Need{
		{ID: "1", Title: "Oxygen Concentrators", Location: "Mutare, Manicaland", Category: CategoryMedical},
		{ID: "2", Title: "Food Parcels", Location: "Mbare, Harare", Category: CategoryFood},
		{ID: "5", Title: "Borehole Drilling", Location: "Chitungwiza, Harare Province", Category: CategoryHygiene},
	}
	ids := func(ns []Need) []string {
		var out []string
		for _, n := range ns {
			out = append(out, n.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "5"}, ids(FilterNeeds(needs, NeedFilter{})))
	assert.Equal(t, []string{"2", "5"}, ids(FilterNeeds(needs, NeedFilter{Search: "harare"})))
	assert.Equal(t, []string{"1"}, ids(FilterNeeds(needs, NeedFilter{Search: "OXYGEN"})))
	assert.Equal(t, []string{"5"}, ids(FilterNeeds(needs, NeedFilter{Search: "harare", Category: "Hygiene"})))
	assert.Equal(t, []string{"1", "2", "5"}, ids(FilterNeeds(needs, NeedFilter{Category: "All"})))
	assert.Empty(t, FilterNeeds(needs, NeedFilter{Category: "Education"}))
}

func TestParseCategoryAndUrgency(t *testing.T) {
	c, err := ParseCategory("medical")
	require.NoError(t, err)
	assert.Equal(t, CategoryMedical, c)

	c, err = ParseCategory(" LOGISTICS ")
	require.NoError(t, err)
	assert.Equal(t, CategoryLogistics, c)

	_, err = ParseCategory("weapons")
	assert.ErrorIs(t, err, ErrInvalidInput)

	u, err := ParseUrgency("high")
	require.NoError(t, err)
	assert.Equal(t, UrgencyHigh, u)

	_, err = ParseUrgency("urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTranscriptAppendDoesNotAlias(t *testing.T) {
	base := make(Transcript, 1, 4)
	base[0] = ChatMessage{Role: RoleModel, Text: "hello"}

	a := base.Append(ChatMessage{Role: RoleUser, Text: "a"})
	b := base.Append(ChatMessage{Role: RoleUser, Text: "b"})

	assert.Len(t, base, 1)
	assert.Equal(t, "a", a[1].Text)
	assert.Equal(t, "b", b[1].Text)
}
