package presentation

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/tally"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeAwards() []postgres.Award {
	return []postgres.Award{
		{ID: "a1", Question: "Best cook", OrderIndex: 0},
		{ID: "a2", Question: "Funniest", OrderIndex: 1},
		{ID: "a3", Question: "Most late", OrderIndex: 2},
	}
}

func TestSlideBounds(t *testing.T) {
	total := TotalSlides(3)
	assert.Equal(t, 6, total)
	assert.Equal(t, 5, Clamp(6, total))
	assert.Equal(t, 0, Clamp(-1, total))
	assert.Equal(t, 3, Clamp(3, total))
	assert.Equal(t, 0, Clamp(4, 0))
	assert.True(t, IsFinalSlide(5, total))
	assert.False(t, IsFinalSlide(0, 0))
}

func TestSlideMapping(t *testing.T) {
	assert.Equal(t, 0, SlideToAward(0))
	assert.Equal(t, 0, SlideToAward(1))
	assert.Equal(t, 2, SlideToAward(5))
	assert.False(t, IsResultSlide(4))
	assert.True(t, IsResultSlide(5))
}

func TestBuildDeck(t *testing.T) {
	awards := threeAwards()
	tallies := map[models.AwardID][]tally.Result{
		"a1": {{FriendID: "f1", Name: "Ana", Votes: 2}, {FriendID: "f2", Name: "Bob", Votes: 1}},
	}

	deck := BuildDeck(awards, tallies)
	require.Len(t, deck, 6)

	assert.Equal(t, KindCategory, deck[0].Kind)
	assert.Nil(t, deck[0].Outcome)
	assert.Equal(t, KindResult, deck[1].Kind)
	require.NotNil(t, deck[1].Outcome)
	assert.True(t, deck[1].Outcome.HasWinner)
	assert.Equal(t, "Ana", deck[1].Outcome.Winners[0].Name)

	// No votes at all for the last award
	assert.Equal(t, models.AwardID("a3"), deck[5].AwardID)
	assert.False(t, deck[5].Outcome.HasWinner)
	for i, s := range deck {
		assert.Equal(t, i, s.Index)
	}
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("", false)
	require.NoError(t, err)
	assert.Equal(t, ModeLive, mode)

	mode, err = ParseMode("", true)
	require.NoError(t, err)
	assert.Equal(t, ModeReview, mode)

	_, err = ParseMode("karaoke", true)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestNewViewClampsPosition(t *testing.T) {
	lobby := &postgres.Lobby{PresentationMode: true}
	deck := BuildDeck(threeAwards(), nil)

	view := NewView(ModeLive, 9, lobby, deck)
	assert.Equal(t, 5, view.Slide)
	assert.Equal(t, 6, view.TotalSlides)
	require.NotNil(t, view.Current)
	assert.Equal(t, "Most late", view.Current.Question)

	empty := NewView(ModeLive, 3, lobby, nil)
	assert.Nil(t, empty.Current)
	assert.Zero(t, empty.Slide)
}

func TestMemoryCursorStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCursorStore()

	_, ok, err := store.GetCursor(ctx, "l1", "viewer")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetCursor(ctx, "l1", "viewer", 4))
	slide, ok, err := store.GetCursor(ctx, "l1", "viewer")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, slide)

	require.NoError(t, store.ForgetLobby(ctx, "l1"))
	_, ok, _ = store.GetCursor(ctx, "l1", "viewer")
	assert.False(t, ok)
}
