package ceremony

import (
	"Awardly/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAwardsBulkDedup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)

	res, err := f.svc.AddAwardsBulk(ctx, host, lobby.ID, []string{"Best Dressed", " best dressed ", "Funniest"})
	require.NoError(t, err)
	assert.Equal(t, models.BulkResult{Added: 2, Skipped: 1}, res)

	awards, err := f.svc.ListAwards(ctx, lobby.ID)
	require.NoError(t, err)
	require.Len(t, awards, 2)
	assert.Equal(t, "Best Dressed", awards[0].Question)
	assert.Equal(t, "Funniest", awards[1].Question)
	assert.Equal(t, 0, awards[0].OrderIndex)
	assert.Equal(t, 1, awards[1].OrderIndex)

	// checked against what is already stored too
	res, err = f.svc.AddAwardsBulk(ctx, host, lobby.ID, []string{"FUNNIEST", "   ", "Kindest"})
	require.NoError(t, err)
	assert.Equal(t, models.BulkResult{Added: 1, Skipped: 2}, res)

	awards, _ = f.svc.ListAwards(ctx, lobby.ID)
	require.Len(t, awards, 3)
	assert.Equal(t, 2, awards[2].OrderIndex)

	_, err = f.svc.AddAwardsBulk(ctx, "guest", lobby.ID, []string{"Sneaky"})
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestAddAwardKeepsOrderAfterRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)

	first := f.award(t, lobby.ID, "One")
	f.award(t, lobby.ID, "Two")
	require.NoError(t, f.svc.RemoveAward(ctx, host, first.ID))
	third := f.award(t, lobby.ID, "Two")

	// duplicates are fine one at a time, order keeps growing
	assert.Equal(t, 2, third.OrderIndex)

	_, err := f.svc.AddAward(ctx, host, lobby.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAwardQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	award := f.award(t, lobby.ID, "Best cook")

	require.NoError(t, f.svc.UpdateAwardQuestion(ctx, host, award.ID, "  Best chef "))
	got, err := f.svc.GetAward(ctx, award.ID)
	require.NoError(t, err)
	assert.Equal(t, "Best chef", got.Question)

	assert.ErrorIs(t, f.svc.UpdateAwardQuestion(ctx, host, award.ID, ""), ErrValidation)
	assert.ErrorIs(t, f.svc.UpdateAwardQuestion(ctx, "guest", award.ID, "x"), ErrNotAuthorized)
	assert.ErrorIs(t, f.svc.UpdateAwardQuestion(ctx, host, "missing", "x"), ErrNotFound)
}

func TestSetAwardNominees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	other := f.lobby(t)
	ana := f.friend(t, lobby.ID, "Ana")
	bob := f.friend(t, lobby.ID, "Bob")
	stranger := f.friend(t, other.ID, "Zed")
	award := f.award(t, lobby.ID, "Best cook")

	require.NoError(t, f.svc.SetAwardNominees(ctx, host, award.ID, []models.FriendID{ana.ID, ana.ID, bob.ID}))
	got, _ := f.svc.GetAward(ctx, award.ID)
	assert.Equal(t, []models.FriendID{ana.ID, bob.ID}, got.Nominees())

	err := f.svc.SetAwardNominees(ctx, host, award.ID, []models.FriendID{stranger.ID})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.SetAwardNominees(ctx, host, award.ID, nil))
	got, _ = f.svc.GetAward(ctx, award.ID)
	assert.Nil(t, got.Nominees())
}

func TestRemoveFriendPrunesSubsetsAndVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	ana := f.friend(t, lobby.ID, "Ana")
	bob := f.friend(t, lobby.ID, "Bob")
	onlyAna := f.award(t, lobby.ID, "Best cook")
	both := f.award(t, lobby.ID, "Funniest")
	require.NoError(t, f.svc.SetAwardNominees(ctx, host, onlyAna.ID, []models.FriendID{ana.ID}))
	require.NoError(t, f.svc.SetAwardNominees(ctx, host, both.ID, []models.FriendID{ana.ID, bob.ID}))

	f.openVoting(t, lobby.ID)
	_, err := f.svc.CastVote(ctx, lobby.ID, both.ID, ana.ID, "cai")
	require.NoError(t, err)
	_, err = f.svc.CastVote(ctx, lobby.ID, both.ID, bob.ID, "dee")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.RemoveFriend(ctx, "guest", ana.ID), ErrNotAuthorized)
	require.NoError(t, f.svc.RemoveFriend(ctx, host, ana.ID))

	got, _ := f.svc.GetAward(ctx, onlyAna.ID)
	assert.Nil(t, got.Nominees(), "emptied subset falls back to everyone")
	got, _ = f.svc.GetAward(ctx, both.ID)
	assert.Equal(t, []models.FriendID{bob.ID}, got.Nominees())

	results, err := f.svc.GetVoteResults(ctx, lobby.ID)
	require.NoError(t, err)
	progress, err := f.svc.GetVotingProgress(ctx, lobby.ID)
	require.NoError(t, err)
	for i, r := range results {
		sum := 0
		for _, n := range r.Results {
			sum += n.Votes
			assert.NotEqual(t, ana.ID, n.FriendID)
		}
		assert.Equal(t, progress[i].VoterCount, sum)
	}

	assert.ErrorIs(t, f.svc.RemoveFriend(ctx, host, ana.ID), ErrNotFound)
}

func TestFriendImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	ana := f.friend(t, lobby.ID, "Ana")

	_, err := f.svc.GenerateUploadURL(ctx, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	first, err := f.svc.GenerateUploadURL(ctx, host)
	require.NoError(t, err)
	require.NoError(t, f.svc.AttachFriendImage(ctx, host, ana.ID, first.ImageRef))

	friends, err := f.svc.ListFriends(ctx, lobby.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "http://blobs.test/"+first.ImageRef, friends[0].ImageURL)

	second, err := f.svc.GenerateUploadURL(ctx, host)
	require.NoError(t, err)
	require.NoError(t, f.svc.AttachFriendImage(ctx, host, ana.ID, second.ImageRef))
	assert.Equal(t, []string{first.ImageRef}, f.blobs.Deleted())

	assert.ErrorIs(t, f.svc.AttachFriendImage(ctx, host, ana.ID, "../../etc"), ErrValidation)
	assert.ErrorIs(t, f.svc.AttachFriendImage(ctx, "guest", ana.ID, second.ImageRef), ErrNotAuthorized)
}

func TestAddFriend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)

	_, err := f.svc.AddFriend(ctx, host, lobby.ID, " ", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.AddFriend(ctx, "", lobby.ID, "Ana", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = f.svc.AddFriend(ctx, "guest", lobby.ID, "Ana", "")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	f.friend(t, lobby.ID, "  Ana ")
	f.friend(t, lobby.ID, "Bob")
	friends, err := f.svc.ListFriends(ctx, lobby.ID)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	assert.Equal(t, "Ana", friends[0].Name)
	assert.Equal(t, "Bob", friends[1].Name)
}

func TestPublicFriendJoin(t *testing.T) {
	f := newFixture(t, WithPolicy(Policy{PublicFriendJoin: true}))
	ctx := context.Background()
	lobby := f.lobby(t)

	_, err := f.svc.AddFriend(ctx, "", lobby.ID, "Walk-in", "")
	require.NoError(t, err)
	_, err = f.svc.GenerateUploadURL(ctx, "")
	require.NoError(t, err)

	require.NoError(t, f.svc.StartPresentation(ctx, host, lobby.ID))
	_, err = f.svc.AddFriend(ctx, "", lobby.ID, "Too late", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRemoveAwardKeepsLiveSlideInDeck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	f.award(t, lobby.ID, "Best cook")
	second := f.award(t, lobby.ID, "Funniest")
	third := f.award(t, lobby.ID, "Most late")

	require.NoError(t, f.svc.StartPresentation(ctx, host, lobby.ID))
	_, err := f.svc.AdvanceSlide(ctx, host, lobby.ID, 3)
	require.NoError(t, err)

	// dropping the last award makes slide 3 the final one
	require.NoError(t, f.svc.RemoveAward(ctx, host, third.ID))
	got, err := f.svc.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentSlide)
	assert.True(t, got.PresentationFinished)

	require.NoError(t, f.svc.RemoveAward(ctx, host, second.ID))
	got, err = f.svc.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentSlide)
	assert.True(t, got.PresentationFinished)

	view, err := f.svc.PresentationView(ctx, lobby.ID, "viewer-1", "live")
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalSlides)
	assert.Equal(t, 1, view.Slide)
}

func TestRemoveAwardClampsStoredSlideAfterFinish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	lobby := f.lobby(t)
	f.award(t, lobby.ID, "Best cook")
	f.award(t, lobby.ID, "Funniest")
	last := f.award(t, lobby.ID, "Most late")

	require.NoError(t, f.svc.StartPresentation(ctx, host, lobby.ID))
	_, err := f.svc.AdvanceSlide(ctx, host, lobby.ID, 5)
	require.NoError(t, err)

	require.NoError(t, f.svc.RemoveAward(ctx, host, last.ID))
	got, err := f.svc.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentSlide)
	assert.True(t, got.PresentationFinished)
}
