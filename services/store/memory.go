package store

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

type voteKey struct {
	lobby models.LobbyID
	award models.AwardID
	voter string
}

type memoryData struct {
	lobbies map[models.LobbyID]postgres.Lobby
	friends map[models.FriendID]postgres.Friend
	awards  map[models.AwardID]postgres.Award
	votes   map[voteKey]postgres.Vote
	// monotonic sequence so creation order survives equal timestamps
	seq     int64
	created map[string]int64
}

func newMemoryData() *memoryData {
	return &memoryData{
		lobbies: make(map[models.LobbyID]postgres.Lobby),
		friends: make(map[models.FriendID]postgres.Friend),
		awards:  make(map[models.AwardID]postgres.Award),
		votes:   make(map[voteKey]postgres.Vote),
		created: make(map[string]int64),
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData()
	for k, v := range d.lobbies {
		c.lobbies[k] = v
	}
	for k, v := range d.friends {
		c.friends[k] = v
	}
	for k, v := range d.awards {
		c.awards[k] = v
	}
	for k, v := range d.votes {
		c.votes[k] = v
	}
	for k, v := range d.created {
		c.created[k] = v
	}
	c.seq = d.seq
	return c
}

func (d *memoryData) stamp(key string) {
	d.seq++
	d.created[key] = d.seq
}

// MemoryStore is a Repository kept in process memory. All operations are
// serialized by one mutex; a failed Transaction restores the previous state.
type MemoryStore struct {
	mu   *sync.Mutex
	data **memoryData
	// set on the handle given to a Transaction callback, which already
	// holds mu
	inTx bool
}

func NewMemoryStore() *MemoryStore {
	data := newMemoryData()
	return &MemoryStore{mu: &sync.Mutex{}, data: &data}
}

func (m *MemoryStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *MemoryStore) d() *memoryData { return *m.data }

func (m *MemoryStore) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	if m.inTx {
		return fn(m)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.d().clone()
	err := ctx.Err()
	if err == nil {
		err = fn(&MemoryStore{mu: m.mu, data: m.data, inTx: true})
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		*m.data = snapshot
		return err
	}
	return nil
}

func (m *MemoryStore) CreateLobby(ctx context.Context, lobby *postgres.Lobby) error {
	defer m.lock()()
	d := m.d()
	for _, l := range d.lobbies {
		if l.ShareCode == lobby.ShareCode {
			return fmt.Errorf("%w: share code %s", ErrDuplicate, lobby.ShareCode)
		}
	}
	if err := lobby.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := d.lobbies[lobby.ID]; ok {
		return fmt.Errorf("%w: lobby %s", ErrDuplicate, lobby.ID)
	}
	now := time.Now()
	lobby.CreatedAt, lobby.UpdatedAt = now, now
	d.lobbies[lobby.ID] = *lobby
	d.stamp(string(lobby.ID))
	return nil
}

func (m *MemoryStore) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	defer m.lock()()
	for _, l := range m.d().lobbies {
		if l.ShareCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) GetLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error) {
	defer m.lock()()
	l, ok := m.d().lobbies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (m *MemoryStore) LockLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error) {
	return m.GetLobby(ctx, id)
}

func (m *MemoryStore) GetLobbyByShareCode(ctx context.Context, code string) (*postgres.Lobby, error) {
	defer m.lock()()
	for _, l := range m.d().lobbies {
		if l.ShareCode == code {
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListLobbiesByOwner(ctx context.Context, owner string) ([]postgres.Lobby, error) {
	defer m.lock()()
	d := m.d()
	var out []postgres.Lobby
	for _, l := range d.lobbies {
		if l.OwnerPrincipal == owner {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return d.created[string(out[i].ID)] > d.created[string(out[j].ID)]
	})
	return out, nil
}

func (m *MemoryStore) ToggleVoting(ctx context.Context, id models.LobbyID) (bool, error) {
	defer m.lock()()
	d := m.d()
	l, ok := d.lobbies[id]
	if !ok {
		return false, ErrNotFound
	}
	l.VotingOpen = !l.VotingOpen
	l.UpdatedAt = time.Now()
	d.lobbies[id] = l
	return l.VotingOpen, nil
}

func (m *MemoryStore) UpdateLobby(ctx context.Context, id models.LobbyID, patch LobbyPatch) error {
	defer m.lock()()
	d := m.d()
	l, ok := d.lobbies[id]
	if !ok {
		return ErrNotFound
	}
	if patch.VotingOpen != nil {
		l.VotingOpen = *patch.VotingOpen
	}
	if patch.PresentationMode != nil {
		l.PresentationMode = *patch.PresentationMode
	}
	if patch.PresentationFinished != nil {
		l.PresentationFinished = *patch.PresentationFinished
	}
	if patch.CurrentSlide != nil {
		l.CurrentSlide = *patch.CurrentSlide
	}
	l.UpdatedAt = time.Now()
	d.lobbies[id] = l
	return nil
}

func (m *MemoryStore) DeleteLobby(ctx context.Context, id models.LobbyID) error {
	defer m.lock()()
	d := m.d()
	if _, ok := d.lobbies[id]; !ok {
		return ErrNotFound
	}
	for k, v := range d.votes {
		if v.LobbyID == id {
			delete(d.votes, k)
		}
	}
	for k, a := range d.awards {
		if a.LobbyID == id {
			delete(d.awards, k)
		}
	}
	for k, f := range d.friends {
		if f.LobbyID == id {
			delete(d.friends, k)
		}
	}
	delete(d.lobbies, id)
	return nil
}

func (m *MemoryStore) CreateFriend(ctx context.Context, friend *postgres.Friend) error {
	defer m.lock()()
	d := m.d()
	if err := friend.BeforeCreate(nil); err != nil {
		return err
	}
	if _, ok := d.friends[friend.ID]; ok {
		return fmt.Errorf("%w: friend %s", ErrDuplicate, friend.ID)
	}
	friend.CreatedAt = time.Now()
	d.friends[friend.ID] = *friend
	d.stamp(string(friend.ID))
	return nil
}

func (m *MemoryStore) GetFriend(ctx context.Context, id models.FriendID) (*postgres.Friend, error) {
	defer m.lock()()
	f, ok := m.d().friends[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MemoryStore) ListFriends(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Friend, error) {
	defer m.lock()()
	d := m.d()
	var out []postgres.Friend
	for _, f := range d.friends {
		if f.LobbyID == lobbyID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return d.created[string(out[i].ID)] < d.created[string(out[j].ID)]
	})
	return out, nil
}

func (m *MemoryStore) DeleteFriend(ctx context.Context, id models.FriendID) error {
	defer m.lock()()
	d := m.d()
	if _, ok := d.friends[id]; !ok {
		return ErrNotFound
	}
	delete(d.friends, id)
	return nil
}

func (m *MemoryStore) SetFriendImage(ctx context.Context, id models.FriendID, imageRef string) error {
	defer m.lock()()
	d := m.d()
	f, ok := d.friends[id]
	if !ok {
		return ErrNotFound
	}
	f.ImageRef = imageRef
	d.friends[id] = f
	return nil
}

func (m *MemoryStore) CreateAwards(ctx context.Context, awards []postgres.Award) error {
	defer m.lock()()
	d := m.d()
	now := time.Now()
	for i := range awards {
		if err := awards[i].BeforeCreate(nil); err != nil {
			return err
		}
		if _, ok := d.awards[awards[i].ID]; ok {
			return fmt.Errorf("%w: award %s", ErrDuplicate, awards[i].ID)
		}
	}
	for i := range awards {
		awards[i].CreatedAt, awards[i].UpdatedAt = now, now
		d.awards[awards[i].ID] = awards[i]
		d.stamp(string(awards[i].ID))
	}
	return nil
}

func (m *MemoryStore) GetAward(ctx context.Context, id models.AwardID) (*postgres.Award, error) {
	defer m.lock()()
	a, ok := m.d().awards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) ListAwards(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Award, error) {
	defer m.lock()()
	var out []postgres.Award
	for _, a := range m.d().awards {
		if a.LobbyID == lobbyID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (m *MemoryStore) CountAwards(ctx context.Context, lobbyID models.LobbyID) (int64, error) {
	defer m.lock()()
	var n int64
	for _, a := range m.d().awards {
		if a.LobbyID == lobbyID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) DeleteAward(ctx context.Context, id models.AwardID) error {
	defer m.lock()()
	d := m.d()
	if _, ok := d.awards[id]; !ok {
		return ErrNotFound
	}
	for k, v := range d.votes {
		if v.AwardID == id {
			delete(d.votes, k)
		}
	}
	delete(d.awards, id)
	return nil
}

func (m *MemoryStore) UpdateAwardQuestion(ctx context.Context, id models.AwardID, question string) error {
	defer m.lock()()
	d := m.d()
	a, ok := d.awards[id]
	if !ok {
		return ErrNotFound
	}
	a.Question = question
	a.UpdatedAt = time.Now()
	d.awards[id] = a
	return nil
}

func (m *MemoryStore) SetAwardNominees(ctx context.Context, id models.AwardID, nominees []models.FriendID) error {
	defer m.lock()()
	d := m.d()
	a, ok := d.awards[id]
	if !ok {
		return ErrNotFound
	}
	if err := a.SetNominees(nominees); err != nil {
		return err
	}
	a.UpdatedAt = time.Now()
	d.awards[id] = a
	return nil
}

func (m *MemoryStore) UpsertVote(ctx context.Context, vote *postgres.Vote) (models.VoteID, error) {
	defer m.lock()()
	d := m.d()
	now := time.Now()
	key := voteKey{vote.LobbyID, vote.AwardID, vote.VoterIdentity}
	if existing, ok := d.votes[key]; ok {
		existing.NomineeID = vote.NomineeID
		existing.UpdatedAt = now
		d.votes[key] = existing
		return existing.ID, nil
	}
	row := *vote
	if err := row.BeforeCreate(nil); err != nil {
		return "", err
	}
	row.CreatedAt, row.UpdatedAt = now, now
	d.votes[key] = row
	d.stamp(string(row.ID))
	return row.ID, nil
}

func (m *MemoryStore) ListVotes(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Vote, error) {
	defer m.lock()()
	d := m.d()
	var out []postgres.Vote
	for _, v := range d.votes {
		if v.LobbyID == lobbyID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return d.created[string(out[i].ID)] < d.created[string(out[j].ID)]
	})
	return out, nil
}

func (m *MemoryStore) DeleteVotes(ctx context.Context, lobbyID models.LobbyID) (int64, error) {
	defer m.lock()()
	var n int64
	for k, v := range m.d().votes {
		if v.LobbyID == lobbyID {
			delete(m.d().votes, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) DeleteVotesForNominee(ctx context.Context, nomineeID models.FriendID) (int64, error) {
	defer m.lock()()
	var n int64
	for k, v := range m.d().votes {
		if v.NomineeID == nomineeID {
			delete(m.d().votes, k)
			n++
		}
	}
	return n, nil
}

var _ Repository = (*MemoryStore)(nil)
