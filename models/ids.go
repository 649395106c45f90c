package models

import "github.com/google/uuid"

// Distinct identifier kinds. They all hold UUID strings but are not
// interchangeable at compile time.
type (
	LobbyID  string
	FriendID string
	AwardID  string
	VoteID   string
)

func NewLobbyID() LobbyID   { return LobbyID(uuid.NewString()) }
func NewFriendID() FriendID { return FriendID(uuid.NewString()) }
func NewAwardID() AwardID   { return AwardID(uuid.NewString()) }
func NewVoteID() VoteID     { return VoteID(uuid.NewString()) }

func (id LobbyID) String() string  { return string(id) }
func (id FriendID) String() string { return string(id) }
func (id AwardID) String() string  { return string(id) }
func (id VoteID) String() string   { return string(id) }
