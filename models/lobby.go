package models

// LobbyCreation is the body of a lobby creation request
type LobbyCreation struct {
	Name string `json:"name"`
}

// VoterRegistration remembers the name a participant votes under
type VoterRegistration struct {
	VoterName string `json:"voter_name"`
}

// SlideRequest moves the live or review cursor
type SlideRequest struct {
	Slide *int `json:"slide" binding:"required"`
}

type FriendCreation struct {
	Name     string `json:"name"`
	ImageRef string `json:"image_ref,omitempty"`
}

type ImageAttachment struct {
	ImageRef string `json:"image_ref" binding:"required"`
}

type AwardCreation struct {
	Question string `json:"question"`
}

// AwardsBulk adds several awards at once. Blank and duplicated questions are skipped.
type AwardsBulk struct {
	Questions []string `json:"questions"`
}

type NomineeSelection struct {
	NomineeIDs []FriendID `json:"nominee_ids"`
}

// VoteCast identifies the voter either by a free display name or by the
// friend entry the participant picked as themself.
type VoteCast struct {
	AwardID       AwardID  `json:"award_id" binding:"required"`
	NomineeID     FriendID `json:"nominee_id" binding:"required"`
	VoterIdentity string   `json:"voter_identity,omitempty"`
	VoterFriendID FriendID `json:"voter_friend_id,omitempty"`
}

// BulkResult reports how many awards a bulk request added and skipped
type BulkResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// UploadTicket is returned to a client that wants to upload a friend image
type UploadTicket struct {
	UploadURL string `json:"upload_url"`
	ImageRef  string `json:"image_ref"`
}
