package utils

/**
 * Key formats for the (key, value) pairs kept in Redis. Building them in one
 * place keeps readers and writers from disagreeing on the layout.
 */

import "fmt"

func FormatReviewCursorKey(lobbyId string, viewerId string) string {
	return fmt.Sprintf("lobby:%s:viewer:%s:slide", lobbyId, viewerId)
}

func FormatReviewCursorPattern(lobbyId string) string {
	return fmt.Sprintf("lobby:%s:viewer:*:slide", lobbyId)
}

// Pub/sub channel every instance listens on for lobby view updates
const LobbyViewsChannel = "awardly:lobby-views"
