package server

import "time"

const (
	ProtocolVersion   = 1
	writeWait         = 10 * time.Second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval

	roomCodeLength = 6
	roomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomStaleAfter = time.Hour
	sweepInterval  = heartbeatInterval

	defaultTurnTimer = 30 * time.Second

	// ModeStandard is the 1v1 ladder; every other mode fills a four-seat
	// lobby before starting.
	ModeStandard    = "standard"
	standardPlayers = 2
	partyPlayers    = 4
)

// requiredPlayers returns how many seats a mode needs before a match starts.
func requiredPlayers(mode string) int {
	if mode == ModeStandard {
		return standardPlayers
	}
	return partyPlayers
}
