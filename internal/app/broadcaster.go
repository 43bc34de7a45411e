package app

// Broadcaster is the fan-out capability the game service pushes events
// through. It has three send targets (one player, the host of a room, a whole
// room) plus room membership, so the state machine stays testable without a
// websocket layer behind it.
type Broadcaster interface {
	// JoinRoom subscribes a connection to a room's broadcasts. Membership is
	// dropped transport-side when the connection goes away.
	JoinRoom(clientID, pin string)
	// ToPlayer sends to a single connection.
	ToPlayer(clientID, event string, payload any)
	// ToHost sends to the host connection of a room.
	ToHost(hostID, event string, payload any)
	// ToRoom sends to every connection in the room, host included.
	ToRoom(pin, event string, payload any)
}
