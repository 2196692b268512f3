// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room handler. These give clients
// a more specific reason for closure than the standard status codes. Auth
// and room-resolution failures happen before the upgrade and are reported
// as plain HTTP errors instead.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
	RoomFullError       = 3003 // All seats are taken and the player holds none of them.
)
