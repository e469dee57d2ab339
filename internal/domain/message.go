package domain

import "encoding/json"

// MessageType defines the type of a wire message
type MessageType string

const (
	// Server -> client presence events
	MessageTypeJoin       MessageType = "join"        // sent once, only to the newcomer
	MessageTypePeerJoined MessageType = "peer-joined" // sent to all pre-existing peers
	MessageTypePeerLeft   MessageType = "peer-left"   // sent to remaining peers on disconnect

	// Relayed signaling payloads (client -> server -> other peers)
	MessageTypeOffer  MessageType = "offer"
	MessageTypeAnswer MessageType = "answer"
	MessageTypeIce    MessageType = "ice"

	// Sent only to the offending connection
	MessageTypeError MessageType = "error"
)

// Error messages reported back to an offending connection. The offending
// message is dropped but the connection stays open.
const (
	ErrMsgRateLimited = "Rate limit exceeded"
	ErrMsgInvalidJSON = "Invalid JSON"
	ErrMsgInvalidType = "Invalid message type"
)

// IsSignalType reports whether t is one of the relayable signaling types.
// Any other client-supplied type is rejected.
func IsSignalType(t MessageType) bool {
	return t == MessageTypeOffer || t == MessageTypeAnswer || t == MessageTypeIce
}

// ClientMessage is the envelope clients send. The data payload is opaque to
// the relay; SDP/ICE semantics are never inspected.
type ClientMessage struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ServerMessage is the envelope for every server -> client frame.
type ServerMessage struct {
	Type   MessageType     `json:"type"`
	PeerID string          `json:"peerId,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// JoinPayload lists the peers already in the room when a newcomer joins,
// in registration order.
type JoinPayload struct {
	Peers []string `json:"peers"`
}

// ErrorPayload carries a human-readable error message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewJoinMessage builds the join frame sent to a newcomer: its own peer id
// plus a snapshot of the peers registered before it.
func NewJoinMessage(peerID string, peers []string) []byte {
	if peers == nil {
		peers = []string{}
	}
	payload, _ := json.Marshal(JoinPayload{Peers: peers})
	data, _ := json.Marshal(ServerMessage{
		Type:   MessageTypeJoin,
		PeerID: peerID,
		Data:   payload,
	})
	return data
}

// NewPresenceMessage builds a peer-joined or peer-left frame.
func NewPresenceMessage(t MessageType, peerID string) []byte {
	data, _ := json.Marshal(ServerMessage{Type: t, PeerID: peerID})
	return data
}

// NewErrorMessage builds an error frame for the offending connection.
func NewErrorMessage(message string) []byte {
	payload, _ := json.Marshal(ErrorPayload{Message: message})
	data, _ := json.Marshal(ServerMessage{Type: MessageTypeError, Data: payload})
	return data
}

// NewRelayMessage builds the frame broadcast to every other peer in the room.
// The payload passes through unmodified.
func NewRelayMessage(t MessageType, senderID string, payload json.RawMessage) []byte {
	data, _ := json.Marshal(ServerMessage{Type: t, PeerID: senderID, Data: payload})
	return data
}
