package base

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Feed message types
const (
	TypeSubscribe     = "subscribe"
	TypeUnsubscribe   = "unsubscribe"
	TypeSubscriptions = "subscriptions"
	TypeError         = "error"
	TypeHeartbeat     = "heartbeat"
	TypeTicker        = "ticker"
	TypeSnapshot      = "snapshot"
	TypeL2Update      = "l2update"
	TypeMatch         = "match"
	TypeLastMatch     = "last_match"
	TypeReceived      = "received"
	TypeOpen          = "open"
	TypeDone          = "done"
	TypeChange        = "change"
	TypeActivate      = "activate"
)

// Envelope holds the routing fields common to every feed message
type Envelope struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id,omitempty"`
	Sequence  int64  `json:"sequence,omitempty"`
	Time      string `json:"time,omitempty"`

	// Set only on messages from the authenticated user channel
	UserID    string `json:"user_id,omitempty"`
	ProfileID string `json:"profile_id,omitempty"`
}

// Message is a decoded envelope together with the untouched frame
type Message struct {
	Envelope
	Raw jsoniter.RawMessage `json:"-"`
}

// ChannelSpec names a feed channel, optionally scoped to products
type ChannelSpec struct {
	Name       string   `json:"name"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

// SubscribeRequest is sent after the handshake. The auth fields are only
// present on authenticated sessions.
type SubscribeRequest struct {
	Type       string        `json:"type"`
	ProductIDs []string      `json:"product_ids,omitempty"`
	Channels   []ChannelSpec `json:"channels"`

	Signature  string `json:"signature,omitempty"`
	Key        string `json:"key,omitempty"`
	Passphrase string `json:"passphrase,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// SubscriptionsMessage acknowledges a subscribe or unsubscribe request
type SubscriptionsMessage struct {
	Type     string        `json:"type"`
	Channels []ChannelSpec `json:"channels"`
}

// ErrorMessage is sent by the feed before it closes the socket
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

func (e ErrorMessage) Error() string {
	if e.Reason == "" {
		return e.Message
	}
	return e.Message + ": " + e.Reason
}

// DecodeMessage extracts the envelope of a raw frame
func DecodeMessage(raw []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Message{}, err
	}
	return Message{Envelope: env, Raw: append(jsoniter.RawMessage(nil), raw...)}, nil
}
