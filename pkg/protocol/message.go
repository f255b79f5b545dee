// Package protocol defines the JSON envelope spoken with the robot bridge.
// Topics carry joint states and camera images from the robot and joint
// commands to it.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/teslashibe/go-simplearm/pkg/vision"
)

// Op identifies what a bridge message does.
type Op string

const (
	// OpPublish carries a payload on a topic, in either direction.
	OpPublish Op = "publish"
	// OpSubscribe asks the bridge to forward a topic.
	OpSubscribe Op = "subscribe"
	// OpUnsubscribe stops forwarding a topic.
	OpUnsubscribe Op = "unsubscribe"
	// OpStatus reports a bridge-side error or notice.
	OpStatus Op = "status"
)

// Message is the base wrapper for all bridge messages
type Message struct {
	Op        Op              `json:"op"`
	Topic     string          `json:"topic,omitempty"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"msg,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(op Op, topic string, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Op:        op,
		Topic:     topic,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Op == "" {
		return nil, fmt.Errorf("failed to parse message: missing op")
	}
	return &msg, nil
}

// =============================================================================
// Robot → Coordinator payloads
// =============================================================================

// JointStateData contains joint positions in radians
type JointStateData struct {
	Name     []string  `json:"name,omitempty"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity,omitempty"`
}

// ImageData contains a camera image. Data is base64 in JSON.
type ImageData struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Encoding string `json:"encoding"` // "rgb8", "mono8", "jpeg"
	Step     int    `json:"step"`     // Bytes per row
	Data     []byte `json:"data"`
}

// StatusData reports a bridge-side problem
type StatusData struct {
	Level   string `json:"level"`
	Message string `json:"msg"`
}

// =============================================================================
// Coordinator → Robot payloads
// =============================================================================

// Float64Data is a single scalar command, e.g. a joint target angle.
type Float64Data struct {
	Data float64 `json:"data"`
}

// Frame converts a raw image payload to a vision frame. Compressed
// encodings need decoding first (see camera.DecodeImage).
func (d ImageData) Frame() vision.Frame {
	return vision.Frame{
		Width:     d.Width,
		Height:    d.Height,
		RowStride: d.Step,
		Encoding:  d.Encoding,
		Pixels:    d.Data,
	}
}

// Compressed reports whether Data holds an encoded image rather than pixels.
func (d ImageData) Compressed() bool {
	switch d.Encoding {
	case "jpeg", "jpg", "png":
		return true
	}
	return false
}
