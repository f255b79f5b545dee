package bridge

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-simplearm/internal/log"
	"github.com/teslashibe/go-simplearm/pkg/events"
	"github.com/teslashibe/go-simplearm/pkg/protocol"
	"github.com/teslashibe/go-simplearm/pkg/vision"
)

// Subscriber registers raw payload handlers by topic. *Client implements it.
type Subscriber interface {
	Subscribe(topic string, handler func(json.RawMessage)) func()
}

// FrameDecoder turns an image payload into a raw frame.
type FrameDecoder func(protocol.ImageData) (vision.Frame, error)

// RawFrame accepts uncompressed images only.
func RawFrame(img protocol.ImageData) (vision.Frame, error) {
	if img.Compressed() {
		return vision.Frame{}, fmt.Errorf("encoding %q needs a decoder", img.Encoding)
	}
	return img.Frame(), nil
}

// JointSamples exposes joint state positions on topic as a sample source.
// Payloads that do not decode are logged and dropped.
func JointSamples(sub Subscriber, topic string, logger *slog.Logger) events.Source[[]float64] {
	if logger == nil {
		logger = log.L()
	}
	return events.SourceFunc[[]float64](func(h events.Handler[[]float64]) func() {
		return sub.Subscribe(topic, func(raw json.RawMessage) {
			var js protocol.JointStateData
			if err := json.Unmarshal(raw, &js); err != nil {
				logger.Warn("dropping malformed joint state", "topic", topic, "error", err)
				return
			}
			h(js.Position)
		})
	})
}

// Frames exposes camera images on topic as a frame source. A nil decode
// uses RawFrame.
func Frames(sub Subscriber, topic string, decode FrameDecoder, logger *slog.Logger) events.Source[vision.Frame] {
	if logger == nil {
		logger = log.L()
	}
	if decode == nil {
		decode = RawFrame
	}
	return events.SourceFunc[vision.Frame](func(h events.Handler[vision.Frame]) func() {
		return sub.Subscribe(topic, func(raw json.RawMessage) {
			var img protocol.ImageData
			if err := json.Unmarshal(raw, &img); err != nil {
				logger.Warn("dropping malformed image", "topic", topic, "error", err)
				return
			}
			frame, err := decode(img)
			if err != nil {
				logger.Warn("dropping undecodable image", "topic", topic, "encoding", img.Encoding, "error", err)
				return
			}
			h(frame)
		})
	})
}
