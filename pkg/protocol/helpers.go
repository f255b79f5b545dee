package protocol

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewSubscribeMessage asks the bridge to forward topic
func NewSubscribeMessage(topic string) (*Message, error) {
	return NewMessage(OpSubscribe, topic, nil)
}

// NewUnsubscribeMessage stops forwarding topic
func NewUnsubscribeMessage(topic string) (*Message, error) {
	return NewMessage(OpUnsubscribe, topic, nil)
}

// NewPublishMessage wraps data for topic
func NewPublishMessage(topic string, data interface{}) (*Message, error) {
	return NewMessage(OpPublish, topic, data)
}

// NewCommandMessage creates a joint command message
func NewCommandMessage(topic string, angle float64) (*Message, error) {
	return NewPublishMessage(topic, Float64Data{Data: angle})
}

// NewJointStateMessage creates a joint state message
func NewJointStateMessage(topic string, names []string, positions []float64) (*Message, error) {
	return NewPublishMessage(topic, JointStateData{Name: names, Position: positions})
}

// NewImageMessage creates a raw image message
func NewImageMessage(topic string, width, height, step int, encoding string, data []byte) (*Message, error) {
	return NewPublishMessage(topic, ImageData{
		Width:    width,
		Height:   height,
		Encoding: encoding,
		Step:     step,
		Data:     data,
	})
}
