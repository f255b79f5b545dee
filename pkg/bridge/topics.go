package bridge

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

// DefaultNamespace prefixes the arm's joint topics.
const DefaultNamespace = "/simple_arm"

// TopicJointStates is the joint state feedback topic.
// Subscribes: JointStateData with current joint positions
const TopicJointStates = "joint_states"

// TopicImageRaw is the camera image topic. It lives outside the arm
// namespace.
// Subscribes: ImageData
const TopicImageRaw = "rgb_camera/image_raw"

// Topics is a helper to build fully-qualified topic names.
type Topics struct {
	namespace string
}

// NewTopics creates a Topics helper with the given namespace.
func NewTopics(namespace string) *Topics {
	return &Topics{namespace: "/" + strings.Trim(namespace, "/")}
}

// JointStates returns the full joint states topic path.
func (t *Topics) JointStates() string {
	return fmt.Sprintf("%s/%s", t.namespace, TopicJointStates)
}

// ImageRaw returns the camera image topic.
func (t *Topics) ImageRaw() string {
	return TopicImageRaw
}

// Command returns the position controller command topic for axis.
func (t *Topics) Command(axis robot.Axis) string {
	return fmt.Sprintf("%s/%s_position_controller/command", t.namespace, axis)
}
