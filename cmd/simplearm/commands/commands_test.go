package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-simplearm/pkg/robot"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLimitsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
arm_mover:
  min_joint_1_angle: 0
  max_joint_1_angle: 3.14
  min_joint_2_angle: -0.5
  max_joint_2_angle: 1.5
`), 0644))

	out, err := run(t, "limits", "--params", path, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "AXIS")
	assert.Regexp(t, `joint_1\s+0\.0000\s+3\.1400`, out)
	assert.Regexp(t, `joint_2\s+-0\.5000\s+1\.5000`, out)
}

func TestLimitsCommand_MissingAxis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arm_mover:\n  min_joint_1_angle: 0\n"), 0644))

	_, err := run(t, "limits", "--params", path)
	require.Error(t, err)
	assert.True(t, robot.IsConfigurationError(err))
}

func TestMoveCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(robot.Feedback{
			RequestID: "r1",
			Message:   "Joint angles set - j1: 3.140000, j2: 1.000000",
			Applied:   robot.JointPose{J1: 3.14, J2: 1},
			Warnings:  []robot.ClampWarning{{Axis: robot.Joint1, Min: 0, Max: 3.14, Value: 3.14}},
		})
	}))
	defer srv.Close()

	out, err := run(t, "move", "5", "1", "--url", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "warning: joint_1 is out of bounds")
	assert.Contains(t, out, "Joint angles set - j1: 3.140000, j2: 1.000000")
}

func TestMoveCommand_BadArgs(t *testing.T) {
	_, err := run(t, "move", "left", "1")
	assert.Error(t, err)

	_, err = run(t, "move", "1")
	assert.Error(t, err)
}
