package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewTransitions(t *testing.T) {
	tests := []struct {
		name    string
		run     func(v *View[int])
		status  Status
		data    int
		message string
	}{
		{
			name:   "zero value is idle",
			run:    func(v *View[int]) {},
			status: StatusIdle,
		},
		{
			name:   "begin",
			run:    func(v *View[int]) { v.Begin() },
			status: StatusLoading,
		},
		{
			name:    "succeed after begin",
			run:     func(v *View[int]) { v.Begin(); v.Succeed(7, "done") },
			status:  StatusSuccess,
			data:    7,
			message: "done",
		},
		{
			name:    "fail after begin",
			run:     func(v *View[int]) { v.Begin(); v.Fail("boom") },
			status:  StatusError,
			message: "boom",
		},
		{
			name:   "succeed without begin is ignored",
			run:    func(v *View[int]) { v.Succeed(7, "done") },
			status: StatusIdle,
		},
		{
			name:    "fail twice keeps first message",
			run:     func(v *View[int]) { v.Begin(); v.Fail("first"); v.Fail("second") },
			status:  StatusError,
			message: "first",
		},
		{
			name:   "begin again after error clears message",
			run:    func(v *View[int]) { v.Reject("nope"); v.Begin() },
			status: StatusLoading,
		},
		{
			name:    "begin again after success keeps data",
			run:     func(v *View[int]) { v.Begin(); v.Succeed(3, ""); v.Begin() },
			status:  StatusLoading,
			data:    3,
			message: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v View[int]
			tt.run(&v)

			assert.Equal(t, tt.status, v.Status)
			assert.Equal(t, tt.data, v.Data)
			assert.Equal(t, tt.message, v.Message)
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "error", StatusError.String())
}
