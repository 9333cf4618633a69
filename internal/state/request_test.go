package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idilsaglam/todocrm/internal/state"
)

func TestZeroValueIsIdle(t *testing.T) {
	var s state.RequestState[[]int]
	assert.True(t, s.IsIdle())
	assert.Equal(t, state.Idle, s.Kind())
	assert.Nil(t, s.Data())
	assert.Empty(t, s.Message())
}

func TestExactlyOneVariant(t *testing.T) {
	cases := map[string]struct {
		s    state.RequestState[string]
		kind state.Kind
	}{
		"idle":    {state.NewIdle[string](), state.Idle},
		"loading": {state.NewLoading[string](), state.Loading},
		"success": {state.NewSuccess("ok"), state.Success},
		"error":   {state.NewError[string]("boom"), state.Error},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			flags := []bool{tc.s.IsIdle(), tc.s.IsLoading(), tc.s.IsSuccess(), tc.s.IsError()}
			n := 0
			for _, f := range flags {
				if f {
					n++
				}
			}
			assert.Equal(t, 1, n)
			assert.Equal(t, tc.kind, tc.s.Kind())
		})
	}
}

func TestAccessorsOnlyForTheirVariant(t *testing.T) {
	ok := state.NewSuccess(42)
	assert.Equal(t, 42, ok.Data())
	assert.Empty(t, ok.Message())

	bad := state.NewError[int]("nope")
	assert.Equal(t, 0, bad.Data())
	assert.Equal(t, "nope", bad.Message())
}

func TestDisplay(t *testing.T) {
	loading := func() string { return "loading" }
	onErr := func(m string) string { return "err:" + m }
	onOK := func(v int) string { return "ok" }

	assert.Equal(t, "loading", state.Display(state.NewIdle[int](), loading, onErr, onOK))
	assert.Equal(t, "loading", state.Display(state.NewLoading[int](), loading, onErr, onOK))
	assert.Equal(t, "err:x", state.Display(state.NewError[int]("x"), loading, onErr, onOK))
	assert.Equal(t, "ok", state.Display(state.NewSuccess(1), loading, onErr, onOK))
	assert.Equal(t, "", state.Display(state.NewSuccess(1), loading, onErr, nil))
}
