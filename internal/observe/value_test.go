package observe_test

import (
	"testing"

	"github.com/nikbrunner/linkdeck/internal/observe"
	"gotest.tools/v3/assert"
)

func TestValue_NotifiesInOrder(t *testing.T) {
	v := observe.NewValue(0)
	var got []string

	v.Subscribe(func(n int) { got = append(got, "a") })
	v.Subscribe(func(n int) { got = append(got, "b") })

	v.Set(1)
	assert.DeepEqual(t, got, []string{"a", "b"})
	assert.Equal(t, v.Get(), 1)
}

func TestValue_NotifiesOnEqualValue(t *testing.T) {
	v := observe.NewValue(false)
	calls := 0
	v.Subscribe(func(bool) { calls++ })

	v.Set(false)
	v.Set(false)
	assert.Equal(t, calls, 2)
}

func TestValue_Unsubscribe(t *testing.T) {
	v := observe.NewValue("x")
	var seen []string

	unsubA := v.Subscribe(func(s string) { seen = append(seen, "a:"+s) })
	v.Subscribe(func(s string) { seen = append(seen, "b:"+s) })

	v.Set("1")
	unsubA()
	unsubA()
	v.Set("2")

	assert.DeepEqual(t, seen, []string{"a:1", "b:1", "b:2"})
	assert.Equal(t, v.Len(), 1)
}
