package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmitDeliversToHandlers(t *testing.T) {
	bus := NewEventBus()
	got := make(chan interface{}, 2)
	bus.On("thing.happened", func(data interface{}) { got <- data })
	bus.On("thing.happened", func(data interface{}) { got <- data })

	bus.Emit("thing.happened", 42)

	for i := 0; i < 2; i++ {
		select {
		case v := <-got:
			assert.Equal(t, 42, v)
		case <-time.After(time.Second):
			t.Fatal("handler not called")
		}
	}
}

func TestOffRemovesHandler(t *testing.T) {
	bus := NewEventBus()
	got := make(chan interface{}, 1)
	off := bus.On("thing.happened", func(data interface{}) { got <- data })
	off()

	bus.Emit("thing.happened", 1)

	select {
	case <-got:
		t.Fatal("removed handler was called")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()
	got := make(chan interface{}, 1)
	bus.On("thing.happened", func(interface{}) { panic("boom") })
	bus.On("thing.happened", func(data interface{}) { got <- data })

	bus.Emit("thing.happened", "ok")

	select {
	case v := <-got:
		assert.Equal(t, "ok", v)
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}
}
