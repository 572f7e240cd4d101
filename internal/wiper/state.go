package wiper

import (
	"fmt"
	"sync/atomic"

	"github.com/sweeney/ignition-interlock/internal/logic"
)

var classes = []logic.WiperClass{logic.WiperOff, logic.WiperIntermittent, logic.WiperLow, logic.WiperHigh}

var periods = []logic.IntermittentPeriod{logic.PeriodNone, logic.PeriodShort, logic.PeriodMedium, logic.PeriodLong}

// State is the wiper setting shared between the main loop (single writer)
// and the actuator (single reader). Class and period are packed into one
// word so a reader never observes a class from one write and a period
// from another.
type State struct {
	v atomic.Uint32
}

// NewState returns a State holding w.
func NewState(w logic.Wiper) *State {
	s := &State{}
	s.Store(w)
	return s
}

// Store publishes a new setting. The zero Wiper is stored as OFF.
func (s *State) Store(w logic.Wiper) {
	if w.Class == "" {
		w.Class = logic.WiperOff
	}
	s.v.Store(uint32(indexOf(classes, w.Class))<<8 | uint32(indexOf(periods, w.Period)))
}

// Load returns the latest setting. The zero State reads as OFF.
func (s *State) Load() logic.Wiper {
	v := s.v.Load()
	return logic.Wiper{Class: classes[v>>8], Period: periods[v&0xff]}
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	panic(fmt.Sprintf("wiper: unknown value %v", v))
}
