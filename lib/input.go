package lib

const KeyCount = 16

/* index i is true while hex key i is held down */
type KeyState [KeyCount]bool

type HostInput interface {
    Get() KeyState
}

/* a host that never presses anything */
type NoInput struct {
}

func (none *NoInput) Get() KeyState {
    return KeyState{}
}

/* The keypad as seen by the machine. Poll is called once per step and
 * records every up->down transition, so LastKey is the most recently
 * pressed key and Presses counts how many presses have happened so far.
 */
type Input struct {
    Keys KeyState
    LastKey byte
    Presses uint64
    Host HostInput
}

func MakeInput(host HostInput) *Input {
    if host == nil {
        host = &NoInput{}
    }
    return &Input{
        Host: host,
    }
}

func (input *Input) Poll() {
    state := input.Host.Get()
    for key := 0; key < KeyCount; key++ {
        if state[key] && !input.Keys[key] {
            input.LastKey = byte(key)
            input.Presses += 1
        }
    }
    input.Keys = state
}

func (input *Input) IsPressed(key byte) bool {
    return input.Keys[key & 0xf]
}
