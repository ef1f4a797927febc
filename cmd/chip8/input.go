package main

import (
    "sync"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
)

/* keys held down in the window. Update writes it on the ebiten goroutine
 * and the machine reads it once per step
 */
type KeyboardInput struct {
    keys chip8.KeyState
    lock sync.Mutex
}

func (keyboard *KeyboardInput) Set(keys chip8.KeyState) {
    keyboard.lock.Lock()
    defer keyboard.lock.Unlock()
    keyboard.keys = keys
}

func (keyboard *KeyboardInput) Get() chip8.KeyState {
    keyboard.lock.Lock()
    defer keyboard.lock.Unlock()
    return keyboard.keys
}

/* how long a key stays down after a terminal reports it */
const TerminalKeyHold = 150 * time.Millisecond

/* terminals only report that a key was typed, never that it was released,
 * so every press is held for a short time and then let go
 */
type TerminalInput struct {
    release [chip8.KeyCount]time.Time
    lock sync.Mutex
    /* replaced in tests */
    now func() time.Time
}

func MakeTerminalInput() *TerminalInput {
    return &TerminalInput{
        now: time.Now,
    }
}

func (input *TerminalInput) Press(key byte) {
    input.lock.Lock()
    defer input.lock.Unlock()
    input.release[key & 0xf] = input.now().Add(TerminalKeyHold)
}

func (input *TerminalInput) Get() chip8.KeyState {
    input.lock.Lock()
    defer input.lock.Unlock()

    var state chip8.KeyState
    now := input.now()
    for key, release := range input.release {
        state[key] = now.Before(release)
    }
    return state
}

type CombineInputs struct {
    Inputs []chip8.HostInput
}

func MakeCombineInputs(inputs ...chip8.HostInput) *CombineInputs {
    var out []chip8.HostInput
    for _, input := range inputs {
        if input != nil {
            out = append(out, input)
        }
    }
    return &CombineInputs{
        Inputs: out,
    }
}

/* a key is down if any of the inputs has it down */
func (combine *CombineInputs) Get() chip8.KeyState {
    var state chip8.KeyState
    for _, input := range combine.Inputs {
        more := input.Get()
        for key := range state {
            state[key] = state[key] || more[key]
        }
    }
    return state
}
