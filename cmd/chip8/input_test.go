package main

import (
    "testing"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
)

type fixedInput struct {
    keys chip8.KeyState
}

func (input *fixedInput) Get() chip8.KeyState {
    return input.keys
}

func TestCombineInputs(test *testing.T){
    var first fixedInput
    var second fixedInput
    first.keys[0x1] = true
    second.keys[0xF] = true

    combine := MakeCombineInputs(&first, nil, &second)
    if len(combine.Inputs) != 2 {
        test.Fatalf("nil inputs should be skipped")
    }

    state := combine.Get()
    for key := range state {
        expected := key == 0x1 || key == 0xF
        if state[key] != expected {
            test.Fatalf("key %X: expected %v", key, expected)
        }
    }
}

func TestTerminalInputReleases(test *testing.T){
    now := time.Unix(1000, 0)
    input := MakeTerminalInput()
    input.now = func() time.Time {
        return now
    }

    input.Press(0x15)
    state := input.Get()
    if !state[0x5] {
        test.Fatalf("key 5 should be down right after the press")
    }

    now = now.Add(TerminalKeyHold - time.Millisecond)
    if !input.Get()[0x5] {
        test.Fatalf("key 5 should still be held")
    }

    now = now.Add(2 * time.Millisecond)
    if input.Get()[0x5] {
        test.Fatalf("key 5 should have been released")
    }
}

func TestKeyboardInput(test *testing.T){
    var keyboard KeyboardInput
    var state chip8.KeyState
    state[0xA] = true
    keyboard.Set(state)
    if keyboard.Get() != state {
        test.Fatalf("keyboard did not keep the state")
    }
}
