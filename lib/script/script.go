/* Scripted keypad input for headless runs. A script is plain lua that
 * schedules key presses against the step counter, for example
 *
 *   press(0x5, 100, 30)   -- hold key 5 from step 100 for 30 steps
 *   for i = 0, 3 do press(0x6, 500 + i * 60) end
 *
 * Since presses are tied to steps and not to wall clock time a run with
 * a script is reproducible.
 */
package script

import (
    "fmt"
    "log"
    "os"
    "path/filepath"
    "sort"
    "sync"

    chip8 "github.com/kazzmir/chip8/lib"
    lua "github.com/yuin/gopher-lua"
)

/* how long a press lasts when the script does not say */
const DefaultPressLength = 10

type Press struct {
    Key byte
    Start uint64
    Length uint64
}

func (press *Press) Active(step uint64) bool {
    return step >= press.Start && step < press.Start + press.Length
}

type ScriptInput struct {
    Presses []Press
    step uint64
    lock sync.Mutex
}

func (input *ScriptInput) Get() chip8.KeyState {
    input.lock.Lock()
    defer input.lock.Unlock()

    var state chip8.KeyState
    for _, press := range input.Presses {
        if press.Active(input.step) {
            state[press.Key] = true
        }
    }
    input.step += 1
    return state
}

/* the first step after every scheduled press has been released */
func (input *ScriptInput) End() uint64 {
    var end uint64
    for _, press := range input.Presses {
        if press.Start + press.Length > end {
            end = press.Start + press.Length
        }
    }
    return end
}

func Load(source string, name string) (*ScriptInput, error) {
    state := lua.NewState()
    defer state.Close()

    var presses []Press

    state.SetGlobal("press", state.NewFunction(func(state *lua.LState) int {
        key := state.CheckInt(1)
        start := state.CheckInt(2)
        length := state.OptInt(3, DefaultPressLength)

        if key < 0 || key >= chip8.KeyCount {
            state.ArgError(1, fmt.Sprintf("key must be between 0 and %d", chip8.KeyCount - 1))
            return 0
        }
        if start < 0 {
            state.ArgError(2, "start must not be negative")
            return 0
        }
        if length <= 0 {
            state.ArgError(3, "length must be positive")
            return 0
        }

        presses = append(presses, Press{
            Key: byte(key),
            Start: uint64(start),
            Length: uint64(length),
        })
        return 0
    }))

    state.SetGlobal("log", state.NewFunction(func(state *lua.LState) int {
        log.Printf("[%v] %v", name, state.CheckString(1))
        return 0
    }))

    err := state.DoString(source)
    if err != nil {
        return nil, fmt.Errorf("error in script %v: %w", name, err)
    }

    sort.SliceStable(presses, func(i, j int) bool {
        return presses[i].Start < presses[j].Start
    })

    return &ScriptInput{
        Presses: presses,
    }, nil
}

func LoadFile(path string) (*ScriptInput, error) {
    source, err := os.ReadFile(path)
    if err != nil {
        return nil, err
    }
    return Load(string(source), filepath.Base(path))
}
