package main

import (
    "context"
    "errors"
    "strings"
    "testing"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/debug"
    chip8 "github.com/kazzmir/chip8/lib"
)

func makeOptions(program []byte) *MachineOptions {
    return &MachineOptions{
        Program: chip8.ProgramFile{Path: "test.ch8", Data: program},
        Config: common.DefaultConfigData(),
    }
}

func TestRunMachinesFinishes(test *testing.T){
    /* JP 0x200 */
    options := makeOptions([]byte{0x12, 0x00})
    options.MaxCycles = 50

    var status MachineStatus
    err := runMachines(context.Background(), options, chip8.RunOptions{Infinite: true}, debug.MakeDebugger(false), nil, &status)
    if !errors.Is(err, chip8.MaxCyclesReached) {
        test.Fatalf("expected the cycle limit but got %v", err)
    }
}

func TestRunMachinesCrashAndRestart(test *testing.T){
    /* RET with an empty stack */
    options := makeOptions([]byte{0x00, 0xEE})
    debugger := debug.MakeDebugger(false)
    restart := make(chan bool)
    var status MachineStatus

    quit, cancel := context.WithCancel(context.Background())
    defer cancel()

    done := make(chan error, 1)
    go func(){
        done <- runMachines(quit, options, chip8.RunOptions{Infinite: true}, debugger, restart, &status)
    }()

    deadline := time.Now().Add(2 * time.Second)
    for status.Crash() == nil {
        if time.Now().After(deadline) {
            test.Fatalf("machine never crashed")
        }
        time.Sleep(time.Millisecond)
    }

    if !errors.Is(status.Crash(), chip8.ErrStackUnderflow) {
        test.Fatalf("expected a stack underflow but got %v", status.Crash())
    }

    /* the crashed machine still answers dumps */
    text, ok := debugger.RequestDump(quit, 2 * time.Second)
    if !ok || !strings.Contains(text, "crashed") {
        test.Fatalf("expected a dump of the crashed machine\n%v", text)
    }

    restart <- true

    deadline = time.Now().Add(2 * time.Second)
    for status.Resets() != 1 {
        if time.Now().After(deadline) {
            test.Fatalf("machine was not restarted")
        }
        time.Sleep(time.Millisecond)
    }

    cancel()
    select {
        case err := <-done:
            if err != nil {
                test.Fatalf("expected a clean exit but got %v", err)
            }
        case <-time.After(2 * time.Second):
            test.Fatalf("machine did not stop")
    }
}

func TestMachineControlTurbo(test *testing.T){
    control := MakeMachineControl(func(){}, debug.MakeDebugger(false))
    control.SetTurbo(true)
    control.SetTurbo(true)
    if len(control.Actions) != 1 {
        test.Fatalf("turbo should only be sent once but got %v actions", len(control.Actions))
    }
    if !control.IsTurbo() {
        test.Fatalf("expected turbo")
    }
    control.SetTurbo(false)
    <-control.Actions
    if action := <-control.Actions; action != chip8.EmulatorNormal {
        test.Fatalf("expected normal speed but got %v", action)
    }
}

func TestParseArguments(test *testing.T){
    arguments, err := parseArguments([]string{"-rate", "1000", "-seed", "7", "-break", "0x20a", "-shift-vx", "-terminal", "game.ch8"})
    if err != nil {
        test.Fatalf("unexpected error: %v", err)
    }
    if arguments.Rate != 1000 || arguments.Seed != 7 || !arguments.SeedGiven {
        test.Fatalf("numbers not parsed: %+v", arguments)
    }
    if len(arguments.Breakpoints) != 1 || arguments.Breakpoints[0] != 0x20A {
        test.Fatalf("breakpoint not parsed: %v", arguments.Breakpoints)
    }
    if !arguments.Terminal || arguments.ProgramPath != "game.ch8" {
        test.Fatalf("unexpected arguments %+v", arguments)
    }

    config := applyArguments(common.DefaultConfigData(), &arguments)
    if config.Rate != 1000 || config.Quirks.ShiftSourceVy {
        test.Fatalf("arguments not applied to the config: %+v", config)
    }

    _, err = parseArguments([]string{"-cycles"})
    if err == nil {
        test.Fatalf("expected an error for a missing number")
    }
}

func TestLoadBundledProgram(test *testing.T){
    program, err := loadProgram("hexdigits")
    if err != nil {
        test.Fatalf("could not load a bundled program: %v", err)
    }
    if program.Name() != "hexdigits" || len(program.Data) == 0 {
        test.Fatalf("unexpected program %v", program.Name())
    }

    _, err = loadProgram("does-not-exist")
    if err == nil {
        test.Fatalf("expected an error")
    }
}
