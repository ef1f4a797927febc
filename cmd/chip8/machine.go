package main

import (
    "context"
    "errors"
    "log"
    "sync"
    "sync/atomic"

    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/debug"
)

type MachineOptions struct {
    Program chip8.ProgramFile
    Config common.ConfigData
    Seed uint64
    MaxCycles uint64
    Debug bool
    Input chip8.HostInput
}

func setupCPU(options *MachineOptions) (chip8.CPUState, error) {
    cpu := chip8.StartupState()

    cpu.Quirks = options.Config.CoreQuirks()
    cpu.Random = chip8.MakeRandomSource(options.Seed)
    cpu.Input = chip8.MakeInput(options.Input)
    cpu.SetRate(options.Config.Rate)

    if options.Debug {
        cpu.Debug = 1
    }

    err := cpu.LoadProgram(options.Program.Data)
    return cpu, err
}

/* what the frontends show about the machine besides the display */
type MachineStatus struct {
    lock sync.Mutex
    crash error
    resets int
}

func (status *MachineStatus) SetCrash(err error) {
    status.lock.Lock()
    defer status.lock.Unlock()
    status.crash = err
}

func (status *MachineStatus) Crash() error {
    status.lock.Lock()
    defer status.lock.Unlock()
    return status.crash
}

func (status *MachineStatus) reset() {
    status.lock.Lock()
    defer status.lock.Unlock()
    status.crash = nil
    status.resets += 1
}

func (status *MachineStatus) Resets() int {
    status.lock.Lock()
    defer status.lock.Unlock()
    return status.resets
}

/* Runs the program until quit is done or the run ends, starting over from
 * a fresh machine whenever something arrives on restart. After a crash the
 * machine is kept around so the debugger can still dump it, until the
 * next restart.
 */
func runMachines(quit context.Context, options *MachineOptions, runOptions chip8.RunOptions, debugger *debug.DefaultDebugger, restart <-chan bool, status *MachineStatus) error {
    runOptions.MaxCycles = options.MaxCycles
    runOptions.Debugger = debugger

    for quit.Err() == nil {
        cpu, err := setupCPU(options)
        if err != nil {
            return err
        }

        runQuit, runCancel := context.WithCancel(quit)
        done := make(chan error, 1)
        go func(){
            done <- chip8.RunMachine(runQuit, &cpu, runOptions)
        }()

        select {
            case <-restart:
                runCancel()
                <-done
                log.Printf("Hard reset")
                status.reset()
                continue
            case err = <-done:
                runCancel()
        }

        if err == nil || errors.Is(err, chip8.MaxCyclesReached) {
            return err
        }

        status.SetCrash(err)
        log.Printf("%v", debug.DumpString(&cpu))

        crashQuit, crashCancel := context.WithCancel(quit)
        served := make(chan bool)
        go func(){
            debugger.Serve(crashQuit, &cpu)
            close(served)
        }()

        select {
            case <-restart:
                crashCancel()
                <-served
                log.Printf("Hard reset")
                status.reset()
            case <-quit.Done():
                crashCancel()
                <-served
        }
    }

    return nil
}

/* the ways a frontend can drive the running machine */
type MachineControl struct {
    Cancel context.CancelFunc
    Actions chan chip8.EmulatorAction
    Restart chan bool
    Debugger *debug.DefaultDebugger
    Status *MachineStatus

    paused atomic.Bool
    turbo atomic.Bool
}

func MakeMachineControl(cancel context.CancelFunc, debugger *debug.DefaultDebugger) *MachineControl {
    return &MachineControl{
        Cancel: cancel,
        Actions: make(chan chip8.EmulatorAction, 5),
        Restart: make(chan bool, 1),
        Debugger: debugger,
        Status: &MachineStatus{},
    }
}

func (control *MachineControl) send(action chip8.EmulatorAction) bool {
    select {
        case control.Actions <- action:
            return true
        default:
            log.Printf("Warning: emulator action dropped")
            return false
    }
}

func (control *MachineControl) Quit(){
    control.Cancel()
}

/* returns false if a reset is already pending */
func (control *MachineControl) HardReset() bool {
    select {
        case control.Restart <- true:
            return true
        default:
            return false
    }
}

/* returns true if the machine is now paused */
func (control *MachineControl) TogglePause() bool {
    var action chip8.EmulatorAction = chip8.EmulatorSetPause
    if control.paused.Load() {
        action = chip8.EmulatorUnpause
    }
    if control.send(action) {
        control.paused.Store(action == chip8.EmulatorSetPause)
    }
    return control.paused.Load()
}

func (control *MachineControl) IsPaused() bool {
    return control.paused.Load()
}

func (control *MachineControl) SetTurbo(on bool){
    if control.turbo.Load() == on {
        return
    }
    action := chip8.EmulatorNormal
    if on {
        action = chip8.EmulatorTurbo
    }
    if control.send(action) {
        control.turbo.Store(on)
    }
}

func (control *MachineControl) IsTurbo() bool {
    return control.turbo.Load()
}
