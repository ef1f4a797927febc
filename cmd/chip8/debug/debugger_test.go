package debug

import (
    "context"
    "strings"
    "testing"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
)

/* 200: ADD V0, 1  202: ADD V1, 1  204: JP 0x200 */
func makeCPU(test *testing.T) *chip8.CPUState {
    cpu := chip8.StartupState()
    err := cpu.LoadProgram([]byte{0x70, 0x01, 0x71, 0x01, 0x12, 0x00})
    if err != nil {
        test.Fatalf("could not load program: %v", err)
    }
    return &cpu
}

func TestBreakpoint(test *testing.T){
    cpu := makeCPU(test)
    debugger := MakeDebugger(false)
    breakpoint := debugger.AddPCBreakpoint(0x204)

    quit, cancel := context.WithCancel(context.Background())
    defer cancel()

    done := make(chan error, 1)
    go func(){
        done <- chip8.RunMachine(quit, cpu, chip8.RunOptions{
            Infinite: true,
            MaxCycles: 100,
            Debugger: debugger,
        })
    }()

    deadline := time.Now().Add(2 * time.Second)
    for !debugger.IsStopped() {
        if time.Now().After(deadline) {
            test.Fatalf("breakpoint was never hit")
        }
        time.Sleep(time.Millisecond)
    }

    /* the machine waits at the breakpoint, so a dump shows PC 0x204 */
    text, ok := debugger.RequestDump(quit, 2 * time.Second)
    if !ok {
        test.Fatalf("no dump")
    }
    if !strings.Contains(text, "PC:0x204") {
        test.Fatalf("expected to be stopped at 0x204\n%v", text)
    }

    /* one step runs the jump */
    debugger.Commands <- DebugCommandStep
    text, _ = debugger.RequestDump(quit, 2 * time.Second)
    if !strings.Contains(text, "PC:0x200") {
        test.Fatalf("expected to be at 0x200 after a step\n%v", text)
    }

    if !debugger.RemoveBreakpoint(breakpoint.Id) {
        test.Fatalf("breakpoint was not removed")
    }
    if len(debugger.GetBreakpoints()) != 0 {
        test.Fatalf("expected no breakpoints")
    }

    debugger.Commands <- DebugCommandContinue

    select {
        case err := <-done:
            if err != chip8.MaxCyclesReached {
                test.Fatalf("expected the run to finish but got %v", err)
            }
        case <-time.After(2 * time.Second):
            test.Fatalf("machine did not finish")
    }
}

func TestStoppedUntilCommand(test *testing.T){
    cpu := makeCPU(test)
    debugger := MakeDebugger(true)

    quit, cancel := context.WithCancel(context.Background())

    done := make(chan bool)
    go func(){
        debugger.Handle(quit, cpu)
        done <- true
    }()

    select {
        case <-done:
            test.Fatalf("a stopped debugger should block")
        case <-time.After(20 * time.Millisecond):
    }

    cancel()
    select {
        case <-done:
        case <-time.After(2 * time.Second):
            test.Fatalf("cancel did not release the debugger")
    }
}

func TestServeAfterCrash(test *testing.T){
    cpu := chip8.StartupState()
    cpu.LoadProgram([]byte{0x00, 0xEE})
    cpu.Step()

    debugger := MakeDebugger(false)
    quit, cancel := context.WithCancel(context.Background())
    defer cancel()
    go debugger.Serve(quit, &cpu)

    text, ok := debugger.RequestDump(quit, 2 * time.Second)
    if !ok {
        test.Fatalf("no dump")
    }
    if !strings.Contains(text, "stack underflow") {
        test.Fatalf("expected the fault in the dump\n%v", text)
    }
}

func TestDumpWhilePaused(test *testing.T){
    cpu := makeCPU(test)
    debugger := MakeDebugger(false)

    quit, cancel := context.WithCancel(context.Background())
    defer cancel()

    actions := make(chan chip8.EmulatorAction, 1)
    actions <- chip8.EmulatorSetPause

    done := make(chan error, 1)
    go func(){
        done <- chip8.RunMachine(quit, cpu, chip8.RunOptions{
            Rate: 1000,
            Actions: actions,
            Debugger: debugger,
        })
    }()

    /* the paused machine never looks at the debugger, so every dump gives up */
    for i := 0; i < 10; i++ {
        _, ok := debugger.RequestDump(quit, 10 * time.Millisecond)
        if ok {
            test.Fatalf("a paused machine should not answer")
        }
    }

    if len(debugger.Commands) != 0 {
        test.Fatalf("expected no leftover commands but have %v", len(debugger.Commands))
    }

    select {
        case debugger.Commands <- DebugCommandStop:
        default:
            test.Fatalf("stop was dropped")
    }

    actions <- chip8.EmulatorUnpause

    deadline := time.Now().Add(2 * time.Second)
    for !debugger.IsStopped() {
        if time.Now().After(deadline) {
            test.Fatalf("stop was never handled")
        }
        time.Sleep(time.Millisecond)
    }

    /* stopped in the debugger, the machine answers dumps again */
    text, ok := debugger.RequestDump(quit, 2 * time.Second)
    if !ok || !strings.Contains(text, "PC:") {
        test.Fatalf("expected a dump once stopped\n%v", text)
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
