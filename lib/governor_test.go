package lib

import (
    "context"
    "errors"
    "testing"
    "time"
)

/* 1200 JP 0x200 */
var spinProgram []byte = []byte{0x12, 0x00}

func TestRunMaxCycles(test *testing.T){
    cpu := makeTestCPU(test, spinProgram)

    err := RunMachine(context.Background(), cpu, RunOptions{
        MaxCycles: 1000,
        Infinite: true,
    })

    if err != MaxCyclesReached {
        test.Fatalf("expected max cycles but got %v", err)
    }
    if cpu.Cycle != 1000 {
        test.Fatalf("expected 1000 cycles but ran %v", cpu.Cycle)
    }
}

func TestRunCrash(test *testing.T){
    cpu := makeTestCPU(test, []byte{0x60, 0x01, 0x00, 0xEE})

    err := RunMachine(context.Background(), cpu, RunOptions{
        Infinite: true,
    })

    if !errors.Is(err, ErrStackUnderflow) {
        test.Fatalf("expected a stack underflow but got %v", err)
    }
    if cpu.State != StateCrashed {
        test.Fatalf("expected crashed state")
    }
}

func TestRunCancel(test *testing.T){
    cpu := makeTestCPU(test, spinProgram)

    quit, cancel := context.WithCancel(context.Background())
    done := make(chan error, 1)
    go func(){
        done <- RunMachine(quit, cpu, RunOptions{Rate: 600})
    }()

    time.Sleep(50 * time.Millisecond)
    cancel()

    select {
        case err := <-done:
            if err != nil {
                test.Fatalf("expected nil on cancel but got %v", err)
            }
        case <-time.After(2 * time.Second):
            test.Fatalf("machine did not stop")
    }
}

func TestRunPaced(test *testing.T){
    cpu := makeTestCPU(test, spinProgram)

    quit, cancel := context.WithTimeout(context.Background(), 200 * time.Millisecond)
    defer cancel()

    err := RunMachine(quit, cpu, RunOptions{Rate: 1000})
    if err != nil {
        test.Fatalf("unexpected error %v", err)
    }

    /* 200 steps are expected, allow for a slow host */
    if cpu.Cycle > 300 {
        test.Fatalf("ran too fast: %v cycles", cpu.Cycle)
    }
    if cpu.Cycle == 0 {
        test.Fatalf("did not run at all")
    }
}

func TestRunPublishesDisplay(test *testing.T){
    cpu := makeTestCPU(test, []byte{
        0xA0, 0x00, // LD I, 0
        0xD0, 0x05, // DRW V0, V0, 5
        0x12, 0x04, // JP 0x204
    })
    cpu.SetRate(60)
    /* only the drawn glyph should be published, not the initial blank screen */
    cpu.Display.ClearDirty()

    toDraw := make(chan *Display, 1)
    bufferReady := make(chan *Display, 1)
    bufferReady <- &Display{}

    err := RunMachine(context.Background(), cpu, RunOptions{
        MaxCycles: 3,
        Infinite: true,
        ToDraw: toDraw,
        BufferReady: bufferReady,
    })
    if err != MaxCyclesReached {
        test.Fatalf("expected max cycles but got %v", err)
    }

    select {
        case buffer := <-toDraw:
            if buffer.Count() != 14 {
                test.Fatalf("expected the glyph to be drawn but got\n%v", buffer.String())
            }
        default:
            test.Fatalf("no display was published")
    }
}

func TestRunBeeper(test *testing.T){
    cpu := makeTestCPU(test, []byte{
        0x60, 0x30, // LD V0, 0x30
        0xF0, 0x18, // LD ST, V0
        0x12, 0x04, // JP 0x204
    })
    cpu.SetRate(60)

    beeper := MakeBeeper(44100, 1, 0)
    err := RunMachine(context.Background(), cpu, RunOptions{
        MaxCycles: 3,
        Infinite: true,
        Beeper: beeper,
    })
    if err != MaxCyclesReached {
        test.Fatalf("expected max cycles but got %v", err)
    }

    /* the beeper is switched off when the machine stops */
    if beeper.Active() {
        test.Fatalf("beeper should be off after the run")
    }
    if cpu.Timers.Sound != 0x30 - 2 {
        test.Fatalf("unexpected sound timer %v", cpu.Timers.Sound)
    }
}

type countingDebugger struct {
    calls int
}

func (debugger *countingDebugger) Handle(quit context.Context, cpu *CPUState){
    debugger.calls += 1
}

func TestRunDebugger(test *testing.T){
    cpu := makeTestCPU(test, spinProgram)
    debugger := &countingDebugger{}

    RunMachine(context.Background(), cpu, RunOptions{
        MaxCycles: 10,
        Infinite: true,
        Debugger: debugger,
    })

    if debugger.calls != 10 {
        test.Fatalf("expected the debugger to be called 10 times but was %v", debugger.calls)
    }
}
