package debug

import (
    "bytes"
    "context"
    "fmt"
    "log"
    "sync"
    "sync/atomic"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
)

type DebugCommand interface {
    Name() string
}

type DebugCommandSimple struct {
    name string
}

func (command *DebugCommandSimple) Name() string {
    return command.name
}

func makeCommand(name string) DebugCommand {
    return &DebugCommandSimple{name: name}
}

var DebugCommandStep DebugCommand = makeCommand("step")
var DebugCommandContinue DebugCommand = makeCommand("continue")
var DebugCommandStop DebugCommand = makeCommand("stop")

/* a request for the machine state as text. the machine answers on Response,
 * which has room for the answer so the machine never waits on it
 */
type dumpRequest struct {
    Response chan string
}

// break when the cpu's PC is at a specific value
type Breakpoint struct {
    PC uint16
    Id uint64
}

func (breakpoint *Breakpoint) Hit(cpu *chip8.CPUState) bool {
    return breakpoint.PC == cpu.PC
}

/* Commands are processed on the machine goroutine right before a step.
 * While stopped Handle blocks until a step or continue arrives.
 */
type DefaultDebugger struct {
    Commands chan DebugCommand

    /* unbuffered, so a request that is given up on never waits in a queue */
    dumps chan dumpRequest

    stopped atomic.Bool

    lock sync.Mutex
    breakpoints []Breakpoint
    breakpointId uint64
}

func MakeDebugger(stopped bool) *DefaultDebugger {
    debugger := &DefaultDebugger{
        Commands: make(chan DebugCommand, 5),
        dumps: make(chan dumpRequest),
        breakpointId: 1,
    }
    debugger.stopped.Store(stopped)
    return debugger
}

func (debugger *DefaultDebugger) IsStopped() bool {
    return debugger.stopped.Load()
}

func (debugger *DefaultDebugger) ContinueUntilBreak(){
    debugger.stopped.Store(false)
}

func (debugger *DefaultDebugger) Stop(){
    debugger.stopped.Store(true)
}

func (debugger *DefaultDebugger) AddPCBreakpoint(pc uint16) Breakpoint {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()

    breakpoint := Breakpoint{
        PC: pc,
        Id: debugger.breakpointId,
    }
    debugger.breakpoints = append(debugger.breakpoints, breakpoint)
    debugger.breakpointId += 1
    return breakpoint
}

func (debugger *DefaultDebugger) RemoveBreakpoint(id uint64) bool {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()

    var out []Breakpoint
    for _, breakpoint := range debugger.breakpoints {
        if breakpoint.Id != id {
            out = append(out, breakpoint)
        }
    }
    removed := len(out) != len(debugger.breakpoints)
    debugger.breakpoints = out
    return removed
}

func (debugger *DefaultDebugger) GetBreakpoints() []Breakpoint {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    return append([]Breakpoint(nil), debugger.breakpoints...)
}

func (debugger *DefaultDebugger) hitBreakpoint(cpu *chip8.CPUState) (Breakpoint, bool) {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()

    for _, breakpoint := range debugger.breakpoints {
        if breakpoint.Hit(cpu) {
            return breakpoint, true
        }
    }
    return Breakpoint{}, false
}

/* true if the command lets the machine execute a step */
func (debugger *DefaultDebugger) process(command DebugCommand, cpu *chip8.CPUState) bool {
    switch command {
        case DebugCommandStep:
            if cpu.Debug > 0 {
                log.Printf("[debug] step")
            }
            return true
        case DebugCommandContinue:
            log.Printf("[debug] continue")
            debugger.ContinueUntilBreak()
            return true
        case DebugCommandStop:
            debugger.Stop()
            return false
    }

    return false
}

func (debugger *DefaultDebugger) Handle(quit context.Context, cpu *chip8.CPUState){
    /* commands that arrived while running */
    for !debugger.IsStopped() {
        select {
            case command := <-debugger.Commands:
                debugger.process(command, cpu)
                continue
            case request := <-debugger.dumps:
                request.Response <- DumpString(cpu)
                continue
            default:
        }
        break
    }

    if !debugger.IsStopped() {
        breakpoint, hit := debugger.hitBreakpoint(cpu)
        if !hit {
            return
        }
        log.Printf("[debug] breakpoint %v at 0x%03X", breakpoint.Id, breakpoint.PC)
        debugger.Stop()
    }

    /* leaving this loop lets exactly one instruction run, so continuing
     * from a breakpoint does not immediately hit it again
     */
    for {
        select {
            case <-quit.Done():
                return
            case request := <-debugger.dumps:
                request.Response <- DumpString(cpu)
            case command := <-debugger.Commands:
                if debugger.process(command, cpu) {
                    return
                }
        }
    }
}

/* answer commands for a machine that will not run anymore, for example
 * after it crashed, until quit is done
 */
func (debugger *DefaultDebugger) Serve(quit context.Context, cpu *chip8.CPUState){
    for {
        select {
            case <-quit.Done():
                return
            case request := <-debugger.dumps:
                request.Response <- DumpString(cpu)
            case <-debugger.Commands:
        }
    }
}

/* ask the machine goroutine for a dump. returns false if it did not
 * answer in time, which happens while the governor is paused. a request
 * that times out is withdrawn, it does not take up room in Commands
 */
func (debugger *DefaultDebugger) RequestDump(quit context.Context, timeout time.Duration) (string, bool) {
    timer := time.NewTimer(timeout)
    defer timer.Stop()

    response := make(chan string, 1)
    select {
        case debugger.dumps <- dumpRequest{Response: response}:
        case <-quit.Done():
            return "", false
        case <-timer.C:
            return "", false
    }

    select {
        case text := <-response:
            return text, true
        case <-quit.Done():
            return "", false
        case <-timer.C:
            return "", false
    }
}

func DumpString(cpu *chip8.CPUState) string {
    var out bytes.Buffer
    err := cpu.Dump(&out)
    if err != nil {
        return fmt.Sprintf("could not dump machine: %v", err)
    }
    return out.String()
}
