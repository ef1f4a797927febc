package main

import (
    "context"
    "fmt"
    "image/color"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/debug"

    "github.com/hajimehoshi/ebiten/v2"
    "github.com/hajimehoshi/ebiten/v2/text/v2"
    "github.com/hajimehoshi/ebiten/v2/vector"
)

type ConsoleState int
const (
    StateOpening ConsoleState = iota
    StateOpen
    StateClosing
    StateClosed
)

/* lines of text the console keeps around */
const maxConsoleLines = 200

type Console struct {
    State ConsoleState
    Lines []string
    Current string
    Size int
    Lock sync.Mutex
}

func MakeConsole() *Console {
    return &Console{
        State: StateClosed,
        Size: 0,
    }
}

const helpText string = `
help, ?: this help text
exit, quit: quit the program
clear: clear console text
info: show the machine state
reset, restart: start the program over
pause: pause or unpause the machine
stop: stop in the debugger
step: run one instruction while stopped
continue: run until the next breakpoint
break <address>: add a breakpoint, 'break list' shows them
delete <id>: remove a breakpoint
`

func (console *Console) AddLine(line string) {
    console.Lock.Lock()
    defer console.Lock.Unlock()
    console.Lines = append(console.Lines, line)
    if len(console.Lines) > maxConsoleLines {
        console.Lines = console.Lines[len(console.Lines) - maxConsoleLines:]
    }
}

func (console *Console) AddLines(text string) {
    for _, line := range strings.Split(text, "\n") {
        if line != "" {
            console.AddLine(line)
        }
    }
}

func (console *Console) ClearLines() {
    console.Lock.Lock()
    defer console.Lock.Unlock()
    console.Lines = nil
}

func (console *Console) GetLines() []string {
    console.Lock.Lock()
    defer console.Lock.Unlock()
    return append([]string(nil), console.Lines...)
}

/* parses "0x2a0", "2a0" and "$2a0" as a hex address */
func parseAddress(text string) (uint16, error) {
    text = strings.TrimPrefix(strings.ToLower(text), "$")
    text = strings.TrimPrefix(text, "0x")
    value, err := strconv.ParseUint(text, 16, 16)
    if err != nil {
        return 0, err
    }
    return uint16(value), nil
}

/* runs one console command. the dump commands wait for the machine
 * goroutine so they answer in the background
 */
func (console *Console) Execute(quit context.Context, control *MachineControl, line string) {
    args := strings.Fields(line)
    if len(args) == 0 {
        return
    }

    console.AddLine("> " + line)

    debugger := control.Debugger

    switch strings.ToLower(args[0]) {
        case "exit", "quit":
            control.Quit()
        case "clear":
            console.ClearLines()
        case "help", "?":
            console.AddLines(helpText)
        case "reset", "restart", "reload":
            if control.HardReset() {
                console.AddLine("Restarting..")
            } else {
                console.AddLine("Error: a restart is already pending")
            }
        case "pause":
            if control.TogglePause() {
                console.AddLine("Paused")
            } else {
                console.AddLine("Unpaused")
            }
        case "stop":
            debugger.Stop()
            console.AddLine("Stopped")
        case "step":
            if !debugger.IsStopped() {
                console.AddLine("The machine is running, use 'stop' first")
            } else {
                select {
                    case debugger.Commands <- debug.DebugCommandStep:
                        console.AddLine("Step")
                    default:
                        console.AddLine("Error: input dropped. Try again")
                }
            }
        case "continue":
            select {
                case debugger.Commands <- debug.DebugCommandContinue:
                    console.AddLine("Continue")
                default:
                    console.AddLine("Error: input dropped. Try again")
            }
        case "break":
            if len(args) < 2 || strings.ToLower(args[1]) == "list" {
                console.AddLine("Breakpoints")
                for _, breakpoint := range debugger.GetBreakpoints() {
                    console.AddLine(fmt.Sprintf(" %v: 0x%03X", breakpoint.Id, breakpoint.PC))
                }
            } else {
                pc, err := parseAddress(args[1])
                if err != nil {
                    console.AddLine(fmt.Sprintf("Invalid address '%v': %v", args[1], err))
                } else {
                    breakpoint := debugger.AddPCBreakpoint(pc)
                    console.AddLine(fmt.Sprintf("Breakpoint %v added at 0x%03X", breakpoint.Id, breakpoint.PC))
                }
            }
        case "delete":
            if len(args) != 2 {
                console.AddLine("Give a breakpoint id to delete")
                break
            }
            id, err := strconv.ParseUint(args[1], 10, 64)
            if err != nil {
                console.AddLine(fmt.Sprintf("Bad breakpoint '%v'", args[1]))
            } else if debugger.RemoveBreakpoint(id) {
                console.AddLine(fmt.Sprintf("Removed breakpoint %v", id))
            } else {
                console.AddLine(fmt.Sprintf("No breakpoint %v", id))
            }
        case "info", "dump":
            go func(){
                text, ok := debugger.RequestDump(quit, time.Second)
                if !ok {
                    console.AddLine("The machine did not answer, is it paused?")
                    return
                }
                console.AddLines(text)
            }()
        default:
            console.AddLine(fmt.Sprintf("Unknown command '%v', try 'help'", args[0]))
    }
}

func (console *Console) Render(screen *ebiten.Image, font text.Face) {
    if console.Size == 0 {
        return
    }

    height := float32(console.Size * 22)

    vector.FillRect(screen, 0, 0, float32(screen.Bounds().Dx()), height, color.NRGBA{R: 20, G: 40, B: 20, A: 220}, false)
    vector.StrokeLine(screen, 0, height, float32(screen.Bounds().Dx()), height, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, false)

    _, fontHeight := text.Measure("A", font, 1)

    yPos := float64(height) - fontHeight - 1
    var textOptions text.DrawOptions
    textOptions.GeoM.Translate(1, yPos)
    text.Draw(screen, "> " + console.Current + "|", font, &textOptions)

    textOptions.ColorScale.ScaleWithColor(color.NRGBA{R: 200, G: 200, B: 200, A: 255})

    lines := console.GetLines()
    for i := len(lines) - 1; i >= 0; i-- {
        yPos -= fontHeight + 1
        if yPos < 0 {
            break
        }
        textOptions.GeoM.Translate(0, -fontHeight - 1)
        text.Draw(screen, lines[i], font, &textOptions)
    }
}

/* removes the last word of the line being typed */
func removeWord(line string) string {
    trimmed := strings.TrimRight(line, " ")
    last := strings.LastIndex(trimmed, " ")
    if last == -1 {
        return ""
    }
    return trimmed[0:last+1]
}

func (console *Console) Update(engine *Engine, pressedKeys []ebiten.Key, toggleKey ebiten.Key) {
    maxSize := 10

    if console.IsActive() {
        addChars := true
        control := ebiten.IsKeyPressed(ebiten.KeyControl)

        for _, key := range pressedKeys {
            switch key {
                case ebiten.KeyBackspace:
                    if len(console.Current) > 0 {
                        console.Current = console.Current[0:len(console.Current)-1]
                    }
                case ebiten.KeyW:
                    if control {
                        console.Current = removeWord(console.Current)
                        addChars = false
                    }
                case ebiten.KeyU:
                    if control {
                        console.Current = ""
                        addChars = false
                    }
                case toggleKey:
                    console.Toggle()
                    addChars = false
                case ebiten.KeyEnter:
                    line := console.Current
                    console.Current = ""
                    console.Execute(engine.Quit, engine.Control, line)
            }
        }

        if addChars {
            typed := ebiten.AppendInputChars(nil)
            console.Current += string(typed)
        }
    }

    switch console.State {
        case StateOpening:
            if console.Size < maxSize {
                console.Size += 1
            } else {
                console.State = StateOpen
            }
        case StateClosing:
            if console.Size > 0 {
                console.Size -= 1
            } else {
                console.State = StateClosed
            }
    }
}

func (console *Console) Toggle(){
    switch console.State {
        case StateOpen, StateOpening:
            console.State = StateClosing
        case StateClosing, StateClosed:
            console.State = StateOpening
    }
}

func (console *Console) IsActive() bool {
    return console.State == StateOpen || console.State == StateOpening
}
