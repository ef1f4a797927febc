package main

import (
    "context"
    "errors"
    "fmt"
    "log"
    "os"
    "strings"
    "sync"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/debug"

    "github.com/jroimartin/gocui"
    "golang.org/x/term"
)

/* the screen view needs the display plus a frame, two pixel rows per line */
const (
    terminalScreenWidth = chip8.DisplayWidth + 2
    terminalScreenHeight = chip8.DisplayHeight / 2 + 2
)

/* two rows of pixels go into one line of text using half blocks */
func renderHalfBlocks(display *chip8.Display) string {
    var out strings.Builder
    for y := 0; y < chip8.DisplayHeight; y += 2 {
        for x := 0; x < chip8.DisplayWidth; x++ {
            top := display.Get(x, y)
            bottom := display.Get(x, y + 1)
            switch {
                case top && bottom: out.WriteRune('█')
                case top: out.WriteRune('▀')
                case bottom: out.WriteRune('▄')
                default: out.WriteRune(' ')
            }
        }
        out.WriteRune('\n')
    }
    return out.String()
}

/* the keypad as it is laid out on the keyboard, showing which keys are down */
func renderKeypad(keys chip8.KeyState, names [chip8.KeyCount]string) string {
    layout := [4][4]byte{
        {0x1, 0x2, 0x3, 0xC},
        {0x4, 0x5, 0x6, 0xD},
        {0x7, 0x8, 0x9, 0xE},
        {0xA, 0x0, 0xB, 0xF},
    }

    var out strings.Builder
    for _, row := range layout {
        for _, key := range row {
            name := names[key]
            if r, ok := common.KeyRune(name); ok {
                name = string(r)
            }
            if keys[key] {
                fmt.Fprintf(&out, "[%X]", key)
            } else {
                fmt.Fprintf(&out, " %X ", key)
            }
            fmt.Fprintf(&out, "%-2v", name)
        }
        out.WriteRune('\n')
    }
    return out.String()
}

/* log output goes into the log view instead of scribbling over the screen */
type viewWriter struct {
    gui *gocui.Gui
    view string
}

func (writer *viewWriter) Write(data []byte) (int, error) {
    text := string(data)
    writer.gui.Update(func(gui *gocui.Gui) error {
        view, err := gui.View(writer.view)
        if err != nil {
            return nil
        }
        fmt.Fprint(view, text)
        return nil
    })
    return len(data), nil
}

type TerminalFrontend struct {
    Control *MachineControl
    Input *TerminalInput
    Config common.ConfigData
    Quit context.Context

    /* machine state shown in the registers view, replaced by F3 */
    lock sync.Mutex
    registers string
    frozen bool
}

func (frontend *TerminalFrontend) setRegisters(text string, frozen bool){
    frontend.lock.Lock()
    defer frontend.lock.Unlock()
    if frontend.frozen && !frozen {
        return
    }
    frontend.registers = text
    frontend.frozen = frozen
}

func (frontend *TerminalFrontend) getRegisters() string {
    frontend.lock.Lock()
    defer frontend.lock.Unlock()
    return frontend.registers
}

func (frontend *TerminalFrontend) unfreeze(){
    frontend.lock.Lock()
    defer frontend.lock.Unlock()
    frontend.frozen = false
}

func (frontend *TerminalFrontend) status() string {
    var parts []string
    if err := frontend.Control.Status.Crash(); err != nil {
        parts = append(parts, fmt.Sprintf("crashed: %v", err))
    }
    if frontend.Control.IsPaused() {
        parts = append(parts, "paused")
    }
    if frontend.Control.IsTurbo() {
        parts = append(parts, "turbo")
    }
    if frontend.Control.Debugger.IsStopped() {
        parts = append(parts, "stopped")
    }
    if len(parts) == 0 {
        return "running"
    }
    return strings.Join(parts, ", ")
}

func (frontend *TerminalFrontend) layout(gui *gocui.Gui) error {
    maxX, maxY := gui.Size()

    screen, err := gui.SetView("screen", 0, 0, terminalScreenWidth - 1, terminalScreenHeight - 1)
    if err != nil {
        if !errors.Is(err, gocui.ErrUnknownView) {
            return err
        }
        screen.Title = "chip8"
    }

    registers, err := gui.SetView("registers", terminalScreenWidth, 0, maxX - 1, terminalScreenHeight - 7)
    if err != nil {
        if !errors.Is(err, gocui.ErrUnknownView) {
            return err
        }
        registers.Title = "machine (F3 holds, F5 continue, F6 stop, F7 step)"
        registers.Wrap = true
    }
    registers.Clear()
    fmt.Fprintf(registers, "Status: %v\n", frontend.status())
    fmt.Fprint(registers, frontend.getRegisters())

    keypad, err := gui.SetView("keypad", terminalScreenWidth, terminalScreenHeight - 6, maxX - 1, terminalScreenHeight - 1)
    if err != nil {
        if !errors.Is(err, gocui.ErrUnknownView) {
            return err
        }
        keypad.Title = "keypad"
    }
    keypad.Clear()
    fmt.Fprint(keypad, renderKeypad(frontend.Input.Get(), frontend.Config.Keys.Keypad))

    logs, err := gui.SetView("log", 0, terminalScreenHeight, maxX - 1, maxY - 1)
    if err != nil {
        if !errors.Is(err, gocui.ErrUnknownView) {
            return err
        }
        logs.Title = "log (esc quits, F2 resets, p pauses, ` turbo)"
        logs.Autoscroll = true
        logs.Wrap = true
    }

    return nil
}

func (frontend *TerminalFrontend) sendCommand(command debug.DebugCommand){
    select {
        case frontend.Control.Debugger.Commands <- command:
        default:
            log.Printf("Error: input dropped. Try again")
    }
}

func (frontend *TerminalFrontend) bindKeys(gui *gocui.Gui) error {
    quit := func(gui *gocui.Gui, view *gocui.View) error {
        frontend.Control.Quit()
        return gocui.ErrQuit
    }

    type binding struct {
        key any
        handler func(*gocui.Gui, *gocui.View) error
    }

    bindings := []binding{
        {gocui.KeyEsc, quit},
        {gocui.KeyCtrlC, quit},
        {gocui.KeyF2, func(gui *gocui.Gui, view *gocui.View) error {
            if frontend.Control.HardReset() {
                log.Printf("Hard reset")
            }
            frontend.unfreeze()
            return nil
        }},
        {gocui.KeyF3, func(gui *gocui.Gui, view *gocui.View) error {
            go func(){
                text, ok := frontend.Control.Debugger.RequestDump(frontend.Quit, time.Second)
                if ok {
                    frontend.setRegisters(text, true)
                    log.Printf("Machine state\n%v", text)
                } else {
                    log.Printf("The machine did not answer")
                }
            }()
            return nil
        }},
        {'p', func(gui *gocui.Gui, view *gocui.View) error {
            frontend.Control.TogglePause()
            return nil
        }},
        {'`', func(gui *gocui.Gui, view *gocui.View) error {
            frontend.Control.SetTurbo(!frontend.Control.IsTurbo())
            return nil
        }},
        {gocui.KeyF5, func(gui *gocui.Gui, view *gocui.View) error {
            frontend.unfreeze()
            frontend.sendCommand(debug.DebugCommandContinue)
            return nil
        }},
        {gocui.KeyF6, func(gui *gocui.Gui, view *gocui.View) error {
            frontend.Control.Debugger.Stop()
            return nil
        }},
        {gocui.KeyF7, func(gui *gocui.Gui, view *gocui.View) error {
            if frontend.Control.Debugger.IsStopped() {
                frontend.unfreeze()
                frontend.sendCommand(debug.DebugCommandStep)
            }
            return nil
        }},
    }

    for index, name := range frontend.Config.Keys.Keypad {
        key := byte(index)
        r, ok := common.KeyRune(name)
        if !ok {
            log.Printf("Warning: keypad key %X is bound to '%v' which a terminal cannot send", key, name)
            continue
        }
        bindings = append(bindings, binding{r, func(gui *gocui.Gui, view *gocui.View) error {
            frontend.Input.Press(key)
            return nil
        }})
    }

    for _, binding := range bindings {
        err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler)
        if err != nil {
            return err
        }
    }

    return nil
}

/* redraws whenever the machine publishes a new display, and refreshes the
 * registers a few times a second
 */
func (frontend *TerminalFrontend) refresh(gui *gocui.Gui, toDraw <-chan *chip8.Display, bufferReady chan<- *chip8.Display){
    registerTicker := time.NewTicker(time.Second / 4)
    defer registerTicker.Stop()

    for {
        select {
            case <-frontend.Quit.Done():
                return
            case display := <-toDraw:
                text := renderHalfBlocks(display)
                bufferReady <- display
                gui.Update(func(gui *gocui.Gui) error {
                    view, err := gui.View("screen")
                    if err != nil {
                        return nil
                    }
                    view.Clear()
                    fmt.Fprint(view, text)
                    return nil
                })
            case <-registerTicker.C:
                text, ok := frontend.Control.Debugger.RequestDump(frontend.Quit, 50 * time.Millisecond)
                if ok {
                    frontend.setRegisters(text, false)
                }
                /* an empty update runs the layout, which redraws the status and keypad */
                gui.Update(func(gui *gocui.Gui) error {
                    return nil
                })
        }
    }
}

func checkTerminal() error {
    fd := int(os.Stdout.Fd())
    if !term.IsTerminal(fd) {
        return fmt.Errorf("standard output is not a terminal")
    }
    width, height, err := term.GetSize(fd)
    if err != nil {
        return err
    }
    if width < terminalScreenWidth + 20 || height < terminalScreenHeight + 4 {
        return fmt.Errorf("terminal is %vx%v but needs at least %vx%v", width, height, terminalScreenWidth + 20, terminalScreenHeight + 4)
    }
    return nil
}

/* runs the gocui interface until the user quits or quit is done */
func (frontend *TerminalFrontend) Run(toDraw <-chan *chip8.Display, bufferReady chan<- *chip8.Display) error {
    err := checkTerminal()
    if err != nil {
        return err
    }

    gui, err := gocui.NewGui(gocui.OutputNormal)
    if err != nil {
        return err
    }
    defer gui.Close()

    gui.InputEsc = true
    gui.SetManagerFunc(frontend.layout)

    err = frontend.bindKeys(gui)
    if err != nil {
        return err
    }

    log.SetOutput(&viewWriter{gui: gui, view: "log"})
    defer log.SetOutput(os.Stderr)

    go frontend.refresh(gui, toDraw, bufferReady)

    go func(){
        <-frontend.Quit.Done()
        gui.Update(func(gui *gocui.Gui) error {
            return gocui.ErrQuit
        })
    }()

    err = gui.MainLoop()
    if err != nil && !errors.Is(err, gocui.ErrQuit) {
        return err
    }
    return nil
}
