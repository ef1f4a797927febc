package main

import (
    "context"
    "fmt"
    "image/color"
    "log"
    "sort"
    "strings"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/cmd/chip8/common"

    "github.com/hajimehoshi/ebiten/v2"
    "github.com/hajimehoshi/ebiten/v2/inpututil"
    "github.com/hajimehoshi/ebiten/v2/text/v2"
    "golang.design/x/clipboard"
    "golang.org/x/image/font/basicfont"
)

/* how many Update ticks a status message stays on screen */
const messageLife = 180

type Hotkeys struct {
    Turbo ebiten.Key
    Pause ebiten.Key
    HardReset ebiten.Key
    Dump ebiten.Key
    Console ebiten.Key
    Quit ebiten.Key
}

func parseKey(name string) (ebiten.Key, error) {
    var key ebiten.Key
    err := key.UnmarshalText([]byte(name))
    if err != nil {
        return key, fmt.Errorf("unknown key '%v': %w", name, err)
    }
    return key, nil
}

func makeHotkeys(keys common.ConfigKeys) (Hotkeys, error) {
    var hotkeys Hotkeys
    var err error
    for _, binding := range []struct {
        name string
        key *ebiten.Key
    }{
        {keys.Turbo, &hotkeys.Turbo},
        {keys.Pause, &hotkeys.Pause},
        {keys.HardReset, &hotkeys.HardReset},
        {keys.Dump, &hotkeys.Dump},
        {keys.Console, &hotkeys.Console},
        {keys.Quit, &hotkeys.Quit},
    } {
        *binding.key, err = parseKey(binding.name)
        if err != nil {
            return hotkeys, err
        }
    }
    return hotkeys, nil
}

func makeKeypad(names [chip8.KeyCount]string) (map[ebiten.Key]byte, error) {
    out := make(map[ebiten.Key]byte)
    for index, name := range names {
        key, err := parseKey(name)
        if err != nil {
            return nil, err
        }
        out[key] = byte(index)
    }
    return out, nil
}

type Engine struct {
    Keypad map[ebiten.Key]byte
    Hotkeys Hotkeys
    Keyboard *KeyboardInput

    Control *MachineControl

    ToDraw <-chan *chip8.Display
    BufferReady chan<- *chip8.Display
    current *chip8.Display

    Foreground color.RGBA
    Background color.RGBA
    pixels *ebiten.Image
    raw []byte

    Face text.Face
    Console *Console

    Quit context.Context

    messages chan string
    message string
    messageTicks int
    clipboardOK bool
}

func MakeEngine(quit context.Context, control *MachineControl, config common.ConfigData) (*Engine, error) {
    hotkeys, err := makeHotkeys(config.Keys)
    if err != nil {
        return nil, err
    }
    keypad, err := makeKeypad(config.Keys.Keypad)
    if err != nil {
        return nil, err
    }
    foreground, err := common.ParseColor(config.Foreground)
    if err != nil {
        return nil, err
    }
    background, err := common.ParseColor(config.Background)
    if err != nil {
        return nil, err
    }

    clipboardOK := clipboard.Init() == nil
    if !clipboardOK {
        log.Printf("Clipboard is not available")
    }

    return &Engine{
        Keypad: keypad,
        Hotkeys: hotkeys,
        Keyboard: &KeyboardInput{},
        Foreground: foreground,
        Background: background,
        pixels: ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight),
        raw: make([]byte, chip8.DisplayWidth * chip8.DisplayHeight * 4),
        Face: text.NewGoXFace(basicfont.Face7x13),
        Console: MakeConsole(),
        Quit: quit,
        Control: control,
        messages: make(chan string, 5),
        clipboardOK: clipboardOK,
    }, nil
}

func (engine *Engine) ShowMessage(message string) {
    select {
        case engine.messages <- message:
        default:
    }
}

func (engine *Engine) HardReset() {
    if engine.Control.HardReset() {
        engine.ShowMessage("Hard reset")
    }
}

/* copies the machine state to the clipboard without blocking the window */
func (engine *Engine) DumpToClipboard() {
    go func(){
        text, ok := engine.Control.Debugger.RequestDump(engine.Quit, time.Second)
        if !ok {
            engine.ShowMessage("Machine did not answer")
            return
        }
        log.Printf("Machine state\n%v", text)
        if engine.clipboardOK {
            clipboard.Write(clipboard.FmtText, []byte(text))
            engine.ShowMessage("Machine state copied to the clipboard")
        } else {
            engine.ShowMessage("Machine state written to the log")
        }
    }()
}

func (engine *Engine) keypadState() chip8.KeyState {
    var state chip8.KeyState
    for key, index := range engine.Keypad {
        if ebiten.IsKeyPressed(key) {
            state[index] = true
        }
    }
    return state
}

func (engine *Engine) Update() error {
    if engine.Quit.Err() != nil {
        return ebiten.Termination
    }

    select {
        case display := <-engine.ToDraw:
            if engine.current != nil {
                engine.BufferReady <- engine.current
            }
            engine.current = display
        default:
    }

    select {
        case message := <-engine.messages:
            engine.message = message
            engine.messageTicks = messageLife
        default:
            if engine.messageTicks > 0 {
                engine.messageTicks -= 1
            }
    }

    pressed := inpututil.AppendJustPressedKeys(nil)

    if engine.Console.IsActive() {
        /* typing into the console does not press keypad keys */
        engine.Keyboard.Set(chip8.KeyState{})
        engine.Console.Update(engine, pressed, engine.Hotkeys.Console)
        return nil
    }
    engine.Console.Update(engine, nil, engine.Hotkeys.Console)

    for _, key := range pressed {
        switch key {
            case engine.Hotkeys.Quit:
                engine.Control.Quit()
                return ebiten.Termination
            case engine.Hotkeys.Console:
                engine.Console.Toggle()
            case engine.Hotkeys.Turbo:
                engine.Control.SetTurbo(true)
            case engine.Hotkeys.Pause:
                engine.Control.TogglePause()
            case engine.Hotkeys.HardReset:
                engine.HardReset()
            case engine.Hotkeys.Dump:
                engine.DumpToClipboard()
        }
    }

    for _, key := range inpututil.AppendJustReleasedKeys(nil) {
        if key == engine.Hotkeys.Turbo {
            engine.Control.SetTurbo(false)
        }
    }

    engine.Keyboard.Set(engine.keypadState())

    return nil
}

func renderPixelsRGBA(display *chip8.Display, raw []byte, foreground color.RGBA, background color.RGBA) {
    for i, pixel := range display.Pixels {
        use := background
        if pixel {
            use = foreground
        }
        raw[i*4+0] = use.R
        raw[i*4+1] = use.G
        raw[i*4+2] = use.B
        raw[i*4+3] = use.A
    }
}

func (engine *Engine) statusLines() []string {
    var lines []string
    if err := engine.Control.Status.Crash(); err != nil {
        lines = append(lines, fmt.Sprintf("Crashed: %v", err))
        lines = append(lines, "F2 restarts, F3 copies the machine state")
    }
    if engine.Control.IsPaused() {
        lines = append(lines, "Paused")
    }
    if engine.Control.IsTurbo() {
        lines = append(lines, "Turbo")
    }
    if engine.Control.Debugger.IsStopped() {
        lines = append(lines, "Stopped in the debugger")
    }
    if engine.messageTicks > 0 {
        lines = append(lines, engine.message)
    }
    return lines
}

func (engine *Engine) Draw(screen *ebiten.Image) {
    screen.Fill(engine.Background)

    bounds := screen.Bounds()

    if engine.current != nil {
        renderPixelsRGBA(engine.current, engine.raw, engine.Foreground, engine.Background)
        engine.pixels.WritePixels(engine.raw)

        var options ebiten.DrawImageOptions
        options.GeoM.Scale(float64(bounds.Dx()) / chip8.DisplayWidth, float64(bounds.Dy()) / chip8.DisplayHeight)
        screen.DrawImage(engine.pixels, &options)
    }

    lines := engine.statusLines()
    if len(lines) > 0 {
        _, fontHeight := text.Measure("A", engine.Face, 1)
        var textOptions text.DrawOptions
        textOptions.GeoM.Translate(4, float64(bounds.Dy()) - float64(len(lines)) * (fontHeight + 2) - 4)
        textOptions.ColorScale.ScaleWithColor(color.NRGBA{R: 255, G: 80, B: 80, A: 255})
        for _, line := range lines {
            text.Draw(screen, line, engine.Face, &textOptions)
            textOptions.GeoM.Translate(0, fontHeight + 2)
        }
    }

    engine.Console.Render(screen, engine.Face)
}

func (engine *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
    return outsideWidth, outsideHeight
}

/* the keypad bindings as help text, in keypad order */
func (engine *Engine) KeypadHelp() string {
    var parts []string
    for key, index := range engine.Keypad {
        parts = append(parts, fmt.Sprintf("%X=%v", index, key.String()))
    }
    sort.Strings(parts)
    return strings.Join(parts, " ")
}
