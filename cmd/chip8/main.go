package main

import (
    "context"
    "errors"
    "fmt"
    "log"
    "os"
    "strconv"
    "time"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    "github.com/kazzmir/chip8/cmd/chip8/debug"
    "github.com/kazzmir/chip8/cmd/chip8/thread"
    "github.com/kazzmir/chip8/data"
    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/lib/script"

    "github.com/hajimehoshi/ebiten/v2"
)

type Arguments struct {
    ProgramPath string
    Debug bool
    Terminal bool
    MaxCycles uint64
    Rate uint64
    Seed uint64
    SeedGiven bool
    WindowScale int
    ScriptPath string
    ShiftVx bool
    IndexQuirk bool
    Breakpoints []uint16
    Stopped bool
    SaveConfig bool
    List bool
}

/* a path on disk, or the name of one of the bundled programs */
func loadProgram(path string) (chip8.ProgramFile, error) {
    _, err := os.Stat(path)
    if err == nil {
        return chip8.ReadProgramFile(path)
    }

    rom, romErr := data.ReadRom(path)
    if romErr != nil {
        return chip8.ProgramFile{}, fmt.Errorf("could not open '%v': %w", path, err)
    }
    return chip8.ProgramFile{
        Path: path + data.RomExtension,
        Data: rom,
    }, nil
}

func loadScript(arguments *Arguments) (*script.ScriptInput, error) {
    if arguments.ScriptPath != "" {
        return script.LoadFile(arguments.ScriptPath)
    }
    return nil, nil
}

func makeDebugger(arguments *Arguments) *debug.DefaultDebugger {
    debugger := debug.MakeDebugger(arguments.Stopped)
    for _, pc := range arguments.Breakpoints {
        breakpoint := debugger.AddPCBreakpoint(pc)
        log.Printf("Breakpoint %v at 0x%03X", breakpoint.Id, breakpoint.PC)
    }
    return debugger
}

/* the machine runs in the group until it finishes, crashes and is left
 * alone, or the group is cancelled. finishing ends the whole program
 */
func spawnMachine(group *thread.ThreadGroup, options *MachineOptions, runOptions chip8.RunOptions, control *MachineControl){
    group.SpawnWithError(func(quit context.Context) error {
        defer group.Cancel()
        err := runMachines(quit, options, runOptions, control.Debugger, control.Restart, control.Status)
        if errors.Is(err, chip8.MaxCyclesReached) {
            log.Printf("Stopped after %v cycles", options.MaxCycles)
            return nil
        }
        return err
    })
}

func RunWindow(arguments *Arguments, config common.ConfigData, program chip8.ProgramFile, scriptInput *script.ScriptInput) error {
    group := thread.NewThreadGroup(context.Background())
    defer group.Cancel()

    control := MakeMachineControl(group.Cancel, makeDebugger(arguments))

    engine, err := MakeEngine(group.Context(), control, config)
    if err != nil {
        return err
    }

    beeper, err := playWindowAudio(group, config.BeepFrequency)
    if err != nil {
        log.Printf("Warning: could not set up audio: %v", err)
        beeper = nil
    }

    var input chip8.HostInput = engine.Keyboard
    if scriptInput != nil {
        input = MakeCombineInputs(engine.Keyboard, scriptInput)
    }

    toDraw := make(chan *chip8.Display, 1)
    bufferReady := make(chan *chip8.Display, 2)
    for range 2 {
        display := chip8.MakeDisplay()
        bufferReady <- &display
    }
    engine.ToDraw = toDraw
    engine.BufferReady = bufferReady

    options := MachineOptions{
        Program: program,
        Config: config,
        Seed: arguments.Seed,
        MaxCycles: arguments.MaxCycles,
        Debug: arguments.Debug,
        Input: input,
    }

    spawnMachine(group, &options, chip8.RunOptions{
        Actions: control.Actions,
        ToDraw: toDraw,
        BufferReady: bufferReady,
        Beeper: beeper,
    }, control)

    ebiten.SetWindowTitle(fmt.Sprintf("chip8 - %v", program.Name()))
    ebiten.SetWindowSize(chip8.DisplayWidth * config.WindowScale, chip8.DisplayHeight * config.WindowScale)
    ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

    log.Printf("Keypad %v", engine.KeypadHelp())

    err = ebiten.RunGame(engine)
    group.Cancel()
    waitErr := group.Wait()
    if err != nil {
        return err
    }
    return waitErr
}

func RunTerminal(arguments *Arguments, config common.ConfigData, program chip8.ProgramFile, scriptInput *script.ScriptInput) error {
    group := thread.NewThreadGroup(context.Background())
    defer group.Cancel()

    control := MakeMachineControl(group.Cancel, makeDebugger(arguments))
    terminalInput := MakeTerminalInput()

    beeper, err := playTerminalAudio(group, config.BeepFrequency)
    if err != nil {
        log.Printf("Warning: could not set up audio: %v", err)
        beeper = nil
    }

    var input chip8.HostInput = terminalInput
    if scriptInput != nil {
        input = MakeCombineInputs(terminalInput, scriptInput)
    }

    /* the terminal hands the buffer back right after rendering it */
    toDraw := make(chan *chip8.Display, 1)
    bufferReady := make(chan *chip8.Display, 1)
    display := chip8.MakeDisplay()
    bufferReady <- &display

    options := MachineOptions{
        Program: program,
        Config: config,
        Seed: arguments.Seed,
        MaxCycles: arguments.MaxCycles,
        Debug: arguments.Debug,
        Input: input,
    }

    spawnMachine(group, &options, chip8.RunOptions{
        Actions: control.Actions,
        ToDraw: toDraw,
        BufferReady: bufferReady,
        Beeper: beeper,
    }, control)

    frontend := TerminalFrontend{
        Control: control,
        Input: terminalInput,
        Config: config,
        Quit: group.Context(),
    }

    err = frontend.Run(toDraw, bufferReady)
    group.Cancel()
    waitErr := group.Wait()
    if err != nil {
        return err
    }
    return waitErr
}

func parseArguments(args []string) (Arguments, error) {
    var arguments Arguments

    nextUint := func(index *int, name string) (uint64, error) {
        *index += 1
        if *index >= len(args) {
            return 0, fmt.Errorf("expected a number for %v", name)
        }
        value, err := strconv.ParseUint(args[*index], 0, 64)
        if err != nil {
            return 0, fmt.Errorf("error parsing %v: %w", name, err)
        }
        return value, nil
    }

    argIndex := 0
    for argIndex < len(args) {
        arg := args[argIndex]
        var err error
        switch arg {
            case "-debug", "--debug":
                arguments.Debug = true
            case "-terminal", "--terminal":
                arguments.Terminal = true
            case "-size", "--size":
                var size uint64
                size, err = nextUint(&argIndex, "-size")
                arguments.WindowScale = int(size)
            case "-cycles", "--cycles":
                arguments.MaxCycles, err = nextUint(&argIndex, "-cycles")
            case "-rate", "--rate":
                arguments.Rate, err = nextUint(&argIndex, "-rate")
            case "-seed", "--seed":
                arguments.Seed, err = nextUint(&argIndex, "-seed")
                arguments.SeedGiven = true
            case "-script", "--script":
                argIndex += 1
                if argIndex >= len(args) {
                    return arguments, fmt.Errorf("expected a lua file for -script")
                }
                arguments.ScriptPath = args[argIndex]
            case "-shift-vx", "--shift-vx":
                arguments.ShiftVx = true
            case "-index-quirk", "--index-quirk":
                arguments.IndexQuirk = true
            case "-break", "--break":
                argIndex += 1
                if argIndex >= len(args) {
                    return arguments, fmt.Errorf("expected an address for -break")
                }
                var pc uint16
                pc, err = parseAddress(args[argIndex])
                arguments.Breakpoints = append(arguments.Breakpoints, pc)
            case "-stopped", "--stopped":
                arguments.Stopped = true
            case "-save-config", "--save-config":
                arguments.SaveConfig = true
            case "-list", "--list":
                arguments.List = true
            default:
                arguments.ProgramPath = arg
        }
        if err != nil {
            return arguments, err
        }

        argIndex += 1
    }

    return arguments, nil
}

/* command line options override the config file */
func applyArguments(config common.ConfigData, arguments *Arguments) common.ConfigData {
    if arguments.Rate > 0 {
        config.Rate = arguments.Rate
    }
    if arguments.WindowScale > 0 {
        config.WindowScale = arguments.WindowScale
    }
    if arguments.ShiftVx {
        config.Quirks.ShiftSourceVy = false
    }
    if arguments.IndexQuirk {
        config.Quirks.LoadStoreIncrementsIndex = true
    }
    return config
}

func help(){
    fmt.Printf("chip8 [options] <program.ch8 | bundled program>\n")
    fmt.Printf("  -debug           log every instruction\n")
    fmt.Printf("  -terminal        draw in the terminal instead of a window\n")
    fmt.Printf("  -size <n>        window scale\n")
    fmt.Printf("  -cycles <n>      stop after n steps\n")
    fmt.Printf("  -rate <n>        instructions per second\n")
    fmt.Printf("  -seed <n>        seed for the random number generator\n")
    fmt.Printf("  -script <file>   lua script that presses keypad keys\n")
    fmt.Printf("  -shift-vx        8XY6 and 8XYE shift VX instead of VY\n")
    fmt.Printf("  -index-quirk     FX55 and FX65 advance I\n")
    fmt.Printf("  -break <addr>    stop in the debugger when PC reaches addr\n")
    fmt.Printf("  -stopped         start stopped in the debugger\n")
    fmt.Printf("  -save-config     write the config file with the options given\n")
    fmt.Printf("  -list            show the bundled programs\n")
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    arguments, err := parseArguments(os.Args[1:])
    if err != nil {
        log.Fatalf("%v", err)
    }

    if !arguments.SeedGiven {
        arguments.Seed = uint64(time.Now().UnixNano())
    }

    if arguments.List {
        for _, name := range data.RomNames() {
            fmt.Printf("%v\n", name)
        }
        return
    }

    config, err := common.LoadConfigData()
    if err != nil {
        log.Printf("Could not load config, using the defaults: %v", err)
        config = common.DefaultConfigData()
    }
    config = applyArguments(config, &arguments)

    if arguments.SaveConfig {
        err := common.SaveConfigData(config)
        if err != nil {
            log.Printf("Could not save config: %v", err)
        } else {
            log.Printf("Saved config")
        }
    }

    if arguments.ProgramPath == "" {
        help()
        return
    }

    program, err := loadProgram(arguments.ProgramPath)
    if err != nil {
        log.Printf("Error: %v", err)
        os.Exit(1)
    }

    scriptInput, err := loadScript(&arguments)
    if err != nil {
        log.Printf("Could not load script: %v", err)
        os.Exit(1)
    }
    if scriptInput != nil {
        log.Printf("Script has %v presses, the last one ends at step %v", len(scriptInput.Presses), scriptInput.End())
    }

    if arguments.Terminal {
        err = RunTerminal(&arguments, config, program, scriptInput)
    } else {
        err = RunWindow(&arguments, config, program, scriptInput)
    }

    if err != nil {
        log.Printf("Error: %v", err)
        os.Exit(1)
    }
    log.Printf("Bye")
}
