package lib

import (
    "context"
    "errors"
    "log"
    "time"
)

var MaxCyclesReached error = errors.New("maximum cycles reached")

/* run the host timer at this frequency so that the budget doesn't
 * tick too fast. anything from 1ms to 10ms works
 */
const HostTick = 5 * time.Millisecond

type EmulatorAction int
const (
    EmulatorNothing EmulatorAction = iota // just a default value that has no behavior
    EmulatorNormal
    EmulatorTurbo
    EmulatorSlowDown
    EmulatorSpeedUp
    EmulatorTogglePause
    EmulatorSetPause
    EmulatorUnpause
)

/* called before every step. an implementation may block, for example
 * while the user single steps, but must return once quit is done
 */
type Debugger interface {
    Handle(quit context.Context, cpu *CPUState)
}

type RunOptions struct {
    /* instructions per second, 0 keeps the rate the cpu already has */
    Rate uint64
    /* stop with MaxCyclesReached after this many steps, 0 means never */
    MaxCycles uint64
    /* run as fast as possible without pacing */
    Infinite bool

    Actions <-chan EmulatorAction

    /* double buffering with the renderer. the renderer puts an unused
     * display into BufferReady and receives it back filled in on ToDraw
     */
    ToDraw chan<- *Display
    BufferReady <-chan *Display

    Beeper *Beeper
    Debugger Debugger
}

/* Runs the cpu paced to the configured instruction rate until quit is
 * done (returns nil), the cpu crashes (returns its fault) or MaxCycles
 * steps have executed (returns MaxCyclesReached).
 */
func RunMachine(quit context.Context, cpu *CPUState, options RunOptions) error {
    if options.Rate > 0 {
        cpu.SetRate(options.Rate)
    }

    /* steps that may run per host tick */
    cycleDiff := float64(cpu.Timers.Rate) * HostTick.Seconds()

    cycleTimer := time.NewTicker(HostTick)
    defer cycleTimer.Stop()

    var cycleCounter float64
    turboMultiplier := float64(1)
    paused := false

    beep := func(active bool){
        if options.Beeper != nil {
            options.Beeper.SetActive(active)
        }
    }
    defer beep(false)

    for quit.Err() == nil {
        if options.MaxCycles > 0 && cpu.Cycle >= options.MaxCycles {
            if cpu.Debug > 0 {
                log.Printf("Maximum cycles %v reached", options.MaxCycles)
            }
            return MaxCyclesReached
        }

        if options.Infinite {
            cycleCounter = 1

            /* ignore anything on the actions channel, but dont let it fill up */
            select {
                case <-options.Actions:
                default:
            }
        }

        for cycleCounter <= 0 {
            select {
                case <-quit.Done():
                    return nil
                case action := <-options.Actions:
                    switch action {
                        case EmulatorNothing:
                        case EmulatorNormal:
                            turboMultiplier = 1
                        case EmulatorTurbo:
                            turboMultiplier = 3
                        case EmulatorSlowDown:
                            turboMultiplier -= 0.1
                            if turboMultiplier < 0.1 {
                                turboMultiplier = 0.1
                            }
                        case EmulatorSpeedUp:
                            turboMultiplier += 0.1
                        case EmulatorTogglePause:
                            paused = !paused
                        case EmulatorSetPause:
                            paused = true
                        case EmulatorUnpause:
                            paused = false
                    }
                    if cpu.Debug > 0 {
                        log.Printf("Emulator speed %v paused %v", turboMultiplier, paused)
                    }
                case <-cycleTimer.C:
                    cycleCounter += cycleDiff * turboMultiplier
            }

            if paused {
                cycleCounter = 0
                beep(false)
            }
        }

        if options.Debugger != nil {
            options.Debugger.Handle(quit, cpu)
            if quit.Err() != nil {
                return nil
            }
        }

        ticked, err := cpu.Step()
        if err != nil {
            return err
        }

        cycleCounter -= 1

        if ticked {
            beep(cpu.Timers.SoundActive())

            if options.ToDraw != nil && cpu.Display.Dirty() {
                select {
                    case buffer := <-options.BufferReady:
                        buffer.CopyFrom(&cpu.Display)
                        cpu.Display.ClearDirty()
                        select {
                            case options.ToDraw <- buffer:
                            case <-quit.Done():
                                return nil
                        }
                    default:
                }
            }
        }
    }

    return nil
}
