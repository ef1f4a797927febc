package lib

const TimerFrequency = 60

/* The delay and sound counters drop by one at 60Hz while non-zero.
 *
 * The rate is derived from the number of executed instructions rather than
 * the host clock (cycle-ratio gating): every instruction adds TimerFrequency
 * to the accumulator and each time the accumulator reaches the instruction
 * rate a 60Hz tick happens. At 300 instructions per second that is exactly
 * one tick every 5 instructions, and for rates that are not a multiple of 60
 * the ticks still average out to 60 per emulated second. Below 60
 * instructions per second a single instruction covers several ticks. The result only
 * depends on the instruction count, so runs are reproducible.
 */
type Timers struct {
    Delay byte
    Sound byte

    Rate uint64
    accumulator uint64
}

func MakeTimers(instructionRate uint64) Timers {
    if instructionRate == 0 {
        instructionRate = TimerFrequency
    }
    return Timers{
        Rate: instructionRate,
    }
}

/* account for one executed instruction. returns true if at least one 60Hz
 * tick happened. below 60 instructions per second one instruction covers
 * more than one tick, so the counters can drop by more than one
 */
func (timers *Timers) Tick() bool {
    if timers.Rate == 0 {
        timers.Rate = TimerFrequency
    }
    timers.accumulator += TimerFrequency

    ticked := false
    for timers.accumulator >= timers.Rate {
        timers.accumulator -= timers.Rate
        ticked = true

        if timers.Delay > 0 {
            timers.Delay -= 1
        }
        if timers.Sound > 0 {
            timers.Sound -= 1
        }
    }

    return ticked
}

func (timers *Timers) SetRate(instructionRate uint64) {
    if instructionRate == 0 {
        instructionRate = TimerFrequency
    }
    timers.Rate = instructionRate
    timers.accumulator = 0
}

func (timers *Timers) SoundActive() bool {
    return timers.Sound > 0
}
