package lib

import (
    "encoding/binary"
    "math"
    "sync/atomic"
)

const DefaultBeepFrequency = 440

/* how many input clocks must pass before the output flips */
type Divider struct {
    ClockPeriod uint32
    Count uint32
}

func (divider *Divider) Reset() {
    divider.Count = divider.ClockPeriod
}

/* returns true if an output clock was generated */
func (divider *Divider) Clock() bool {
    if divider.Count > 0 {
        divider.Count -= 1
    }
    if divider.Count == 0 {
        divider.Reset()
        return true
    }
    return false
}

/* A square wave that is audible while the sound timer is non-zero. The
 * machine goroutine flips it on and off with SetActive and the audio
 * backend pulls float32 little endian samples out of it through Read.
 */
type Beeper struct {
    SampleRate int
    Channels int
    Volume float32

    active atomic.Bool
    divider Divider
    high bool
}

func MakeBeeper(sampleRate int, channels int, frequency int) *Beeper {
    if channels < 1 {
        channels = 1
    }
    if frequency <= 0 {
        frequency = DefaultBeepFrequency
    }

    /* the output flips twice per period */
    period := uint32(sampleRate / (frequency * 2))
    if period == 0 {
        period = 1
    }

    beeper := Beeper{
        SampleRate: sampleRate,
        Channels: channels,
        Volume: 0.2,
        divider: Divider{ClockPeriod: period},
    }
    beeper.divider.Reset()
    return &beeper
}

func (beeper *Beeper) SetActive(active bool) {
    beeper.active.Store(active)
}

func (beeper *Beeper) Active() bool {
    return beeper.active.Load()
}

func (beeper *Beeper) nextSample() float32 {
    if beeper.divider.Clock() {
        beeper.high = !beeper.high
    }

    if !beeper.active.Load() {
        return 0
    }

    if beeper.high {
        return beeper.Volume
    }
    return -beeper.Volume
}

/* fills data with whole frames, one float32 per channel */
func (beeper *Beeper) Read(data []byte) (int, error) {
    frameSize := 4 * beeper.Channels
    frames := len(data) / frameSize

    offset := 0
    for frame := 0; frame < frames; frame++ {
        bits := math.Float32bits(beeper.nextSample())
        for channel := 0; channel < beeper.Channels; channel++ {
            binary.LittleEndian.PutUint32(data[offset:], bits)
            offset += 4
        }
    }

    return offset, nil
}
