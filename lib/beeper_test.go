package lib

import (
    "encoding/binary"
    "math"
    "testing"
)

func readSamples(test *testing.T, beeper *Beeper, frames int) []float32 {
    data := make([]byte, frames * 4 * beeper.Channels)
    count, err := beeper.Read(data)
    if err != nil {
        test.Fatalf("read failed: %v", err)
    }
    if count != len(data) {
        test.Fatalf("expected %v bytes but got %v", len(data), count)
    }

    var out []float32
    for i := 0; i < count; i += 4 {
        out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
    }
    return out
}

func TestBeeperSilent(test *testing.T){
    beeper := MakeBeeper(44100, 1, 440)
    for _, sample := range readSamples(test, beeper, 1000) {
        if sample != 0 {
            test.Fatalf("inactive beeper produced %v", sample)
        }
    }
}

func TestBeeperSquare(test *testing.T){
    /* 8 samples per half wave */
    beeper := MakeBeeper(800, 1, 50)
    beeper.SetActive(true)

    samples := readSamples(test, beeper, 64)
    flips := 0
    for i := 1; i < len(samples); i++ {
        if samples[i] == 0 {
            test.Fatalf("active beeper produced silence at %v", i)
        }
        if samples[i] != samples[i - 1] {
            flips += 1
        }
    }

    if flips != 8 {
        test.Fatalf("expected 8 flips in 64 samples but got %v", flips)
    }
}

func TestBeeperStereo(test *testing.T){
    beeper := MakeBeeper(44100, 2, 440)
    beeper.SetActive(true)

    samples := readSamples(test, beeper, 100)
    for i := 0; i < len(samples); i += 2 {
        if samples[i] != samples[i + 1] {
            test.Fatalf("channels differ at frame %v", i / 2)
        }
    }
}

func TestBeeperPartialFrame(test *testing.T){
    beeper := MakeBeeper(44100, 2, 440)
    count, _ := beeper.Read(make([]byte, 10))
    if count != 8 {
        test.Fatalf("expected one whole frame of 8 bytes but got %v", count)
    }
}
