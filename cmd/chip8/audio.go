package main

import (
    "log"
    "time"

    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/cmd/chip8/thread"

    audiolib "github.com/hajimehoshi/ebiten/v2/audio"
    "github.com/ebitengine/oto/v3"
)

const AudioSampleRate = 44100

/* plays the beeper through ebiten's audio context until the group is done.
 * ebiten mixes in stereo so the beeper writes two channels
 */
func playWindowAudio(group *thread.ThreadGroup, frequency int) (*chip8.Beeper, error) {
    beeper := chip8.MakeBeeper(AudioSampleRate, 2, frequency)

    audio := audiolib.NewContext(AudioSampleRate)
    player, err := audio.NewPlayerF32(beeper)
    if err != nil {
        return nil, err
    }
    player.SetBufferSize(time.Millisecond * 50)
    player.Play()

    group.Spawn(func(){
        <-group.Done()
        player.Pause()
    })

    return beeper, nil
}

/* plays the beeper through oto directly, for the terminal frontend where
 * there is no ebiten game running
 */
func playTerminalAudio(group *thread.ThreadGroup, frequency int) (*chip8.Beeper, error) {
    beeper := chip8.MakeBeeper(AudioSampleRate, 1, frequency)

    audio, ready, err := oto.NewContext(&oto.NewContextOptions{
        SampleRate: AudioSampleRate,
        ChannelCount: 1,
        Format: oto.FormatFloat32LE,
        BufferSize: time.Millisecond * 50,
    })
    if err != nil {
        return nil, err
    }

    group.Spawn(func(){
        select {
            case <-ready:
            case <-group.Done():
                return
        }
        player := audio.NewPlayer(beeper)
        player.Play()
        <-group.Done()
        player.Pause()
        err := player.Close()
        if err != nil {
            log.Printf("Could not close audio player: %v", err)
        }
    })

    return beeper, nil
}
