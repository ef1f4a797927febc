package screenshot

import (
    "image"
    "image/color"

    chip8 "github.com/kazzmir/chip8/lib"
)

var Foreground = color.RGBA{R: 255, G: 255, B: 255, A: 255}
var Background = color.RGBA{R: 0, G: 0, B: 0, A: 255}

func DisplayToImage(display *chip8.Display) image.Image {
    out := image.NewRGBA(image.Rect(0, 0, chip8.DisplayWidth, chip8.DisplayHeight))

    for x := 0; x < chip8.DisplayWidth; x++ {
        for y := 0; y < chip8.DisplayHeight; y++ {
            if display.Get(x, y) {
                out.Set(x, y, Foreground)
            } else {
                out.Set(x, y, Background)
            }
        }
    }

    return out
}

/* Run a program for the given number of steps without pacing and return
 * the machine. input may be nil. a crash stops the run early and is
 * returned along with the machine so the caller can dump it.
 */
func Run(program []byte, steps uint64, input chip8.HostInput) (*chip8.CPUState, error) {
    cpu := chip8.StartupState()
    cpu.Input = chip8.MakeInput(input)

    err := cpu.LoadProgram(program)
    if err != nil {
        return nil, err
    }

    for cpu.Cycle < steps {
        _, err := cpu.Step()
        if err != nil {
            return &cpu, err
        }
    }

    return &cpu, nil
}
