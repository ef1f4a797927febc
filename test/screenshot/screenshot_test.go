package screenshot

import (
    "testing"

    chip8 "github.com/kazzmir/chip8/lib"
)

func TestDisplayToImage(test *testing.T){
    display := chip8.MakeDisplay()
    display.CompositeSprite(chip8.MakeSprite([]byte{0x80}, 3, 4))

    out := DisplayToImage(&display)
    if out.Bounds().Dx() != chip8.DisplayWidth || out.Bounds().Dy() != chip8.DisplayHeight {
        test.Fatalf("wrong size %v", out.Bounds())
    }
    if out.At(3, 4) != Foreground {
        test.Fatalf("expected a lit pixel at 3,4")
    }
    if out.At(4, 4) != Background {
        test.Fatalf("expected a dark pixel at 4,4")
    }
}

func TestRunStopsOnCrash(test *testing.T){
    /* RET with an empty stack */
    cpu, err := Run([]byte{0x00, 0xEE}, 10, nil)
    if err == nil {
        test.Fatalf("expected a crash")
    }
    if cpu.Cycle != 1 {
        test.Fatalf("expected the run to stop after 1 step but ran %v", cpu.Cycle)
    }
}
