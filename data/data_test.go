package data

import (
    "testing"
)

func TestRoms(test *testing.T){
    names := RomNames()
    if len(names) != 3 {
        test.Fatalf("expected 3 roms but found %v", names)
    }

    for _, name := range names {
        rom, err := ReadRom(name)
        if err != nil {
            test.Fatalf("could not read %v: %v", name, err)
        }
        if len(rom) == 0 || len(rom) % 2 != 0 {
            test.Fatalf("rom %v has odd size %v", name, len(rom))
        }
    }

    _, err := ReadRom("hexdigits.ch8")
    if err != nil {
        test.Fatalf("extension should be optional: %v", err)
    }
}

func TestScripts(test *testing.T){
    _, ok := ReadScript("keypad")
    if !ok {
        test.Fatalf("expected a script for keypad")
    }
    _, ok = ReadScript("hexdigits")
    if ok {
        test.Fatalf("hexdigits has no script")
    }
}

func TestScreenshots(test *testing.T){
    names := ScreenshotNames()
    if len(names) != 2 {
        test.Fatalf("expected 2 screenshots but found %v", names)
    }
}
