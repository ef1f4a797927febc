package lib

import (
    "bytes"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"
)

func TestReadProgramFile(test *testing.T){
    path := filepath.Join(test.TempDir(), "maze.ch8")
    err := os.WriteFile(path, []byte{0x00, 0xE0, 0x12, 0x00}, 0644)
    if err != nil {
        test.Fatalf("could not write program: %v", err)
    }

    program, err := ReadProgramFile(path)
    if err != nil {
        test.Fatalf("could not read program: %v", err)
    }
    if program.Name() != "maze" {
        test.Fatalf("unexpected name %v", program.Name())
    }
    if !bytes.Equal(program.Data, []byte{0x00, 0xE0, 0x12, 0x00}) {
        test.Fatalf("unexpected data % x", program.Data)
    }

    cpu := StartupState()
    err = cpu.LoadProgram(program.Data)
    if err != nil {
        test.Fatalf("could not load: %v", err)
    }
    if cpu.Data[0x200] != 0x00 || cpu.Data[0x201] != 0xE0 || cpu.Data[0x202] != 0x12 {
        test.Fatalf("program not at 0x200")
    }
}

func TestReadProgramTooLarge(test *testing.T){
    _, err := ReadProgram(bytes.NewReader(make([]byte, MaxProgramSize + 1)))
    if !errors.Is(err, ErrProgramTooLarge) {
        test.Fatalf("expected program too large but got %v", err)
    }

    _, err = ReadProgramFile(filepath.Join(test.TempDir(), "missing.ch8"))
    if err == nil {
        test.Fatalf("expected an error for a missing file")
    }
}

func TestDumpMemory(test *testing.T){
    cpu := StartupState()
    cpu.LoadProgram([]byte{0x00, 0xE0, 0xA2, 0x2A, 0x60, 0x0C})

    var out bytes.Buffer
    err := DumpMemory(&out, &cpu.Memory, 0x200, 0x220)
    if err != nil {
        test.Fatalf("dump failed: %v", err)
    }

    lines := strings.Split(strings.TrimSpace(out.String()), "\n")
    if len(lines) != 2 {
        test.Fatalf("expected two lines but got %v", len(lines))
    }
    if lines[0] != "0200  00E0 A22A 600C 0000 0000 0000 0000 0000" {
        test.Fatalf("unexpected line '%v'", lines[0])
    }
    if !strings.HasPrefix(lines[1], "0210  ") {
        test.Fatalf("unexpected line '%v'", lines[1])
    }
}

func TestDumpCPU(test *testing.T){
    cpu := makeTestCPU(test, []byte{0x22, 0x04, 0x00, 0x00, 0x00, 0xEE})
    runSteps(test, cpu, 1)

    var out bytes.Buffer
    err := cpu.Dump(&out)
    if err != nil {
        test.Fatalf("dump failed: %v", err)
    }

    text := out.String()
    if !strings.Contains(text, "PC:0x204") || !strings.Contains(text, "Stack: 202") {
        test.Fatalf("unexpected dump\n%v", text)
    }
}

func TestKeypadString(test *testing.T){
    input := MakeInput(nil)
    input.Keys[0x1] = true
    input.Keys[0xF] = true

    expected := "1 . . .\n. . . .\n. . . .\n. . . F\n"
    if input.String() != expected {
        test.Fatalf("unexpected keypad\n%v", input.String())
    }
}
