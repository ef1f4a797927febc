package main

import (
    "fmt"
    "log"
    "os"
    "path/filepath"
    "strconv"

    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/lib/script"
    "github.com/kazzmir/chip8/test/screenshot"

    "image/png"
)

func removeExtension(path string) string {
    extension := filepath.Ext(path)
    return path[0:len(path)-len(extension)]
}

func saveScreen(rom string, steps uint64, display *chip8.Display) error {
    romName := removeExtension(filepath.Base(rom))
    imagePath := fmt.Sprintf("images/%v-%v.png", romName, steps)

    out, err := os.Create(imagePath)
    if err != nil {
        return err
    }
    defer out.Close()

    err = png.Encode(out, screenshot.DisplayToImage(display))
    if err != nil {
        return err
    }

    log.Printf("Saved screenshot to %v", imagePath)

    return nil
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    if len(os.Args) <= 2 {
        log.Printf("Give a program file, a number of steps to run for and optionally a lua keypad script")
        return
    }

    path := os.Args[1]
    steps, err := strconv.ParseUint(os.Args[2], 10, 64)
    if err != nil {
        log.Printf("Could not parse steps as an integer '%v': %v", os.Args[2], err)
        return
    }

    if steps == 0 {
        log.Printf("Give a positive number of steps")
        return
    }

    program, err := chip8.ReadProgramFile(path)
    if err != nil {
        log.Printf("Error: %v", err)
        return
    }

    var input chip8.HostInput
    if len(os.Args) > 3 {
        scriptInput, err := script.LoadFile(os.Args[3])
        if err != nil {
            log.Printf("Could not load script: %v", err)
            return
        }
        input = scriptInput
    }

    cpu, err := screenshot.Run(program.Data, steps, input)
    if err != nil {
        log.Printf("Error: %v", err)
        if cpu == nil {
            return
        }
    }

    err = saveScreen(path, steps, &cpu.Display)
    if err != nil {
        log.Printf("Could not save screenshot: %v", err)
    }
}
