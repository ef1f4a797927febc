package screenshot

import (
    "fmt"
    "image"
    "image/png"
    "log"
    "regexp"
    "strconv"

    "github.com/kazzmir/chip8/data"
    chip8 "github.com/kazzmir/chip8/lib"
    "github.com/kazzmir/chip8/lib/script"
    get_screenshot "github.com/kazzmir/chip8/test/screenshot"

    test_utils "github.com/kazzmir/chip8/test/all-test/utils"
)

func loadPng(name string) (image.Image, error) {
    file, err := data.OpenScreenshot(name)
    if err != nil {
        return nil, err
    }
    defer file.Close()

    return png.Decode(file)
}

func compareImage(image1 image.Image, image2 image.Image) bool {
    if !image1.Bounds().Eq(image2.Bounds()) {
        return false
    }

    width := image1.Bounds().Dx()
    height := image1.Bounds().Dy()

    for x := 0; x < width; x++ {
        for y := 0; y < height; y++ {
            r1, g1, b1, a1 := image1.At(x, y).RGBA()
            r2, g2, b2, a2 := image2.At(x, y).RGBA()

            if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
                return false
            }
        }
    }

    return true
}

/* runs the rom named in the screenshot for the steps in its name and
 * compares the display
 */
func testPng(name string, debug bool) (bool, error) {
    regex := regexp.MustCompile(`^(.*)-(\d+)\.png$`)
    matches := regex.FindStringSubmatch(name)
    if matches == nil {
        return true, nil
    }

    romName := matches[1]
    steps, err := strconv.ParseUint(matches[2], 10, 64)
    if err != nil {
        return false, err
    }

    expectedImage, err := loadPng(name)
    if err != nil {
        return false, err
    }

    rom, err := data.ReadRom(romName)
    if err != nil {
        return false, err
    }

    var input chip8.HostInput
    if source, ok := data.ReadScript(romName); ok {
        scriptInput, err := script.Load(source, romName + ".lua")
        if err != nil {
            return false, err
        }
        input = scriptInput
    }

    if debug {
        log.Printf("Test rom %v steps %v", romName, steps)
    }

    cpu, err := get_screenshot.Run(rom, steps, input)
    if err != nil {
        return false, fmt.Errorf("%v crashed: %w", romName, err)
    }

    if !compareImage(expectedImage, get_screenshot.DisplayToImage(&cpu.Display)) {
        log.Print(test_utils.Failure(name))
        if debug {
            log.Printf("Display was\n%v", cpu.Display.String())
        }
        return false, nil
    }

    log.Print(test_utils.Success(name))
    return true, nil
}

func Run(debug bool) (bool, error) {
    allOk := true
    for _, name := range data.ScreenshotNames() {
        ok, err := testPng(name, debug)
        if err != nil {
            return false, err
        }
        allOk = allOk && ok
    }

    return allOk, nil
}
