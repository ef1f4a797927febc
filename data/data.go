package data

import (
    "embed"
    "io/fs"
    "path"
    "sort"
    "strings"
)

/* small programs that ship with the emulator. each one is a raw program
 * image that loads at 0x200
 */
//go:embed roms/*
var RomsFS embed.FS

/* reference displays named <rom>-<steps>.png */
//go:embed screenshots/*
var ScreenshotFS embed.FS

/* keypad scripts named after the rom they drive */
//go:embed scripts/*
var ScriptsFS embed.FS

const RomExtension = ".ch8"

func RomNames() []string {
    entries, err := fs.ReadDir(RomsFS, "roms")
    if err != nil {
        return nil
    }

    var out []string
    for _, entry := range entries {
        if strings.HasSuffix(entry.Name(), RomExtension) {
            out = append(out, strings.TrimSuffix(entry.Name(), RomExtension))
        }
    }
    sort.Strings(out)
    return out
}

func ReadRom(name string) ([]byte, error) {
    return RomsFS.ReadFile(path.Join("roms", strings.TrimSuffix(name, RomExtension) + RomExtension))
}

/* the lua script for a rom, if there is one */
func ReadScript(rom string) (string, bool) {
    data, err := ScriptsFS.ReadFile(path.Join("scripts", rom + ".lua"))
    if err != nil {
        return "", false
    }
    return string(data), true
}

func ScreenshotNames() []string {
    entries, err := fs.ReadDir(ScreenshotFS, "screenshots")
    if err != nil {
        return nil
    }

    var out []string
    for _, entry := range entries {
        if path.Ext(entry.Name()) == ".png" {
            out = append(out, entry.Name())
        }
    }
    sort.Strings(out)
    return out
}

func OpenScreenshot(name string) (fs.File, error) {
    return ScreenshotFS.Open(path.Join("screenshots", name))
}
