package common

import (
    "os"
    "fmt"
    "log"
    "strings"
    "image/color"
    "encoding/json"
    "path/filepath"

    chip8 "github.com/kazzmir/chip8/lib"
)

const CurrentVersion = 1

/* host key names, as understood by ebiten.Key.UnmarshalText */
type ConfigKeys struct {
    Turbo string `json:"turbo,omitempty"`
    Pause string `json:"pause,omitempty"`
    HardReset string `json:"hard-reset,omitempty"`
    Dump string `json:"dump,omitempty"`
    Console string `json:"console,omitempty"`
    Quit string `json:"quit,omitempty"`

    /* index i is the host key for keypad key i */
    Keypad [chip8.KeyCount]string `json:"keypad"`
}

type ConfigQuirks struct {
    ShiftSourceVy bool `json:"shift-source-vy"`
    LoadStoreIncrementsIndex bool `json:"load-store-increments-index"`
}

type ConfigData struct {
    Version int `json:"version,omitempty"`
    /* instructions per second */
    Rate uint64 `json:"rate,omitempty"`
    WindowScale int `json:"window-scale,omitempty"`
    Foreground string `json:"foreground,omitempty"`
    Background string `json:"background,omitempty"`
    BeepFrequency int `json:"beep-frequency,omitempty"`
    Quirks ConfigQuirks `json:"quirks"`
    Keys ConfigKeys `json:"keys"`
}

func (data *ConfigData) CoreQuirks() chip8.Quirks {
    return chip8.Quirks{
        ShiftSourceVy: data.Quirks.ShiftSourceVy,
        LoadStoreIncrementsIndex: data.Quirks.LoadStoreIncrementsIndex,
    }
}

/* make the directory where the config file lives, which is ~/.config/jon-chip8 on linux */
func GetOrCreateConfigDir() (string, error) {
    configDir, err := os.UserConfigDir()
    if err != nil {
        return "", err
    }
    configPath := filepath.Join(configDir, "jon-chip8")
    err = os.MkdirAll(configPath, 0755)
    if err != nil {
        return "", err
    }

    return configPath, nil
}

/*
 * 1 2 3 C      1 2 3 4
 * 4 5 6 D  ->  Q W E R
 * 7 8 9 E      A S D F
 * A 0 B F      Z X C V
 */
func DefaultKeypad() [chip8.KeyCount]string {
    return [chip8.KeyCount]string{
        0x0: "X",
        0x1: "Digit1",
        0x2: "Digit2",
        0x3: "Digit3",
        0x4: "Q",
        0x5: "W",
        0x6: "E",
        0x7: "A",
        0x8: "S",
        0x9: "D",
        0xA: "Z",
        0xB: "C",
        0xC: "Digit4",
        0xD: "R",
        0xE: "F",
        0xF: "V",
    }
}

func DefaultConfigData() ConfigData {
    quirks := chip8.DefaultQuirks()
    return ConfigData{
        Version: CurrentVersion,
        Rate: chip8.DefaultInstructionRate,
        WindowScale: 10,
        Foreground: "#33ff66",
        Background: "#101010",
        BeepFrequency: chip8.DefaultBeepFrequency,
        Quirks: ConfigQuirks{
            ShiftSourceVy: quirks.ShiftSourceVy,
            LoadStoreIncrementsIndex: quirks.LoadStoreIncrementsIndex,
        },
        Keys: ConfigKeys{
            Turbo: "Backquote",
            Pause: "P",
            HardReset: "F2",
            Dump: "F3",
            Console: "F1",
            Quit: "Escape",
            Keypad: DefaultKeypad(),
        },
    }
}

func LoadConfigDataFrom(configPath string) (ConfigData, error) {
    config := filepath.Join(configPath, "config.json")
    file, err := os.Open(config)
    if err != nil {
        return DefaultConfigData(), err
    }
    defer file.Close()

    data := DefaultConfigData()
    decoder := json.NewDecoder(file)
    err = decoder.Decode(&data)
    if err != nil {
        log.Printf("Could not load config data: %v", err)
        return DefaultConfigData(), err
    }

    if data.Version != CurrentVersion {
        return DefaultConfigData(), nil
    }

    return data, nil
}

func LoadConfigData() (ConfigData, error) {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return DefaultConfigData(), err
    }
    return LoadConfigDataFrom(configPath)
}

func SaveConfigDataTo(configPath string, data ConfigData) error {
    config := filepath.Join(configPath, "config.json")

    file, err := os.Create(config)
    if err != nil {
        return err
    }
    defer file.Close()

    encoder := json.NewEncoder(file)
    encoder.SetIndent("", "  ")
    return encoder.Encode(data)
}

/* create the config.json file in the config dir */
func SaveConfigData(data ConfigData) error {
    configPath, err := GetOrCreateConfigDir()
    if err != nil {
        return err
    }
    return SaveConfigDataTo(configPath, data)
}

/* parses #rrggbb */
func ParseColor(value string) (color.RGBA, error) {
    var out color.RGBA
    value = strings.TrimPrefix(strings.TrimSpace(value), "#")
    if len(value) != 6 {
        return out, fmt.Errorf("invalid color '%v'", value)
    }
    _, err := fmt.Sscanf(value, "%02x%02x%02x", &out.R, &out.G, &out.B)
    if err != nil {
        return out, fmt.Errorf("invalid color '%v': %w", value, err)
    }
    out.A = 255
    return out, nil
}

/* the character a terminal sends for a key name, for the keys that have one.
 * letters are lower case
 */
func KeyRune(name string) (rune, bool) {
    if strings.HasPrefix(name, "Digit") && len(name) == 6 {
        return rune(name[5]), true
    }
    if len(name) == 1 {
        return []rune(strings.ToLower(name))[0], true
    }
    switch name {
        case "Backquote": return '`', true
        case "Space": return ' ', true
        case "Minus": return '-', true
        case "Equal": return '=', true
        case "Comma": return ',', true
        case "Period": return '.', true
        case "Slash": return '/', true
        case "Semicolon": return ';', true
    }
    return 0, false
}
