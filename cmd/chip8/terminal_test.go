package main

import (
    "strings"
    "testing"

    "github.com/kazzmir/chip8/cmd/chip8/common"
    chip8 "github.com/kazzmir/chip8/lib"
)

func TestRenderHalfBlocks(test *testing.T){
    display := chip8.MakeDisplay()
    /* (0,0) and (0,1) are both lit, (1,0) only the top, (2,1) only the bottom */
    display.CompositeSprite(chip8.MakeSprite([]byte{0xC0, 0xA0}, 0, 0))

    lines := strings.Split(strings.TrimSuffix(renderHalfBlocks(&display), "\n"), "\n")
    if len(lines) != chip8.DisplayHeight / 2 {
        test.Fatalf("expected %v lines but got %v", chip8.DisplayHeight / 2, len(lines))
    }

    first := []rune(lines[0])
    if len(first) != chip8.DisplayWidth {
        test.Fatalf("expected %v columns but got %v", chip8.DisplayWidth, len(first))
    }
    if first[0] != '█' || first[1] != '▀' || first[2] != '▄' || first[3] != ' ' {
        test.Fatalf("unexpected first line %q", string(first[0:4]))
    }
    if strings.TrimSpace(lines[1]) != "" {
        test.Fatalf("second line should be empty")
    }
}

func TestRenderKeypad(test *testing.T){
    var keys chip8.KeyState
    keys[0x5] = true

    text := renderKeypad(keys, common.DefaultKeypad())
    lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
    if len(lines) != 4 {
        test.Fatalf("expected 4 rows but got %v", len(lines))
    }
    if !strings.Contains(lines[1], "[5]w") {
        test.Fatalf("key 5 should be shown as held and bound to w: %q", lines[1])
    }
    if !strings.HasPrefix(lines[0], " 1 1") {
        test.Fatalf("unexpected first row %q", lines[0])
    }
}
