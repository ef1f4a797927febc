package lib

import (
    "strings"
)

const DisplayWidth = 64
const DisplayHeight = 32

const MaxSpriteRows = 15

/* one byte per row, the most significant bit is the leftmost pixel */
type Sprite struct {
    Rows []byte
    X int
    Y int
}

func MakeSprite(rows []byte, x int, y int) Sprite {
    return Sprite{
        Rows: rows,
        X: x,
        Y: y,
    }
}

/* row-major grid of pixels. only Clear and CompositeSprite change it */
type Display struct {
    Pixels [DisplayWidth * DisplayHeight]bool
    dirty bool
}

func MakeDisplay() Display {
    return Display{
        dirty: true,
    }
}

func (display *Display) Clear() {
    for i := range display.Pixels {
        display.Pixels[i] = false
    }
    display.dirty = true
}

func (display *Display) Get(x int, y int) bool {
    return display.Pixels[wrap(y, DisplayHeight) * DisplayWidth + wrap(x, DisplayWidth)]
}

func wrap(value int, size int) int {
    value = value % size
    if value < 0 {
        value += size
    }
    return value
}

/* XOR the sprite onto the grid. coordinates wrap around both edges.
 * returns true if any pixel went from set to unset, which is how
 * programs detect collisions.
 */
func (display *Display) CompositeSprite(sprite Sprite) bool {
    erased := false
    for i, row := range sprite.Rows {
        y := wrap(sprite.Y + i, DisplayHeight)
        for j := 0; j < 8; j++ {
            bit := (row >> j) & 0x1
            if bit == 0 {
                continue
            }
            x := wrap(sprite.X + 7 - j, DisplayWidth)
            index := y * DisplayWidth + x
            if display.Pixels[index] {
                erased = true
            }
            display.Pixels[index] = !display.Pixels[index]
        }
    }
    display.dirty = true
    return erased
}

func (display *Display) Dirty() bool {
    return display.dirty
}

func (display *Display) ClearDirty() {
    display.dirty = false
}

func (display *Display) CopyFrom(other *Display) {
    display.Pixels = other.Pixels
    display.dirty = other.dirty
}

func (display *Display) Equals(other *Display) bool {
    return display.Pixels == other.Pixels
}

func (display *Display) Count() int {
    count := 0
    for _, pixel := range display.Pixels {
        if pixel {
            count += 1
        }
    }
    return count
}

/* '#' for a set pixel and '.' otherwise, one line per row */
func (display *Display) String() string {
    var out strings.Builder
    for y := 0; y < DisplayHeight; y++ {
        for x := 0; x < DisplayWidth; x++ {
            if display.Pixels[y * DisplayWidth + x] {
                out.WriteByte('#')
            } else {
                out.WriteByte('.')
            }
        }
        out.WriteByte('\n')
    }
    return out.String()
}
