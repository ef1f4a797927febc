package lib

import (
    "testing"
)

func testSprites() []Sprite {
    return []Sprite{
        MakeSprite([]byte{0xFF}, 0, 0),
        MakeSprite([]byte{0x81, 0x42, 0x24, 0x18}, 10, 5),
        MakeSprite(FontSet[0:5], 62, 30),
        MakeSprite([]byte{0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA, 0x55, 0xAA}, 60, 20),
    }
}

func TestClearThenComposite(test *testing.T){
    for _, sprite := range testSprites() {
        used := MakeDisplay()
        used.CompositeSprite(MakeSprite([]byte{0xFF, 0xFF, 0xFF}, 3, 3))
        used.Clear()
        collided := used.CompositeSprite(sprite)

        fresh := MakeDisplay()
        freshCollided := fresh.CompositeSprite(sprite)

        if !used.Equals(&fresh) {
            test.Fatalf("clear then composite differs from a fresh composite\n%v\n%v", used.String(), fresh.String())
        }
        if collided || freshCollided {
            test.Fatalf("drawing onto an empty display should not collide")
        }
    }
}

func TestDoubleComposite(test *testing.T){
    for _, sprite := range testSprites() {
        display := MakeDisplay()
        display.CompositeSprite(MakeSprite([]byte{0x3C, 0x7E}, 8, 4))
        before := display

        display.CompositeSprite(sprite)
        collided := display.CompositeSprite(sprite)

        if !display.Equals(&before) {
            test.Fatalf("compositing twice did not restore the display\n%v", display.String())
        }
        if !collided {
            test.Fatalf("the second composite should report a collision")
        }
    }
}

func TestHorizontalWrap(test *testing.T){
    display := MakeDisplay()
    display.CompositeSprite(MakeSprite([]byte{0xFF}, 60, 0))

    for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
        if !display.Get(x, 0) {
            test.Fatalf("expected pixel %v,0 to be set\n%v", x, display.String())
        }
    }
    if display.Count() != 8 {
        test.Fatalf("expected 8 pixels but got %v", display.Count())
    }
}

func TestVerticalWrap(test *testing.T){
    display := MakeDisplay()
    display.CompositeSprite(MakeSprite([]byte{0x80, 0x80, 0x80}, 5, 31))

    for _, y := range []int{31, 0, 1} {
        if !display.Get(5, y) {
            test.Fatalf("expected pixel 5,%v to be set\n%v", y, display.String())
        }
    }
}

func TestBitOrder(test *testing.T){
    display := MakeDisplay()
    display.CompositeSprite(MakeSprite([]byte{0x80}, 0, 0))
    if !display.Get(0, 0) || display.Get(7, 0) {
        test.Fatalf("the high bit should be the leftmost pixel")
    }

    display.Clear()
    display.CompositeSprite(MakeSprite([]byte{0x01}, 0, 0))
    if !display.Get(7, 0) || display.Get(0, 0) {
        test.Fatalf("the low bit should be the rightmost pixel")
    }
}

func TestPartialCollision(test *testing.T){
    display := MakeDisplay()
    display.CompositeSprite(MakeSprite([]byte{0xF0}, 0, 0))
    collided := display.CompositeSprite(MakeSprite([]byte{0x18}, 0, 0))
    if !collided {
        test.Fatalf("overlapping pixel 3 should collide")
    }
    /* 0xF0 ^ 0x18 = 0xE8 */
    expected := []bool{true, true, true, false, true, false, false, false}
    for x, value := range expected {
        if display.Get(x, 0) != value {
            test.Fatalf("pixel %v should be %v", x, value)
        }
    }
}

func TestDirty(test *testing.T){
    display := MakeDisplay()
    if !display.Dirty() {
        test.Fatalf("a new display should be drawn once")
    }
    display.ClearDirty()
    display.CompositeSprite(MakeSprite([]byte{0x01}, 0, 0))
    if !display.Dirty() {
        test.Fatalf("compositing should mark the display dirty")
    }
}
