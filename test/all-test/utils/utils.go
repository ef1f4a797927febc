package utils

import (
    "fmt"

    "github.com/fatih/color"
)

/* one line per check, colored so failures stand out in a long log */

func Failure(message string) string {
    red := color.New(color.FgRed, color.Bold).SprintFunc()
    return fmt.Sprintf("%v %v", message, red("failed"))
}

func Success(message string) string {
    green := color.New(color.FgGreen).SprintFunc()
    return fmt.Sprintf("%v %v", message, green("passed"))
}
