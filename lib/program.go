package lib

import (
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"
)

/* a raw program image, there is no header */
type ProgramFile struct {
    Path string
    Data []byte
}

func (program *ProgramFile) Name() string {
    return strings.TrimSuffix(filepath.Base(program.Path), filepath.Ext(program.Path))
}

func ReadProgram(reader io.Reader) ([]byte, error) {
    /* read one byte past the limit so oversized images are detected */
    data, err := io.ReadAll(io.LimitReader(reader, int64(MaxProgramSize) + 1))
    if err != nil {
        return nil, err
    }
    if len(data) > MaxProgramSize {
        return nil, fmt.Errorf("%w: more than %v bytes", ErrProgramTooLarge, MaxProgramSize)
    }
    return data, nil
}

func ReadProgramFile(path string) (ProgramFile, error) {
    file, err := os.Open(path)
    if err != nil {
        return ProgramFile{}, err
    }
    defer file.Close()

    data, err := ReadProgram(file)
    if err != nil {
        return ProgramFile{}, fmt.Errorf("could not read %v: %w", path, err)
    }

    return ProgramFile{
        Path: path,
        Data: data,
    }, nil
}
