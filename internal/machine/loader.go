package machine

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"simproc/internal/isa"
)

// ReadImage opens path and decodes it as a program image. Failing to
// open the file or reading fewer bytes than the header promises is a
// fatal I/O error, reported to the caller rather than exiting directly.
func ReadImage(path string) (*Machine, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("machine: cannot open image %q: %w", path, err)
	}
	defer fp.Close()
	m, err := DecodeImage(fp)
	if err != nil {
		return nil, fmt.Errorf("machine: %q: %w", path, err)
	}
	return m, nil
}

// DecodeImage reads a program image from r: three little-endian uint32
// header words (textsize, datasize, dataend), textsize instruction
// words, then dataend data words.
func DecodeImage(r io.Reader) (*Machine, error) {
	var header [3]uint32
	for i := range header {
		if err := binary.Read(r, binary.LittleEndian, &header[i]); err != nil {
			return nil, fmt.Errorf("truncated image header: %w", err)
		}
	}
	textsize, datasize, dataend := int(header[0]), int(header[1]), int(header[2])

	text := make([]isa.Instruction, textsize)
	for i := range text {
		var raw uint32
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, fmt.Errorf("truncated text segment at instruction %d: %w", i, err)
		}
		text[i] = isa.Instruction(raw)
	}

	dataInit := make([]isa.Word, dataend)
	for i := range dataInit {
		var raw uint32
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return nil, fmt.Errorf("truncated data segment at word %d: %w", i, err)
		}
		dataInit[i] = isa.Word(int32(raw))
	}

	return Load(text, datasize, dataInit, dataend)
}

// WriteImage serializes m to w in the exact format DecodeImage reads,
// so that DecodeImage(WriteImage(m)) reproduces m (modulo the stack
// region, which is never persisted and reloads as zero).
func WriteImage(w io.Writer, m *Machine) error {
	header := [3]uint32{uint32(m.TextSize()), uint32(m.DataSize()), uint32(m.DataEnd)}
	for _, h := range header {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
	}
	for _, instr := range m.Text {
		if err := binary.Write(w, binary.LittleEndian, instr.Raw()); err != nil {
			return err
		}
	}
	for i := 0; i < m.DataEnd; i++ {
		if err := binary.Write(w, binary.LittleEndian, uint32(m.Data[i])); err != nil {
			return err
		}
	}
	return nil
}

// DumpMemory writes path in the image format (a round-trippable snapshot
// of text and initialized data) and also renders the text and data
// segments as human-readable hex to out.
func DumpMemory(path string, out io.Writer, m *Machine) error {
	fp, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("machine: cannot create dump %q: %w", path, err)
	}
	defer fp.Close()
	if err := WriteImage(fp, m); err != nil {
		return fmt.Errorf("machine: writing dump %q: %w", path, err)
	}
	PrintProgram(out, m)
	PrintData(out, m)
	return nil
}
