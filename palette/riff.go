package palette

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

// RIFF PAL layout: a "PAL " form whose data chunks hold a version-3
// LOGPALETTE — palVersion (WORD), palNumEntries (WORD), then one
// red/green/blue/flags byte quad per entry.

var (
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom decodes every palette in a RIFF PAL stream.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	}
	if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}
	return readChunks(rd)
}

func readChunks(r *riff.Reader) ([]color.Palette, error) {
	var res []color.Palette
	for {
		id, size, data, err := r.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, fmt.Errorf("could not read chunk #%d: %w", len(res), err)
		}

		if id == riff.LIST {
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list chunk #%d: %w", len(res), err)
			}
			if listType != palType {
				return res, fmt.Errorf("chunk #%d has unsupported list type: %s", len(res), string(listType[:]))
			}
			nested, err := readChunks(list)
			res = append(res, nested...)
			if err != nil {
				return res, err
			}
			continue
		}

		if id != dataType {
			return res, fmt.Errorf("unsupported chunk type #%d: %s", len(res), string(id[:]))
		}

		pal, err := readLogPalette(data)
		if err != nil {
			return res, fmt.Errorf("chunk #%d: %w", len(res), err)
		}
		res = append(res, pal)
	}
}

func readLogPalette(r io.Reader) (color.Palette, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read LOGPALETTE header: %w", err)
	}

	// The teacher format quirk: palVersion is stored big-endian 0x0003.
	if ver := binary.BigEndian.Uint16(hdr[:2]); ver != 3 {
		return nil, fmt.Errorf("unsupported palette version: %d", ver)
	}

	count := binary.LittleEndian.Uint16(hdr[2:])
	pal := make(color.Palette, count)
	var entry [4]byte
	for i := uint16(0); i < count; i++ {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return pal, fmt.Errorf("could not read color %d/%d: %w", i, count, err)
		}
		pal[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xFF}
	}
	return pal, nil
}

// WriteTo encodes pals as a RIFF PAL stream, one data chunk per palette.
func WriteTo(w io.Writer, pals []color.Palette) error {
	size := 4
	for _, pal := range pals {
		size += 8 + 4 + len(pal)*4 // chunk header + LOGPALETTE header + entries
	}

	hdr := append([]byte("RIFF"), binary.LittleEndian.AppendUint32(nil, uint32(size))...)
	hdr = append(hdr, palType[:]...)
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("could not write RIFF header: %w", err)
	}

	for i, pal := range pals {
		if err := writeLogPalette(w, pal); err != nil {
			return fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}
	return nil
}

func writeLogPalette(w io.Writer, pal color.Palette) error {
	buf := append(dataType[:0:0], dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(pal)*4))
	buf = append(buf, 0x00, 0x03) // palVersion, big-endian as read back
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, col := range pal {
		c := color.RGBAModel.Convert(col).(color.RGBA)
		buf = append(buf, c.R, c.G, c.B, 0x00)
	}

	if _, err := w.Write(buf); err != nil {
		return err
	}
	return nil
}
