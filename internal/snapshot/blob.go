package snapshot

import (
	"bufio"
	"bytes"
	"classutil-backend/internal/scrapers/classutil"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
)

// blobMagic starts every blob, the byte after it is the format version.
const blobMagic = "CLSNAP"

const blobVersion byte = 1

var ErrBadBlob = errors.New("snapshot: not a schedule blob")

type blob struct {
	GroupBy string
	Entries []classutil.Entry
}

// Write encodes the schedule as a versioned blob. The same schedule always
// produces the same bytes.
func Write(w io.Writer, schedule *classutil.Schedule) error {
	buffered := bufio.NewWriter(w)
	_, err := buffered.WriteString(blobMagic)
	if err != nil {
		return err
	}
	err = buffered.WriteByte(blobVersion)
	if err != nil {
		return err
	}

	err = gob.NewEncoder(buffered).Encode(blob{
		GroupBy: schedule.GroupBy().Name(),
		Entries: schedule.Entries(),
	})
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	return buffered.Flush()
}

func Read(r io.Reader) (*classutil.Schedule, error) {
	buffered := bufio.NewReader(r)

	header := make([]byte, len(blobMagic)+1)
	_, err := io.ReadFull(buffered, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadBlob, err)
	}
	if !bytes.Equal(header[:len(blobMagic)], []byte(blobMagic)) {
		return nil, ErrBadBlob
	}
	if header[len(blobMagic)] != blobVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadBlob, header[len(blobMagic)])
	}

	var decoded blob
	err = gob.NewDecoder(buffered).Decode(&decoded)
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	groupBy, err := classutil.GroupingByName(decoded.GroupBy)
	if err != nil {
		return nil, err
	}
	return classutil.RestoreSchedule(groupBy, decoded.Entries), nil
}

func WriteFile(path string, schedule *classutil.Schedule) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	err = Write(f, schedule)
	if err != nil {
		return err
	}
	return f.Close()
}

func ReadFile(path string) (*classutil.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
