package video

import (
	"errors"
	"io"
	"os"
)

// DefaultChunkSize is the read size used when streaming content into a temporary file.
const DefaultChunkSize = 64 * 1024

// Content is a file to be saved.
type Content interface {
	// Size is the total number of bytes Chunks will yield.
	Size() int64
	// Chunks calls fn for each successive piece of the content.
	Chunks(fn func([]byte) error) error
}

// TemporaryFile is implemented by content that already lives in a file on local disk, which can
// then be uploaded without copying.
type TemporaryFile interface {
	TemporaryFilePath() string
}

// ReaderContent streams content from an io.Reader of known size.
type ReaderContent struct {
	reader    io.Reader
	size      int64
	chunkSize int
}

func NewReaderContent(r io.Reader, size int64) *ReaderContent {
	return &ReaderContent{reader: r, size: size, chunkSize: DefaultChunkSize}
}

func (c *ReaderContent) Size() int64 {
	return c.size
}

func (c *ReaderContent) Chunks(fn func([]byte) error) error {
	buf := make([]byte, c.chunkSize)
	for {
		n, err := c.reader.Read(buf)
		if n > 0 {
			if cbErr := fn(buf[:n]); cbErr != nil {
				return cbErr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// FileContent is content already stored at a local path.
type FileContent struct {
	path string
	size int64
}

// NewFileContent stats path and returns content backed by it.
func NewFileContent(path string) (*FileContent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &FileContent{path: path, size: info.Size()}, nil
}

func (c *FileContent) Size() int64 {
	return c.size
}

func (c *FileContent) TemporaryFilePath() string {
	return c.path
}

func (c *FileContent) Chunks(fn func([]byte) error) error {
	f, err := os.Open(c.path)
	if err != nil {
		return err
	}
	defer f.Close()
	return NewReaderContent(f, c.size).Chunks(fn)
}
