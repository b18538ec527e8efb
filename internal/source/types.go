package source

import "strconv"

// FileID identifies a file inside one FileSet. Zero is never assigned.
type FileID uint32

// FileFlags describe where file content came from.
type FileFlags uint8

const (
	// FileVirtual: content was supplied by a snapshot or a test, not read from disk.
	FileVirtual FileFlags = 1 << iota
	FileNormalizedCRLF
)

// File is one source file of a compilation snapshot.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Virtual reports whether the file has no counterpart on disk.
func (f *File) Virtual() bool {
	return f != nil && f.Flags&FileVirtual != 0
}

// LineCol is a 1-based position.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return strconv.FormatUint(uint64(lc.Line), 10) + ":" + strconv.FormatUint(uint64(lc.Col), 10)
}
