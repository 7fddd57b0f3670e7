package fstree

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// EntryID is an opaque handle to an Entry, valid for the lifetime of its Tree.
type EntryID int

// NoEntry is the parent of the root entry.
const NoEntry EntryID = -1

// FileType classifies an entry by the type of its symlink target.
type FileType uint8

const (
	TypeFile FileType = iota
	TypeDir
	TypeOther
)

func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDir:
		return "dir"
	default:
		return "other"
	}
}

// Entry is one node of the indexed file system.
type Entry struct {
	ID       EntryID
	Path     string
	Name     string
	Type     FileType
	Symlink  bool
	Info     fs.FileInfo
	Parent   EntryID
	Children []EntryID
	Depth    int
}

func (e *Entry) IsFile() bool { return e.Type == TypeFile }
func (e *Entry) IsDir() bool  { return e.Type == TypeDir }

// Stem returns the name up to the last '.'. A name whose only '.' is the
// leading one has no extension.
func (e *Entry) Stem() string {
	if i := strings.LastIndexByte(e.Name, '.'); i > 0 {
		return e.Name[:i]
	}
	return e.Name
}

// Ext returns the extension without the dot, or "" when there is none.
func (e *Entry) Ext() string {
	if i := strings.LastIndexByte(e.Name, '.'); i > 0 {
		return e.Name[i+1:]
	}
	return ""
}

// RelativePath returns the entry's path relative to the tree root. The root
// itself is ".".
func (e *Entry) RelativePath(t *Tree) string {
	rel, err := filepath.Rel(t.Entry(t.Root()).Path, e.Path)
	if err != nil {
		return e.Path
	}
	return rel
}

// RelativeTo returns the entry's path relative to other.
func (e *Entry) RelativeTo(other *Entry) (string, error) {
	return filepath.Rel(other.Path, e.Path)
}
