package site

import (
	"path/filepath"

	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/fstree"
)

// Directories of a site, relative to its input root.
const (
	ContentDir  = "content"
	TemplateDir = "templates"
	AssetsDir   = "assets"
)

// dircheck resolves rel under the tree root. It reports false when the path
// is missing or not a directory and mustExist is unset.
func dircheck(tree *fstree.Tree, rel string, mustExist bool) (fstree.EntryID, bool, error) {
	id, found := tree.Search(rel)
	switch {
	case found && tree.Entry(id).IsDir():
		return id, true, nil
	case !mustExist:
		return fstree.NoEntry, false, nil
	case found:
		e := tree.Entry(id)
		return fstree.NoEntry, false, ferrors.StructureError(e.Stem()+" path must point to a directory").
			WithContext("path is not a directory", e.Path).
			Build()
	default:
		return fstree.NoEntry, false, ferrors.StructureError(rel+" must point to an existing directory").
			WithContext("path does not exist", filepath.Join(tree.Entry(tree.Root()).Path, rel)).
			Build()
	}
}
