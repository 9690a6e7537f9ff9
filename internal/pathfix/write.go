package pathfix

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pathfix/internal/foundation/errors"
)

// writeFileAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permission bits.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to stat file").WithContext("file", path).Build()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".pathfix-*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create temporary file").WithContext("file", path).Build()
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write temporary file").WithContext("file", path).Build()
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to close temporary file").WithContext("file", path).Build()
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to set file mode").WithContext("file", path).Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to replace file").WithContext("file", path).Build()
	}
	return nil
}
