// Package readme rewrites the section of a document that sits between a
// pair of marker comments.
package readme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Splice replaces the text strictly between a marker pair with fragment,
// framed by newlines. The pair is the first end marker that has a start
// marker before it, together with the closest such start marker. Everything
// outside that span is kept byte for byte. When no pair is found the markers
// and fragment are appended after a blank line, so an orphan marker and the
// text around it survive later runs.
//
// Splice is idempotent: splicing the same fragment twice gives the same
// document as splicing it once.
func Splice(doc, start, end, fragment string) string {
	body := "\n" + strings.TrimRight(fragment, "\n") + "\n"

	for offset := 0; ; {
		j := strings.Index(doc[offset:], end)
		if j < 0 {
			break
		}
		j += offset
		if i := strings.LastIndex(doc[:j], start); i >= 0 {
			return doc[:i+len(start)] + body + doc[j:]
		}
		offset = j + len(end)
	}

	block := start + body + end + "\n"
	switch {
	case doc == "":
		return block
	case strings.HasSuffix(doc, "\n"):
		return doc + "\n" + block
	default:
		return doc + "\n\n" + block
	}
}

// Preview returns the document at path as Update would write it.
func Preview(path, start, end, fragment string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Splice(string(data), start, end, fragment), nil
}

// Update splices fragment into the file at path. The new content is built in
// memory and written to a temporary file that is renamed over the original,
// so a failure never leaves a half-written document. It reports whether the
// file changed; an unchanged document is not rewritten.
func Update(path, start, end, fragment string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := Splice(string(data), start, end, fragment)
	if updated == string(data) {
		return false, nil
	}
	if err := writeAtomic(path, []byte(updated), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
