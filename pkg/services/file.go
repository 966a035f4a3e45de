package services

import (
	"path/filepath"
	"regexp"
	"strings"
)

// SafeJoin joins target below root/sub. It returns "" when target would
// escape the root.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean("/" + filepath.ToSlash(target))
	cleanTarget = strings.TrimPrefix(cleanTarget, "/")
	if cleanTarget == "" || cleanTarget == "." || strings.Contains(target, "..") {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename keeps the base name of an upload and reduces it to
// characters that are safe in URLs and on every filesystem.
func sanitizeFilename(name string) string {
	name = filepath.Base(filepath.ToSlash(strings.ReplaceAll(name, "\\", "/")))
	name = strings.ReplaceAll(name, " ", "_")
	name = replaceUmlauts.Replace(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "upload"
	}
	return name
}

var replaceUmlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss",
)
