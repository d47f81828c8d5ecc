package tokens

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrFormatDetectionInconclusive means no file in a directory matched a known schema.
var ErrFormatDetectionInconclusive = errors.New("format detection inconclusive")

// DetectFormat scans the JSON files directly inside dir and returns the format of
// the first file that matches a known signature. Files are examined in lexical
// filename order, so when several files match different schemas the
// alphabetically first one wins. Unreadable or non-JSON files are skipped.
func DetectFormat(dir string) (Format, bool) {
	f, _, ok := DetectFormatSource(dir)
	return f, ok
}

// DetectFormatSource is DetectFormat that also returns the matching file path.
func DetectFormatSource(dir string) (Format, string, bool) {
	if dir == "" {
		return Format{}, "", false
	}

	// os.ReadDir returns entries sorted by filename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Format{}, "", false
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		doc, err := Decode(file)
		file.Close()
		if err != nil {
			continue
		}

		if f, ok := MatchSignature(doc); ok {
			return f, path, true
		}
	}

	return Format{}, "", false
}

// MatchSignature identifies the format of a decoded document. Signatures are
// checked in order: W3C, Style Dictionary, Figma, Tokens Studio.
func MatchSignature(doc *Object) (Format, bool) {
	if hasKeyAnywhere(doc, W3C.ValueKey) || hasKeyAnywhere(doc, W3C.TypeKey) {
		return W3C, true
	}

	if color, ok := doc.Object(StyleDictionary.RootKey); ok && containsLeaf(color, StyleDictionary.ValueKey) {
		return StyleDictionary, true
	}

	if tokens, ok := doc.Object(Figma.RootKey); ok && isFlat(tokens, Figma.ValueKey) {
		return Figma, true
	}

	if global, ok := doc.Object(TokensStudio.RootKey); ok && containsLeaf(global, TokensStudio.ValueKey) {
		return TokensStudio, true
	}

	return Format{}, false
}

func hasKeyAnywhere(obj *Object, key string) bool {
	if _, ok := obj.Get(key); ok {
		return true
	}
	for _, k := range obj.Keys() {
		if child, ok := obj.Object(k); ok && hasKeyAnywhere(child, key) {
			return true
		}
	}
	return false
}

// containsLeaf reports whether any descendant object carries valueKey.
func containsLeaf(obj *Object, valueKey string) bool {
	for _, k := range obj.Keys() {
		child, ok := obj.Object(k)
		if !ok {
			continue
		}
		if _, ok := child.Get(valueKey); ok {
			return true
		}
		if containsLeaf(child, valueKey) {
			return true
		}
	}
	return false
}

// isFlat reports whether every child of obj is a token object and there is at least one.
func isFlat(obj *Object, valueKey string) bool {
	if obj.Len() == 0 {
		return false
	}
	for _, k := range obj.Keys() {
		child, ok := obj.Object(k)
		if !ok {
			return false
		}
		if _, ok := child.Get(valueKey); !ok {
			return false
		}
	}
	return true
}
