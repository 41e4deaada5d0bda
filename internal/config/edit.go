package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/creachadair/tomledit"
	"github.com/creachadair/tomledit/parser"
	"github.com/creachadair/tomledit/transform"
)

const presetsSection = "presets"

// SetPresetRoots writes hutch and user under the [presets] section of a
// beamsim.toml file, creating the section if needed. Existing comments,
// formatting and ordering are preserved. Empty values leave the key alone.
func SetPresetRoots(filePath, hutch, user string) error {
	doc, err := readTOMLDoc(filePath)
	if err != nil {
		return err
	}

	section := findSection(doc, presetsSection)
	if section == nil {
		section = createSection(doc, presetsSection)
	}

	for _, kv := range []struct{ key, value string }{
		{"hutch", hutch},
		{"user", user},
	} {
		if kv.value == "" {
			continue
		}
		setString(doc, section, kv.key, kv.value)
	}

	return writeTOMLDoc(filePath, doc)
}

// ClearPresetRoots removes the hutch and user keys from [presets].
func ClearPresetRoots(filePath string) error {
	doc, err := readTOMLDoc(filePath)
	if err != nil {
		return err
	}

	for _, key := range []string{"hutch", "user"} {
		entry := doc.First(presetsSection, key)
		if entry == nil {
			continue
		}
		if !entry.Remove() {
			return fmt.Errorf("failed to remove %s.%s from %s", presetsSection, key, filePath)
		}
	}

	return writeTOMLDoc(filePath, doc)
}

func setString(doc *tomledit.Document, section *tomledit.Section, key, value string) {
	quoted := parser.MustValue(fmt.Sprintf("%q", value))

	if entry := doc.First(presetsSection, key); entry != nil {
		entry.KeyValue.Value = quoted
		return
	}

	transform.InsertMapping(section, &parser.KeyValue{
		Name:  parser.Key{key},
		Value: quoted,
	}, false)
}

// readTOMLDoc reads and parses a TOML file into a document tree.
func readTOMLDoc(filePath string) (*tomledit.Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	doc, err := tomledit.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML in %s: %w", filePath, err)
	}

	return doc, nil
}

// writeTOMLDoc writes the document back to disk with the file's original
// permissions.
func writeTOMLDoc(filePath string, doc *tomledit.Document) error {
	var buf bytes.Buffer
	var fmtr tomledit.Formatter
	if err := fmtr.Format(&buf, doc); err != nil {
		return fmt.Errorf("formatting TOML: %w", err)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", filePath, err)
	}

	if err := os.WriteFile(filePath, buf.Bytes(), info.Mode()); err != nil {
		return fmt.Errorf("writing %s: %w", filePath, err)
	}

	return nil
}

func findSection(doc *tomledit.Document, name string) *tomledit.Section {
	for _, e := range doc.Find(name) {
		if e.IsSection() {
			return e.Section
		}
	}
	return nil
}

func createSection(doc *tomledit.Document, name string) *tomledit.Section {
	section := &tomledit.Section{
		Heading: &parser.Heading{Name: parser.Key{name}},
	}
	doc.Sections = append(doc.Sections, section)
	return section
}
