// Package catalog holds the static, file-defined list of document collections.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed collections.yaml
var defaultCatalog []byte

var ErrCollectionNotFound = errors.New("collection not found")

// Document is a single file inside a collection.
type Document struct {
	Filename    string `yaml:"filename" json:"filename"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Collection groups documents under a browsable id.
type Collection struct {
	ID          string     `yaml:"id" json:"id"`
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	CoverImage  string     `yaml:"cover_image,omitempty" json:"coverImage,omitempty"`
	Documents   []Document `yaml:"documents" json:"documents"`
}

type file struct {
	Collections []Collection `yaml:"collections"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	collections []Collection
	byID        map[string]int
	byFilename  map[string]docRef
}

type docRef struct {
	collection int
	document   int
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from a YAML file. An empty path returns Default().
func Load(p string) (*Catalog, error) {
	if p == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse builds a Catalog from YAML. Collection ids must be unique and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Collections)
}

// New builds a Catalog from in-memory collections.
func New(collections []Collection) (*Catalog, error) {
	c := &Catalog{
		collections: collections,
		byID:        make(map[string]int, len(collections)),
		byFilename:  make(map[string]docRef),
	}
	for i, col := range collections {
		if col.ID == "" {
			return nil, fmt.Errorf("collection %d has no id", i)
		}
		if _, dup := c.byID[col.ID]; dup {
			return nil, fmt.Errorf("duplicate collection id %q", col.ID)
		}
		c.byID[col.ID] = i
		for j, doc := range col.Documents {
			// first collection wins when a file is shared
			if _, seen := c.byFilename[doc.Filename]; !seen {
				c.byFilename[doc.Filename] = docRef{collection: i, document: j}
			}
		}
	}
	return c, nil
}

// Collections returns a copy of all collections in file order.
func (c *Catalog) Collections() []Collection {
	out := make([]Collection, len(c.collections))
	copy(out, c.collections)
	return out
}

// Collection looks up a collection by id.
func (c *Catalog) Collection(id string) (Collection, error) {
	i, ok := c.byID[id]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %s", ErrCollectionNotFound, id)
	}
	return c.collections[i], nil
}

// Documents returns the documents of one collection, or of every collection
// when id is empty or unknown.
func (c *Catalog) Documents(id string) []Document {
	if i, ok := c.byID[id]; ok {
		return append([]Document(nil), c.collections[i].Documents...)
	}
	var docs []Document
	for _, col := range c.collections {
		docs = append(docs, col.Documents...)
	}
	return docs
}

// DocumentTitle resolves a filename to its human title, falling back to the
// filename stem when the catalog does not list it.
func (c *Catalog) DocumentTitle(filename string) string {
	if ref, ok := c.byFilename[filename]; ok {
		if t := c.collections[ref.collection].Documents[ref.document].Title; t != "" {
			return t
		}
	}
	return Stem(filename)
}

// CollectionOf returns the id of the collection listing filename.
func (c *Catalog) CollectionOf(filename string) (string, bool) {
	ref, ok := c.byFilename[filename]
	if !ok {
		return "", false
	}
	return c.collections[ref.collection].ID, true
}

// Stem strips directories and the extension: "docs/EP1_A1.pdf" -> "EP1_A1".
func Stem(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
