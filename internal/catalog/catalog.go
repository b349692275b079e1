// Package catalog holds the static product catalog: the products a lead can
// request a guide for, each with its display name, guide file and offer URL.
//
// The catalog is loaded once at startup from a YAML file and is read-only
// afterwards, so it is safe for concurrent readers without locking.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrLoadCatalog indicates the catalog file could not be read or parsed.
	ErrLoadCatalog = errors.New("failed to load product catalog")
	// ErrEmptyCatalog indicates the catalog file contains no products.
	ErrEmptyCatalog = errors.New("product catalog is empty")
)

// Product describes a marketed offer with an associated guide document and
// call-to-action URL.
type Product struct {
	Slug          string `yaml:"slug"`
	Name          string `yaml:"name"`
	EbookFilename string `yaml:"ebook_filename"`
	OfferURL      string `yaml:"offer_url"`
}

// Entry is a slug and display name pair, used by the product listing endpoint.
type Entry struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Catalog is an immutable product lookup table.
type Catalog struct {
	products map[string]Product
	slugs    []string
}

type catalogFile struct {
	Products []Product `yaml:"products"`
}

// Load reads the catalog from a YAML file. Duplicate or blank slugs and
// products without a display name or offer URL are rejected so a broken
// catalog stops the process at startup instead of surfacing per request.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLoadCatalog, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Join(ErrLoadCatalog, err)
	}

	return New(file.Products)
}

// New builds a catalog from a product list, validating each entry.
func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if p.Slug == "" {
			return nil, fmt.Errorf("%w: product %q has no slug", ErrLoadCatalog, p.Name)
		}
		if p.Name == "" || p.OfferURL == "" {
			return nil, fmt.Errorf("%w: product %q needs a name and an offer URL", ErrLoadCatalog, p.Slug)
		}
		if _, exists := c.products[p.Slug]; exists {
			return nil, fmt.Errorf("%w: duplicate slug %q", ErrLoadCatalog, p.Slug)
		}
		c.products[p.Slug] = p
		c.slugs = append(c.slugs, p.Slug)
	}
	sort.Strings(c.slugs)

	return c, nil
}

// Lookup returns the product for the given slug.
func (c *Catalog) Lookup(slug string) (Product, bool) {
	p, ok := c.products[slug]
	return p, ok
}

// Slugs returns all product slugs in sorted order.
func (c *Catalog) Slugs() []string {
	out := make([]string, len(c.slugs))
	copy(out, c.slugs)
	return out
}

// List returns slug and display name pairs in sorted slug order.
func (c *Catalog) List() []Entry {
	out := make([]Entry, 0, len(c.slugs))
	for _, slug := range c.slugs {
		out = append(out, Entry{Slug: slug, Name: c.products[slug].Name})
	}
	return out
}
