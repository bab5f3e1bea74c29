// Package catalog models the categorized site list consumed by a run.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"sitescout/internal/scout"
)

// Category is one named, ordered group of sites.
type Category struct {
	Name  string
	Sites []scout.SiteSpec
}

// Catalog is the immutable set of categories checked in one run. Category and
// site order is preserved from the source so reports are deterministic.
type Catalog struct {
	categories []Category
}

// New builds a Catalog from the given categories.
func New(categories []Category) *Catalog {
	return &Catalog{categories: append([]Category(nil), categories...)}
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// TotalSites returns the number of sites across all categories.
func (c *Catalog) TotalSites() int {
	total := 0
	for _, cat := range c.categories {
		total += len(cat.Sites)
	}
	return total
}

// Validate enforces the invariants the run pipeline depends on: at least one
// category, unique non-empty category names, and per-category unique site
// names with non-empty URLs. A validation failure is a configuration error
// surfaced before any check dispatches.
func (c *Catalog) Validate() error {
	if c == nil || len(c.categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}
	seenCats := make(map[string]struct{}, len(c.categories))
	for _, cat := range c.categories {
		if cat.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if _, ok := seenCats[cat.Name]; ok {
			return fmt.Errorf("duplicate category %q", cat.Name)
		}
		seenCats[cat.Name] = struct{}{}
		if len(cat.Sites) == 0 {
			return fmt.Errorf("category %q has no sites", cat.Name)
		}
		seenSites := make(map[string]struct{}, len(cat.Sites))
		for _, site := range cat.Sites {
			if site.Name == "" {
				return fmt.Errorf("category %q contains a site with an empty name", cat.Name)
			}
			if _, ok := seenSites[site.Name]; ok {
				return fmt.Errorf("duplicate site %q in category %q", site.Name, cat.Name)
			}
			seenSites[site.Name] = struct{}{}
			if site.URL == "" {
				return fmt.Errorf("site %q in category %q has an empty url", site.Name, cat.Name)
			}
		}
	}
	return nil
}

// Load reads a catalog file of the form {"Category": {"Site Name": "url"}}.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close() //nolint:errcheck

	cat, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes the catalog JSON while preserving key order. The stock
// map-based decoding would randomize category order and break deterministic
// report output, so this walks the token stream instead.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var categories []Category
	for dec.More() {
		name, err := nextString(dec)
		if err != nil {
			return nil, err
		}
		sites, err := parseSites(dec)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		categories = append(categories, Category{Name: name, Sites: sites})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	cat := New(categories)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func parseSites(dec *json.Decoder) ([]scout.SiteSpec, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var sites []scout.SiteSpec
	for dec.More() {
		name, err := nextString(dec)
		if err != nil {
			return nil, err
		}
		url, err := nextString(dec)
		if err != nil {
			return nil, fmt.Errorf("site %q: %w", name, err)
		}
		sites = append(sites, scout.SiteSpec{Name: name, URL: url})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return sites, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func nextString(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %v", tok)
	}
	return s, nil
}
