// Package scrapertest provides an in-memory scraper.Page for tests.
package scrapertest

import (
	"context"
	"fmt"
	"time"

	"emlak-scraper/scraper"
)

// Document is the queryable content of one fake URL.
type Document struct {
	// Texts maps a locator to the text of each matching element.
	Texts map[string][]string
	// Attrs maps a locator to attribute name to per-element values.
	Attrs map[string]map[string][]string
	// Errors makes any query on a locator fail.
	Errors map[string]error
	// OnClick maps a clickable locator to texts that become queryable once
	// it has been clicked.
	OnClick map[string]map[string][]string
}

func (d *Document) has(locator string) bool {
	if len(d.Texts[locator]) > 0 {
		return true
	}
	for _, vals := range d.Attrs[locator] {
		if len(vals) > 0 {
			return true
		}
	}
	return false
}

// Page is a scraper.Page backed by a map of Documents. It records every
// operation in Calls.
type Page struct {
	Docs map[string]*Document
	// NavigateErrs makes Navigate fail for the given URLs.
	NavigateErrs map[string]error
	Calls        []string

	current *Document
}

var _ scraper.Page = (*Page)(nil)

// NewPage returns a Page serving docs.
func NewPage(docs map[string]*Document) *Page {
	return &Page{Docs: docs, NavigateErrs: map[string]error{}}
}

func (p *Page) record(format string, args ...any) {
	p.Calls = append(p.Calls, fmt.Sprintf(format, args...))
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.record("navigate %s", url)
	if err := p.NavigateErrs[url]; err != nil {
		return err
	}
	doc, ok := p.Docs[url]
	if !ok {
		return fmt.Errorf("scrapertest: no document for %s", url)
	}
	p.current = cloneDoc(doc)
	return nil
}

func (p *Page) Texts(ctx context.Context, locator string) ([]string, error) {
	doc, err := p.query(locator)
	if err != nil {
		return nil, err
	}
	return append([]string{}, doc.Texts[locator]...), nil
}

func (p *Page) Attrs(ctx context.Context, locator, attr string) ([]string, error) {
	doc, err := p.query(locator)
	if err != nil {
		return nil, err
	}
	return append([]string{}, doc.Attrs[locator][attr]...), nil
}

func (p *Page) Exists(ctx context.Context, locator string) (bool, error) {
	p.record("exists %s", locator)
	doc, err := p.query(locator)
	if err != nil {
		return false, err
	}
	return doc.has(locator), nil
}

func (p *Page) Click(ctx context.Context, locator string) error {
	p.record("click %s", locator)
	doc, err := p.query(locator)
	if err != nil {
		return err
	}
	if !doc.has(locator) {
		return fmt.Errorf("scrapertest: click %s: %w", locator, scraper.ErrNotFound)
	}
	for loc, texts := range doc.OnClick[locator] {
		doc.Texts[loc] = append([]string{}, texts...)
	}
	return nil
}

func (p *Page) WaitFor(ctx context.Context, locator string, timeout time.Duration) error {
	p.record("wait %s", locator)
	doc, err := p.query(locator)
	if err != nil {
		return err
	}
	if !doc.has(locator) {
		return fmt.Errorf("scrapertest: wait %s: %w", locator, scraper.ErrNotReady)
	}
	return nil
}

func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	p.record("sleep %s", d)
	return ctx.Err()
}

func (p *Page) query(locator string) (*Document, error) {
	if p.current == nil {
		return nil, fmt.Errorf("scrapertest: query %s before navigate", locator)
	}
	if err := p.current.Errors[locator]; err != nil {
		return nil, err
	}
	return p.current, nil
}

// cloneDoc copies doc so clicks on one visit do not leak into the next.
func cloneDoc(doc *Document) *Document {
	c := &Document{
		Texts:   make(map[string][]string, len(doc.Texts)),
		Attrs:   doc.Attrs,
		Errors:  doc.Errors,
		OnClick: doc.OnClick,
	}
	for k, v := range doc.Texts {
		c.Texts[k] = append([]string{}, v...)
	}
	return c
}
