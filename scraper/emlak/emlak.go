package emlak

import (
	"context"
	"fmt"
	"strings"
	"time"

	"emlak-scraper/models"
	"emlak-scraper/scraper"
	"emlak-scraper/utils"
)

const name = "emlaksiteniz"

// Options tunes page loading for the emlaksiteniz.com scraper.
type Options struct {
	IndexURL        string
	IndexTimeout    time.Duration // wait for listing cards on the index page
	IndexSettle     time.Duration // fixed pause after the index page loads
	DetailTimeout   time.Duration // wait for the readiness marker on a detail page
	FeaturesTimeout time.Duration // wait for the features table after clicking its tab
	PageTimeout     time.Duration // overall budget for one detail page
}

// DefaultOptions mirrors the timings the site has been scraped with so far.
func DefaultOptions() Options {
	return Options{
		IndexURL:        IndexURL,
		IndexTimeout:    10 * time.Second,
		IndexSettle:     3 * time.Second,
		DetailTimeout:   5 * time.Second,
		FeaturesTimeout: 5 * time.Second,
		PageTimeout:     60 * time.Second,
	}
}

// Scraper extracts listings from emlaksiteniz.com. It implements
// scraper.Strategy and drives a single page sequentially.
type Scraper struct {
	page   scraper.Page
	reader *scraper.FieldReader
	opts   Options
	logger *utils.Logger
}

var _ scraper.Strategy = (*Scraper)(nil)

// New creates a Scraper over page. Zero-valued options fall back to
// DefaultOptions.
func New(page scraper.Page, opts Options, logger *utils.Logger) *Scraper {
	def := DefaultOptions()
	if opts.IndexURL == "" {
		opts.IndexURL = def.IndexURL
	}
	if opts.IndexTimeout <= 0 {
		opts.IndexTimeout = def.IndexTimeout
	}
	if opts.DetailTimeout <= 0 {
		opts.DetailTimeout = def.DetailTimeout
	}
	if opts.FeaturesTimeout <= 0 {
		opts.FeaturesTimeout = def.FeaturesTimeout
	}
	return &Scraper{
		page:   page,
		reader: scraper.NewFieldReader(page, logger),
		opts:   opts,
		logger: logger,
	}
}

func (s *Scraper) Name() string { return name }

// CollectLinks loads the index page and returns the listing URLs found on
// it, deduplicated, in page order. Errors are logged and yield whatever was
// gathered up to that point.
func (s *Scraper) CollectLinks(ctx context.Context) []string {
	links := utils.NewURLSet()

	if err := s.page.Navigate(ctx, s.opts.IndexURL); err != nil {
		s.logger.Error("[emlak] Error collecting listing links: %v", err)
		return links.List()
	}

	if err := s.page.WaitFor(ctx, ListingLinksXPath, s.opts.IndexTimeout); err != nil {
		s.logger.Warn("[emlak] Listing cards did not appear: %v", err)
	}
	if s.opts.IndexSettle > 0 {
		if err := s.page.Sleep(ctx, s.opts.IndexSettle); err != nil {
			s.logger.Error("[emlak] Error collecting listing links: %v", err)
			return links.List()
		}
	}

	hrefs, err := s.page.Attrs(ctx, ListingLinksXPath, LinkAttr)
	if err != nil {
		s.logger.Error("[emlak] Error collecting listing links: %v", err)
		return links.List()
	}

	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		if links.Add(href) {
			s.logger.Debug("[emlak] Found link: %s", href)
		}
	}

	s.logger.Debug("[emlak] %d anchors, %d unique listing links", len(hrefs), links.Size())
	return links.List()
}

// ExtractDetail visits url and reads every field of the listing. It returns
// an error, and no listing, if the page never becomes ready or the
// breadcrumb cannot be read. Missing single fields are left empty, and a
// features table or gallery that fails to load leaves its collection empty.
func (s *Scraper) ExtractDetail(ctx context.Context, url string) (*models.Listing, error) {
	if s.opts.PageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PageTimeout)
		defer cancel()
	}

	if err := s.page.Navigate(ctx, url); err != nil {
		return nil, fmt.Errorf("emlak: load listing: %w", err)
	}
	if err := s.page.WaitFor(ctx, DetailReadyXPath, s.opts.DetailTimeout); err != nil {
		return nil, fmt.Errorf("emlak: listing page not ready: %w", err)
	}

	l := models.NewListing(url)
	s.readFields(ctx, l)

	categories, err := s.extractCategories(ctx)
	if err != nil {
		return nil, err
	}
	l.Categories = categories

	features, err := s.extractAdFeatures(ctx)
	if err != nil {
		s.logger.Warn("[emlak] No ad features for %s: %v", url, err)
		features = map[string]string{}
	}
	l.AdFeatures = features

	images, err := s.extractImageURLs(ctx)
	if err != nil {
		s.logger.Warn("[emlak] No images for %s: %v", url, err)
		images = []string{}
	}
	l.ImageURL = images

	return l, nil
}

func (s *Scraper) readFields(ctx context.Context, l *models.Listing) {
	simple := []struct {
		locator string
		dst     *string
	}{
		{TitleXPath, &l.Name},
		{PriceXPath, &l.Price},
		{LocationXPath, &l.Location},
		{DescriptionXPath, &l.Explanation},
		{AdvisorXPath, &l.Advisor},
		{AdNumberXPath, &l.AdvertisementNumber},
	}
	for _, f := range simple {
		*f.dst = s.reader.Read(ctx, f.locator)
	}

	labelled := []struct {
		label string
		dst   *string
	}{
		{LabelGrossArea, &l.SquareMeterGross},
		{LabelNetArea, &l.SquareMeterNet},
		{LabelRooms, &l.NumberRooms},
		{LabelBathrooms, &l.NumberBathrooms},
		{LabelKitchen, &l.Kitchen},
		{LabelBalcony, &l.Balcony},
		{LabelLift, &l.Lift},
		{LabelFurnished, &l.IsFurnished},
		{LabelUsageStatus, &l.UsageStatus},
		{LabelDues, &l.Dues},
		{LabelCredit, &l.IsEligibleCredit},
		{LabelDeedStatus, &l.DeedStatus},
		{LabelExchangeable, &l.Exchangeable},
		{LabelBuildingAge, &l.BuildingAge},
		{LabelHeating, &l.Heating},
		{LabelFloorLocated, &l.FloorLocated},
		{LabelFloorCount, &l.NumberFloors},
		{LabelFromWhom, &l.FromWhom},
	}
	for _, f := range labelled {
		*f.dst = s.reader.Read(ctx, LabelValueXPath(f.label))
	}
}

// extractCategories returns the breadcrumb trail without its root entry.
func (s *Scraper) extractCategories(ctx context.Context) ([]string, error) {
	crumbs, err := s.page.Texts(ctx, BreadcrumbXPath)
	if err != nil {
		return nil, fmt.Errorf("emlak: read breadcrumb: %w", err)
	}
	return dropRoot(crumbs), nil
}

// extractAdFeatures opens the features tab, when the page has one, and reads
// its table as label/value pairs.
func (s *Scraper) extractAdFeatures(ctx context.Context) (map[string]string, error) {
	hasTab, err := s.page.Exists(ctx, FeaturesTabXPath)
	if err != nil {
		return nil, fmt.Errorf("emlak: look up features tab: %w", err)
	}
	if !hasTab {
		return map[string]string{}, nil
	}

	if err := s.page.Click(ctx, FeaturesTabXPath); err != nil {
		return nil, fmt.Errorf("emlak: open features tab: %w", err)
	}
	if err := s.page.WaitFor(ctx, FeaturesTableXPath, s.opts.FeaturesTimeout); err != nil {
		return nil, fmt.Errorf("emlak: features table: %w", err)
	}

	cells, err := s.page.Texts(ctx, FeaturesTableXPath)
	if err != nil {
		return nil, fmt.Errorf("emlak: read features table: %w", err)
	}
	return pairCells(cells), nil
}

func (s *Scraper) extractImageURLs(ctx context.Context) ([]string, error) {
	srcs, err := s.page.Attrs(ctx, GalleryImagesXPath, ImageAttr)
	if err != nil {
		return nil, fmt.Errorf("emlak: read gallery: %w", err)
	}
	images := make([]string, 0, len(srcs))
	images = append(images, srcs...)
	return images, nil
}

func dropRoot(crumbs []string) []string {
	if len(crumbs) <= 1 {
		return []string{}
	}
	out := make([]string, len(crumbs)-1)
	copy(out, crumbs[1:])
	return out
}

// pairCells turns [k0, v0, k1, v1, ...] into a map. A trailing key without
// a value is dropped.
func pairCells(cells []string) map[string]string {
	features := make(map[string]string, len(cells)/2)
	for i := 0; i+1 < len(cells); i += 2 {
		features[cells[i]] = cells[i+1]
	}
	return features
}
