package models

import "time"

// Listing is one real-estate posting scraped from a detail page.
// Text fields are empty when the page does not show them; the JSON names
// match the files produced by earlier versions of the scraper. URL and
// ScrapedAt are kept for the other sinks and are not part of the JSON record.
type Listing struct {
	Name                string            `json:"name"`
	Price               string            `json:"price"`
	AdvertisementNumber string            `json:"advertisementNumber"`
	Location            string            `json:"location"`
	Explanation         string            `json:"explanation"`
	Categories          []string          `json:"categories"`
	Advisor             string            `json:"advisor"`
	SquareMeterGross    string            `json:"squareMeterGross"`
	SquareMeterNet      string            `json:"squareMeterNet"`
	NumberRooms         string            `json:"numberRooms"`
	BuildingAge         string            `json:"buildingAge"`
	FloorLocated        string            `json:"floorLocated"`
	NumberFloors        string            `json:"numberFloors"`
	Heating             string            `json:"heating"`
	NumberBathrooms     string            `json:"numberBathrooms"`
	Kitchen             string            `json:"kitchen"`
	Balcony             string            `json:"balcony"`
	Lift                string            `json:"lift"`
	IsFurnished         string            `json:"isFurnished"`
	UsageStatus         string            `json:"usageStatus"`
	Dues                string            `json:"dues"`
	IsEligibleCredit    string            `json:"isEligibleCredit"`
	DeedStatus          string            `json:"deedStatus"`
	FromWhom            string            `json:"fromWhom"`
	Exchangeable        string            `json:"exchangeable"`
	AdFeatures          map[string]string `json:"adFeatures"`
	ImageURL            []string          `json:"imageUrl"`

	URL       string    `json:"-"`
	ScrapedAt time.Time `json:"-"`
}

// NewListing returns an empty Listing for url with non-nil collections so
// that they serialize as [] and {} rather than null.
func NewListing(url string) *Listing {
	return &Listing{
		Categories: []string{},
		AdFeatures: map[string]string{},
		ImageURL:   []string{},
		URL:        url,
		ScrapedAt:  time.Now(),
	}
}

// InsightReport holds the computed analytics over one run's listings.
type InsightReport struct {
	TotalListings  int
	PricedListings int
	AveragePrice   float64
	MinPrice       float64
	MaxPrice       float64
	MostExpensive  *Listing
	ListingsByType map[string]int
	WithAdFeatures int
	TotalImages    int
}
