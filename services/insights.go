package services

import (
	"fmt"
	"sort"
	"strings"

	"emlak-scraper/models"
	"emlak-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByType: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var total float64
	for _, l := range listings {
		if len(l.Categories) > 0 && l.Categories[0] != "" {
			report.ListingsByType[l.Categories[0]]++
		}
		if len(l.AdFeatures) > 0 {
			report.WithAdFeatures++
		}
		report.TotalImages += len(l.ImageURL)

		price := parsePrice(l.Price)
		if price <= 0 {
			continue
		}
		report.PricedListings++
		total += price
		if report.PricedListings == 1 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.PricedListings == 1 || price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = l
		}
	}

	if report.PricedListings > 0 {
		report.AveragePrice = round2(total / float64(report.PricedListings))
	}

	s.logger.Debug("[insights] %d listings, %d with a parseable price",
		report.TotalListings, report.PricedListings)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  EMLAK SCRAPE INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings scraped : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  With extra features    : \033[1m%d\033[0m\n", r.WithAdFeatures)
	fmt.Printf("  Images collected       : \033[1m%d\033[0m\n", r.TotalImages)
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics (TL)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Printf("  Average price : \033[1;32m%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum price : \033[1;32m%.2f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum price : \033[1;32m%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Name, 50))
		fmt.Printf("  Location : %s\n", r.MostExpensive.Location)
		fmt.Printf("  Price    : \033[1;31m%s\033[0m\n", r.MostExpensive.Price)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Listings by Category\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByType) == 0 {
		fmt.Printf("  No category data\n")
	} else {
		type typeCount struct {
			name  string
			count int
		}
		var types []typeCount
		for name, cnt := range r.ListingsByType {
			types = append(types, typeCount{name, cnt})
		}
		sort.Slice(types, func(i, j int) bool {
			if types[i].count == types[j].count {
				return types[i].name < types[j].name
			}
			return types[i].count > types[j].count
		})
		for _, tc := range types {
			bar := strings.Repeat("█", tc.count)
			fmt.Printf("  %-30s %s (%d)\n", truncate(tc.name, 28), bar, tc.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
