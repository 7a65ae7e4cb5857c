package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(listings []models.EnrichedListing) *models.RunSummary {
	report := &models.RunSummary{
		LabelCounts: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var total int
	for i := range listings {
		l := &listings[i]
		if l.Price != nil {
			if report.PricedListings == 0 || *l.Price < report.MinPrice {
				report.MinPrice = *l.Price
			}
			if report.PricedListings == 0 || *l.Price > report.MaxPrice {
				report.MaxPrice = *l.Price
			}
			report.PricedListings++
			total += *l.Price
		}
		if l.HasCoordinates() {
			report.WithCoordinates++
		}
		if l.Geocoded {
			report.Geocoded++
		}
		if l.DistStationKm != nil &&
			(report.NearestStation == nil || *l.DistStationKm < *report.NearestStation.DistStationKm) {
			report.NearestStation = l
		}
		for _, p := range l.Pros {
			report.LabelCounts[p]++
		}
		for _, c := range l.Cons {
			report.LabelCounts[c]++
		}
	}

	if report.PricedListings > 0 {
		report.AveragePrice = Round2(float64(total) / float64(report.PricedListings))
	}

	return report
}

func (s *InsightService) Print(w io.Writer, r *models.RunSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  LISTINGS RUN SUMMARY\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Listings           : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  With coordinates   : \033[1m%d\033[0m (%d geocoded)\n", r.WithCoordinates, r.Geocoded)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Fprintf(w, "  Priced listings : %d\n", r.PricedListings)
		fmt.Fprintf(w, "  Average price   : \033[1;32m$%.0f\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price   : \033[1;32m$%d\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price   : \033[1;32m$%d\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	if n := r.NearestStation; n != nil {
		fmt.Fprintf(w, "\033[1;33m  Closest To Station\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(ListingTitle(n.NormalizedListing), 50))
		fmt.Fprintf(w, "  %.2f km (~%d min walk)\n", *n.DistStationKm, KmToWalkMinutes(*n.DistStationKm))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;33m  Labels\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.LabelCounts) == 0 {
		fmt.Fprintf(w, "  No labels\n")
	} else {
		type labelCount struct {
			label string
			count int
		}
		var labels []labelCount
		for label, cnt := range r.LabelCounts {
			labels = append(labels, labelCount{label, cnt})
		}
		sort.Slice(labels, func(i, j int) bool {
			if labels[i].count != labels[j].count {
				return labels[i].count > labels[j].count
			}
			return labels[i].label < labels[j].label
		})
		for _, lc := range labels {
			bar := strings.Repeat("█", lc.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(lc.label, 28), bar, lc.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// ListingTitle is the display name of a listing: its address, else its URL,
// else "Property".
func ListingTitle(l models.NormalizedListing) string {
	if l.Address != nil && *l.Address != "" {
		return *l.Address
	}
	if l.URL != nil && *l.URL != "" {
		return *l.URL
	}
	return "Property"
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
