package report

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/services"
)

// Document is the laid-out report: a title and one block per listing.
type Document struct {
	Title  string
	Blocks []Block
}

// Block is the text of one listing. Lines are printed in order under the heading.
type Block struct {
	Heading string
	Lines   []Line
}

// Line is one printed line; Href is set for the listing link.
type Line struct {
	Text string
	Href string
}

// Title builds the report title for a search.
func Title(c models.SearchCriteria) string {
	suburb := cases.Title(language.English).String(strings.TrimSpace(c.Suburb))
	return fmt.Sprintf("%s Property Listings (Under $%d)", suburb, c.MaxPrice)
}

// BuildDocument lays out listings in input order. Missing values fall back to
// placeholder text so no line is ever blank.
func BuildDocument(title string, listings []models.EnrichedListing, station, park models.Landmark) Document {
	doc := Document{Title: title, Blocks: make([]Block, 0, len(listings))}
	for _, l := range listings {
		doc.Blocks = append(doc.Blocks, buildBlock(l, station, park))
	}
	return doc
}

func buildBlock(l models.EnrichedListing, station, park models.Landmark) Block {
	b := Block{
		Heading: services.ListingTitle(l.NormalizedListing) + " — " + priceText(l.NormalizedListing),
	}

	b.Lines = append(b.Lines, Line{Text: fmt.Sprintf("%s bed | %s bath | %s car",
		countText(l.Beds), countText(l.Baths), countText(l.Cars))})

	if l.URL != nil && *l.URL != "" {
		b.Lines = append(b.Lines, Line{Text: "Link: " + *l.URL, Href: *l.URL})
	}
	if l.DistStationKm != nil {
		b.Lines = append(b.Lines, Line{Text: distanceText(*l.DistStationKm, station.Name)})
	}
	if l.DistParkKm != nil {
		b.Lines = append(b.Lines, Line{Text: distanceText(*l.DistParkKm, park.Name)})
	}
	if len(l.Pros) > 0 {
		b.Lines = append(b.Lines, Line{Text: "Pros: " + strings.Join(l.Pros, ", ")})
	}
	if len(l.Cons) > 0 {
		b.Lines = append(b.Lines, Line{Text: "Cons: " + strings.Join(l.Cons, ", ")})
	}
	return b
}

func priceText(l models.NormalizedListing) string {
	if l.PriceDisplay != "" {
		return l.PriceDisplay
	}
	if l.Price != nil {
		return "$" + strconv.Itoa(*l.Price)
	}
	return "Price unknown"
}

func countText(n *int) string {
	if n == nil {
		return "?"
	}
	return strconv.Itoa(*n)
}

func distanceText(km float64, to string) string {
	return fmt.Sprintf("Distance: %s km to %s (~%d min walk)",
		strconv.FormatFloat(km, 'f', -1, 64), to, services.KmToWalkMinutes(km))
}
