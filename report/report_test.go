package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
	"github.com/MatthewIrwin123/Parramatta-property-listings/services"
	"github.com/MatthewIrwin123/Parramatta-property-listings/utils"
)

var (
	station  = models.Landmark{Name: "station", Coordinates: models.Coordinates{Lat: -33.8178, Lon: 151.0035}}
	park     = models.Landmark{Name: "Parramatta Park", Coordinates: models.Coordinates{Lat: -33.8145, Lon: 151.0024}}
	criteria = models.SearchCriteria{Suburb: "parramatta", State: "NSW", MaxPrice: 500000, MinBeds: 1, MaxBeds: 2, MinCarSpaces: 1, Limit: 40}
)

func newTestLogger() *utils.Logger { return utils.NewLoggerTo(io.Discard, "error") }

// fakePrinter wraps the HTML in a minimal PDF header so the output can be inspected.
type fakePrinter struct {
	err error
}

func (p fakePrinter) PrintPDF(_ context.Context, html []byte) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return append([]byte("%PDF-1.4\n"), html...), nil
}

func loadFixture(t *testing.T) Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "two_listings.json"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	doc, err := services.DecodeDocument(f)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	keys := models.DefaultFieldKeys()
	raw, err := services.FindListings(doc, keys.Container)
	if err != nil {
		t.Fatalf("FindListings: %v", err)
	}

	logger := newTestLogger()
	normalized := services.NewNormalizer(keys, logger).NormalizeAll(raw)
	enriched := services.NewEnricher(nil, station, park, "Parramatta NSW", criteria, logger).
		EnrichAll(context.Background(), normalized)

	return BuildDocument(Title(criteria), enriched, station, park)
}

func TestBuildDocumentFromFixture(t *testing.T) {
	doc := loadFixture(t)

	if doc.Title != "Parramatta Property Listings (Under $500000)" {
		t.Errorf("Title: got %q", doc.Title)
	}
	if len(doc.Blocks) != 2 {
		t.Fatalf("Blocks: got %d, want 2", len(doc.Blocks))
	}

	first := doc.Blocks[0]
	if first.Heading != "12/34 Church St — $450,000" {
		t.Errorf("first heading: got %q", first.Heading)
	}
	wantFirst := []string{
		"2 bed | 2 bath | 1 car",
		"Link: https://example.com/listing/1",
		"Distance: 0.68 km to station (~8 min walk)",
		"Distance: 0.7 km to Parramatta Park (~8 min walk)",
		"Pros: has 1+ car space, 2 beds + 2 baths, good value under budget",
	}
	if got := lineTexts(first); !reflect.DeepEqual(got, wantFirst) {
		t.Errorf("first block lines:\n got %q\nwant %q", got, wantFirst)
	}

	second := doc.Blocks[1]
	if second.Heading != "https://example.com/listing/2 — Price unknown" {
		t.Errorf("second heading: got %q", second.Heading)
	}
	wantSecond := []string{
		"1 bed | ? bath | ? car",
		"Link: https://example.com/listing/2",
		"Cons: no dedicated parking listed",
	}
	if got := lineTexts(second); !reflect.DeepEqual(got, wantSecond) {
		t.Errorf("second block lines:\n got %q\nwant %q", got, wantSecond)
	}
}

func TestBuildDocumentFallbacks(t *testing.T) {
	doc := BuildDocument("t", []models.EnrichedListing{
		{},
		{NormalizedListing: models.NormalizedListing{Price: intp(399000)}},
	}, station, park)

	if doc.Blocks[0].Heading != "Property — Price unknown" {
		t.Errorf("bare heading: got %q", doc.Blocks[0].Heading)
	}
	if got := lineTexts(doc.Blocks[0]); len(got) != 1 || got[0] != "? bed | ? bath | ? car" {
		t.Errorf("bare lines: got %q", got)
	}
	if doc.Blocks[1].Heading != "Property — $399000" {
		t.Errorf("numeric price heading: got %q", doc.Blocks[1].Heading)
	}
}

func TestRenderHTMLKeepsOrderAndEscapes(t *testing.T) {
	doc := loadFixture(t)
	doc.Blocks = append(doc.Blocks, Block{
		Heading: `<script>alert(1)</script>`,
		Lines:   []Line{{Text: "Link: javascript:alert(1)", Href: "javascript:alert(1)"}},
	})

	html, err := RenderHTML(doc)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := string(html)

	if strings.Count(out, `<section class="listing">`) != 3 {
		t.Errorf("expected 3 listing sections:\n%s", out)
	}
	first := strings.Index(out, "12/34 Church St")
	second := strings.Index(out, "https://example.com/listing/2 — Price unknown")
	if first < 0 || second < 0 || first > second {
		t.Errorf("blocks out of order (first=%d, second=%d)", first, second)
	}
	if strings.Contains(out, "<script>") {
		t.Error("heading text must be escaped")
	}
	if strings.Contains(out, `href="javascript:`) {
		t.Error("unsafe link must be neutralised")
	}
	if !strings.Contains(out, "margin: 10mm 10mm 15mm 10mm") {
		t.Error("page bottom margin missing")
	}
}

func TestRendererWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "listings.pdf")
	r := NewRenderer(fakePrinter{}, newTestLogger())

	if err := r.Write(context.Background(), loadFixture(t), path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Errorf("output should start with a PDF header")
	}
	if !bytes.Contains(b, []byte("Price unknown")) {
		t.Errorf("output should contain the listing text")
	}
}

func TestRendererWriteErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.pdf")
	printErr := errors.New("no browser")

	r := NewRenderer(fakePrinter{err: printErr}, newTestLogger())
	if err := r.Write(context.Background(), Document{Title: "t"}, path); !errors.Is(err, printErr) {
		t.Errorf("got %v, want printer error", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written when printing fails")
	}

	r = NewRenderer(notPDFPrinter{}, newTestLogger())
	if err := r.Write(context.Background(), Document{Title: "t"}, path); err == nil {
		t.Error("expected an error for non-PDF printer output")
	}
}

type notPDFPrinter struct{}

func (notPDFPrinter) PrintPDF(_ context.Context, html []byte) ([]byte, error) { return html, nil }

func TestTitleCasesSuburb(t *testing.T) {
	got := Title(models.SearchCriteria{Suburb: " north parramatta ", MaxPrice: 750000})
	if got != "North Parramatta Property Listings (Under $750000)" {
		t.Errorf("got %q", got)
	}
}

func TestFindChromeBinaryHonoursEnv(t *testing.T) {
	t.Setenv("CHROME_BIN", "/opt/custom/chrome")
	if got := findChromeBinary(); got != "/opt/custom/chrome" {
		t.Errorf("got %q", got)
	}
}

func TestChromePrinter(t *testing.T) {
	if testing.Short() || findChromeBinary() == "" {
		t.Skip("no Chrome/Chromium available")
	}

	html, err := RenderHTML(loadFixture(t))
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	pdf, err := NewChromePrinter("", newTestLogger()).PrintPDF(context.Background(), html)
	if err != nil {
		t.Fatalf("PrintPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output is not a PDF")
	}
}

func lineTexts(b Block) []string {
	out := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		out = append(out, l.Text)
	}
	return out
}

func intp(n int) *int { return &n }
