package services

import (
	"reflect"
	"testing"

	"github.com/MatthewIrwin123/Parramatta-property-listings/models"
)

var testCriteria = models.SearchCriteria{
	Suburb: "Parramatta", State: "NSW", MaxPrice: 500000,
	MinBeds: 1, MaxBeds: 2, MinCarSpaces: 1, Limit: 40,
}

func TestAnnotateAllPros(t *testing.T) {
	l := models.NormalizedListing{
		Price: intp(testCriteria.MaxPrice - 60000),
		Cars:  intp(1),
		Beds:  intp(2),
		Baths: intp(2),
	}

	pros, cons := Annotate(l, testCriteria)

	want := []string{ProHasParking, ProTwoByTwo, ProGoodValue}
	if !reflect.DeepEqual(pros, want) {
		t.Errorf("pros: got %v, want %v", pros, want)
	}
	if len(cons) != 0 {
		t.Errorf("cons: got %v, want none", cons)
	}
}

func TestAnnotateTopOfBudgetNoParking(t *testing.T) {
	l := models.NormalizedListing{
		Price: intp(testCriteria.MaxPrice - 5000),
		Cars:  intp(0),
	}

	pros, cons := Annotate(l, testCriteria)

	want := []string{ConNoParking, ConTopOfBudget}
	if !reflect.DeepEqual(cons, want) {
		t.Errorf("cons: got %v, want %v", cons, want)
	}
	if len(pros) != 0 {
		t.Errorf("pros: got %v, want none", pros)
	}
}

func TestAnnotateRules(t *testing.T) {
	tests := []struct {
		name     string
		listing  models.NormalizedListing
		wantPros []string
		wantCons []string
	}{
		{
			name:     "unknown everything",
			listing:  models.NormalizedListing{},
			wantPros: []string{},
			wantCons: []string{ConNoParking},
		},
		{
			name:     "two beds one bath",
			listing:  models.NormalizedListing{Beds: intp(2), Baths: intp(1), Cars: intp(2)},
			wantPros: []string{ProHasParking},
			wantCons: []string{ConOneBathOnly},
		},
		{
			name:     "two beds unknown baths",
			listing:  models.NormalizedListing{Beds: intp(2), Cars: intp(1)},
			wantPros: []string{ProHasParking},
			wantCons: []string{ConOneBathOnly},
		},
		{
			name:     "one bed gets no bed/bath label",
			listing:  models.NormalizedListing{Beds: intp(1), Baths: intp(1), Cars: intp(1)},
			wantPros: []string{ProHasParking},
			wantCons: []string{},
		},
		{
			name:     "good value boundary is inclusive",
			listing:  models.NormalizedListing{Price: intp(450000), Cars: intp(1)},
			wantPros: []string{ProHasParking, ProGoodValue},
			wantCons: []string{},
		},
		{
			name:     "top of budget boundary is inclusive",
			listing:  models.NormalizedListing{Price: intp(490000), Cars: intp(1)},
			wantPros: []string{ProHasParking},
			wantCons: []string{ConTopOfBudget},
		},
		{
			name:     "middle band has no price label",
			listing:  models.NormalizedListing{Price: intp(470000), Cars: intp(1)},
			wantPros: []string{ProHasParking},
			wantCons: []string{},
		},
		{
			name:     "over budget still close to top",
			listing:  models.NormalizedListing{Price: intp(650000), Cars: intp(1)},
			wantPros: []string{ProHasParking},
			wantCons: []string{ConTopOfBudget},
		},
	}

	for _, tt := range tests {
		pros, cons := Annotate(tt.listing, testCriteria)
		if !reflect.DeepEqual(pros, tt.wantPros) {
			t.Errorf("%s: pros = %v; want %v", tt.name, pros, tt.wantPros)
		}
		if !reflect.DeepEqual(cons, tt.wantCons) {
			t.Errorf("%s: cons = %v; want %v", tt.name, cons, tt.wantCons)
		}
	}
}
