package services

import "github.com/MatthewIrwin123/Parramatta-property-listings/models"

const (
	ProHasParking   = "has 1+ car space"
	ConNoParking    = "no dedicated parking listed"
	ProTwoByTwo     = "2 beds + 2 baths"
	ConOneBathOnly  = "only 1 bath for 2 beds"
	ProGoodValue    = "good value under budget"
	ConTopOfBudget  = "close to top of budget"
	goodValueMargin = 50000
	topBudgetMargin = 10000
)

// Annotate derives pros and cons from a listing and the search budget.
// Rules are independent; their order fixes the display order.
func Annotate(l models.NormalizedListing, c models.SearchCriteria) (pros, cons []string) {
	pros = []string{}
	cons = []string{}

	// Unknown and zero car spaces are treated alike.
	if l.Cars != nil && *l.Cars >= 1 {
		pros = append(pros, ProHasParking)
	} else {
		cons = append(cons, ConNoParking)
	}

	if l.Beds != nil && *l.Beds == 2 {
		switch {
		case l.Baths != nil && *l.Baths >= 2:
			pros = append(pros, ProTwoByTwo)
		default:
			cons = append(cons, ConOneBathOnly)
		}
	}

	// Prices strictly between the two thresholds get no label.
	if l.Price != nil {
		switch {
		case *l.Price <= c.MaxPrice-goodValueMargin:
			pros = append(pros, ProGoodValue)
		case *l.Price >= c.MaxPrice-topBudgetMargin:
			cons = append(cons, ConTopOfBudget)
		}
	}

	return pros, cons
}
