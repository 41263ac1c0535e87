package domain

import "context"

// Info pages with editable sections.
const (
	PageHowToOrder = "how-to-order"
	PageHowToPay   = "how-to-pay"
)

var ErrPageNotFound = &Error{Code: ENOTFOUND, Message: "Page not found"}

// InfoSection is one titled block of an info page.
type InfoSection struct {
	Title string
	Body  string
}

// PageService reads the sections of the informational pages.
type PageService interface {
	// ListSections returns the sections of page in display order. Unknown
	// pages are ENOTFOUND; a known page may have no sections.
	ListSections(ctx context.Context, page string) ([]InfoSection, error)
}

// IsInfoPage reports whether page is one of the known info pages.
func IsInfoPage(page string) bool {
	return page == PageHowToOrder || page == PageHowToPay
}
