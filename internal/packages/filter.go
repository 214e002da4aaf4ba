package packages

import "errors"

// View names one of the dashboard's package lists.
type View string

const (
	ViewAll       View = "all"
	ViewDelivered View = "delivered"
	ViewCurrent   View = "current"
	ViewFuture    View = "future"
)

// ErrUnknownFilter is returned for a view name outside the four supported ones.
var ErrUnknownFilter = errors.New("unknown package filter")

// ParseView maps a query value onto a View. The empty string selects ViewAll.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewAll:
		return ViewAll, nil
	case ViewDelivered, ViewCurrent, ViewFuture:
		return View(s), nil
	default:
		return "", ErrUnknownFilter
	}
}

// Filter derives a view from the full list without touching the store. Relative order is preserved
// and the input is never modified.
func Filter(list []Package, view View) []Package {
	if view == ViewAll || view == "" {
		return list
	}
	out := make([]Package, 0, len(list))
	for _, p := range list {
		if matches(p, view) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Package, view View) bool {
	switch view {
	case ViewDelivered:
		return p.Status == StatusDelivered
	case ViewCurrent:
		return p.Status == StatusAssigned || p.Status == StatusInDelivery
	case ViewFuture:
		return p.Status == StatusPending && p.ScheduledDeliveryDate != nil
	default:
		return false
	}
}

// Summary counts packages by status for the status tab and the staff screen.
type Summary struct {
	Total      int `json:"total"`
	Delivered  int `json:"delivered"`
	Pending    int `json:"pending"`
	InDelivery int `json:"in_delivery"`
}

// Summarize counts list by status.
func Summarize(list []Package) Summary {
	s := Summary{Total: len(list)}
	for _, p := range list {
		switch p.Status {
		case StatusDelivered:
			s.Delivered++
		case StatusPending:
			s.Pending++
		case StatusInDelivery:
			s.InDelivery++
		}
	}
	return s
}
