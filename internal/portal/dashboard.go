package portal

import (
	"context"

	"github.com/aid-portal/beneficiary_portal/internal/activity"
	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
	"github.com/aid-portal/beneficiary_portal/internal/dataupdate"
	"github.com/aid-portal/beneficiary_portal/internal/features"
	"github.com/aid-portal/beneficiary_portal/internal/notification"
	"github.com/aid-portal/beneficiary_portal/internal/packages"
)

// StatusView backs the status tab.
type StatusView struct {
	Beneficiary beneficiary.Beneficiary `json:"beneficiary"`
	Summary     packages.Summary        `json:"summary"`
	Flags       features.Flags          `json:"flags"`
}

// PackagesView backs the packages tab.
type PackagesView struct {
	Filter   packages.View      `json:"filter"`
	Packages []packages.Package `json:"packages"`
	Summary  packages.Summary   `json:"summary"`
}

// ProfileView backs the profile tab.
type ProfileView struct {
	Fields   []dataupdate.Field   `json:"fields"`
	Requests []dataupdate.Request `json:"requests"`
}

// SupportView is the pre-filled support contact.
type SupportView struct {
	Phone string `json:"phone"`
	Link  string `json:"link"`
}

func (c *Controller) dashboard(ctx context.Context, id, view string) (Dashboard, Session, error) {
	s, err := c.sessions.Load(ctx, id)
	if err != nil {
		return Dashboard{}, Session{}, err
	}
	st, ok := s.State.(Dashboard)
	if !ok {
		return Dashboard{}, s, invalidTransition(view, s.Step())
	}
	return st, s, nil
}

// Status summarises the cached package list.
func (c *Controller) Status(ctx context.Context, id string) (StatusView, error) {
	st, s, err := c.dashboard(ctx, id, "status tab")
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{
		Beneficiary: st.Beneficiary,
		Summary:     packages.Summarize(st.Packages),
		Flags:       s.Flags,
	}, nil
}

// Packages filters the cached package list without touching the store.
func (c *Controller) Packages(ctx context.Context, id, filter string) (PackagesView, error) {
	view, err := packages.ParseView(filter)
	if err != nil {
		return PackagesView{}, &FlowError{Kind: KindValidation, Message: msgUnexpected, Err: err}
	}
	st, _, err := c.dashboard(ctx, id, "packages tab")
	if err != nil {
		return PackagesView{}, err
	}
	return PackagesView{
		Filter:   view,
		Packages: packages.Filter(st.Packages, view),
		Summary:  packages.Summarize(st.Packages),
	}, nil
}

// Profile lists the editable fields and the beneficiary's update requests.
func (c *Controller) Profile(ctx context.Context, id string) (ProfileView, error) {
	st, _, err := c.dashboard(ctx, id, "profile tab")
	if err != nil {
		return ProfileView{}, err
	}
	requests, err := c.updates.List(ctx, st.Beneficiary.ID)
	if err != nil {
		return ProfileView{}, &FlowError{Kind: KindRemote, Message: msgUnexpected, Err: err}
	}
	return ProfileView{Fields: dataupdate.Fields(st.Beneficiary), Requests: requests}, nil
}

// Activity lists the beneficiary's recent activity entries.
func (c *Controller) Activity(ctx context.Context, id string) ([]activity.Entry, error) {
	st, _, err := c.dashboard(ctx, id, "activity tab")
	if err != nil {
		return nil, err
	}
	entries, err := c.activity.List(ctx, st.Beneficiary.ID)
	if err != nil {
		return nil, &FlowError{Kind: KindRemote, Message: msgUnexpected, Err: err}
	}
	return entries, nil
}

// Support builds the support contact from the session's flags. It is available at every step.
func (c *Controller) Support(ctx context.Context, id string) (SupportView, error) {
	s, err := c.sessions.Load(ctx, id)
	if err != nil {
		return SupportView{}, err
	}
	phone := s.Flags.SupportPhone
	if phone == "" {
		phone = features.DefaultSupportPhone
	}
	return SupportView{Phone: phone, Link: notification.SupportLink(phone, SupportMessage)}, nil
}
