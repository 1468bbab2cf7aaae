package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Filter string

const (
	FilterAll    Filter = "all"
	FilterZombie Filter = "zombie"
	FilterActive Filter = "active"
)

type SortOrder string

const (
	SortCostDesc SortOrder = "cost-desc"
	SortCostAsc  SortOrder = "cost-asc"
	SortNameAsc  SortOrder = "name-asc"
)

type ViewOptions struct {
	Filter Filter
	Sort   SortOrder
}

func DefaultViewOptions() ViewOptions {
	return ViewOptions{Filter: FilterAll, Sort: SortCostDesc}
}

// ParseFilter fails closed: unknown values are a ValidationError rather than
// silently widening the view.
func ParseFilter(raw string) (Filter, error) {
	filter := Filter(strings.ToLower(strings.TrimSpace(raw)))
	switch filter {
	case "":
		return FilterAll, nil
	case FilterAll, FilterZombie, FilterActive:
		return filter, nil
	default:
		return "", NewValidationError("filter", fmt.Sprintf("unsupported value %q (want all|zombie|active)", raw))
	}
}

func ParseSortOrder(raw string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(raw)))
	switch order {
	case "":
		return SortCostDesc, nil
	case SortCostDesc, SortCostAsc, SortNameAsc:
		return order, nil
	default:
		return "", NewValidationError("sort", fmt.Sprintf("unsupported value %q (want cost-desc|cost-asc|name-asc)", raw))
	}
}

func (f Filter) Keep(sub Subscription) bool {
	switch f {
	case FilterZombie:
		return sub.Status.Wasteful()
	case FilterActive:
		return sub.Status == StatusActive
	default:
		return true
	}
}

// FilterSubscriptions returns the matching subscriptions in their original
// order. The input slice is not modified.
func FilterSubscriptions(subscriptions []Subscription, filter Filter) []Subscription {
	out := make([]Subscription, 0, len(subscriptions))
	for _, sub := range subscriptions {
		if filter.Keep(sub) {
			out = append(out, sub)
		}
	}
	return out
}

// SortSubscriptions returns a stably sorted copy.
func SortSubscriptions(subscriptions []Subscription, order SortOrder) []Subscription {
	out := slices.Clone(subscriptions)
	if out == nil {
		out = []Subscription{}
	}

	switch order {
	case SortCostDesc:
		slices.SortStableFunc(out, func(a, b Subscription) int { return b.Amount.Cmp(a.Amount) })
	case SortCostAsc:
		slices.SortStableFunc(out, func(a, b Subscription) int { return a.Amount.Cmp(b.Amount) })
	case SortNameAsc:
		slices.SortStableFunc(out, func(a, b Subscription) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}

	return out
}

func ApplyView(subscriptions []Subscription, opts ViewOptions) []Subscription {
	return SortSubscriptions(FilterSubscriptions(subscriptions, opts.Filter), opts.Sort)
}
