package event

// FilterFunc decides whether an event is delivered to a subscription.
type FilterFunc func(ev any) bool

// FilterBySource delivers events published by source.
func FilterBySource(source string) FilterFunc {
	return func(ev any) bool {
		mp, ok := ev.(MetadataProvider)
		return ok && mp.EventMetadata().Source == source
	}
}

// FilterPayload delivers events whose payload is a T satisfying predicate.
func FilterPayload[T any](predicate func(payload T) bool) FilterFunc {
	return func(ev any) bool {
		e, ok := ev.(Event[T])
		return ok && predicate(e.Payload)
	}
}

// FilterAnd requires every filter to pass.
func FilterAnd(filters ...FilterFunc) FilterFunc {
	return func(ev any) bool {
		for _, f := range filters {
			if !f(ev) {
				return false
			}
		}
		return true
	}
}

// FilterNot inverts filter.
func FilterNot(filter FilterFunc) FilterFunc {
	return func(ev any) bool { return !filter(ev) }
}
