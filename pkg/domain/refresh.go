package domain

// RefreshTarget is one feed to fetch in a refresh cycle, with the keys of the items already stored
type RefreshTarget struct {
	FeedID string
	URL    string
	Name   string
	Known  map[ItemKey]struct{}
}

// RefreshPlan is the snapshot a refresh cycle works from. SeqNo is the store sequence number
// at snapshot time, the commit is discarded if it changed in between.
type RefreshPlan struct {
	Targets []RefreshTarget
	SeqNo   uint64
}

// FeedUpdate collects fetched headers and items not seen before for one feed
type FeedUpdate struct {
	Headers []FeedHeader
	Items   []FeedItem
}

// RefreshResult is the outcome of executing a plan. Feeds that failed to fetch or parse are absent.
type RefreshResult struct {
	Updates map[string]FeedUpdate
	SeqNo   uint64
}
