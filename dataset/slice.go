package dataset

import "context"

// SliceCollection is an in-memory Collection backed by a plain slice.
type SliceCollection []Example

// Len implements Collection.
func (s SliceCollection) Len() int { return len(s) }

// At implements Collection.
func (s SliceCollection) At(i int) (Example, error) {
	if i < 0 || i >= len(s) {
		return Example{}, &OutOfRangeError{Index: i, Len: len(s)}
	}
	return s[i], nil
}

// SliceProvider serves fixed in-memory splits. Useful for tests, demos, and
// synthetic datasets; it ignores root and download since nothing is fetched.
type SliceProvider struct {
	Name   string
	Splits map[string]SliceCollection
}

// Load implements Provider.
func (p *SliceProvider) Load(ctx context.Context, root, split string, download bool) (Collection, error) {
	c, ok := p.Splits[split]
	if !ok {
		return nil, &ProviderError{Dataset: p.Name, Split: split, Err: &NotFoundError{Kind: "split", Name: split}}
	}
	return c, nil
}

var _ Provider = (*SliceProvider)(nil)
