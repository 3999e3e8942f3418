package rides

import "context"

// Catalog lists rides anyone may discover: ACTIVE and OPEN, newest first.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

func (c *Catalog) ListPublicRides(ctx context.Context) ([]PublicRide, error) {
	list, err := c.store.ListActiveOpenRides(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PublicRide, 0, len(list))
	for _, r := range list {
		out = append(out, toPublicRide(r))
	}
	return out, nil
}
