package patient

import "context"

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	// List returns patients newest first. An empty name matches everyone.
	List(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error)
}
