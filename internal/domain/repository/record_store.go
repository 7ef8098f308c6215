package repository

import "context"

// Colecciones del almacén de registros (una por entidad).
const (
	CollectionCategories   = "categories"
	CollectionProducts     = "products"
	CollectionVendors      = "vendors"
	CollectionWarehouses   = "warehouses"
	CollectionStockEntries = "stockEntries"
	CollectionTransfers    = "transfers"
)

// RecordStore es el puerto genérico CRUD por colección (almacén de documentos).
// Los documentos se serializan como JSON; List recorre en orden de inserción.
// Create devuelve domain.ErrDuplicate si el id existe; Get/Update/Delete devuelven domain.ErrNotFound.
type RecordStore interface {
	Create(ctx context.Context, collection, id string, doc any) error
	Get(ctx context.Context, collection, id string, out any) error
	// GetForUpdate igual que Get pero bloquea el registro hasta el fin de la transacción (si aplica).
	GetForUpdate(ctx context.Context, collection, id string, out any) error
	Update(ctx context.Context, collection, id string, doc any) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, fn func(raw []byte) error) error
}
