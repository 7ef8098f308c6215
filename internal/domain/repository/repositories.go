package repository

import (
	"context"

	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
)

// Repository define el puerto de persistencia tipado para una colección (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el registro no existe.
type Repository[T any] interface {
	Create(ctx context.Context, v *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	GetForUpdate(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, v *T) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*T, error)
}

type (
	CategoryRepository   = Repository[entity.Category]
	ProductRepository    = Repository[entity.Product]
	VendorRepository     = Repository[entity.Vendor]
	WarehouseRepository  = Repository[entity.Warehouse]
	StockEntryRepository = Repository[entity.StockEntry]
	TransferRepository   = Repository[entity.Transfer]
)

// Set agrupa los repositorios atados a un mismo almacén (o transacción).
type Set struct {
	Categories   CategoryRepository
	Products     ProductRepository
	Vendors      VendorRepository
	Warehouses   WarehouseRepository
	StockEntries StockEntryRepository
	Transfers    TransferRepository
}

// TxRunner ejecuta fn con repositorios atados a una unidad de trabajo atómica.
// Si fn devuelve error no se persiste ningún cambio.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Set) error) error
}
