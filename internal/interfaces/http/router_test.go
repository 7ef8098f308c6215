package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/inventory"
	"github.com/jhoicas/inventario-distribucion/internal/application/report"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/internal/domain/transfer"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/excel"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
	apphttp "github.com/jhoicas/inventario-distribucion/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-distribucion/pkg/jwt"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

type server struct {
	t   *testing.T
	app *fiber.App
}

func newServer(t *testing.T) *server {
	store := memory.NewStore()
	repos := records.NewSet(store)
	tx := memory.NewTxRunner(store, records.NewSet)
	log := logger.Nop()

	products := usecase.NewProductUseCase(repos.Products, repos.Categories, tx, log)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:   usecase.NewCategoryUseCase(repos.Categories, tx, log),
		ProductUC:    products,
		VendorUC:     usecase.NewVendorUseCase(repos.Vendors, repos.Products, repos.Categories, tx, log),
		WarehouseUC:  usecase.NewWarehouseUseCase(repos.Warehouses, tx, log),
		StockEntryUC: inventory.NewStockEntryUseCase(repos, tx, memory.NewDraftStore(0), log),
		TransferUC:   inventory.NewTransferUseCase(repos, tx, transfer.NewRandomPicker(1), log),
		ReportUC:     report.NewUseCase(repos, pdf.NewMarotoSlipRenderer("Distribuciones Test"), excel.InventoryExporter{}, log),
		JWTSecret:    testJWTSecret,
	})
	return &server{t: t, app: app}
}

// do envía la petición con un token del rol indicado y devuelve status y cuerpo.
func (s *server) do(method, path, role string, body any) (int, []byte) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", bearer(s.t, testUserID, role))
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp.StatusCode, out
}

func (s *server) create(path string, body any, out any) {
	s.t.Helper()
	status, raw := s.do(http.MethodPost, path, pkgjwt.RoleAdmin, body)
	require.Equal(s.t, http.StatusCreated, status, string(raw))
	require.NoError(s.t, json.Unmarshal(raw, out))
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e))
	return e.Code
}

type seeded struct {
	leaf, bulk, vendor, from, to string
}

func (s *server) seed() seeded {
	var cat dto.CreateCategoryResponse
	s.create("/api/categories", dto.CreateCategoryRequest{Name: "Conectores"}, &cat)
	var bulk dto.ProductResponse
	s.create("/api/products", dto.CreateProductRequest{Name: "Conector SC", Unit: "und", ProductGroupID: cat.Category.ID}, &bulk)
	var v dto.VendorResponse
	s.create("/api/vendors", dto.CreateVendorRequest{Name: "Acme", SelectedProductIDs: []string{bulk.ID}}, &v)
	var from, to dto.WarehouseResponse
	s.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Central"}, &from)
	s.create("/api/warehouses", dto.CreateWarehouseRequest{Name: "Norte"}, &to)
	return seeded{leaf: cat.Category.ID, bulk: bulk.ID, vendor: v.ID, from: from.ID, to: to.ID}
}

func TestRouter_FlujoDeTraslado(t *testing.T) {
	s := newServer(t)
	d := s.seed()

	status, raw := s.do(http.MethodPost, "/api/stock-entries", pkgjwt.RoleBodeguero, map[string]any{
		"vendor_id": d.vendor, "product_id": d.bulk, "warehouse_id": d.from, "quantity": 10, "unit_cost": 100,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = s.do(http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero, dto.CreateTransferRequest{
		ProductID: d.bulk, FromWarehouse: d.from, ToWarehouse: d.to, Quantity: 4,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var tr dto.TransferResponse
	require.NoError(t, json.Unmarshal(raw, &tr))

	status, raw = s.do(http.MethodPost, "/api/transfers/"+tr.ID+"/validate", pkgjwt.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = s.do(http.MethodPost, "/api/transfers/"+tr.ID+"/commit", pkgjwt.RoleBodeguero, nil)
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = s.do(http.MethodPost, "/api/transfers/"+tr.ID+"/commit", pkgjwt.RoleBodeguero, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_COMMITTED", errorCode(t, raw))

	status, raw = s.do(http.MethodGet, "/api/stock/availability?product_id="+d.bulk+"&warehouse_id="+d.to, pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, status)
	var av dto.AvailabilityResponse
	require.NoError(t, json.Unmarshal(raw, &av))
	assert.Equal(t, 4, av.Available)

	req := httptest.NewRequest(http.MethodGet, "/api/transfers/"+tr.ID+"/slip", nil)
	req.Header.Set("Authorization", bearer(t, testUserID, pkgjwt.RoleVendedor))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
}

func TestRouter_TrasladoInsuficienteQuedaRechazado(t *testing.T) {
	s := newServer(t)
	d := s.seed()

	_, raw := s.do(http.MethodPost, "/api/transfers", pkgjwt.RoleBodeguero, dto.CreateTransferRequest{
		ProductID: d.bulk, FromWarehouse: d.from, ToWarehouse: d.to, Quantity: 1,
	})
	var tr dto.TransferResponse
	require.NoError(t, json.Unmarshal(raw, &tr))

	status, raw := s.do(http.MethodPost, "/api/transfers/"+tr.ID+"/validate", pkgjwt.RoleBodeguero, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	status, raw = s.do(http.MethodGet, "/api/transfers/"+tr.ID, pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &tr))
	assert.Equal(t, "rejected", tr.Status)
}

func TestRouter_MapeoDeErrores(t *testing.T) {
	s := newServer(t)
	d := s.seed()

	// La categoría deja de ser hoja al recibir un hijo.
	var child dto.CreateCategoryResponse
	s.create("/api/categories", dto.CreateCategoryRequest{Name: "SC", ParentID: d.leaf}, &child)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		body   any
		status int
		code   string
	}{
		{"grupo no hoja", http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
			dto.CreateProductRequest{Name: "X", Unit: "und", ProductGroupID: d.leaf}, http.StatusBadRequest, "INVALID_CATEGORY"},
		{"sku repetido", http.MethodPost, "/api/products", pkgjwt.RoleAdmin,
			dto.CreateProductRequest{Name: "Conector SC", Unit: "und", ProductGroupID: child.Category.ID}, http.StatusConflict, "DUPLICATE"},
		{"cuerpo sin nombre", http.MethodPost, "/api/warehouses", pkgjwt.RoleAdmin,
			dto.CreateWarehouseRequest{}, http.StatusBadRequest, "VALIDATION"},
		{"categoría con hijos", http.MethodDelete, "/api/categories/" + d.leaf, pkgjwt.RoleAdmin,
			nil, http.StatusConflict, "NON_EMPTY_CATEGORY"},
		{"producto inexistente", http.MethodGet, "/api/products/no-existe", pkgjwt.RoleVendedor,
			nil, http.StatusNotFound, "NOT_FOUND"},
		{"vendedor no escribe catálogo", http.MethodPost, "/api/warehouses", pkgjwt.RoleVendedor,
			dto.CreateWarehouseRequest{Name: "Sur"}, http.StatusForbidden, "FORBIDDEN"},
		{"vendedor no abre borradores", http.MethodPost, "/api/stock-drafts", pkgjwt.RoleVendedor,
			nil, http.StatusForbidden, "FORBIDDEN"},
		{"granel sin cantidad", http.MethodPost, "/api/stock-entries", pkgjwt.RoleBodeguero,
			dto.CreateStockEntryRequest{VendorID: d.vendor, ProductID: d.bulk, WarehouseID: d.from}, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := s.do(tc.method, tc.path, tc.role, tc.body)
			assert.Equal(t, tc.status, status, string(raw))
			assert.Equal(t, tc.code, errorCode(t, raw))
		})
	}
}

func TestRouter_ArbolAntesQueID(t *testing.T) {
	s := newServer(t)
	s.seed()

	status, raw := s.do(http.MethodGet, "/api/categories/tree", pkgjwt.RoleVendedor, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var tree []dto.CategoryNode
	require.NoError(t, json.Unmarshal(raw, &tree))
	require.Len(t, tree, 1)
	assert.Equal(t, "Conectores", tree[0].Name)
}

func TestRouter_VerificaArbol(t *testing.T) {
	s := newServer(t)
	s.seed()

	status, raw := s.do(http.MethodGet, "/api/categories/verify", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	status, _ = s.do(http.MethodGet, "/api/categories/verify", pkgjwt.RoleVendedor, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_ExportaXLSX(t *testing.T) {
	s := newServer(t)
	s.seed()

	req := httptest.NewRequest(http.MethodGet, "/api/reports/inventory/export", nil)
	req.Header.Set("Authorization", bearer(t, testUserID, pkgjwt.RoleVendedor))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "inventario-general-")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
}
