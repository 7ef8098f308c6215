// seed carga categorías y productos desde la exportación CSV del catálogo anterior.
//
// Uso: go run ./cmd/seed [-dry-run] [ruta/catalogo.csv]
// Por defecto busca catalogo.csv en el directorio actual.
//
// El archivo viene en Windows-1252, separado por punto y coma, con encabezado:
//
//	ruta;nombre;unidad;sku;unico;serial;mac;garantia
//
// ruta es la cadena de categorías desde la raíz separada por " > ". Las columnas
// unico/serial/mac/garantia aceptan si/no, 1/0 o x.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventario-distribucion/internal/application/dto"
	"github.com/jhoicas/inventario-distribucion/internal/application/usecase"
	"github.com/jhoicas/inventario-distribucion/internal/domain"
	"github.com/jhoicas/inventario-distribucion/internal/domain/repository"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/records"
	"github.com/jhoicas/inventario-distribucion/pkg/config"
	"github.com/jhoicas/inventario-distribucion/pkg/logger"
)

const pathSep = " > "

type catalogRow struct {
	Line    int
	Path    []string
	Product dto.CreateProductRequest
}

func main() {
	dryRun := flag.Bool("dry-run", false, "cargar en memoria sin tocar la base")
	flag.Parse()
	csvPath := "catalogo.csv"
	if flag.NArg() > 0 {
		csvPath = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	ctx := context.Background()
	var (
		repos repository.Set
		tx    repository.TxRunner
	)
	if *dryRun {
		store := memory.NewStore()
		repos = records.NewSet(store)
		tx = memory.NewTxRunner(store, records.NewSet)
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Str("db", postgres.RedactedURL(cfg.DB)).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		repos = records.NewSet(postgres.NewRecordStore(pool, cfg.Store.Timeout))
		tx = postgres.NewTxRunner(pool, cfg.Store.Timeout, records.NewSet)
	}

	s := &seeder{
		categories: usecase.NewCategoryUseCase(repos.Categories, tx, log),
		products:   usecase.NewProductUseCase(repos.Products, repos.Categories, tx, log),
		log:        log,
	}
	res, err := s.load(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	log.Info().
		Int("filas", len(rows)).
		Int("categorias", res.Categories).
		Int("productos", res.Products).
		Int("omitidos", res.Skipped).
		Bool("dry_run", *dryRun).
		Msg("catálogo cargado")
}

// parseCatalog decodifica Windows-1252 y valida el encabezado.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.Windows1252.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("encabezado: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"ruta", "nombre"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("encabezado: falta la columna %q", req)
		}
	}
	get := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []catalogRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		path := splitPath(get(rec, "ruta"))
		name := get(rec, "nombre")
		if len(path) == 0 || name == "" {
			return nil, fmt.Errorf("línea %d: ruta y nombre son obligatorios", line)
		}
		unit := get(rec, "unidad")
		if unit == "" {
			unit = "und"
		}
		out = append(out, catalogRow{
			Line: line,
			Path: path,
			Product: dto.CreateProductRequest{
				Name:                name,
				Unit:                unit,
				SKU:                 get(rec, "sku"),
				HasUniqueIdentifier: flagValue(get(rec, "unico")),
				HasSerialNo:         flagValue(get(rec, "serial")),
				HasMacAddress:       flagValue(get(rec, "mac")),
				HasWarranty:         flagValue(get(rec, "garantia")),
			},
		})
	}
	return out, nil
}

func splitPath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, strings.TrimSpace(pathSep)) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func flagValue(s string) bool {
	switch strings.ToLower(s) {
	case "si", "sí", "s", "1", "x", "true":
		return true
	}
	return false
}

type seeder struct {
	categories *usecase.CategoryUseCase
	products   *usecase.ProductUseCase
	log        *logger.Logger
}

type loadResult struct {
	Categories int
	Products   int
	Skipped    int
}

// load crea las rutas de categorías que falten y luego los productos en su hoja.
// Los productos con SKU repetido o cuya hoja dejó de serlo se omiten con advertencia.
func (s *seeder) load(ctx context.Context, rows []catalogRow) (loadResult, error) {
	var res loadResult
	tree, err := s.categories.Tree(ctx)
	if err != nil {
		return res, err
	}
	ids := make(map[string]string)
	var walk func(prefix []string, nodes []*dto.CategoryNode)
	walk = func(prefix []string, nodes []*dto.CategoryNode) {
		for _, n := range nodes {
			path := append(append([]string(nil), prefix...), n.Name)
			ids[strings.Join(path, pathSep)] = n.ID
			walk(path, n.Children)
		}
	}
	walk(nil, tree)

	// Primero todas las rutas, para que ninguna hoja cambie después de recibir productos.
	for _, r := range rows {
		parent := ""
		for i := range r.Path {
			key := strings.Join(r.Path[:i+1], pathSep)
			if id, ok := ids[key]; ok {
				parent = id
				continue
			}
			out, err := s.categories.Create(ctx, dto.CreateCategoryRequest{Name: r.Path[i], ParentID: parent})
			if err != nil {
				return res, fmt.Errorf("línea %d: categoría %q: %w", r.Line, key, err)
			}
			ids[key] = out.Category.ID
			parent = out.Category.ID
			res.Categories++
		}
	}

	for _, r := range rows {
		in := r.Product
		in.ProductGroupID = ids[strings.Join(r.Path, pathSep)]
		if _, err := s.products.Create(ctx, in); err != nil {
			if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrInvalidCategory) {
				s.log.Warn().Err(err).Int("line", r.Line).Str("product", in.Name).Msg("producto omitido")
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("línea %d: producto %q: %w", r.Line, in.Name, err)
		}
		res.Products++
	}
	return res, nil
}
