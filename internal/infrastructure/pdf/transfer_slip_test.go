package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-distribucion/internal/application/report"
	"github.com/jhoicas/inventario-distribucion/internal/domain/entity"
	"github.com/jhoicas/inventario-distribucion/internal/infrastructure/pdf"
)

func TestRenderTransferSlip_GeneraPDF(t *testing.T) {
	committed := time.Date(2026, 5, 2, 14, 30, 0, 0, time.UTC)
	data := report.SlipData{
		Transfer: &entity.Transfer{
			ID: "3f8a1c2e-0000-4000-8000-000000000001", ProductID: "p1",
			FromWarehouse: "w1", ToWarehouse: "w2", Quantity: 2,
			SelectionMode: entity.SelectionManual, Status: entity.TransferCommitted,
			SelectedItems: []string{"i1", "i2"}, CreatedAt: committed, CommittedAt: &committed,
		},
		Product:      &entity.Product{ID: "p1", Name: "ONT GPON", SKU: "ont-gpon", Unit: "und"},
		From:         &entity.Warehouse{ID: "w1", Name: "Central", Address: "Cra 7 # 12-30"},
		To:           &entity.Warehouse{ID: "w2", Name: "Norte"},
		CategoryPath: []string{"Redes", "Fibra"},
		Items:        []entity.StockItem{{ID: "i1", SerialNo: "S1"}, {ID: "i2", SerialNo: "S2"}},
		IssuedBy:     "u1",
	}

	out, err := pdf.NewMarotoSlipRenderer("Distribuciones Demo").RenderTransferSlip(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestRenderTransferSlip_SinProducto(t *testing.T) {
	_, err := pdf.NewMarotoSlipRenderer("X").RenderTransferSlip(context.Background(), report.SlipData{Transfer: &entity.Transfer{}})
	assert.Error(t, err)
}
