package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Paginate recorta items a la página pedida y devuelve los metadatos.
func Paginate[T any](items []T, page PageRequest) ([]T, PageResponse) {
	page.DefaultPage()
	meta := PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)}
	if page.Offset >= len(items) {
		return []T{}, meta
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end], meta
}

// ErrorResponse cuerpo de error HTTP. EntityID y Field identifican el origen cuando se conoce.
type ErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	EntityID string `json:"entity_id,omitempty"`
	Field    string `json:"field,omitempty"`
}
